package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/showcase/internal/httpserver/deps"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/respond"
)

type healthzResponse struct {
	Status         string  `json:"status"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	Emails         int     `json:"emails"`
	ActiveSessions int     `json:"active_sessions"`
	Version        string  `json:"version,omitempty"`
	Commit         string  `json:"commit,omitempty"`
	BuildDate      string  `json:"build_date,omitempty"`
	GoVersion      string  `json:"go_version,omitempty"`
}

// Healthz reports liveness, catalog size and build information.
// It never fails: an empty catalog is a readiness concern.
func Healthz(d deps.Deps) http.HandlerFunc {
	start := d.StartTime
	return func(w http.ResponseWriter, r *http.Request) {
		res := healthzResponse{
			Status:        "ok",
			UptimeSeconds: d.Now().Sub(start).Seconds(),
			Version:       d.Version,
			Commit:        d.Commit,
			BuildDate:     d.BuildDate,
			GoVersion:     d.GoVersion,
		}
		if d.MemoryIndex != nil {
			res.Emails = d.MemoryIndex.Count()
		}
		if d.Sessions != nil {
			res.ActiveSessions = d.Sessions.Len()
		}
		respond.JSON(w, http.StatusOK, res)
	}
}
