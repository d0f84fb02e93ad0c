package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/showcase/internal/httpserver/deps"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/respond"
)

type readyzResponse struct {
	Ready  bool `json:"ready"`
	Emails int  `json:"emails"`
}

// Readyz is ready once the catalog holds records, from the file or the Redis snapshot
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := d.MemoryIndex.Count()
		status := http.StatusOK
		if n == 0 {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(w, status, readyzResponse{Ready: n > 0, Emails: n})
	}
}
