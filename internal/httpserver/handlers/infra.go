package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/showcase/internal/httpserver/deps"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/respond"
)

type componentStatus struct {
	OK           bool   `json:"ok"`
	EmailsLoaded *int   `json:"emails_loaded,omitempty"`
	Sessions     *int   `json:"sessions,omitempty"`
	Persisted    *int   `json:"persisted_sessions,omitempty"`
	Snapshot     *int64 `json:"snapshot_emails,omitempty"`
	LastReload   string `json:"last_reload,omitempty"`
	Source       string `json:"source,omitempty"`
	Mode         string `json:"mode,omitempty"`
	Impact       string `json:"impact,omitempty"`
	Error        string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of every component the service depends on
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := d.MemoryIndex.Count()
		lastReload := d.MemoryIndex.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		sessions := 0
		if d.Sessions != nil {
			sessions = d.Sessions.Len()
		}

		components := map[string]componentStatus{
			"mailbox": {
				OK:           count > 0,
				EmailsLoaded: &count,
				LastReload:   lastReloadStr,
				Source:       d.MailboxFile,
			},
			"redis": checkRedis(r.Context(), d),
			"sessions": {
				OK:       true,
				Sessions: &sessions,
			},
		}
		if d.Snapshot != nil {
			components["snapshot"] = checkSnapshot(r.Context(), d.Snapshot)
		}

		respond.JSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if mailbox, ok := components["mailbox"]; ok && !mailbox.OK {
		return "critical" // nothing to list
	}

	// Redis down = state lives in memory only until it comes back
	if redis, ok := components["redis"]; ok && !redis.OK {
		return "degraded"
	}

	return "operational"
}

// checkSnapshot does not affect the mode, a missing snapshot only slows a cold start
func checkSnapshot(ctx context.Context, snap deps.SnapshotStats) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	n, err := snap.CountEmails(ctx)
	if err != nil {
		return componentStatus{OK: false, Error: err.Error()}
	}
	ids, err := snap.SessionIDs(ctx)
	if err != nil {
		return componentStatus{OK: false, Snapshot: &n, Error: err.Error()}
	}
	persisted := len(ids)
	return componentStatus{OK: true, Snapshot: &n, Persisted: &persisted}
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "memory-only",
			Impact: "session-state-not-persisted",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "memory-only",
			Impact: "session-state-not-persisted",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "persistent",
		Impact: "none",
	}
}
