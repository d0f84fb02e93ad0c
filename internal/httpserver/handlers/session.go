package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/showcase/internal/httpserver/deps"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/mw"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/respond"
	"github.com/MrSnakeDoc/showcase/internal/inbox"
)

// sessionInbox returns the inbox bound to the request's session. When the
// session state cannot be restored it answers 503 and reports false.
func sessionInbox(w http.ResponseWriter, d deps.Deps, r *http.Request) (*inbox.Inbox, bool) {
	box, err := d.Sessions.Get(r.Context(), mw.SessionID(r.Context()))
	if err != nil {
		w.Header().Set("Retry-After", "1")
		respond.Error(w, http.StatusServiceUnavailable, "session state unavailable, retry shortly")
		return nil, false
	}
	return box, true
}

// idParam parses the {id} path parameter
func idParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
