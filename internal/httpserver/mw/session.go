package mw

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/showcase/internal/logger"
)

// SessionCookie names the cookie carrying the session id
const SessionCookie = "showcase_session"

const sessionMaxAge = 30 * 24 * time.Hour

type (
	sessionKey       struct{}
	sessionHolderKey struct{}
)

// sessionHolder lets Log, which runs before Session, report the id
type sessionHolder struct{ sid string }

func withSessionHolder(ctx context.Context, h *sessionHolder) context.Context {
	return context.WithValue(ctx, sessionHolderKey{}, h)
}

// Session makes sure every request carries a session id. A missing or
// malformed cookie gets a fresh random id.
func Session(secure bool, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if c, err := r.Cookie(SessionCookie); err == nil {
				if id, err := uuid.Parse(c.Value); err == nil {
					sid = id.String()
				}
			}

			if sid == "" {
				sid = uuid.NewString()
				log.Debug("new session", logger.String("session", sid))
			}

			if h, ok := r.Context().Value(sessionHolderKey{}).(*sessionHolder); ok {
				h.sid = sid
			}

			// refreshed on every request so active sessions never expire
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(sessionMaxAge.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sid)))
		})
	}
}

// WithSessionID stores sid in ctx
func WithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sid)
}

// SessionID returns the session id set by Session, or "" outside of it
func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(sessionKey{}).(string)
	return sid
}
