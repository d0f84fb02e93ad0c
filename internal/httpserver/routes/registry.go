package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/showcase/internal/httpserver/deps"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
}

var (
	root []entry
	api  []entry
)

// Register a root-level registrar with optional per-route middlewares.
func Register(reg Registrar, mws ...Middleware) {
	root = append(root, entry{reg: reg, mws: mws})
}

// RegisterAPI adds a registrar mounted under /api, behind the session and
// rate limit middlewares.
func RegisterAPI(reg Registrar, mws ...Middleware) {
	api = append(api, entry{reg: reg, mws: mws})
}

// Called once from server.New()
func RegisterAll(r chi.Router, d deps.Deps, apiMws ...Middleware) {
	mount(r, d, root)
	r.Route("/api", func(sub chi.Router) {
		sub.Use(apiMws...)
		mount(sub, d, api)
	})
}

func mount(r chi.Router, d deps.Deps, entries []entry) {
	for _, e := range entries {
		if len(e.mws) == 0 {
			e.reg(r, d)
			continue
		}
		e.reg(r.With(e.mws...), d) // apply per-route middlewares
	}
}
