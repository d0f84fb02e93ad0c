package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/showcase/internal/httpserver/deps"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerEmails) }

func registerEmails(r chi.Router, d deps.Deps) {
	r.Get("/emails", handlers.ListEmails(d))
	r.Get("/emails/{id}", handlers.GetEmail(d))
	r.Post("/emails/{id}/favorite", handlers.ToggleFavorite(d))
}
