package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/showcase/internal/httpserver/deps"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerSelection) }

func registerSelection(r chi.Router, d deps.Deps) {
	r.Post("/selection/visible", handlers.ToggleVisible(d))
	r.Post("/selection/favorite", handlers.BulkFavorite(d))
	r.Post("/selection/{id}", handlers.ToggleSelection(d))
	r.Delete("/selection", handlers.ClearSelection(d))
}
