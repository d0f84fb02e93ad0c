package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/showcase/internal/httpserver/deps"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerFormats) }

func registerFormats(r chi.Router, d deps.Deps) {
	r.Get("/formats", handlers.ListFormats(d))
	r.Post("/formats/{type}", handlers.FormatValue(d))
}
