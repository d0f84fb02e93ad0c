package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/showcase/internal/httpserver/deps"
)

// Metrics serves the Prometheus exposition of the collector
func Metrics(d deps.Deps) http.Handler {
	return d.Metrics.Handler()
}
