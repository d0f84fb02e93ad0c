package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/showcase/internal/httpserver/deps"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/respond"
	"github.com/MrSnakeDoc/showcase/internal/index"
	"github.com/MrSnakeDoc/showcase/internal/logger"
)

type favoriteResponse struct {
	ID       int  `json:"id"`
	Favorite bool `json:"favorite"`
}

// ToggleFavorite flips the favorite flag of one record for the session
func ToggleFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			respond.Error(w, http.StatusBadRequest, "invalid id")
			return
		}

		box, ok := sessionInbox(w, d, r)
		if !ok {
			return
		}
		fav, err := box.ToggleFavorite(r.Context(), id)
		if errors.Is(err, index.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "email not found")
			return
		}
		if err != nil {
			d.Logger.Error("failed to toggle favorite", logger.Int("id", id), logger.Error(err))
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		d.Metrics.FavoriteToggled()
		respond.JSON(w, http.StatusOK, favoriteResponse{ID: id, Favorite: fav})
	}
}
