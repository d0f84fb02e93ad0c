package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/showcase/internal/httpserver/deps"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/respond"
	"github.com/MrSnakeDoc/showcase/internal/index"
)

type selectionResponse struct {
	ID       *int  `json:"id,omitempty"`
	Selected bool  `json:"selected"`
	IDs      []int `json:"selected_ids"`
	Count    int   `json:"selected_count"`
}

type bulkResponse struct {
	Changed       int `json:"changed"`
	FavoriteCount int `json:"favorite_count"`
}

// ToggleSelection flips the selection of one record
func ToggleSelection(d deps.Deps) http.HandlerFunc {
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
		selected, err := box.ToggleSelect(r.Context(), id)
		if errors.Is(err, index.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "email not found")
			return
		}

		d.Metrics.SelectionChanged("toggle")
		view := box.View()
		respond.JSON(w, http.StatusOK, selectionResponse{
			ID:       &id,
			Selected: selected,
			IDs:      view.SelectedIDs,
			Count:    view.SelectedCount,
		})
	}
}

// ToggleVisible selects the page the session currently sees, or deselects
// it when every row is already selected
func ToggleVisible(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		box, ok := sessionInbox(w, d, r)
		if !ok {
			return
		}
		selected := box.ToggleSelectVisible(r.Context())

		d.Metrics.SelectionChanged("visible")
		view := box.View()
		respond.JSON(w, http.StatusOK, selectionResponse{
			Selected: selected,
			IDs:      view.SelectedIDs,
			Count:    view.SelectedCount,
		})
	}
}

// BulkFavorite marks every selected record as favorite
func BulkFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		box, ok := sessionInbox(w, d, r)
		if !ok {
			return
		}
		changed := box.BulkFavorite(r.Context())

		d.Metrics.Bulk(changed)
		respond.JSON(w, http.StatusOK, bulkResponse{
			Changed:       changed,
			FavoriteCount: box.View().FavoriteCount,
		})
	}
}

// ClearSelection empties the session's selection
func ClearSelection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		box, ok := sessionInbox(w, d, r)
		if !ok {
			return
		}
		box.ClearSelection(r.Context())
		d.Metrics.SelectionChanged("clear")
		w.WriteHeader(http.StatusNoContent)
	}
}
