package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/showcase/internal/domain"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/deps"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/respond"
	"github.com/MrSnakeDoc/showcase/internal/logger"
)

type listQuery struct {
	Q    string `validate:"max=200"`
	From string `validate:"omitempty,datetime=2006-01-02"`
	To   string `validate:"omitempty,datetime=2006-01-02"`
	Sort string `validate:"omitempty,oneof=title date"`
	Dir  string `validate:"omitempty,oneof=asc desc"`
	Page int    `validate:"min=1"`
}

func parseListQuery(r *http.Request) (listQuery, error) {
	v := r.URL.Query()
	q := listQuery{
		Q:    v.Get("q"),
		From: v.Get("from"),
		To:   v.Get("to"),
		Sort: v.Get("sort"),
		Dir:  v.Get("dir"),
		Page: 1,
	}
	if p := v.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return q, errors.New("page must be a number")
		}
		q.Page = n
	}
	return q, validateStruct(q)
}

// sortSpec falls back to the default ordering, and to ascending when only the field is given
func (q listQuery) sortSpec() domain.SortSpec {
	if q.Sort == "" {
		return domain.DefaultSort()
	}
	dir := domain.Ascending
	if q.Dir != "" {
		dir = domain.SortDirection(q.Dir)
	}
	return domain.SortSpec{Field: domain.SortField(q.Sort), Direction: dir}
}

// ListEmails applies the query to the session's view and returns the visible page.
// The page only resets when the query changes the search, range or ordering.
func ListEmails(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseListQuery(r)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		dr, err := domain.ParseDateRange(q.From, q.To, d.Location)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		box, ok := sessionInbox(w, d, r)
		if !ok {
			return
		}
		box.SetSearch(q.Q)
		box.SetDateRange(dr)
		box.SetSort(q.sortSpec())
		box.SetPage(q.Page)

		view := box.View()
		d.Metrics.ListQuery()
		d.Logger.Debug("list query",
			logger.String("q", q.Q),
			logger.String("range", dr.String()),
			logger.Int("page", view.Page),
			logger.Int("total", view.Total))

		respond.JSON(w, http.StatusOK, view)
	}
}

// GetEmail returns one record with the session's favorite and selection flags
func GetEmail(d deps.Deps) http.HandlerFunc {
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
		row, ok := box.Row(id)
		if !ok {
			respond.Error(w, http.StatusNotFound, "email not found")
			return
		}
		respond.JSON(w, http.StatusOK, row)
	}
}
