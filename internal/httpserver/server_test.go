package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/showcase/internal/domain"
	"github.com/MrSnakeDoc/showcase/internal/format"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/deps"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/mw"
	"github.com/MrSnakeDoc/showcase/internal/inbox"
	"github.com/MrSnakeDoc/showcase/internal/index"
	"github.com/MrSnakeDoc/showcase/internal/kv"
	"github.com/MrSnakeDoc/showcase/internal/logger"
	"github.com/MrSnakeDoc/showcase/internal/metrics"
	"github.com/MrSnakeDoc/showcase/internal/store/memory"
)

// mailbox holds n records, Email 01 being the oldest
func mailbox(n int) []*domain.Email {
	out := make([]*domain.Email, n)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = &domain.Email{
			ID:    i + 1,
			Title: fmt.Sprintf("Email %02d", i+1),
			Date:  base.AddDate(0, 0, i),
		}
	}
	return out
}

func testDeps(t *testing.T, n int) deps.Deps {
	t.Helper()

	idx := index.NewMemoryIndex()
	idx.Replace(mailbox(n))

	now := func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	collector := metrics.NewCollector("test")

	sessions := inbox.NewRegistry(idx,
		func(string) kv.Store { return memory.NewStore() },
		inbox.Options{Logger: logger.Nop()})

	return deps.Deps{
		Logger:        logger.Nop(),
		StartTime:     now().Add(-time.Minute),
		Version:       "test",
		TimeNow:       now,
		RateBurst:     1000,
		RatePerMin:    1000,
		MailboxFile:   "emails.json",
		Location:      time.UTC,
		MemoryIndex:   idx,
		Sessions:      sessions,
		Formats:       format.NewCatalog(now),
		Metrics:       collector,
		ReloadTrigger: make(chan struct{}, 1),
	}
}

// client replays the session cookie like a browser would
type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func newClient(t *testing.T, d deps.Deps) *client {
	return &client{t: t, h: NewRouter(logger.Nop(), d)}
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == mw.SessionCookie {
			c.cookie = ck
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestListEmails_Defaults(t *testing.T) {
	c := newClient(t, testDeps(t, 25))

	rec := c.do("GET", "/api/emails", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NotNil(t, c.cookie, "session cookie should be set")

	view := decode[inbox.ViewState](t, rec)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, 25, view.Total)
	assert.Len(t, view.Rows, 10)
	assert.Equal(t, 25, view.Rows[0].ID, "newest first by default")
	assert.Equal(t, []int{1, 2, 3}, view.PageWindow)
	assert.Empty(t, view.Empty)
}

func TestListEmails_Query(t *testing.T) {
	c := newClient(t, testDeps(t, 25))

	rec := c.do("GET", "/api/emails?q=email+1&sort=title&dir=asc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[inbox.ViewState](t, rec)
	assert.Equal(t, []int{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}, view.VisibleIDs())

	rec = c.do("GET", "/api/emails?from=2024-03-05&to=2024-03-07&sort=date", "")
	view = decode[inbox.ViewState](t, rec)
	assert.Equal(t, []int{5, 6, 7}, view.VisibleIDs())
	assert.Equal(t, domain.SortSpec{Field: domain.SortByDate, Direction: domain.Ascending}, view.Sort)

	rec = c.do("GET", "/api/emails?q=nothing-matches", "")
	view = decode[inbox.ViewState](t, rec)
	assert.Equal(t, inbox.EmptyMessage, view.Empty)
	assert.Zero(t, view.TotalPages)
}

func TestListEmails_PageIsClamped(t *testing.T) {
	c := newClient(t, testDeps(t, 25))

	view := decode[inbox.ViewState](t, c.do("GET", "/api/emails?page=9", ""))
	assert.Equal(t, 3, view.Page)
	assert.Len(t, view.Rows, 5)
}

func TestListEmails_InvalidQuery(t *testing.T) {
	c := newClient(t, testDeps(t, 5))

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "unknown sort", query: "sort=size", want: "sort must be one of: title date"},
		{name: "unknown dir", query: "sort=title&dir=up", want: "dir must be one of: asc desc"},
		{name: "bad date", query: "from=03/05/2024", want: "from must be a date"},
		{name: "page not a number", query: "page=two", want: "page must be a number"},
		{name: "page zero", query: "page=0", want: "page must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.do("GET", "/api/emails?"+tt.query, "")
			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode[map[string]string](t, rec)
			assert.Contains(t, body["error"], tt.want)
		})
	}
}

func TestSelectionFlow(t *testing.T) {
	c := newClient(t, testDeps(t, 25))
	c.do("GET", "/api/emails?sort=date&dir=asc", "")

	rec := c.do("POST", "/api/selection/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	sel := decode[map[string]any](t, rec)
	assert.Equal(t, true, sel["selected"])

	// select the rest of page 1
	rec = c.do("POST", "/api/selection/visible", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 10, decode[map[string]any](t, rec)["selected_count"])

	// selection survives paging
	view := decode[inbox.ViewState](t, c.do("GET", "/api/emails?sort=date&dir=asc&page=2", ""))
	assert.Equal(t, 10, view.SelectedCount)
	assert.False(t, view.AllSelected)

	rec = c.do("POST", "/api/selection/favorite", "")
	require.Equal(t, http.StatusOK, rec.Code)
	bulk := decode[map[string]int](t, rec)
	assert.Equal(t, 10, bulk["changed"])
	assert.Equal(t, 10, bulk["favorite_count"])

	rec = c.do("DELETE", "/api/selection", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	view = decode[inbox.ViewState](t, c.do("GET", "/api/emails?sort=date&dir=asc", ""))
	assert.Zero(t, view.SelectedCount)
	assert.Equal(t, 10, view.FavoriteCount, "clearing the selection keeps favorites")
}

func TestSelectVisibleTwiceDeselects(t *testing.T) {
	c := newClient(t, testDeps(t, 4))
	c.do("GET", "/api/emails", "")

	first := decode[map[string]any](t, c.do("POST", "/api/selection/visible", ""))
	assert.Equal(t, true, first["selected"])

	second := decode[map[string]any](t, c.do("POST", "/api/selection/visible", ""))
	assert.Equal(t, false, second["selected"])
	assert.EqualValues(t, 0, second["selected_count"])
}

func TestToggleFavorite(t *testing.T) {
	c := newClient(t, testDeps(t, 5))

	rec := c.do("POST", "/api/emails/2/favorite", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"id": float64(2), "favorite": true}, decode[map[string]any](t, rec))

	rec = c.do("POST", "/api/emails/2/favorite", "")
	assert.Equal(t, false, decode[map[string]any](t, rec)["favorite"])

	rec = c.do("POST", "/api/emails/99/favorite", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do("POST", "/api/emails/abc/favorite", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do("POST", "/api/selection/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetEmail(t *testing.T) {
	c := newClient(t, testDeps(t, 5))

	rec := c.do("GET", "/api/emails/4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	row := decode[inbox.Row](t, rec)
	assert.Equal(t, "Email 04", row.Title)
	assert.False(t, row.Selected)

	require.Equal(t, http.StatusOK, c.do("POST", "/api/selection/4", "").Code)
	require.Equal(t, http.StatusOK, c.do("POST", "/api/emails/4/favorite", "").Code)

	rec = c.do("GET", "/api/emails/4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"id":4,"title":"Email 04","date":"2024-03-04T09:00:00Z","favorite":true,"selected":true}`,
		rec.Body.String())

	assert.Equal(t, http.StatusNotFound, c.do("GET", "/api/emails/40", "").Code)
}

type downStore struct{}

func (downStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("redis: connection refused")
}

func (downStore) Set(context.Context, string, string) error {
	return errors.New("redis: connection refused")
}

func TestSessionStateUnavailable(t *testing.T) {
	d := testDeps(t, 5)
	d.Sessions = inbox.NewRegistry(d.MemoryIndex,
		func(string) kv.Store { return downStore{} },
		inbox.Options{Logger: logger.Nop()})
	c := newClient(t, d)

	for _, path := range []string{"/api/emails", "/api/emails/1"} {
		rec := c.do("GET", path, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	}
	assert.Equal(t, http.StatusServiceUnavailable, c.do("POST", "/api/emails/1/favorite", "").Code)
	assert.Zero(t, d.Sessions.Len(), "a session that failed to load is not cached")
}

func TestSessionsAreIsolated(t *testing.T) {
	d := testDeps(t, 5)
	alice := newClient(t, d)
	bob := newClient(t, d)

	alice.do("POST", "/api/selection/1", "")
	alice.do("POST", "/api/emails/1/favorite", "")

	view := decode[inbox.ViewState](t, bob.do("GET", "/api/emails", ""))
	assert.Zero(t, view.SelectedCount)
	assert.Zero(t, view.FavoriteCount)
	assert.NotEqual(t, alice.cookie.Value, bob.cookie.Value)
	assert.Equal(t, 2, d.Sessions.Len())
}

func TestMalformedSessionCookieIsReplaced(t *testing.T) {
	c := newClient(t, testDeps(t, 1))
	c.cookie = &http.Cookie{Name: mw.SessionCookie, Value: "not-a-uuid"}

	rec := c.do("GET", "/api/emails", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, "not-a-uuid", c.cookie.Value)
}

func TestFormats(t *testing.T) {
	c := newClient(t, testDeps(t, 1))

	rec := c.do("GET", "/api/formats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	presets := decode[[]map[string]any](t, rec)
	require.Len(t, presets, 5)
	assert.Equal(t, "phone", presets[0]["id"])
	assert.Equal(t, "Phone Number", presets[0]["name"])

	tests := []struct {
		name    string
		typ     string
		body    string
		code    int
		display string
		valid   bool
	}{
		{name: "phone", typ: "phone", body: `{"value":"5551234567"}`, code: 200, display: "(555) 123-4567", valid: true},
		{name: "partial phone", typ: "phone", body: `{"value":"555"}`, code: 200, display: "555", valid: false},
		{name: "email", typ: "email", body: `{"value":"user@example.com"}`, code: 200, display: "user@example.com", valid: true},
		{name: "unknown preset", typ: "ssn", body: `{"value":"1"}`, code: 404},
		{name: "bad json", typ: "phone", body: `{"value":`, code: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.do("POST", "/api/formats/"+tt.typ, tt.body)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.code != http.StatusOK {
				assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
				return
			}
			res := decode[map[string]any](t, rec)
			assert.Equal(t, tt.typ, res["type"])
			assert.Equal(t, tt.display, res["display"])
			assert.Equal(t, tt.valid, res["valid"])
		})
	}
}

func TestOpsEndpoints(t *testing.T) {
	d := testDeps(t, 3)
	c := newClient(t, d)

	rec := c.do("GET", "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", health["status"])
	assert.EqualValues(t, 60, health["uptime_seconds"])
	assert.EqualValues(t, 3, health["emails"])
	assert.EqualValues(t, 0, health["active_sessions"], "ops routes open no session")

	assert.Equal(t, http.StatusOK, c.do("GET", "/readyz", "").Code)

	rec = c.do("GET", "/infra", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "degraded", decode[map[string]any](t, rec)["mode"], "no redis client in tests")

	assert.Equal(t, http.StatusAccepted, c.do("POST", "/reload", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, c.do("POST", "/reload", "").Code)
	<-d.ReloadTrigger

	c.do("GET", "/api/emails", "")
	rec = c.do("GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_http_requests_total{method="GET",route="/api/emails",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "test_list_queries_total 1")

	assert.Equal(t, http.StatusNotFound, c.do("GET", "/nope", "").Code)
}

func TestReadyzWithoutRecords(t *testing.T) {
	c := newClient(t, testDeps(t, 0))

	rec := c.do("GET", "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["ready"])
}

func TestOpsAllowList(t *testing.T) {
	d := testDeps(t, 1)
	d.AllowedCIDRS = []string{"10.0.0.0/8"}
	c := newClient(t, d)

	// httptest requests come from 192.0.2.1
	assert.Equal(t, http.StatusForbidden, c.do("GET", "/infra", "").Code)
	assert.Equal(t, http.StatusForbidden, c.do("POST", "/reload", "").Code)
	assert.Equal(t, http.StatusOK, c.do("GET", "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, c.do("GET", "/api/emails", "").Code)
}

func TestAPIRateLimit(t *testing.T) {
	d := testDeps(t, 1)
	d.RateBurst = 2
	d.RatePerMin = 1
	c := newClient(t, d)

	assert.Equal(t, http.StatusOK, c.do("GET", "/api/formats", "").Code)
	assert.Equal(t, http.StatusOK, c.do("GET", "/api/formats", "").Code)

	rec := c.do("GET", "/api/formats", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// probes are not rate limited
	assert.Equal(t, http.StatusOK, c.do("GET", "/healthz", "").Code)
}

type fakeSnapshot struct {
	emails   int64
	sessions []string
	err      error
}

func (f fakeSnapshot) CountEmails(context.Context) (int64, error) { return f.emails, f.err }

func (f fakeSnapshot) SessionIDs(context.Context) ([]string, error) { return f.sessions, nil }

type infraBody struct {
	Components map[string]map[string]any `json:"components"`
}

func TestInfraSnapshot(t *testing.T) {
	d := testDeps(t, 3)
	d.Snapshot = fakeSnapshot{emails: 3, sessions: []string{"a", "b"}}
	c := newClient(t, d)

	rec := c.do("GET", "/infra", "")
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[infraBody](t, rec).Components["snapshot"]
	assert.Equal(t, true, snap["ok"])
	assert.EqualValues(t, 3, snap["snapshot_emails"])
	assert.EqualValues(t, 2, snap["persisted_sessions"])

	d.Snapshot = fakeSnapshot{err: errors.New("connection refused")}
	c = newClient(t, d)
	rec = c.do("GET", "/infra", "")
	snap = decode[infraBody](t, rec).Components["snapshot"]
	assert.Equal(t, false, snap["ok"])
	assert.Equal(t, "connection refused", snap["error"])
}
