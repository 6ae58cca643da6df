// FILE: bistrolog/src/internal/app/routes_test.go
package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"bistrolog/src/internal/channel"
	"bistrolog/src/internal/core"
	"bistrolog/src/internal/format"
	"bistrolog/src/internal/middleware"
	"bistrolog/src/internal/perf"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureEnqueuer struct {
	mu    sync.Mutex
	lines map[string][]string
}

func (c *captureEnqueuer) Enqueue(dest string, line []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lines == nil {
		c.lines = make(map[string][]string)
	}
	c.lines[dest] = append(c.lines[dest], string(line))
}

func (c *captureEnqueuer) forDest(dest string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines[dest]...)
}

func newTestApp() (*App, *perf.Manager, *captureEnqueuer) {
	diag := log.NewLogger()
	registry := format.NewRegistry(diag)
	out := &captureEnqueuer{}

	loggers := make(map[core.Channel]*channel.Logger, len(core.Channels))
	for _, ch := range core.Channels {
		loggers[ch] = channel.New(ch, channel.Config{
			Enabled:     true,
			Level:       core.LevelTrace,
			Format:      "json",
			Destination: string(ch),
		}, registry, out, diag)
	}
	pm := perf.New(loggers, 100, diag)
	return New(pm, diag), pm, out
}

func doRequest(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestApp_Menu(t *testing.T) {
	a, _, out := newTestApp()
	rec := doRequest(t, a.Handler(), http.MethodGet, "/menu", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Items []menuItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, len(menu))

	events := out.forDest("event")
	require.Len(t, events, 1, "browsing the menu records a user action")
	assert.Contains(t, events[0], "view_menu")
}

func TestApp_MenuItem(t *testing.T) {
	a, _, _ := newTestApp()
	handler := a.Handler()

	t.Run("existing item", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/menu/3", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var item menuItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
		assert.Equal(t, "Carbonara", item.Name)
	})

	t.Run("unknown item", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/menu/999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/menu/today", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestApp_Search(t *testing.T) {
	a, _, _ := newTestApp()
	rec := doRequest(t, a.Handler(), http.MethodGet, "/search?q=pizza", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Results []menuItem `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, 2, "category match on pizza")
}

func TestApp_Reservations(t *testing.T) {
	a, _, _ := newTestApp()
	handler := a.Handler()

	t.Run("valid", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/reservations", `{"party_size":4,"time":"20:00"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("oversized party", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/reservations", `{"party_size":40,"time":"20:00"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("get not allowed", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/reservations", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestApp_Orders(t *testing.T) {
	a, _, _ := newTestApp()
	handler := a.Handler()

	rec := doRequest(t, handler, http.MethodPost, "/orders", `{"items":[{"id":1,"qty":2}]}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, handler, http.MethodPost, "/orders", `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApp_AnalyticsEndpoint(t *testing.T) {
	a, pm, _ := newTestApp()
	rl := middleware.NewRequestLogger(pm, log.NewLogger())
	handler := rl.Middleware(a.Handler())

	doRequest(t, handler, http.MethodGet, "/menu", "")
	doRequest(t, handler, http.MethodGet, "/menu/999", "")

	rec := doRequest(t, handler, http.MethodGet, "/telemetry/analytics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary perf.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.TotalRequests)
	assert.Equal(t, 1, summary.TotalErrors, "the 404 produced one error record")
	assert.Equal(t, 1, summary.StatusCounts["4xx"])
}
