// FILE: bistrolog/src/internal/perf/manager_test.go
package perf

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"bistrolog/src/internal/channel"
	"bistrolog/src/internal/core"
	"bistrolog/src/internal/format"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureEnqueuer struct {
	mu    sync.Mutex
	lines map[string][]string // dest -> rendered lines
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

func (c *captureEnqueuer) decoded(t *testing.T, dest string) []map[string]any {
	t.Helper()
	lines := c.forDest(dest)
	out := make([]map[string]any, len(lines))
	for i, line := range lines {
		require.NoError(t, json.Unmarshal([]byte(line), &out[i]), "line %d on %s", i, dest)
	}
	return out
}

func newTestManager(windowSize int) (*Manager, *captureEnqueuer) {
	diag := log.NewLogger()
	registry := format.NewRegistry(diag)
	out := &captureEnqueuer{}

	loggers := make(map[core.Channel]*channel.Logger, len(core.Channels))
	for _, ch := range core.Channels {
		cfg := channel.Config{
			Enabled:     true,
			Level:       core.LevelTrace,
			Format:      "json",
			Destination: string(ch),
		}
		loggers[ch] = channel.New(ch, cfg, registry, out, diag)
	}
	return New(loggers, windowSize, diag), out
}

func TestManager_LogHTTPRequestEmitsAccessAndMetrics(t *testing.T) {
	m, out := newTestManager(100)

	m.LogHTTPRequest("GET", "/menu", 200, 42, 512, map[string]any{
		"url_pattern": "/menu",
		"request_id":  "req-1",
	})

	access := out.decoded(t, "access")
	require.Len(t, access, 1)
	assert.Equal(t, "request completed", access[0]["message"])
	assert.Equal(t, "GET", access[0]["method"])
	assert.Equal(t, "/menu", access[0]["url"])
	assert.Equal(t, float64(200), access[0]["status"])
	assert.Equal(t, float64(42), access[0]["duration"])
	assert.Equal(t, "req-1", access[0]["request_id"])

	metrics := out.decoded(t, "metrics")
	require.Len(t, metrics, 2, "one counter and one histogram per request")

	assert.Equal(t, "http_requests_get_200", metrics[0]["metric_name"])
	assert.Equal(t, "counter", metrics[0]["metric_type"])
	assert.Equal(t, float64(1), metrics[0]["value"])

	assert.Equal(t, "http_request_duration", metrics[1]["metric_name"])
	assert.Equal(t, "histogram", metrics[1]["metric_type"])
	assert.Equal(t, float64(42), metrics[1]["value"])
}

func TestManager_LogUserAction(t *testing.T) {
	m, out := newTestManager(100)

	m.LogUserAction("add_to_cart", "menu-item-7", "user-3", map[string]any{
		"session_id": "sess-3",
		"quantity":   2,
	})

	events := out.decoded(t, "event")
	require.Len(t, events, 1)
	assert.Equal(t, "add_to_cart", events[0]["message"])
	assert.Equal(t, "menu-item-7", events[0]["element"])
	assert.Equal(t, "user-3", events[0]["user_id"])
	assert.Equal(t, "sess-3", events[0]["session_id"])
	assert.Equal(t, float64(2), events[0]["quantity"])
}

type statusError struct {
	msg    string
	status int
}

func (e *statusError) Error() string   { return e.msg }
func (e *statusError) StatusCode() int { return e.status }

func TestManager_LogErrorSeverity(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		context map[string]any
		want    string
	}{
		{
			name:    "context 4xx is warn",
			err:     errors.New("not found"),
			context: map[string]any{"status_code": 404},
			want:    "WARN",
		},
		{
			name:    "context 5xx is error",
			err:     errors.New("upstream down"),
			context: map[string]any{"status_code": 503},
			want:    "ERROR",
		},
		{
			name: "status-coded error is warn",
			err:  &statusError{msg: "bad reservation date", status: 422},
			want: "WARN",
		},
		{
			name: "plain error defaults to error",
			err:  errors.New("disk full"),
			want: "ERROR",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, out := newTestManager(100)
			m.LogError(tc.err, tc.context)

			entries := out.decoded(t, "error")
			require.Len(t, entries, 1)
			assert.Equal(t, tc.want, entries[0]["level"])
			assert.Equal(t, tc.err.Error(), entries[0]["error"])
		})
	}
}

func TestManager_TimerLifecycle(t *testing.T) {
	m, out := newTestManager(100)

	id := m.StartTimer("render_menu")
	require.NotEmpty(t, id)
	require.Equal(t, 1, m.ActiveTimers())

	elapsed, ok := m.EndTimer(id, map[string]any{"items": 12})
	require.True(t, ok)
	assert.GreaterOrEqual(t, elapsed, int64(0))
	assert.Equal(t, 0, m.ActiveTimers())

	metrics := out.decoded(t, "metrics")
	require.Len(t, metrics, 1)
	assert.Equal(t, "render_menu", metrics[0]["metric_name"])
	assert.Equal(t, "timer", metrics[0]["metric_type"])
	assert.Equal(t, float64(12), metrics[0]["items"])
}

func TestManager_EndTimerUnknownID(t *testing.T) {
	m, out := newTestManager(100)

	_, ok := m.EndTimer("no-such-id", nil)
	assert.False(t, ok)
	assert.Empty(t, out.forDest("metrics"), "unknown handle emits nothing")
}

func TestManager_ConcurrentTimersAreIndependent(t *testing.T) {
	m, _ := newTestManager(1000)

	const n = 50
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = m.StartTimer("db_query") // same name, distinct handles
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, id := range ids {
		require.False(t, seen[id], "timer handles must be unique")
		seen[id] = true
	}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, ok := m.EndTimer(ids[i], nil)
			assert.True(t, ok)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, m.ActiveTimers())
}

func TestManager_AnalyticsSummary(t *testing.T) {
	m, _ := newTestManager(100)

	m.LogHTTPRequest("GET", "/menu", 200, 10, 100, nil)
	m.LogHTTPRequest("GET", "/orders", 200, 20, 100, nil)
	m.LogHTTPRequest("POST", "/orders", 500, 30, 100, nil)
	m.LogError(errors.New("order store failed"), map[string]any{"status_code": 500})

	s := m.Analytics()
	assert.Equal(t, 3, s.TotalRequests)
	assert.Equal(t, 1, s.TotalErrors)
	assert.InDelta(t, 1.0/3.0, s.ErrorRate, 1e-9)
	assert.InDelta(t, 20.0, s.AvgDurationMs, 1e-9)
	assert.Equal(t, 2, s.StatusCounts["2xx"])
	assert.Equal(t, 1, s.StatusCounts["5xx"])

	again := m.Analytics()
	assert.Equal(t, s, again, "recomputation without new telemetry is stable")
}

func TestManager_AnalyticsWindowEvictsOldest(t *testing.T) {
	m, _ := newTestManager(5)

	// First three are errors, then eight successes push them out.
	for i := 0; i < 3; i++ {
		m.LogHTTPRequest("GET", "/broken", 500, 5, 0, nil)
	}
	for i := 0; i < 8; i++ {
		m.LogHTTPRequest("GET", fmt.Sprintf("/menu/%d", i), 200, 10, 0, nil)
	}

	s := m.Analytics()
	assert.Equal(t, 5, s.TotalRequests, "window holds only the newest records")
	assert.Equal(t, 0, s.StatusCounts["5xx"])
	assert.Equal(t, 5, s.StatusCounts["2xx"])
}
