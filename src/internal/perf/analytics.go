// FILE: bistrolog/src/internal/perf/analytics.go
package perf

import (
	"sync"

	"bistrolog/src/internal/core"
)

// record is one observation in the rolling window. Only the fields the
// summary needs are retained; rendered entries are never held here.
type record struct {
	channel    core.Channel
	level      core.Level
	status     int
	durationMs int64
}

// window is a bounded FIFO of the most recent records. When full, adding
// evicts the oldest record.
type window struct {
	mu      sync.Mutex
	size    int
	records []record
	head    int
	count   int
}

func newWindow(size int) *window {
	if size <= 0 {
		size = core.DefaultAnalyticsWindow
	}
	return &window{
		size:    size,
		records: make([]record, size),
	}
}

func (w *window) add(r record) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.records[(w.head+w.count)%w.size] = r
	if w.count < w.size {
		w.count++
	} else {
		w.head = (w.head + 1) % w.size
	}
}

func (w *window) snapshot() []record {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]record, w.count)
	for i := 0; i < w.count; i++ {
		out[i] = w.records[(w.head+i)%w.size]
	}
	return out
}

// Summary is the aggregate view over the current rolling window.
type Summary struct {
	WindowSize    int            `json:"window_size"`
	TotalRequests int            `json:"total_requests"`
	TotalErrors   int            `json:"total_errors"`
	ErrorRate     float64        `json:"error_rate"`
	AvgDurationMs float64        `json:"avg_duration_ms"`
	StatusCounts  map[string]int `json:"status_counts"`
	ChannelCounts map[string]int `json:"channel_counts"`
}

// Analytics recomputes the summary from the records currently in the
// window. Two consecutive calls with no intervening telemetry return
// identical results.
func (m *Manager) Analytics() Summary {
	records := m.window.snapshot()

	s := Summary{
		WindowSize:    m.window.size,
		StatusCounts:  make(map[string]int),
		ChannelCounts: make(map[string]int),
	}

	var durationSum int64
	for _, r := range records {
		s.ChannelCounts[string(r.channel)]++
		switch r.channel {
		case core.ChannelAccess:
			s.TotalRequests++
			durationSum += r.durationMs
			s.StatusCounts[statusClass(r.status)]++
		case core.ChannelError:
			s.TotalErrors++
		}
	}

	if s.TotalRequests > 0 {
		s.AvgDurationMs = float64(durationSum) / float64(s.TotalRequests)
		s.ErrorRate = float64(s.TotalErrors) / float64(s.TotalRequests)
	}
	return s
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
