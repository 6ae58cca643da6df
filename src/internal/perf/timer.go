// FILE: bistrolog/src/internal/perf/timer.go
package perf

import (
	"sync"
	"time"

	"bistrolog/src/internal/core"

	"github.com/google/uuid"
)

// timerSet tracks in-flight named timers keyed by opaque handle. Handles
// are UUIDs so concurrent timers with the same name never collide.
type timerSet struct {
	active sync.Map // id -> startedTimer
}

type startedTimer struct {
	name  string
	start time.Time
}

// StartTimer begins a named measurement and returns its handle.
func (m *Manager) StartTimer(name string) string {
	id := uuid.NewString()
	m.timers.active.Store(id, startedTimer{name: name, start: time.Now()})
	return id
}

// EndTimer stops the timer for the given handle and emits a metrics entry
// carrying the elapsed milliseconds. An unknown or already-ended handle is
// reported on the diagnostic logger and returns ok=false; it never emits a
// metrics entry and never panics.
func (m *Manager) EndTimer(id string, metadata map[string]any) (int64, bool) {
	v, ok := m.timers.active.LoadAndDelete(id)
	if !ok {
		m.diag.Warn("msg", "EndTimer called with unknown timer id",
			"component", "perf_manager",
			"timer_id", id)
		return 0, false
	}

	st := v.(startedTimer)
	elapsedMs := time.Since(st.start).Milliseconds()

	fields := map[string]any{
		"metric_name": st.name,
		"metric_type": "timer",
		"value":       elapsedMs,
	}
	for k, val := range metadata {
		fields[k] = val
	}
	m.loggers[core.ChannelMetrics].Log(core.LevelInfo, "timer", fields)

	return elapsedMs, true
}

// ActiveTimers reports how many timers are currently running.
func (m *Manager) ActiveTimers() int {
	n := 0
	m.timers.active.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
