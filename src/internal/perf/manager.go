// FILE: bistrolog/src/internal/perf/manager.go
package perf

import (
	"errors"
	"fmt"
	"strings"

	"bistrolog/src/internal/channel"
	"bistrolog/src/internal/core"

	"github.com/lixenwraith/log"
)

// Manager is the process-wide telemetry façade. It owns one channel Logger
// per channel and layers semantic helpers over the raw Log operation. It is
// explicitly constructed at the composition root and passed by reference;
// there is no package-level instance.
type Manager struct {
	loggers map[core.Channel]*channel.Logger
	window  *window
	timers  *timerSet
	diag    *log.Logger
}

// StatusCoder is implemented by errors that carry an HTTP-equivalent
// status, used to pick WARN over ERROR for client-caused failures.
type StatusCoder interface {
	StatusCode() int
}

func New(loggers map[core.Channel]*channel.Logger, windowSize int, diag *log.Logger) *Manager {
	return &Manager{
		loggers: loggers,
		window:  newWindow(windowSize),
		timers:  &timerSet{},
		diag:    diag,
	}
}

// Logger returns the Logger for a channel.
func (m *Manager) Logger(ch core.Channel) *channel.Logger {
	return m.loggers[ch]
}

// LogHTTPRequest emits one access entry plus two metrics entries: a counter
// named after the method and status, and a duration histogram sample.
// The extra map carries request-scoped fields (url_pattern, request_id,
// remote_addr, category) merged into the access entry.
func (m *Manager) LogHTTPRequest(method, url string, status int, durationMs, sizeBytes int64, extra map[string]any) {
	fields := map[string]any{
		"method":   method,
		"url":      url,
		"status":   status,
		"duration": durationMs,
		"size":     sizeBytes,
	}
	for k, v := range extra {
		fields[k] = v
	}

	m.loggers[core.ChannelAccess].Log(core.LevelInfo, "request completed", fields)

	m.loggers[core.ChannelMetrics].Log(core.LevelInfo, "counter", map[string]any{
		"metric_name": requestMetricName(method, status),
		"metric_type": "counter",
		"value":       1,
	})
	m.loggers[core.ChannelMetrics].Log(core.LevelInfo, "histogram", map[string]any{
		"metric_name": "http_request_duration",
		"metric_type": "histogram",
		"value":       durationMs,
	})

	m.window.add(record{
		channel:    core.ChannelAccess,
		level:      core.LevelInfo,
		status:     status,
		durationMs: durationMs,
	})
}

// LogUserAction emits an event entry for a user interaction.
func (m *Manager) LogUserAction(actionType, element, userID string, details map[string]any) {
	fields := map[string]any{
		"action_type": actionType,
		"element":     element,
	}
	if userID != "" {
		fields["user_id"] = userID
	}
	for k, v := range details {
		fields[k] = v
	}

	m.loggers[core.ChannelEvent].Log(core.LevelInfo, actionType, fields)

	m.window.add(record{channel: core.ChannelEvent, level: core.LevelInfo})
}

// LogError emits an error entry. Client-caused failures (a 4xx status in
// the context or on the error itself) log at WARN; everything else at
// ERROR.
func (m *Manager) LogError(err error, context map[string]any) {
	level := core.LevelError
	if isClientCause(err, context) {
		level = core.LevelWarn
	}

	fields := map[string]any{
		"error": err.Error(),
	}
	for k, v := range context {
		fields[k] = v
	}

	m.loggers[core.ChannelError].Log(level, err.Error(), fields)

	m.window.add(record{channel: core.ChannelError, level: level})
}

func isClientCause(err error, context map[string]any) bool {
	if status, ok := intValue(context["status_code"]); ok {
		return status >= 400 && status < 500
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		status := sc.StatusCode()
		return status >= 400 && status < 500
	}
	return false
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func requestMetricName(method string, status int) string {
	return fmt.Sprintf("http_requests_%s_%d", strings.ToLower(method), status)
}
