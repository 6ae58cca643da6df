// FILE: bistrolog/src/internal/core/entry.go
package core

import "time"

// LogEntry represents a single telemetry record flowing through the pipeline.
// Entries are value types; formatting never mutates them.
type LogEntry struct {
	Time      time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Channel   Channel        `json:"channel"`
	Message   string         `json:"message"`
	SessionID string         `json:"session_id,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// NewEntry stamps a new entry with the current time.
func NewEntry(ch Channel, level Level, message string, fields map[string]any) LogEntry {
	return LogEntry{
		Time:    time.Now(),
		Level:   level,
		Channel: ch,
		Message: message,
		Fields:  fields,
	}
}

// FormatTimestamp renders an entry timestamp in the canonical wire form,
// millisecond-precision ISO-8601 in UTC. All formatters share this so that
// the same entry always renders the same timestamp text.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
