// FILE: bistrolog/src/internal/format/json.go
package format

import (
	"encoding/json"

	"bistrolog/src/internal/core"

	"github.com/lixenwraith/log"
)

// JSONFormatter produces one JSON object per entry (JSON-lines when written
// to a file sink).
type JSONFormatter struct {
	logger *log.Logger
}

func NewJSONFormatter(logger *log.Logger) *JSONFormatter {
	return &JSONFormatter{logger: logger}
}

// Format renders the entry as a single JSON object. Standard metadata keys
// take precedence over entry fields of the same name. Unserializable field
// values degrade the whole line to the minimal error object rather than
// failing the log call.
func (f *JSONFormatter) Format(entry core.LogEntry) ([]byte, error) {
	output := make(map[string]any, len(entry.Fields)+5)

	for k, v := range entry.Fields {
		output[k] = v
	}

	// Metadata wins over colliding field keys
	output["timestamp"] = core.FormatTimestamp(entry.Time)
	output["level"] = entry.Level.String()
	output["channel"] = string(entry.Channel)
	output["message"] = entry.Message
	if entry.SessionID != "" {
		output["session_id"] = entry.SessionID
	}

	result, err := json.Marshal(output)
	if err != nil {
		f.logger.Debug("msg", "JSON marshal failed, emitting degraded line",
			"component", "json_formatter",
			"error", err)
		return DegradedLine(entry.Time), nil
	}

	return append(result, '\n'), nil
}

func (f *JSONFormatter) Name() string {
	return "json"
}

func (f *JSONFormatter) FileExtension() string {
	return ".json"
}

func (f *JSONFormatter) SupportsChannel(core.Channel) bool {
	return true
}

// FormatBatch renders a slice of entries as a single JSON array, used by
// the HTTP forwarder when posting to a collector.
func (f *JSONFormatter) FormatBatch(entries []core.LogEntry) ([]byte, error) {
	batch := make([]json.RawMessage, 0, len(entries))

	for _, entry := range entries {
		formatted, err := f.Format(entry)
		if err != nil {
			continue
		}
		if n := len(formatted); n > 0 && formatted[n-1] == '\n' {
			formatted = formatted[:n-1]
		}
		batch = append(batch, formatted)
	}

	return json.Marshal(batch)
}
