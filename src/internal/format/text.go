// FILE: bistrolog/src/internal/format/text.go
package format

import (
	"fmt"
	"strings"

	"bistrolog/src/internal/core"

	"github.com/lixenwraith/log"
)

// StringFormatter produces the compact human-readable line
// `timestamp - message - path - duration - session`, omitting empty parts.
// It is the universal fallback: it can render any entry.
type StringFormatter struct {
	logger *log.Logger
}

func NewStringFormatter(logger *log.Logger) *StringFormatter {
	return &StringFormatter{logger: logger}
}

func (f *StringFormatter) Format(entry core.LogEntry) ([]byte, error) {
	parts := make([]string, 0, 5)

	parts = append(parts, core.FormatTimestamp(entry.Time))

	if entry.Message != "" {
		parts = append(parts, entry.Message)
	}

	if path, ok := stringField(entry.Fields, "url"); ok && path != "" {
		parts = append(parts, path)
	} else if path, ok := stringField(entry.Fields, "path"); ok && path != "" {
		parts = append(parts, path)
	}

	if d, ok := entry.Fields["duration"]; ok {
		parts = append(parts, fmt.Sprintf("%vms", d))
	}

	if entry.SessionID != "" {
		parts = append(parts, entry.SessionID)
	}

	return []byte(strings.Join(parts, " - ") + "\n"), nil
}

func (f *StringFormatter) Name() string {
	return "string"
}

func (f *StringFormatter) FileExtension() string {
	return ".log"
}

func (f *StringFormatter) SupportsChannel(core.Channel) bool {
	return true
}
