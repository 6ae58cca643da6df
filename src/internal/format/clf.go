// FILE: bistrolog/src/internal/format/clf.go
package format

import (
	"fmt"

	"bistrolog/src/internal/core"

	"github.com/lixenwraith/log"
)

// clfTimeLayout is the Common Log Format timestamp layout. Entries render
// in UTC so the offset is always +0000.
const clfTimeLayout = "02/Jan/2006:15:04:05 -0700"

// CLFFormatter renders request-shaped entries in Common Log Format:
//
//	host ident authuser [timestamp] "method url protocol" status size
//
// Entries without method/url/status fields fall back to the string format.
type CLFFormatter struct {
	logger   *log.Logger
	fallback *StringFormatter
}

func NewCLFFormatter(logger *log.Logger) *CLFFormatter {
	return &CLFFormatter{
		logger:   logger,
		fallback: NewStringFormatter(logger),
	}
}

func (f *CLFFormatter) Format(entry core.LogEntry) ([]byte, error) {
	method, hasMethod := stringField(entry.Fields, "method")
	url, hasURL := stringField(entry.Fields, "url")
	status, hasStatus := intField(entry.Fields, "status")

	if !hasMethod || !hasURL || !hasStatus {
		// Not request-shaped
		return f.fallback.Format(entry)
	}

	host := "-"
	if h, ok := stringField(entry.Fields, "remote_addr"); ok && h != "" {
		host = h
	}

	protocol := "HTTP/1.1"
	if p, ok := stringField(entry.Fields, "protocol"); ok && p != "" {
		protocol = p
	}

	size := "-"
	if s, ok := intField(entry.Fields, "size"); ok {
		size = fmt.Sprintf("%d", s)
	}

	line := fmt.Sprintf("%s - - [%s] %q %d %s\n",
		host,
		entry.Time.UTC().Format(clfTimeLayout),
		fmt.Sprintf("%s %s %s", method, url, protocol),
		status,
		size)

	return []byte(line), nil
}

func (f *CLFFormatter) Name() string {
	return "clf"
}

func (f *CLFFormatter) FileExtension() string {
	return ".log"
}

// SupportsChannel limits CLF to the access channel; other channels carry
// entries that are not request-shaped.
func (f *CLFFormatter) SupportsChannel(ch core.Channel) bool {
	return ch == core.ChannelAccess
}

func stringField(fields map[string]any, key string) (string, bool) {
	v, ok := fields[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func intField(fields map[string]any, key string) (int64, bool) {
	switch v := fields[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
