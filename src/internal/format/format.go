// FILE: bistrolog/src/internal/format/format.go
package format

import (
	"fmt"
	"sync"
	"time"

	"bistrolog/src/internal/core"

	"github.com/lixenwraith/log"
)

// Formatter transforms a LogEntry into a rendered line. Implementations are
// pure functions of the entry: no state, no side effects, deterministic
// output for the same input. A formatter must never let a rendering error
// escape to the caller; it degrades to DegradedLine instead.
type Formatter interface {
	// Format returns the rendered entry, terminated by a newline.
	Format(entry core.LogEntry) ([]byte, error)

	// Name returns the formatter type name
	Name() string

	// FileExtension returns the conventional file extension for this format
	FileExtension() string

	// SupportsChannel reports whether the format is applicable to a channel
	SupportsChannel(ch core.Channel) bool
}

// New creates a built-in Formatter by kind. The set of built-in kinds is
// closed; custom template formatters are created with NewTemplateFormatter
// and registered on a Registry.
func New(kind string, logger *log.Logger) (Formatter, error) {
	// Default to string if no format specified
	if kind == "" {
		kind = "string"
	}

	switch kind {
	case "json":
		return NewJSONFormatter(logger), nil
	case "clf":
		return NewCLFFormatter(logger), nil
	case "string":
		return NewStringFormatter(logger), nil
	case "csv":
		return NewCSVFormatter(logger), nil
	case "xml":
		return NewXMLFormatter(logger), nil
	default:
		return nil, fmt.Errorf("unknown formatter kind: %s", kind)
	}
}

// DegradedLine is the minimal output emitted when rendering fails. It is
// valid JSON regardless of the formatter that produced it, so a sink never
// receives a torn line.
func DegradedLine(t time.Time) []byte {
	return []byte(fmt.Sprintf("{\"error\":\"format failure\",\"timestamp\":%q}\n", core.FormatTimestamp(t)))
}

// Registry maps format names to Formatter instances. The built-in kinds are
// pre-registered; the dynamic slot is custom template formatters registered
// at runtime. Lookup never fails: unknown names resolve to the string
// fallback formatter.
type Registry struct {
	mu       sync.RWMutex
	entries  map[string]Formatter
	fallback Formatter
	logger   *log.Logger
}

// NewRegistry creates a registry with all built-in formatters registered.
func NewRegistry(logger *log.Logger) *Registry {
	r := &Registry{
		entries:  make(map[string]Formatter),
		fallback: NewStringFormatter(logger),
		logger:   logger,
	}

	for _, kind := range []string{"json", "clf", "string", "csv", "xml"} {
		f, err := New(kind, logger)
		if err != nil {
			// Built-in kinds cannot fail construction
			continue
		}
		r.entries[kind] = f
	}

	return r
}

// Register stores a formatter under a name, replacing any prior entry.
func (r *Registry) Register(name string, f Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		r.logger.Debug("msg", "Replacing registered formatter",
			"component", "format_registry",
			"name", name)
	}
	r.entries[name] = f
}

// Get returns the formatter registered under a name.
func (r *Registry) Get(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.entries[name]
	return f, ok
}

// Resolve returns the formatter for a name, or the fallback string
// formatter when the name is unregistered. Callers can always log through
// the result.
func (r *Registry) Resolve(name string) Formatter {
	if f, ok := r.Get(name); ok {
		return f
	}

	r.logger.Warn("msg", "Unknown format name, using fallback",
		"component", "format_registry",
		"name", name,
		"fallback", r.fallback.Name())
	return r.fallback
}

// Fallback returns the registry's fallback formatter.
func (r *Registry) Fallback() Formatter {
	return r.fallback
}
