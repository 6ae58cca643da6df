// FILE: bistrolog/src/internal/delivery/sink.go
package delivery

import (
	"bistrolog/src/internal/config"

	"github.com/lixenwraith/log"
)

// Sink is a destination for rendered log lines.
type Sink interface {
	// Write delivers a batch of lines. An error means the whole batch was
	// not delivered and may be retried.
	Write(lines [][]byte) error

	// Name returns the sink type name
	Name() string

	// Close releases sink resources
	Close()
}

// SinkFactory creates a sink for a destination identifier.
type SinkFactory func(dest string) (Sink, error)

// NewSink resolves a destination string to a sink: http(s) URLs become a
// collector forwarder, "stdout"/"stderr" become console sinks, anything
// else is treated as a file path.
func NewSink(dest string, collector config.CollectorConfig, logger *log.Logger) (Sink, error) {
	switch {
	case config.IsHTTPDestination(dest):
		return NewHTTPSink(dest, collector, logger)
	case dest == "stdout" || dest == "stderr":
		return NewConsoleSink(dest, logger)
	default:
		return NewFileSink(dest, logger)
	}
}
