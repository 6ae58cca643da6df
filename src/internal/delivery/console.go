// FILE: bistrolog/src/internal/delivery/console.go
package delivery

import (
	"fmt"
	"io"
	"os"

	"github.com/lixenwraith/log"
)

// ConsoleSink writes rendered lines to stdout or stderr.
type ConsoleSink struct {
	target string
	output io.Writer
	logger *log.Logger
}

func NewConsoleSink(target string, logger *log.Logger) (*ConsoleSink, error) {
	var output io.Writer
	switch target {
	case "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		return nil, fmt.Errorf("unknown console target: %s", target)
	}

	return &ConsoleSink{
		target: target,
		output: output,
		logger: logger,
	}, nil
}

func (s *ConsoleSink) Write(lines [][]byte) error {
	for i, line := range lines {
		if _, err := s.output.Write(line); err != nil {
			return fmt.Errorf("console write failed at line %d: %w", i, err)
		}
	}
	return nil
}

func (s *ConsoleSink) Name() string {
	return s.target
}

func (s *ConsoleSink) Close() {}
