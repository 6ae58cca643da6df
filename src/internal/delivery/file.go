// FILE: bistrolog/src/internal/delivery/file.go
package delivery

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lixenwraith/log"
)

// FileSink appends lines to a per-channel log file, delegating rotation and
// retention to an internal log writer instance.
type FileSink struct {
	path   string
	writer *log.Logger // internal writer, not the application diagnostics logger
	logger *log.Logger
}

func NewFileSink(path string, logger *log.Logger) (*FileSink, error) {
	directory := filepath.Dir(path)
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		name = "bistrolog.output"
		logger.Warn("msg", "Destination has no file name, using default",
			"component", "file_sink",
			"path", path,
			"name", name)
	}

	writerConfig := log.DefaultConfig()
	writerConfig.Directory = directory
	writerConfig.Name = name
	writerConfig.EnableConsole = false // file only
	writerConfig.ShowTimestamp = false // entries carry their own timestamps
	writerConfig.ShowLevel = false     // entries carry their own levels

	writer := log.NewLogger()
	if err := writer.ApplyConfig(writerConfig); err != nil {
		return nil, fmt.Errorf("failed to initialize file writer: %w", err)
	}
	if err := writer.Start(); err != nil {
		return nil, fmt.Errorf("failed to start file writer: %w", err)
	}

	return &FileSink{
		path:   path,
		writer: writer,
		logger: logger,
	}, nil
}

func (fs *FileSink) Write(lines [][]byte) error {
	for _, line := range lines {
		// Writer adds the line terminator
		fs.writer.Message(string(bytes.TrimSuffix(line, []byte{'\n'})))
	}
	return nil
}

func (fs *FileSink) Name() string {
	return "file"
}

func (fs *FileSink) Close() {
	if err := fs.writer.Shutdown(2 * time.Second); err != nil {
		fs.logger.Error("msg", "Error shutting down file writer",
			"component", "file_sink",
			"path", fs.path,
			"error", err)
	}
}
