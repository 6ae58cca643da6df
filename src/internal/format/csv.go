// FILE: bistrolog/src/internal/format/csv.go
package format

import (
	"bytes"
	"encoding/csv"
	"encoding/json"

	"bistrolog/src/internal/core"

	"github.com/lixenwraith/log"
)

// CSVFormatter renders one record per entry with a fixed column order:
// timestamp, level, channel, message, session_id, fields. The fields column
// holds the extra key/value pairs as a JSON object (encoding/json sorts map
// keys, so the column is deterministic). Quoting and comma escaping follow
// RFC 4180 via encoding/csv.
type CSVFormatter struct {
	logger *log.Logger
}

func NewCSVFormatter(logger *log.Logger) *CSVFormatter {
	return &CSVFormatter{logger: logger}
}

func (f *CSVFormatter) Format(entry core.LogEntry) ([]byte, error) {
	fieldsCol := ""
	if len(entry.Fields) > 0 {
		encoded, err := json.Marshal(entry.Fields)
		if err != nil {
			f.logger.Debug("msg", "CSV fields column marshal failed, emitting degraded line",
				"component", "csv_formatter",
				"error", err)
			return DegradedLine(entry.Time), nil
		}
		fieldsCol = string(encoded)
	}

	record := []string{
		core.FormatTimestamp(entry.Time),
		entry.Level.String(),
		string(entry.Channel),
		entry.Message,
		entry.SessionID,
		fieldsCol,
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(record); err != nil {
		return DegradedLine(entry.Time), nil
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return DegradedLine(entry.Time), nil
	}

	return buf.Bytes(), nil
}

func (f *CSVFormatter) Name() string {
	return "csv"
}

func (f *CSVFormatter) FileExtension() string {
	return ".csv"
}

func (f *CSVFormatter) SupportsChannel(core.Channel) bool {
	return true
}
