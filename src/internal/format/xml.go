// FILE: bistrolog/src/internal/format/xml.go
package format

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"

	"bistrolog/src/internal/core"

	"github.com/lixenwraith/log"
)

// XMLFormatter renders one <entry> element per line. Field elements are
// emitted in sorted key order so output is deterministic, and all text is
// entity-escaped via encoding/xml.
type XMLFormatter struct {
	logger *log.Logger
}

func NewXMLFormatter(logger *log.Logger) *XMLFormatter {
	return &XMLFormatter{logger: logger}
}

func (f *XMLFormatter) Format(entry core.LogEntry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`<entry timestamp="`)
	escapeXML(&buf, core.FormatTimestamp(entry.Time))
	buf.WriteString(`" level="`)
	escapeXML(&buf, entry.Level.String())
	buf.WriteString(`" channel="`)
	escapeXML(&buf, string(entry.Channel))
	buf.WriteString(`">`)

	buf.WriteString("<message>")
	escapeXML(&buf, entry.Message)
	buf.WriteString("</message>")

	if entry.SessionID != "" {
		buf.WriteString("<session>")
		escapeXML(&buf, entry.SessionID)
		buf.WriteString("</session>")
	}

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteString("<fields>")
		for _, k := range keys {
			buf.WriteString(`<field name="`)
			escapeXML(&buf, k)
			buf.WriteString(`">`)
			escapeXML(&buf, fmt.Sprint(entry.Fields[k]))
			buf.WriteString("</field>")
		}
		buf.WriteString("</fields>")
	}

	buf.WriteString("</entry>\n")
	return buf.Bytes(), nil
}

func (f *XMLFormatter) Name() string {
	return "xml"
}

func (f *XMLFormatter) FileExtension() string {
	return ".xml"
}

func (f *XMLFormatter) SupportsChannel(core.Channel) bool {
	return true
}

func escapeXML(buf *bytes.Buffer, s string) {
	// EscapeText only fails on writer errors; bytes.Buffer writes cannot fail
	xml.EscapeText(buf, []byte(s))
}
