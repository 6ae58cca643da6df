// FILE: bistrolog/src/internal/format/text_test.go
package format

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"bistrolog/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringFormatter_Format(t *testing.T) {
	formatter := NewStringFormatter(newTestLogger())

	t.Run("AllParts", func(t *testing.T) {
		output, err := formatter.Format(testEntry())
		require.NoError(t, err)

		assert.Equal(t,
			"2024-01-01T00:00:00.000Z - request completed - /menu - 37ms - sess-42\n",
			string(output))
	})

	t.Run("EmptyPartsOmitted", func(t *testing.T) {
		entry := core.LogEntry{
			Time:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Channel: core.ChannelEvent,
			Message: "cart_updated",
		}

		output, err := formatter.Format(entry)
		require.NoError(t, err)

		assert.Equal(t, "2024-01-01T00:00:00.000Z - cart_updated\n", string(output))
	})
}

func TestCSVFormatter_Format(t *testing.T) {
	formatter := NewCSVFormatter(newTestLogger())

	t.Run("ColumnOrder", func(t *testing.T) {
		output, err := formatter.Format(testEntry())
		require.NoError(t, err)

		cols := splitCSV(t, string(output))
		require.Len(t, cols, 6)
		assert.Equal(t, "2024-01-01T00:00:00.000Z", cols[0])
		assert.Equal(t, "INFO", cols[1])
		assert.Equal(t, "access", cols[2])
		assert.Equal(t, "request completed", cols[3])
		assert.Equal(t, "sess-42", cols[4])

		var fields map[string]any
		require.NoError(t, json.Unmarshal([]byte(cols[5]), &fields))
		assert.Equal(t, "GET", fields["method"])
	})

	t.Run("CommaAndQuoteEscaping", func(t *testing.T) {
		entry := testEntry()
		entry.Message = `say "hello", twice`

		output, err := formatter.Format(entry)
		require.NoError(t, err)

		cols := splitCSV(t, string(output))
		assert.Equal(t, `say "hello", twice`, cols[3])
	})
}

func TestXMLFormatter_Format(t *testing.T) {
	formatter := NewXMLFormatter(newTestLogger())

	t.Run("Structure", func(t *testing.T) {
		output, err := formatter.Format(testEntry())
		require.NoError(t, err)

		s := string(output)
		assert.Contains(t, s, `<entry timestamp="2024-01-01T00:00:00.000Z" level="INFO" channel="access">`)
		assert.Contains(t, s, "<message>request completed</message>")
		assert.Contains(t, s, "<session>sess-42</session>")
		assert.Contains(t, s, `<field name="method">GET</field>`)
		assert.True(t, strings.HasSuffix(s, "</entry>\n"))
	})

	t.Run("SortedFieldOrder", func(t *testing.T) {
		entry := testEntry()
		output, err := formatter.Format(entry)
		require.NoError(t, err)

		s := string(output)
		duration := strings.Index(s, `name="duration"`)
		method := strings.Index(s, `name="method"`)
		status := strings.Index(s, `name="status"`)
		assert.True(t, duration < method && method < status,
			"fields must appear in sorted key order")
	})

	t.Run("EntityEscaping", func(t *testing.T) {
		entry := testEntry()
		entry.Message = `<script>&"broken"</script>`

		output, err := formatter.Format(entry)
		require.NoError(t, err)

		s := string(output)
		assert.Contains(t, s, "&lt;script&gt;&amp;")
		assert.NotContains(t, s, "<script>")
	})
}

func splitCSV(t *testing.T, line string) []string {
	t.Helper()
	records, err := readAllCSV(strings.NewReader(line))
	require.NoError(t, err)
	require.Len(t, records, 1)
	return records[0]
}

func readAllCSV(r io.Reader) ([][]string, error) {
	return csv.NewReader(r).ReadAll()
}
