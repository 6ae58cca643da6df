// FILE: bistrolog/src/internal/format/json_test.go
package format

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"bistrolog/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormatter_Format(t *testing.T) {
	logger := newTestLogger()
	formatter := NewJSONFormatter(logger)
	entry := testEntry()

	t.Run("BasicFormatting", func(t *testing.T) {
		output, err := formatter.Format(entry)
		require.NoError(t, err)

		var result map[string]any
		err = json.Unmarshal(output, &result)
		require.NoError(t, err, "Output should be valid JSON")

		assert.Equal(t, "2024-01-01T00:00:00.000Z", result["timestamp"])
		assert.Equal(t, "INFO", result["level"])
		assert.Equal(t, "access", result["channel"])
		assert.Equal(t, "request completed", result["message"])
		assert.Equal(t, "sess-42", result["session_id"])
		assert.True(t, strings.HasSuffix(string(output), "\n"), "Output should end with a newline")
	})

	t.Run("FieldsRoundTrip", func(t *testing.T) {
		output, err := formatter.Format(entry)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(output, &result))

		assert.Equal(t, "GET", result["method"])
		assert.Equal(t, "/menu", result["url"])
		assert.Equal(t, float64(200), result["status"])
		assert.Equal(t, float64(37), result["duration"])
		assert.Equal(t, float64(512), result["size"])
	})

	t.Run("MetadataWinsOverFields", func(t *testing.T) {
		conflicting := entry
		conflicting.Fields = map[string]any{"level": "DEBUG", "message": "shadowed"}

		output, err := formatter.Format(conflicting)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(output, &result))
		assert.Equal(t, "INFO", result["level"])
		assert.Equal(t, "request completed", result["message"])
	})

	t.Run("UnserializableFieldDegrades", func(t *testing.T) {
		bad := entry
		bad.Fields = map[string]any{"ch": make(chan int)}

		output, err := formatter.Format(bad)
		require.NoError(t, err, "serialization failure must not propagate")

		var result map[string]any
		require.NoError(t, json.Unmarshal(output, &result))
		assert.Equal(t, "format failure", result["error"])
		assert.Equal(t, "2024-01-01T00:00:00.000Z", result["timestamp"])
		assert.Len(t, result, 2, "degraded output carries error and timestamp only")
	})

	t.Run("NoSessionOmitsKey", func(t *testing.T) {
		anon := entry
		anon.SessionID = ""

		output, err := formatter.Format(anon)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(output, &result))
		_, exists := result["session_id"]
		assert.False(t, exists)
	})
}

func TestJSONFormatter_FormatBatch(t *testing.T) {
	formatter := NewJSONFormatter(newTestLogger())

	entries := []core.LogEntry{
		{Time: time.Now(), Channel: core.ChannelMetrics, Level: core.LevelInfo, Message: "first"},
		{Time: time.Now(), Channel: core.ChannelMetrics, Level: core.LevelWarn, Message: "second"},
	}

	output, err := formatter.FormatBatch(entries)
	require.NoError(t, err)

	var result []map[string]any
	require.NoError(t, json.Unmarshal(output, &result), "Batch output should be a valid JSON array")
	require.Len(t, result, 2)

	assert.Equal(t, "first", result[0]["message"])
	assert.Equal(t, "WARN", result[1]["level"])
}
