// FILE: jsonsieve/src/internal/format/json_test.go
package format

import (
	"encoding/json"
	"strings"
	"testing"

	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormatter_Format(t *testing.T) {
	logger := newTestLogger()
	fragment := validFragment("json-1", `{"user":"ann","n":1}`,
		map[string]any{"user": "ann", "n": json.Number("1")})

	t.Run("Compact", func(t *testing.T) {
		formatter, err := NewJSONFormatter(config.OutputConfig{}, logger)
		require.NoError(t, err)

		output, err := formatter.Format(fragment)
		require.NoError(t, err)
		assert.Equal(t, "{\"n\":1,\"user\":\"ann\"}\n", string(output))
	})

	t.Run("Pretty", func(t *testing.T) {
		formatter, err := NewJSONFormatter(config.OutputConfig{Pretty: true, Indent: 2}, logger)
		require.NoError(t, err)

		output, err := formatter.Format(fragment)
		require.NoError(t, err)
		assert.Contains(t, string(output), `  "user": "ann"`)
		assert.True(t, strings.HasSuffix(string(output), "\n"))
	})

	t.Run("InvalidFragment", func(t *testing.T) {
		formatter, err := NewJSONFormatter(config.OutputConfig{}, logger)
		require.NoError(t, err)

		_, err = formatter.Format(invalidFragment("json-2", `{"a":`))
		assert.Error(t, err)
	})
}

func TestJSONFormatter_FormatBatch(t *testing.T) {
	logger := newTestLogger()
	formatter, err := NewJSONFormatter(config.OutputConfig{}, logger)
	require.NoError(t, err)

	fragments := []core.Fragment{
		validFragment("json-1", `{"a":1}`, map[string]any{"a": json.Number("1")}),
		invalidFragment("json-2", `{"b":`),
		validFragment("json-3", `{"c":2}`, map[string]any{"c": json.Number("2")}, "Removed trailing commas"),
	}

	output, err := formatter.FormatBatch(fragments)
	require.NoError(t, err)
	assert.Equal(t, "[{\"a\":1},{\"c\":2}]\n", string(output))

	t.Run("EmptyBatch", func(t *testing.T) {
		output, err := formatter.FormatBatch(nil)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(output))
	})
}

func TestFragmentFormatter(t *testing.T) {
	logger := newTestLogger()
	formatter, err := NewFragmentFormatter(config.OutputConfig{}, logger)
	require.NoError(t, err)

	fragment := validFragment("moli-1", `{"message":"request"}`, map[string]any{"message": "request"})
	fragment.MoliMetadata = &core.MoliMetadata{LogType: core.LogTypeRequest, Service: "billing"}

	t.Run("SingleIsOneLine", func(t *testing.T) {
		output, err := formatter.Format(fragment)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(output), "\n"))

		var record map[string]any
		require.NoError(t, json.Unmarshal(output, &record))
		assert.Equal(t, "moli-1", record["id"])
		assert.Equal(t, true, record["isValid"])
		assert.Equal(t, `{"message":"request"}`, record["originalText"])
		assert.Equal(t, []any{}, record["warnings"])

		meta := record["moliMetadata"].(map[string]any)
		assert.Equal(t, "request", meta["logType"])
		assert.Equal(t, "billing", meta["service"])
		assert.Equal(t, false, meta["isIncomplete"])
		_, hasTrace := meta["traceId"]
		assert.False(t, hasTrace)
	})

	t.Run("BatchIsArray", func(t *testing.T) {
		output, err := formatter.FormatBatch([]core.Fragment{fragment, invalidFragment("json-2", "{")})
		require.NoError(t, err)

		var records []map[string]any
		require.NoError(t, json.Unmarshal(output, &records))
		require.Len(t, records, 2)
		assert.Equal(t, false, records[1]["isValid"])
		_, hasData := records[1]["parsedData"]
		assert.False(t, hasData)
		_, hasMeta := records[1]["moliMetadata"]
		assert.False(t, hasMeta)
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		output, err := formatter.FormatBatch(nil)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(output))
	})
}
