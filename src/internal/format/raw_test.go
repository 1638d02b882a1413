// FILE: jsonsieve/src/internal/format/raw_test.go
package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawFormatter(t *testing.T) {
	formatter, err := NewRawFormatter(config.OutputConfig{}, newTestLogger())
	require.NoError(t, err)

	repaired := core.Fragment{OriginalText: `{a:1,}`, RecoveredText: `{"a":1}`, IsValid: true}
	noRecovery := core.Fragment{OriginalText: `{"x":`}

	t.Run("UsesRecoveredText", func(t *testing.T) {
		output, err := formatter.Format(repaired)
		require.NoError(t, err)
		assert.Equal(t, "{\"a\":1}\n", string(output))
	})

	t.Run("FallsBackToOriginal", func(t *testing.T) {
		output, err := formatter.Format(noRecovery)
		require.NoError(t, err)
		assert.Equal(t, "{\"x\":\n", string(output))
	})

	t.Run("Batch", func(t *testing.T) {
		output, err := formatter.FormatBatch([]core.Fragment{repaired, noRecovery})
		require.NoError(t, err)
		assert.Equal(t, "{\"a\":1}\n{\"x\":\n", string(output))
	})
}

func TestCSVFormatter(t *testing.T) {
	formatter, err := NewCSVFormatter(config.OutputConfig{}, newTestLogger())
	require.NoError(t, err)

	fragment := validFragment("json-1", `{"a":[1]}`, map[string]any{"a": []any{json.Number("1")}})

	t.Run("SingleFragment", func(t *testing.T) {
		output, err := formatter.Format(fragment)
		require.NoError(t, err)
		assert.Equal(t, "Path,Value,Type\n,[Object],object\na,[Array(1)],array\na[0],1,number\n", string(output))
	})

	t.Run("SingleInvalid", func(t *testing.T) {
		_, err := formatter.Format(invalidFragment("json-2", "{"))
		assert.Error(t, err)
	})

	t.Run("Batch", func(t *testing.T) {
		output, err := formatter.FormatBatch([]core.Fragment{invalidFragment("json-0", "{"), fragment})
		require.NoError(t, err)

		lines := bytes.Split(bytes.TrimRight(output, "\n"), []byte("\n"))
		require.Len(t, lines, 4)
		assert.Equal(t, "JSON Object,Path,Value,Type,Size", string(lines[0]))
		assert.Equal(t, "2,,[Object],object,1", string(lines[1]))
		assert.Equal(t, "2,a[0],1,number,", string(lines[3]))
	})
}
