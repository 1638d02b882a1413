// FILE: jsonsieve/src/internal/extract/extract_test.go
package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"jsonsieve/src/internal/core"
	"jsonsieve/src/internal/repair"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func TestNew(t *testing.T) {
	logger := newTestLogger()

	testCases := []struct {
		name        string
		mode        Mode
		expected    Mode
		expectError bool
	}{
		{name: "DefaultsToGeneric", mode: "", expected: ModeGeneric},
		{name: "Generic", mode: "generic", expected: ModeGeneric},
		{name: "MoliCaseInsensitive", mode: "MOLI", expected: ModeMoli},
		{name: "Unknown", mode: "yaml", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := New(Options{Mode: tc.mode}, logger)
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, e)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, e.Mode())
		})
	}
}

func TestExtract_Scenarios(t *testing.T) {
	t.Run("UnterminatedGenericYieldsNothing", func(t *testing.T) {
		assert.Empty(t, Extract(`{"a":1`))
	})

	t.Run("TwoSequentialObjects", func(t *testing.T) {
		text := `{"x":1} {"y":2}`
		fragments := Extract(text)
		require.Len(t, fragments, 2)

		assert.Equal(t, `{"x":1}`, fragments[0].OriginalText)
		assert.Equal(t, 0, fragments[0].StartIndex)
		assert.Equal(t, 7, fragments[0].EndIndex)

		assert.Equal(t, `{"y":2}`, fragments[1].OriginalText)
		assert.Equal(t, 8, fragments[1].StartIndex)
		assert.Equal(t, 15, fragments[1].EndIndex)

		assert.LessOrEqual(t, fragments[0].EndIndex, fragments[1].StartIndex)
	})

	t.Run("EscapedQuoteInString", func(t *testing.T) {
		text := `{"msg":"He said \"hi\""}`
		fragments := Extract(text)
		require.Len(t, fragments, 1)

		f := fragments[0]
		assert.Equal(t, text, f.OriginalText)
		assert.True(t, f.IsValid)
		assert.Empty(t, f.Warnings)
		assert.Equal(t, `He said "hi"`, f.ParsedData.(map[string]any)["msg"])
	})

	t.Run("BracesInsideStrings", func(t *testing.T) {
		text := `log: {"pattern":"{ not } a { brace","n":1} end`
		fragments := Extract(text)
		require.Len(t, fragments, 1)
		assert.Equal(t, `{"pattern":"{ not } a { brace","n":1}`, fragments[0].OriginalText)
		assert.True(t, fragments[0].IsValid)
	})

	t.Run("NestedObjectsReportedOnce", func(t *testing.T) {
		fragments := Extract(`prefix {"a":{"b":{"c":1}}} suffix`)
		require.Len(t, fragments, 1)
		assert.Equal(t, 7, fragments[0].StartIndex)
	})

	t.Run("StrayCloserIgnored", func(t *testing.T) {
		fragments := Extract(`} oops {"a":1}`)
		require.Len(t, fragments, 1)
		assert.Equal(t, `{"a":1}`, fragments[0].OriginalText)
	})

	t.Run("RepairedFragment", func(t *testing.T) {
		fragments := Extract(`INFO payload={a:1, b:2,} done`)
		require.Len(t, fragments, 1)

		f := fragments[0]
		assert.True(t, f.IsValid)
		assert.Equal(t, `{"a":1, "b":2}`, f.RecoveredText)
		assert.Equal(t, []string{repair.WarnTrailingCommas, repair.WarnUnquotedKeys}, f.Warnings)
		assert.True(t, f.Repaired())
	})

	t.Run("GenericHasNoMetadata", func(t *testing.T) {
		fragments := Extract(`{"message":"request"}`)
		require.Len(t, fragments, 1)
		assert.Nil(t, fragments[0].MoliMetadata)
		assert.True(t, strings.HasPrefix(fragments[0].ID, "json-"))
	})

	t.Run("BackslashBeforeBrace", func(t *testing.T) {
		for _, text := range []string{`\{"a":1}`, `path C:\{"a":1}`, `\\{"a":1}`} {
			for _, mode := range []Mode{ModeGeneric, ModeMoli} {
				e, err := New(Options{Mode: mode}, nil)
				require.NoError(t, err)

				fragments := e.Extract(text)
				require.Len(t, fragments, 1, "%s %q", mode, text)
				assert.Equal(t, `{"a":1}`, fragments[0].OriginalText)
				assert.Equal(t, len(text), fragments[0].EndIndex)
				assert.True(t, fragments[0].IsValid)
			}
		}
	})

	t.Run("LoneLeadingBackslash", func(t *testing.T) {
		assert.Empty(t, Extract(`\`))
		assert.Len(t, Extract(`\ {"a":1}`), 1)
	})

	t.Run("NoBraces", func(t *testing.T) {
		assert.Empty(t, Extract("plain log line without objects"))
		assert.Empty(t, Extract(""))
	})
}

func TestExtractMoli_Scenarios(t *testing.T) {
	t.Run("UnterminatedYieldsIncompleteFragment", func(t *testing.T) {
		text := `{"a":1`
		fragments := ExtractMoli(text)
		require.Len(t, fragments, 1)

		f := fragments[0]
		assert.Equal(t, text, f.OriginalText)
		assert.Equal(t, 0, f.StartIndex)
		assert.Equal(t, len(text), f.EndIndex)
		require.NotNil(t, f.MoliMetadata)
		assert.True(t, f.MoliMetadata.IsIncomplete)
		assert.True(t, strings.HasPrefix(f.ID, "moli-"))
	})

	t.Run("TruncatedAfterLastBrace", func(t *testing.T) {
		text := `2024-01-01 {"message":"Response","globalContext":{"controller":"orders"},"body":"abc`
		fragments := ExtractMoli(text)
		require.Len(t, fragments, 1)

		f := fragments[0]
		assert.Equal(t, strings.Index(text, "{"), f.StartIndex)
		assert.Equal(t, len(text), f.EndIndex)
		assert.True(t, f.IsValid, "warnings: %v", f.Warnings)

		require.NotNil(t, f.MoliMetadata)
		assert.Equal(t, core.LogTypeResponse, f.MoliMetadata.LogType)
		assert.Equal(t, "orders", f.MoliMetadata.Controller)
		assert.True(t, f.MoliMetadata.IsIncomplete)
	})

	t.Run("CompleteRecords", func(t *testing.T) {
		text := strings.Join([]string{
			`[app] {"message":"Request","service":"billing","timestamp":"2024-05-01T10:00:00Z","xray_trace_id":"1-abc","globalContext":{"controller":"invoice"}}`,
			`[app] {"message":"other","service":"billing"}`,
		}, "\n")

		fragments := ExtractMoli(text)
		require.Len(t, fragments, 2)

		meta := fragments[0].MoliMetadata
		require.NotNil(t, meta)
		assert.Equal(t, core.LogTypeRequest, meta.LogType)
		assert.Equal(t, "billing", meta.Service)
		assert.Equal(t, "invoice", meta.Controller)
		assert.Equal(t, "2024-05-01T10:00:00Z", meta.Timestamp)
		assert.Equal(t, "1-abc", meta.TraceID)
		assert.False(t, meta.IsIncomplete)

		assert.Equal(t, core.LogTypeUnknown, fragments[1].MoliMetadata.LogType)
		assert.False(t, fragments[1].MoliMetadata.IsIncomplete)
	})

	t.Run("CutInsideNestedObject", func(t *testing.T) {
		text := `{"message":"Request","service":"cart","body":{"x":1},"more":{`
		fragments := ExtractMoli(text)
		require.Len(t, fragments, 1)

		meta := fragments[0].MoliMetadata
		require.NotNil(t, meta)
		assert.Equal(t, core.LogTypeRequest, meta.LogType)
		assert.Equal(t, "cart", meta.Service)
		assert.True(t, meta.IsIncomplete)
	})

	t.Run("EllipsisMarksIncomplete", func(t *testing.T) {
		fragments := ExtractMoli(`{"message":"request","body":"{\"items\":[1,2,3..."}`)
		require.Len(t, fragments, 1)
		assert.True(t, fragments[0].IsValid)
		assert.True(t, fragments[0].MoliMetadata.IsIncomplete)
	})
}

func TestMoliMetadataFor(t *testing.T) {
	t.Run("NilDataIsIncomplete", func(t *testing.T) {
		meta := MoliMetadataFor(nil, `{"a": tru}`)
		assert.Equal(t, core.LogTypeUnknown, meta.LogType)
		assert.True(t, meta.IsIncomplete)
	})

	t.Run("TrailingOpenBrace", func(t *testing.T) {
		data := map[string]any{"message": "RESPONSE"}
		meta := MoliMetadataFor(data, "{\"message\":\"RESPONSE\",\"body\":{  \n")
		assert.Equal(t, core.LogTypeResponse, meta.LogType)
		assert.True(t, meta.IsIncomplete)
	})

	t.Run("NumericTimestamp", func(t *testing.T) {
		data := map[string]any{"timestamp": json.Number("1714557600")}
		meta := MoliMetadataFor(data, `{"timestamp":1714557600}`)
		assert.Equal(t, "1714557600", meta.Timestamp)
		assert.False(t, meta.IsIncomplete)
	})

	t.Run("NonStringFieldsIgnored", func(t *testing.T) {
		data := map[string]any{
			"message":       42,
			"service":       map[string]any{"name": "x"},
			"globalContext": "flat",
		}
		meta := MoliMetadataFor(data, `{}`)
		assert.Equal(t, core.LogTypeUnknown, meta.LogType)
		assert.Empty(t, meta.Service)
		assert.Empty(t, meta.Controller)
	})
}

func TestExtract_IndexBoundsAndBalance(t *testing.T) {
	inputs := []string{
		`{"x":1} {"y":2}`,
		`noise { "a" : "}" } more { b: [1,2,], } tail`,
		`{"msg":"He said \"hi\""} and {"k":"\\"} {"z":0}`,
		`\{"a":1} C:\{"b":2}`,
		`}}}{{{"a":1}}}{`,
		`{"a":"unterminated string}` + "\n" + `{"b":2}`,
		"multi\nline {\n  \"a\": 1,\n  \"b\": {\"c\": 2}\n}\n",
		`{"emoji":"héllo wörld"} {"k":"v"}`,
	}

	for _, text := range inputs {
		for _, mode := range []Mode{ModeGeneric, ModeMoli} {
			t.Run(string(mode)+"/"+text, func(t *testing.T) {
				e, err := New(Options{Mode: mode}, nil)
				require.NoError(t, err)

				for _, f := range e.Extract(text) {
					require.True(t, 0 <= f.StartIndex && f.StartIndex <= f.EndIndex && f.EndIndex <= len(text),
						"bad range [%d:%d] for len %d", f.StartIndex, f.EndIndex, len(text))
					assert.Equal(t, text[f.StartIndex:f.EndIndex], f.OriginalText)

					depth, closed := braceDepth(f.OriginalText)
					if closed {
						assert.Zero(t, depth, "fragment %q", f.OriginalText)
					}
				}
			})
		}
	}
}

func TestExtract_OrderedByStart(t *testing.T) {
	fragments := Extract(`{"a":1} x {"b":{"c":2}} y {"d":3}`)
	require.Len(t, fragments, 3)
	for i := 1; i < len(fragments); i++ {
		assert.Less(t, fragments[i-1].StartIndex, fragments[i].StartIndex)
		assert.LessOrEqual(t, fragments[i-1].EndIndex, fragments[i].StartIndex)
	}
}

func TestExtractor_DeepRepair(t *testing.T) {
	text := `data {'a': 'b'} end`

	plain, err := New(Options{}, nil)
	require.NoError(t, err)
	fragments := plain.Extract(text)
	require.Len(t, fragments, 1)
	assert.False(t, fragments[0].IsValid)

	deep, err := New(Options{DeepRepair: true}, newTestLogger())
	require.NoError(t, err)
	fragments = deep.Extract(text)
	require.Len(t, fragments, 1)
	assert.True(t, fragments[0].IsValid)
	assert.Contains(t, fragments[0].Warnings, repair.WarnDeepRepair)
}

func TestExtractor_ExtractModeOverride(t *testing.T) {
	e, err := New(Options{Mode: ModeGeneric}, nil)
	require.NoError(t, err)

	assert.Empty(t, e.ExtractMode(`{"a":1`, ModeGeneric))
	assert.Len(t, e.ExtractMode(`{"a":1`, ModeMoli), 1)
}

func TestExtract_UniqueIDs(t *testing.T) {
	fragments := Extract(strings.Repeat(`{"a":1} `, 50))
	require.Len(t, fragments, 50)

	seen := make(map[string]bool)
	for _, f := range fragments {
		assert.False(t, seen[f.ID], "duplicate id %s", f.ID)
		seen[f.ID] = true
	}
}

// braceDepth replays the scanner's rules over a single fragment.
// closed reports whether the fragment ends on a brace that returns depth to zero.
func braceDepth(text string) (depth int, closed bool) {
	inString, escaped := false, false
	for i := 0; i < len(text); i++ {
		prev := escaped
		escaped = false
		switch text[i] {
		case '\\':
			escaped = !prev
		case '"':
			if !prev {
				inString = !inString
			}
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString && depth > 0 {
				depth--
				closed = depth == 0
			}
		}
	}
	return depth, closed
}
