// FILE: jsonsieve/src/internal/repair/repair_test.go
package repair

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndRecover_DirectParse(t *testing.T) {
	inputs := []string{
		`{}`,
		`{"a":1}`,
		`{"msg":"He said \"hi\""}`,
		`{"nested":{"list":[1,2,{"x":null}]},"ok":true}`,
		`{"braces":"{ } [ ]","comma":", }"}`,
		"{\n  \"a\": 1\n}",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			res := ValidateAndRecover(input)

			assert.True(t, res.IsValid)
			assert.NotNil(t, res.Data)
			assert.Empty(t, res.Warnings)
			assert.NotNil(t, res.Warnings, "warnings should be an empty list, not nil")
			assert.Equal(t, input, res.RecoveredText)
		})
	}
}

func TestValidateAndRecover_Repairs(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		wantRecovered string
		wantWarnings  []string
	}{
		{
			name:          "TrailingComma",
			input:         `{"a":1,"b":2,}`,
			wantRecovered: `{"a":1,"b":2}`,
			wantWarnings:  []string{WarnTrailingCommas},
		},
		{
			name:          "TrailingCommaInArray",
			input:         `{"a":[1,2, ]}`,
			wantRecovered: `{"a":[1,2 ]}`,
			wantWarnings:  []string{WarnTrailingCommas},
		},
		{
			name:          "SpacedTrailingCommaAtLineEnd",
			input:         "{\n  \"a\": 1 ,\n}",
			wantRecovered: "{\n  \"a\": 1\n}",
			wantWarnings:  []string{WarnTrailingCommas},
		},
		{
			name:          "UnquotedKey",
			input:         `{a:1}`,
			wantRecovered: `{"a":1}`,
			wantWarnings:  []string{WarnUnquotedKeys},
		},
		{
			name:          "UnquotedKeysWithSpacing",
			input:         `{ user_id : 7, name: "x"}`,
			wantRecovered: `{ "user_id" : 7, "name": "x"}`,
			wantWarnings:  []string{WarnUnquotedKeys},
		},
		{
			name:          "UnterminatedString",
			input:         `{"a":"hel`,
			wantRecovered: `{"a":"hel"}`,
			wantWarnings:  []string{WarnUnmatchedQuotes, WarnMissingBraces},
		},
		{
			name:          "MissingClosingBraces",
			input:         `{"a":{"b":1`,
			wantRecovered: `{"a":{"b":1}}`,
			wantWarnings:  []string{WarnMissingBraces},
		},
		{
			name:          "ExcessClosingBrace",
			input:         `{"a":1}}`,
			wantRecovered: `{"a":1}`,
			wantWarnings:  []string{WarnExcessBraces},
		},
		{
			name:          "MissingCommaBetweenFields",
			input:         `{"a":"x" "b":"y"}`,
			wantRecovered: `{"a":"x", "b":"y"}`,
			wantWarnings:  []string{WarnMissingCommas},
		},
		{
			name:          "TrailingGarbage",
			input:         `{"a":1} and then some`,
			wantRecovered: `{"a":1}`,
			wantWarnings:  []string{WarnTrailingContent},
		},
		{
			name:          "LineTrailingWhitespaceOnly",
			input:         "{\"a\":1,   \n}",
			wantRecovered: "{\"a\":1\n}",
			wantWarnings:  []string{WarnTrailingCommas},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := ValidateAndRecover(tc.input)

			require.True(t, res.IsValid, "warnings: %v", res.Warnings)
			assert.Equal(t, tc.wantRecovered, res.RecoveredText)
			assert.Equal(t, tc.wantWarnings, res.Warnings)
			assert.NotNil(t, res.Data)
		})
	}
}

func TestValidateAndRecover_ParsedValues(t *testing.T) {
	t.Run("TrailingCommaScenario", func(t *testing.T) {
		res := ValidateAndRecover(`{"a":1,"b":2,}`)
		require.True(t, res.IsValid)

		obj, ok := res.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, json.Number("1"), obj["a"])
		assert.Equal(t, json.Number("2"), obj["b"])
		assert.Contains(t, res.Warnings, "Removed trailing commas")
	})

	t.Run("UnquotedKeyScenario", func(t *testing.T) {
		res := ValidateAndRecover(`{a:1}`)
		require.True(t, res.IsValid)

		obj, ok := res.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, json.Number("1"), obj["a"])
		assert.Contains(t, res.Warnings, "Fixed unquoted keys")
	})

	t.Run("LargeIntegersKeepPrecision", func(t *testing.T) {
		res := ValidateAndRecover(`{"id":12345678901234567890}`)
		require.True(t, res.IsValid)
		assert.Equal(t, json.Number("12345678901234567890"), res.Data.(map[string]any)["id"])
	})
}

func TestValidateAndRecover_Unrecoverable(t *testing.T) {
	res := ValidateAndRecover(`{"a":[1,2`)

	assert.False(t, res.IsValid)
	assert.Nil(t, res.Data)
	require.NotEmpty(t, res.Warnings)

	last := res.Warnings[len(res.Warnings)-1]
	assert.True(t, strings.HasPrefix(last, FailedToParsePrefix), "last warning: %q", last)
	assert.Equal(t, []string{WarnMissingBraces, WarnMissingBrackets, WarnTrailingContent}, res.Warnings[:len(res.Warnings)-1])
	assert.Equal(t, `{"a":[1,2}`, res.RecoveredText, "recovered text is kept for diagnostics")
}

func TestValidateAndRecover_NoChangeStillReportsFailure(t *testing.T) {
	res := ValidateAndRecover(`{"a": tru}`)

	assert.False(t, res.IsValid)
	require.Len(t, res.Warnings, 1)
	assert.True(t, strings.HasPrefix(res.Warnings[0], FailedToParsePrefix))
}

func TestEngine_DeepRepair(t *testing.T) {
	input := `{'a': 'single quoted'}`

	t.Run("Disabled", func(t *testing.T) {
		res := Engine{}.ValidateAndRecover(input)
		assert.False(t, res.IsValid)
	})

	t.Run("Enabled", func(t *testing.T) {
		res := Engine{DeepRepair: true}.ValidateAndRecover(input)
		require.True(t, res.IsValid, "warnings: %v", res.Warnings)
		assert.Equal(t, "single quoted", res.Data.(map[string]any)["a"])
		assert.Equal(t, WarnDeepRepair, res.Warnings[len(res.Warnings)-1])
	})
}

func TestRepair_Idempotent(t *testing.T) {
	inputs := []string{
		`{"a":1,"b":2,}`,
		`{a:1, b:[1,2,],}`,
		`{"a":"x" "b":"y"`,
		`{"a":{"b":"c"`,
		`{"s":"a, }"  , }`,
		`{"a":1} trailing text`,
		"{\n  \"a\": 1 ,\n}",
		"{ ,\n}",
		"{\"a\":[1,2 ,\r\n] ,\r\n}",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			res := ValidateAndRecover(input)
			require.True(t, res.IsValid, "warnings: %v", res.Warnings)

			again, warnings := Repair(res.RecoveredText)
			assert.Equal(t, res.RecoveredText, again)
			assert.Empty(t, warnings)

			assert.Equal(t, res.RecoveredText, ValidateAndRecover(res.RecoveredText).RecoveredText)
		})
	}
}

func TestRepair_StringContentsUntouched(t *testing.T) {
	input := `{"text":"keep, } this", "k": "v",}`

	out, warnings := Repair(input)
	assert.Equal(t, `{"text":"keep, } this", "k": "v"}`, out)
	assert.Equal(t, []string{WarnTrailingCommas}, warnings)
}

func TestParse(t *testing.T) {
	t.Run("RejectsTrailingData", func(t *testing.T) {
		_, err := Parse(`{"a":1} x`)
		assert.Error(t, err)
	})

	t.Run("AcceptsTrailingWhitespace", func(t *testing.T) {
		_, err := Parse("{\"a\":1}\n  ")
		assert.NoError(t, err)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		_, err := Parse("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected end")
	})
}
