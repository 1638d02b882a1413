// FILE: jsonsieve/src/internal/filter/filter_test.go
package filter

import (
	"testing"

	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func fragment(text string) core.Fragment {
	return core.Fragment{OriginalText: text, RecoveredText: text, IsValid: true, Warnings: []string{}}
}

func moliFragment(text string, lt core.LogType) core.Fragment {
	f := fragment(text)
	f.MoliMetadata = &core.MoliMetadata{LogType: lt}
	return f
}

func TestNewFilter(t *testing.T) {
	logger := newTestLogger()

	t.Run("SuccessWithDefaults", func(t *testing.T) {
		cfg := config.FilterConfig{Patterns: []string{"test"}}
		f, err := NewFilter(cfg, logger)
		assert.NoError(t, err)
		assert.NotNil(t, f)
		assert.Equal(t, config.FilterTypeInclude, f.config.Type)
		assert.Equal(t, config.FilterLogicOr, f.config.Logic)
	})

	t.Run("SuccessWithCustomConfig", func(t *testing.T) {
		cfg := config.FilterConfig{
			Type:     config.FilterTypeExclude,
			Logic:    config.FilterLogicAnd,
			Patterns: []string{"test", "pattern"},
			LogTypes: []string{"request"},
		}
		f, err := NewFilter(cfg, logger)
		assert.NoError(t, err)
		assert.NotNil(t, f)
		assert.Equal(t, config.FilterTypeExclude, f.config.Type)
		assert.Equal(t, config.FilterLogicAnd, f.config.Logic)
		assert.Len(t, f.patterns, 2)
		assert.True(t, f.logTypes[core.LogTypeRequest])
	})

	t.Run("ErrorInvalidRegex", func(t *testing.T) {
		cfg := config.FilterConfig{Patterns: []string{"["}}
		f, err := NewFilter(cfg, logger)
		assert.Error(t, err)
		assert.Nil(t, f)
		assert.Contains(t, err.Error(), "invalid regex pattern")
	})
}

func TestFilter_Apply(t *testing.T) {
	logger := newTestLogger()

	invalid := fragment(`{"a": tru}`)
	invalid.IsValid = false

	recoveredOnly := core.Fragment{OriginalText: `{user:"x",}`, RecoveredText: `{"user":"x"}`, IsValid: true}

	testCases := []struct {
		name     string
		cfg      config.FilterConfig
		fragment core.Fragment
		expected bool
	}{
		// Include OR logic
		{
			name:     "IncludeOR_MatchOne",
			cfg:      config.FilterConfig{Type: config.FilterTypeInclude, Logic: config.FilterLogicOr, Patterns: []string{"apple", "banana"}},
			fragment: fragment(`{"fruit":"apple"}`),
			expected: true,
		},
		{
			name:     "IncludeOR_NoMatch",
			cfg:      config.FilterConfig{Type: config.FilterTypeInclude, Logic: config.FilterLogicOr, Patterns: []string{"apple", "banana"}},
			fragment: fragment(`{"fruit":"pear"}`),
			expected: false,
		},
		// Include AND logic
		{
			name:     "IncludeAND_MatchAll",
			cfg:      config.FilterConfig{Type: config.FilterTypeInclude, Logic: config.FilterLogicAnd, Patterns: []string{"apple", "doctor"}},
			fragment: fragment(`{"fruit":"apple","who":"doctor"}`),
			expected: true,
		},
		{
			name:     "IncludeAND_MatchOne",
			cfg:      config.FilterConfig{Type: config.FilterTypeInclude, Logic: config.FilterLogicAnd, Patterns: []string{"apple", "doctor"}},
			fragment: fragment(`{"fruit":"apple"}`),
			expected: false,
		},
		// Exclude logic
		{
			name:     "ExcludeOR_MatchOne",
			cfg:      config.FilterConfig{Type: config.FilterTypeExclude, Logic: config.FilterLogicOr, Patterns: []string{`"level":"debug"`}},
			fragment: fragment(`{"level":"debug"}`),
			expected: false,
		},
		{
			name:     "ExcludeOR_NoMatch",
			cfg:      config.FilterConfig{Type: config.FilterTypeExclude, Logic: config.FilterLogicOr, Patterns: []string{`"level":"debug"`}},
			fragment: fragment(`{"level":"error"}`),
			expected: true,
		},
		{
			name:     "ExcludeAND_MatchOne",
			cfg:      config.FilterConfig{Type: config.FilterTypeExclude, Logic: config.FilterLogicAnd, Patterns: []string{"critical", "database"}},
			fragment: fragment(`{"msg":"critical error in app"}`),
			expected: true,
		},
		// Match against recovered text
		{
			name:     "MatchesRecoveredText",
			cfg:      config.FilterConfig{Patterns: []string{`"user":`}},
			fragment: recoveredOnly,
			expected: true,
		},
		// Validity and log type selection
		{
			name:     "ValidOnlyDropsInvalid",
			cfg:      config.FilterConfig{ValidOnly: true},
			fragment: invalid,
			expected: false,
		},
		{
			name:     "ValidOnlyKeepsValid",
			cfg:      config.FilterConfig{ValidOnly: true},
			fragment: fragment(`{}`),
			expected: true,
		},
		{
			name:     "ValidOnlyHoldsForExclude",
			cfg:      config.FilterConfig{Type: config.FilterTypeExclude, ValidOnly: true, Patterns: []string{"zzz"}},
			fragment: invalid,
			expected: false,
		},
		{
			name:     "LogTypeMatch",
			cfg:      config.FilterConfig{LogTypes: []string{"request", "response"}},
			fragment: moliFragment(`{"message":"Response"}`, core.LogTypeResponse),
			expected: true,
		},
		{
			name:     "LogTypeMismatch",
			cfg:      config.FilterConfig{LogTypes: []string{"request"}},
			fragment: moliFragment(`{"message":"other"}`, core.LogTypeUnknown),
			expected: false,
		},
		{
			name:     "LogTypeWithoutMetadata",
			cfg:      config.FilterConfig{LogTypes: []string{"unknown"}},
			fragment: fragment(`{}`),
			expected: false,
		},
		// Edge cases
		{
			name:     "NoPatterns",
			cfg:      config.FilterConfig{Type: config.FilterTypeInclude, Patterns: []string{}},
			fragment: fragment(`{"any":"thing"}`),
			expected: true,
		},
		{
			name:     "EmptyFragment_DoesNotMatchSpace",
			cfg:      config.FilterConfig{Type: config.FilterTypeInclude, Patterns: []string{" "}},
			fragment: core.Fragment{},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewFilter(tc.cfg, logger)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, f.Apply(tc.fragment))
		})
	}
}

func TestFilter_UpdatePatterns(t *testing.T) {
	f, err := NewFilter(config.FilterConfig{Patterns: []string{"apple"}}, newTestLogger())
	require.NoError(t, err)

	assert.True(t, f.Apply(fragment(`{"f":"apple"}`)))

	require.NoError(t, f.UpdatePatterns([]string{"pear"}))
	assert.False(t, f.Apply(fragment(`{"f":"apple"}`)))
	assert.True(t, f.Apply(fragment(`{"f":"pear"}`)))

	assert.Error(t, f.UpdatePatterns([]string{"("}))
	assert.True(t, f.Apply(fragment(`{"f":"pear"}`)), "failed update keeps previous patterns")
}

func TestFilter_GetStats(t *testing.T) {
	f, err := NewFilter(config.FilterConfig{Patterns: []string{"keep"}}, newTestLogger())
	require.NoError(t, err)

	f.Apply(fragment(`{"keep":1}`))
	f.Apply(fragment(`{"drop":1}`))

	stats := f.GetStats()
	assert.Equal(t, uint64(2), stats["total_processed"])
	assert.Equal(t, uint64(1), stats["total_matched"])
	assert.Equal(t, uint64(1), stats["total_dropped"])
	assert.Equal(t, 1, stats["pattern_count"])
}
