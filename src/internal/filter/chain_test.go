// FILE: jsonsieve/src/internal/filter/chain_test.go
package filter

import (
	"testing"

	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChain(t *testing.T) {
	logger := newTestLogger()

	t.Run("Success", func(t *testing.T) {
		configs := []config.FilterConfig{
			{Type: config.FilterTypeInclude, Patterns: []string{"apple"}},
			{Type: config.FilterTypeExclude, Patterns: []string{"banana"}},
		}
		chain, err := NewChain(configs, logger)
		assert.NoError(t, err)
		assert.NotNil(t, chain)
		assert.Equal(t, 2, chain.Len())
	})

	t.Run("ErrorInvalidRegexInChain", func(t *testing.T) {
		configs := []config.FilterConfig{
			{Patterns: []string{"apple"}},
			{Patterns: []string{"["}},
		}
		chain, err := NewChain(configs, logger)
		assert.Error(t, err)
		assert.Nil(t, chain)
		assert.Contains(t, err.Error(), "filter[1]")
	})
}

func TestChain_Apply(t *testing.T) {
	logger := newTestLogger()
	f := fragment(`{"msg":"an apple a day"}`)

	t.Run("EmptyChain", func(t *testing.T) {
		chain, err := NewChain([]config.FilterConfig{}, logger)
		assert.NoError(t, err)
		assert.True(t, chain.Apply(f))
	})

	t.Run("AllFiltersPass", func(t *testing.T) {
		configs := []config.FilterConfig{
			{Type: config.FilterTypeInclude, Patterns: []string{"apple"}},
			{Type: config.FilterTypeInclude, Patterns: []string{"day"}},
			{Type: config.FilterTypeExclude, Patterns: []string{"banana"}},
		}
		chain, err := NewChain(configs, logger)
		assert.NoError(t, err)
		assert.True(t, chain.Apply(f))
	})

	t.Run("OneFilterFails", func(t *testing.T) {
		configs := []config.FilterConfig{
			{Type: config.FilterTypeInclude, Patterns: []string{"apple"}},
			{Type: config.FilterTypeExclude, Patterns: []string{"day"}},
			{Type: config.FilterTypeInclude, Patterns: []string{"a"}},
		}
		chain, err := NewChain(configs, logger)
		assert.NoError(t, err)
		assert.False(t, chain.Apply(f))
	})
}

func TestChain_Select(t *testing.T) {
	logger := newTestLogger()

	invalid := fragment(`{"n":2`)
	invalid.IsValid = false

	fragments := []core.Fragment{
		fragment(`{"n":1,"tag":"keep"}`),
		invalid,
		fragment(`{"n":3,"tag":"skip"}`),
		fragment(`{"n":4,"tag":"keep"}`),
	}

	chain, err := NewChain([]config.FilterConfig{
		{ValidOnly: true},
		{Type: config.FilterTypeExclude, Patterns: []string{`"skip"`}},
	}, logger)
	require.NoError(t, err)

	selected := chain.Select(fragments)
	require.Len(t, selected, 2)
	assert.Equal(t, fragments[0].OriginalText, selected[0].OriginalText)
	assert.Equal(t, fragments[3].OriginalText, selected[1].OriginalText)

	stats := chain.GetStats()
	assert.Equal(t, uint64(4), stats["total_processed"])
	assert.Equal(t, uint64(2), stats["total_passed"])
}

func TestChain_SelectEmptyChainKeepsAll(t *testing.T) {
	chain, err := NewChain(nil, newTestLogger())
	require.NoError(t, err)

	fragments := []core.Fragment{fragment(`{}`), fragment(`{"a":1}`)}
	assert.Equal(t, fragments, chain.Select(fragments))
}
