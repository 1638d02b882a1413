// FILE: jsonsieve/src/internal/filter/filter.go
package filter

import (
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"

	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/core"

	"github.com/lixenwraith/log"
)

// Filter selects fragments by regex over their text, validity and MOLI log type
type Filter struct {
	config   config.FilterConfig
	patterns []*regexp.Regexp
	logTypes map[core.LogType]bool
	mu       sync.RWMutex
	logger   *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalMatched   atomic.Uint64
	totalDropped   atomic.Uint64
}

// NewFilter creates a new filter from configuration
func NewFilter(cfg config.FilterConfig, logger *log.Logger) (*Filter, error) {
	// Set defaults
	if cfg.Type == "" {
		cfg.Type = config.FilterTypeInclude
	}
	if cfg.Logic == "" {
		cfg.Logic = config.FilterLogicOr
	}

	f := &Filter{
		config:   cfg,
		patterns: make([]*regexp.Regexp, 0, len(cfg.Patterns)),
		logger:   logger,
	}

	for i, pattern := range cfg.Patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern[%d] '%s': %w", i, pattern, err)
		}
		f.patterns = append(f.patterns, re)
	}

	if len(cfg.LogTypes) > 0 {
		f.logTypes = make(map[core.LogType]bool, len(cfg.LogTypes))
		for _, lt := range cfg.LogTypes {
			f.logTypes[core.LogType(lt)] = true
		}
	}

	logger.Debug("msg", "Filter created",
		"component", "filter",
		"type", cfg.Type,
		"logic", cfg.Logic,
		"pattern_count", len(cfg.Patterns),
		"valid_only", cfg.ValidOnly,
		"log_types", cfg.LogTypes)

	return f, nil
}

// Apply checks if a fragment should be passed through.
// Validity and log type constraints hold for both filter types; only the
// pattern match is inverted by exclude.
func (f *Filter) Apply(fragment core.Fragment) bool {
	f.totalProcessed.Add(1)

	if !f.selects(fragment) {
		f.totalDropped.Add(1)
		return false
	}

	f.mu.RLock()
	patternCount := len(f.patterns)
	f.mu.RUnlock()

	// No patterns means pass everything
	if patternCount == 0 {
		return true
	}

	text := fragment.RecoveredText
	if text == "" {
		text = fragment.OriginalText
	}

	matched := f.matches(text)
	if matched {
		f.totalMatched.Add(1)
	}

	shouldPass := false
	switch f.config.Type {
	case config.FilterTypeInclude:
		shouldPass = matched
	case config.FilterTypeExclude:
		shouldPass = !matched
	}

	if !shouldPass {
		f.totalDropped.Add(1)
	}

	return shouldPass
}

func (f *Filter) selects(fragment core.Fragment) bool {
	if f.config.ValidOnly && !fragment.IsValid {
		return false
	}

	if f.logTypes != nil {
		if fragment.MoliMetadata == nil {
			return false
		}
		return f.logTypes[fragment.MoliMetadata.LogType]
	}

	return true
}

// matches checks if text matches the patterns according to the logic
func (f *Filter) matches(text string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	switch f.config.Logic {
	case config.FilterLogicOr:
		for _, re := range f.patterns {
			if re.MatchString(text) {
				return true
			}
		}
		return false

	case config.FilterLogicAnd:
		for _, re := range f.patterns {
			if !re.MatchString(text) {
				return false
			}
		}
		return true

	default:
		// Shouldn't happen after validation
		f.logger.Warn("msg", "Unknown filter logic",
			"component", "filter",
			"logic", f.config.Logic)
		return false
	}
}

// GetStats returns filter statistics
func (f *Filter) GetStats() map[string]any {
	f.mu.RLock()
	patternCount := len(f.patterns)
	f.mu.RUnlock()

	return map[string]any{
		"type":            f.config.Type,
		"logic":           f.config.Logic,
		"pattern_count":   patternCount,
		"valid_only":      f.config.ValidOnly,
		"total_processed": f.totalProcessed.Load(),
		"total_matched":   f.totalMatched.Load(),
		"total_dropped":   f.totalDropped.Load(),
	}
}

// UpdatePatterns swaps the pattern set; on error the old set stays active
func (f *Filter) UpdatePatterns(patterns []string) error {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for i, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid regex pattern[%d] '%s': %w", i, pattern, err)
		}
		compiled = append(compiled, re)
	}

	f.mu.Lock()
	f.patterns = compiled
	f.config.Patterns = patterns
	f.mu.Unlock()

	f.logger.Info("msg", "Filter patterns updated",
		"component", "filter",
		"pattern_count", len(patterns))
	return nil
}
