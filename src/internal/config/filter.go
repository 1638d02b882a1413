// FILE: jsonsieve/src/internal/config/filter.go
package config

import (
	"fmt"
	"regexp"
)

// FilterType is include or exclude
type FilterType string

const (
	FilterTypeInclude FilterType = "include"
	FilterTypeExclude FilterType = "exclude"
)

// FilterLogic combines multiple patterns
type FilterLogic string

const (
	FilterLogicOr  FilterLogic = "or"
	FilterLogicAnd FilterLogic = "and"
)

// FilterConfig selects fragments by pattern, validity and MOLI log type
type FilterConfig struct {
	Type     FilterType  `toml:"type"`
	Logic    FilterLogic `toml:"logic"`
	Patterns []string    `toml:"patterns"`

	// Drop fragments that could not be recovered
	ValidOnly bool `toml:"valid_only"`

	// Keep only MOLI fragments of these log types; empty keeps all
	LogTypes []string `toml:"log_types"`
}

func validateFilter(filterIndex int, cfg *FilterConfig) error {
	switch cfg.Type {
	case FilterTypeInclude, FilterTypeExclude, "":
	default:
		return fmt.Errorf("filter[%d]: invalid type '%s' (must be 'include' or 'exclude')",
			filterIndex, cfg.Type)
	}

	switch cfg.Logic {
	case FilterLogicOr, FilterLogicAnd, "":
	default:
		return fmt.Errorf("filter[%d]: invalid logic '%s' (must be 'or' or 'and')",
			filterIndex, cfg.Logic)
	}

	for _, lt := range cfg.LogTypes {
		switch lt {
		case "request", "response", "unknown":
		default:
			return fmt.Errorf("filter[%d]: invalid log type '%s'", filterIndex, lt)
		}
	}

	for i, pattern := range cfg.Patterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("filter[%d] pattern[%d] '%s': invalid regex: %w",
				filterIndex, i, pattern, err)
		}
	}

	return nil
}
