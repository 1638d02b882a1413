// FILE: jsonsieve/src/internal/format/json.go
package format

import (
	"encoding/json"
	"fmt"

	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/core"

	"github.com/lixenwraith/log"
)

// JSONFormatter emits the parsed data of valid fragments.
type JSONFormatter struct {
	config config.OutputConfig
	logger *log.Logger
}

// NewJSONFormatter creates a new JSON formatter from configuration options.
func NewJSONFormatter(cfg config.OutputConfig, logger *log.Logger) (*JSONFormatter, error) {
	return &JSONFormatter{
		config: cfg,
		logger: logger,
	}, nil
}

// Format renders the parsed data of one fragment.
// A fragment that could not be recovered has nothing to render.
func (f *JSONFormatter) Format(fragment core.Fragment) ([]byte, error) {
	if !fragment.IsValid {
		return nil, fmt.Errorf("fragment %s has no parsed data", fragment.ID)
	}
	return marshal(fragment.ParsedData, f.config.Pretty, int(f.config.Indent))
}

// Name returns the formatter's type name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// FormatBatch renders the parsed data of every valid fragment as one JSON array.
func (f *JSONFormatter) FormatBatch(fragments []core.Fragment) ([]byte, error) {
	batch := make([]any, 0, len(fragments))
	skipped := 0

	for _, fragment := range fragments {
		if !fragment.IsValid {
			skipped++
			continue
		}
		batch = append(batch, fragment.ParsedData)
	}

	if skipped > 0 {
		f.logger.Debug("msg", "Skipped unrecoverable fragments in batch",
			"component", "json_formatter",
			"skipped", skipped)
	}

	return marshal(batch, f.config.Pretty, int(f.config.Indent))
}

// FragmentFormatter emits full fragment records, one JSON object per line for
// single fragments and a JSON array for batches.
type FragmentFormatter struct {
	config config.OutputConfig
	logger *log.Logger
}

// NewFragmentFormatter creates a formatter for complete fragment records.
func NewFragmentFormatter(cfg config.OutputConfig, logger *log.Logger) (*FragmentFormatter, error) {
	return &FragmentFormatter{
		config: cfg,
		logger: logger,
	}, nil
}

// Format renders one fragment record as a single line.
func (f *FragmentFormatter) Format(fragment core.Fragment) ([]byte, error) {
	result, err := json.Marshal(fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fragment %s: %w", fragment.ID, err)
	}
	return append(result, '\n'), nil
}

// Name returns the formatter's type name.
func (f *FragmentFormatter) Name() string {
	return "fragments"
}

// FormatBatch renders all fragment records as a JSON array.
func (f *FragmentFormatter) FormatBatch(fragments []core.Fragment) ([]byte, error) {
	if fragments == nil {
		fragments = []core.Fragment{}
	}
	return marshal(fragments, f.config.Pretty, int(f.config.Indent))
}
