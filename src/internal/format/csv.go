// FILE: jsonsieve/src/internal/format/csv.go
package format

import (
	"bytes"
	"fmt"

	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/core"
	"jsonsieve/src/internal/tabular"

	"github.com/lixenwraith/log"
)

// CSVFormatter renders flattened fragment data as CSV tables
type CSVFormatter struct {
	config config.OutputConfig
	logger *log.Logger
}

// Creates a new CSV formatter
func NewCSVFormatter(cfg config.OutputConfig, logger *log.Logger) (*CSVFormatter, error) {
	return &CSVFormatter{
		config: cfg,
		logger: logger,
	}, nil
}

// Writes one fragment as Path,Value,Type rows
func (f *CSVFormatter) Format(fragment core.Fragment) ([]byte, error) {
	if !fragment.IsValid {
		return nil, fmt.Errorf("fragment %s has no parsed data", fragment.ID)
	}

	var buf bytes.Buffer
	if err := tabular.WriteCSV(&buf, tabular.Flatten(fragment.ParsedData)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Writes every fragment into one table keyed by fragment position
func (f *CSVFormatter) FormatBatch(fragments []core.Fragment) ([]byte, error) {
	var buf bytes.Buffer
	if err := tabular.WriteFragmentsCSV(&buf, fragments); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Returns the formatter name
func (f *CSVFormatter) Name() string {
	return "csv"
}
