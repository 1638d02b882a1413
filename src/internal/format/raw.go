// FILE: jsonsieve/src/internal/format/raw.go
package format

import (
	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/core"

	"github.com/lixenwraith/log"
)

// Outputs the recovered fragment text as-is with a newline
type RawFormatter struct {
	logger *log.Logger
}

// Creates a new raw formatter
func NewRawFormatter(_ config.OutputConfig, logger *log.Logger) (*RawFormatter, error) {
	return &RawFormatter{
		logger: logger,
	}, nil
}

// Returns the recovered text, or the original when repair produced nothing
func (f *RawFormatter) Format(fragment core.Fragment) ([]byte, error) {
	text := fragment.RecoveredText
	if text == "" {
		text = fragment.OriginalText
	}
	return append([]byte(text), '\n'), nil
}

// Returns every fragment on its own line block
func (f *RawFormatter) FormatBatch(fragments []core.Fragment) ([]byte, error) {
	var out []byte
	for _, fragment := range fragments {
		line, _ := f.Format(fragment)
		out = append(out, line...)
	}
	return out, nil
}

// Returns the formatter name
func (f *RawFormatter) Name() string {
	return "raw"
}
