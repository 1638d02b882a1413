// FILE: jsonsieve/src/internal/format/format.go
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/core"

	"github.com/lixenwraith/log"
)

// Formatter defines the interface for rendering fragments into bytes.
type Formatter interface {
	// Format renders a single fragment.
	Format(fragment core.Fragment) ([]byte, error)

	// FormatBatch renders a whole extraction result.
	FormatBatch(fragments []core.Fragment) ([]byte, error)

	// Name returns the formatter type name
	Name() string
}

// New creates a new Formatter based on the output configuration.
func New(cfg config.OutputConfig, logger *log.Logger) (Formatter, error) {
	switch cfg.Format {
	case "", "json":
		return NewJSONFormatter(cfg, logger)
	case "fragments":
		return NewFragmentFormatter(cfg, logger)
	case "csv":
		return NewCSVFormatter(cfg, logger)
	case "txt":
		return NewTextFormatter(cfg, logger)
	case "raw":
		return NewRawFormatter(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", cfg.Format)
	}
}

// Beautify renders a parsed value as indented JSON without a trailing newline
func Beautify(data any, indent int) (string, error) {
	out, err := marshal(data, true, indent)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

// marshal encodes v with a trailing newline, leaving <, > and & unescaped
func marshal(v any, pretty bool, indent int) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return buf.Bytes(), nil
}
