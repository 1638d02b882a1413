// FILE: jsonsieve/src/internal/extract/extract.go
package extract

import (
	"fmt"
	"strings"

	"jsonsieve/src/internal/core"
	"jsonsieve/src/internal/repair"

	"github.com/google/uuid"
	"github.com/lixenwraith/log"
)

// Mode selects how fragments are located and annotated
type Mode string

const (
	ModeGeneric Mode = "generic"
	ModeMoli    Mode = "moli"
)

// Options configures an Extractor
type Options struct {
	Mode       Mode
	DeepRepair bool
}

// Extractor locates JSON fragments in free-form text.
// It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	mode   Mode
	engine repair.Engine
	logger *log.Logger
}

// New creates an Extractor. A nil logger disables logging.
func New(opts Options, logger *log.Logger) (*Extractor, error) {
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}

	return &Extractor{
		mode:   mode,
		engine: repair.Engine{DeepRepair: opts.DeepRepair},
		logger: logger,
	}, nil
}

// ParseMode maps a configuration value to a Mode; empty means generic
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeGeneric:
		return ModeGeneric, nil
	case ModeMoli:
		return ModeMoli, nil
	default:
		return "", fmt.Errorf("unknown extraction mode: %s", s)
	}
}

// Extract runs generic extraction with default options
func Extract(text string) []core.Fragment {
	e := &Extractor{mode: ModeGeneric}
	return e.Generic(text)
}

// ExtractMoli runs MOLI extraction with default options
func ExtractMoli(text string) []core.Fragment {
	e := &Extractor{mode: ModeMoli}
	return e.Moli(text)
}

// Mode returns the configured extraction mode
func (e *Extractor) Mode() Mode {
	return e.mode
}

// Extract runs the configured mode over text
func (e *Extractor) Extract(text string) []core.Fragment {
	return e.ExtractMode(text, e.mode)
}

// ExtractMode runs the given mode over text, overriding the configured one
func (e *Extractor) ExtractMode(text string, mode Mode) []core.Fragment {
	if mode == ModeMoli {
		return e.Moli(text)
	}
	return e.Generic(text)
}

// Generic returns every closed top-level brace group in text, validated and
// repaired. An unterminated group at the end of text is dropped.
func (e *Extractor) Generic(text string) []core.Fragment {
	spans := scan(text, false)
	fragments := make([]core.Fragment, 0, len(spans))

	for _, sp := range spans {
		original := text[sp.start:sp.end]
		res := e.engine.ValidateAndRecover(original)

		fragments = append(fragments, core.Fragment{
			ID:            newID("json"),
			OriginalText:  original,
			RecoveredText: res.RecoveredText,
			ParsedData:    res.Data,
			IsValid:       res.IsValid,
			Warnings:      res.Warnings,
			StartIndex:    sp.start,
			EndIndex:      sp.end,
		})
	}

	e.logSummary(ModeGeneric, len(text), fragments)
	return fragments
}

func (e *Extractor) logSummary(mode Mode, inputLen int, fragments []core.Fragment) {
	if e.logger == nil {
		return
	}

	valid, repaired := 0, 0
	for _, f := range fragments {
		if f.IsValid {
			valid++
		}
		if f.Repaired() {
			repaired++
		}
	}

	e.logger.Debug("msg", "Extraction complete",
		"component", "extractor",
		"mode", mode,
		"input_bytes", inputLen,
		"fragments", len(fragments),
		"valid", valid,
		"repaired", repaired)
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
