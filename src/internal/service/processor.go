// FILE: jsonsieve/src/internal/service/processor.go
package service

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/core"
	"jsonsieve/src/internal/extract"
	"jsonsieve/src/internal/filter"

	"github.com/lixenwraith/log"
)

var (
	ErrEmptyInput   = errors.New("no text to process")
	ErrNoFragments  = errors.New("no JSON objects found in the input text")
	errNilProcessor = errors.New("processor is nil")
)

// Processor runs extraction and filtering over input text.
// Shared by the CLI pipeline and both network servers.
type Processor struct {
	extractor *extract.Extractor
	chain     *filter.Chain
	logger    *log.Logger
	stats     ProcessorStats
}

// ProcessorStats counts work done since the processor was created
type ProcessorStats struct {
	StartTime           time.Time
	TotalDocuments      atomic.Uint64
	EmptyDocuments      atomic.Uint64
	NoFragmentDocuments atomic.Uint64
	TotalFragments      atomic.Uint64
	ValidFragments      atomic.Uint64
	RepairedFragments   atomic.Uint64
	InvalidFragments    atomic.Uint64
	FilteredFragments   atomic.Uint64
}

func NewProcessor(cfg *config.Config, logger *log.Logger) (*Processor, error) {
	extractor, err := extract.New(extract.Options{
		Mode:       extract.Mode(cfg.Extract.Mode),
		DeepRepair: cfg.Extract.DeepRepair,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	chain, err := filter.NewChain(cfg.Filters, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create filter chain: %w", err)
	}

	p := &Processor{
		extractor: extractor,
		chain:     chain,
		logger:    logger,
	}
	p.stats.StartTime = time.Now()

	logger.Debug("msg", "Processor created",
		"component", "processor",
		"mode", extractor.Mode(),
		"deep_repair", cfg.Extract.DeepRepair,
		"filters", chain.Len())

	return p, nil
}

// Mode returns the configured extraction mode
func (p *Processor) Mode() extract.Mode {
	return p.extractor.Mode()
}

// Process extracts fragments in the configured mode
func (p *Processor) Process(text string) ([]core.Fragment, error) {
	if p == nil {
		return nil, errNilProcessor
	}
	return p.ProcessMode(text, p.extractor.Mode())
}

// ProcessMode extracts fragments in the given mode and applies the filter chain.
// Blank text yields ErrEmptyInput; text without any fragment yields ErrNoFragments.
// Fragments removed by filters are not an error.
func (p *Processor) ProcessMode(text string, mode extract.Mode) ([]core.Fragment, error) {
	if p == nil {
		return nil, errNilProcessor
	}

	p.stats.TotalDocuments.Add(1)

	if strings.TrimSpace(text) == "" {
		p.stats.EmptyDocuments.Add(1)
		return nil, ErrEmptyInput
	}

	fragments := p.extractor.ExtractMode(text, mode)
	if len(fragments) == 0 {
		p.stats.NoFragmentDocuments.Add(1)
		return nil, ErrNoFragments
	}

	p.stats.TotalFragments.Add(uint64(len(fragments)))
	for _, f := range fragments {
		switch {
		case !f.IsValid:
			p.stats.InvalidFragments.Add(1)
		case f.Repaired():
			p.stats.RepairedFragments.Add(1)
			p.stats.ValidFragments.Add(1)
		default:
			p.stats.ValidFragments.Add(1)
		}
	}

	selected := p.chain.Select(fragments)
	if dropped := len(fragments) - len(selected); dropped > 0 {
		p.stats.FilteredFragments.Add(uint64(dropped))
	}

	return selected, nil
}

// GetStats returns processing statistics
func (p *Processor) GetStats() map[string]any {
	return map[string]any{
		"mode":               string(p.extractor.Mode()),
		"uptime_seconds":     int(time.Since(p.stats.StartTime).Seconds()),
		"total_documents":    p.stats.TotalDocuments.Load(),
		"empty_documents":    p.stats.EmptyDocuments.Load(),
		"documents_no_json":  p.stats.NoFragmentDocuments.Load(),
		"total_fragments":    p.stats.TotalFragments.Load(),
		"valid_fragments":    p.stats.ValidFragments.Load(),
		"repaired_fragments": p.stats.RepairedFragments.Load(),
		"invalid_fragments":  p.stats.InvalidFragments.Load(),
		"filtered_fragments": p.stats.FilteredFragments.Load(),
		"filters":            p.chain.GetStats(),
	}
}
