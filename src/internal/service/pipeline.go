// FILE: jsonsieve/src/internal/service/pipeline.go
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"jsonsieve/src/internal/core"
	"jsonsieve/src/internal/format"
	"jsonsieve/src/internal/source"

	"github.com/lixenwraith/log"
)

// Pipeline moves documents from a source through the processor to a writer
type Pipeline struct {
	Source    source.Source
	Processor *Processor
	Formatter format.Formatter
	Output    io.Writer
	logger    *log.Logger
}

// RunResult summarizes one pipeline run
type RunResult struct {
	Documents int
	Fragments int
	Valid     int
	Invalid   int
	Written   int
	Duration  time.Duration
}

func NewPipeline(src source.Source, proc *Processor, formatter format.Formatter, out io.Writer, logger *log.Logger) (*Pipeline, error) {
	if src == nil {
		return nil, fmt.Errorf("pipeline requires a source")
	}
	if proc == nil {
		return nil, fmt.Errorf("pipeline requires a processor")
	}
	if formatter == nil {
		return nil, fmt.Errorf("pipeline requires a formatter")
	}
	if out == nil {
		return nil, fmt.Errorf("pipeline requires an output writer")
	}

	return &Pipeline{
		Source:    src,
		Processor: proc,
		Formatter: formatter,
		Output:    out,
		logger:    logger,
	}, nil
}

// Run processes every document and writes the formatted batch.
// Documents that are blank or hold no fragment are skipped; the run fails
// with ErrEmptyInput or ErrNoFragments only when no document produced any.
func (p *Pipeline) Run(ctx context.Context) (RunResult, error) {
	start := time.Now()
	var result RunResult

	docs, err := p.Source.Documents(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to read input: %w", err)
	}
	result.Documents = len(docs)

	var (
		all      []core.Fragment
		found    bool
		nonEmpty bool
	)

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fragments, err := p.Processor.Process(doc.Text)
		switch {
		case errors.Is(err, ErrEmptyInput):
			p.logger.Debug("msg", "Skipping empty document",
				"component", "pipeline",
				"document", doc.Name)
			continue
		case errors.Is(err, ErrNoFragments):
			nonEmpty = true
			p.logger.Info("msg", "No JSON objects found",
				"component", "pipeline",
				"document", doc.Name)
			continue
		case err != nil:
			return result, fmt.Errorf("failed to process %s: %w", doc.Name, err)
		}

		nonEmpty = true
		found = true
		all = append(all, fragments...)
	}

	switch {
	case !nonEmpty:
		return result, ErrEmptyInput
	case !found:
		return result, ErrNoFragments
	}

	for _, f := range all {
		if f.IsValid {
			result.Valid++
		} else {
			result.Invalid++
		}
	}
	result.Fragments = len(all)

	out, err := p.Formatter.FormatBatch(all)
	if err != nil {
		return result, fmt.Errorf("failed to format output: %w", err)
	}

	n, err := p.Output.Write(out)
	result.Written = n
	if err != nil {
		return result, fmt.Errorf("failed to write output: %w", err)
	}

	result.Duration = time.Since(start)

	p.logger.Info("msg", "Pipeline run complete",
		"component", "pipeline",
		"source", p.Source.GetStats().Type,
		"formatter", p.Formatter.Name(),
		"documents", result.Documents,
		"fragments", result.Fragments,
		"valid", result.Valid,
		"invalid", result.Invalid,
		"bytes_written", result.Written,
		"duration", result.Duration)

	return result, nil
}
