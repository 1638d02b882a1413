// FILE: jsonsieve/src/internal/source/stdin.go
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/lixenwraith/log"
	"golang.org/x/term"
)

var ErrInteractiveStdin = errors.New("stdin is a terminal; pipe input or pass file arguments")

// Reads one document from standard input
type StdinSource struct {
	reader      io.Reader
	interactive func() bool
	maxBytes    int64
	logger      *log.Logger

	totalDocuments atomic.Uint64
	totalBytes     atomic.Uint64
}

func NewStdinSource(maxBytes int64, logger *log.Logger) *StdinSource {
	return &StdinSource{
		reader: os.Stdin,
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// NewReaderSource reads one document from r, for pipes other than stdin
func NewReaderSource(r io.Reader, maxBytes int64, logger *log.Logger) *StdinSource {
	return &StdinSource{
		reader:      r,
		interactive: func() bool { return false },
		maxBytes:    maxBytes,
		logger:      logger,
	}
}

func (s *StdinSource) Documents(ctx context.Context) ([]Document, error) {
	if s.interactive() {
		return nil, ErrInteractiveStdin
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := readLimited(s.reader, s.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}

	s.totalDocuments.Add(1)
	s.totalBytes.Add(uint64(len(data)))

	s.logger.Debug("msg", "Read stdin",
		"component", "stdin_source",
		"bytes", len(data))

	return []Document{{Name: "stdin", Text: string(data)}}, nil
}

func (s *StdinSource) GetStats() SourceStats {
	return SourceStats{
		Type:           "stdin",
		TotalDocuments: s.totalDocuments.Load(),
		TotalBytes:     s.totalBytes.Load(),
		Details: map[string]any{
			"max_bytes": s.maxBytes,
		},
	}
}
