// FILE: jsonsieve/src/internal/source/source.go
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Document is one unit of input text handed to extraction
type Document struct {
	Name string
	Text string
}

// Source produces input documents
type Source interface {
	// Reads every document the source holds
	Documents(ctx context.Context) ([]Document, error)

	// Returns source statistics
	GetStats() SourceStats
}

// Contains statistics about a source
type SourceStats struct {
	Type           string
	TotalDocuments uint64
	TotalBytes     uint64
	Details        map[string]any
}

var ErrInputTooLarge = errors.New("input exceeds size limit")

// readLimited reads r fully, failing once more than maxBytes arrive.
// maxBytes <= 0 disables the limit.
func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, maxBytes)
	}
	return data, nil
}
