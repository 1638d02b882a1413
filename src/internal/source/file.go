// FILE: jsonsieve/src/internal/source/file.go
package source

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/lixenwraith/log"
)

// Reads one document per file named by paths or glob patterns
type FileSource struct {
	patterns []string
	maxBytes int64
	logger   *log.Logger

	totalDocuments atomic.Uint64
	totalBytes     atomic.Uint64
}

func NewFileSource(patterns []string, maxBytes int64, logger *log.Logger) (*FileSource, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("file source requires at least one path")
	}

	for _, p := range patterns {
		if !doublestar.ValidatePathPattern(p) {
			return nil, fmt.Errorf("invalid glob pattern: %s", p)
		}
	}

	return &FileSource{
		patterns: patterns,
		maxBytes: maxBytes,
		logger:   logger,
	}, nil
}

// Expand resolves patterns to file paths in argument order without duplicates.
// Supports recursive patterns like logs/**/*.log.
func (s *FileSource) Expand() ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range s.patterns {
		var matches []string

		if hasMeta(pattern) {
			found, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
			if err != nil {
				return nil, fmt.Errorf("failed to expand %s: %w", pattern, err)
			}
			if len(found) == 0 {
				return nil, fmt.Errorf("pattern matched no files: %s", pattern)
			}
			sort.Strings(found)
			matches = found
		} else {
			info, err := os.Stat(pattern)
			if err != nil {
				return nil, fmt.Errorf("failed to stat %s: %w", pattern, err)
			}
			if info.IsDir() {
				return nil, fmt.Errorf("%s is a directory; use a glob such as %s/**/*.log", pattern, pattern)
			}
			matches = []string{pattern}
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}

	return paths, nil
}

func (s *FileSource) Documents(ctx context.Context) ([]Document, error) {
	paths, err := s.Expand()
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := s.readFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{Name: path, Text: text})
	}

	s.logger.Debug("msg", "Read input files",
		"component", "file_source",
		"files", len(docs))

	return docs, nil
}

func (s *FileSource) readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	data, err := readLimited(f, s.maxBytes)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	s.totalDocuments.Add(1)
	s.totalBytes.Add(uint64(len(data)))
	return string(data), nil
}

func (s *FileSource) GetStats() SourceStats {
	return SourceStats{
		Type:           "file",
		TotalDocuments: s.totalDocuments.Load(),
		TotalBytes:     s.totalBytes.Load(),
		Details: map[string]any{
			"patterns":  s.patterns,
			"max_bytes": s.maxBytes,
		},
	}
}

func hasMeta(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
