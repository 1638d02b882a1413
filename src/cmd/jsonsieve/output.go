// FILE: jsonsieve/src/cmd/jsonsieve/output.go
package main

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// OutputHandler writes user-facing console messages, honoring quiet mode.
// Extracted data never goes through it.
type OutputHandler struct {
	quiet  bool
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer
}

// Global output handler instance
var output *OutputHandler

func InitOutputHandler(quiet bool) {
	output = NewOutputHandler(quiet, os.Stdout, os.Stderr)
}

func NewOutputHandler(quiet bool, stdout, stderr io.Writer) *OutputHandler {
	return &OutputHandler{
		quiet:  quiet,
		stdout: stdout,
		stderr: stderr,
	}
}

// Writes to stdout if not in quiet mode
func (o *OutputHandler) Print(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.quiet {
		fmt.Fprintf(o.stdout, format, args...)
	}
}

// Writes to stderr if not in quiet mode
func (o *OutputHandler) Error(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.quiet {
		fmt.Fprintf(o.stderr, format, args...)
	}
}

// Writes to stderr and exits
func (o *OutputHandler) FatalError(code int, format string, args ...any) {
	o.Error(format, args...)
	os.Exit(code)
}

func Error(format string, args ...any) {
	if output != nil {
		output.Error(format, args...)
	}
}

func FatalError(code int, format string, args ...any) {
	if output != nil {
		output.FatalError(code, format, args...)
	} else {
		// Handler not initialized yet
		fmt.Fprintf(os.Stderr, format, args...)
		os.Exit(code)
	}
}
