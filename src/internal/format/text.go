// FILE: jsonsieve/src/internal/format/text.go
package format

import (
	"fmt"
	"strings"

	"jsonsieve/src/internal/config"
	"jsonsieve/src/internal/core"

	"github.com/charmbracelet/lipgloss"
	"github.com/lixenwraith/log"
)

var (
	styleHeader   = lipgloss.NewStyle().Bold(true)
	styleValid    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)  // green
	styleRepaired = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true) // yellow
	styleInvalid  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) // red
	styleMeta     = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true) // cyan
	styleWarning  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// TextFormatter produces a human-readable report per fragment
type TextFormatter struct {
	config config.OutputConfig
	logger *log.Logger
}

// Creates a new text formatter
func NewTextFormatter(cfg config.OutputConfig, logger *log.Logger) (*TextFormatter, error) {
	if cfg.Indent <= 0 {
		cfg.Indent = 2
	}
	return &TextFormatter{
		config: cfg,
		logger: logger,
	}, nil
}

// Formats one fragment report
func (f *TextFormatter) Format(fragment core.Fragment) ([]byte, error) {
	return []byte(f.block(fragment, 0)), nil
}

// Formats every fragment report followed by a totals line
func (f *TextFormatter) FormatBatch(fragments []core.Fragment) ([]byte, error) {
	var b strings.Builder
	valid, repaired := 0, 0

	for i, fragment := range fragments {
		b.WriteString(f.block(fragment, i+1))
		b.WriteByte('\n')
		if fragment.IsValid {
			valid++
			if fragment.Repaired() {
				repaired++
			}
		}
	}

	summary := fmt.Sprintf("%d fragments: %d valid (%d repaired), %d invalid",
		len(fragments), valid, repaired, len(fragments)-valid)
	b.WriteString(f.paint(styleDim, summary))
	b.WriteByte('\n')

	return []byte(b.String()), nil
}

// Returns the formatter name
func (f *TextFormatter) Name() string {
	return "txt"
}

func (f *TextFormatter) block(fragment core.Fragment, n int) string {
	var b strings.Builder

	header := fmt.Sprintf("%s [%d:%d]", fragment.ID, fragment.StartIndex, fragment.EndIndex)
	if n > 0 {
		header = fmt.Sprintf("#%d %s", n, header)
	}
	b.WriteString(f.paint(styleHeader, header))
	b.WriteByte(' ')
	b.WriteString(f.status(fragment))
	b.WriteByte('\n')

	if meta := fragment.MoliMetadata; meta != nil {
		b.WriteString("  ")
		b.WriteString(f.paint(styleMeta, describeMoli(meta)))
		b.WriteByte('\n')
	}

	for _, w := range fragment.Warnings {
		b.WriteString("  ")
		b.WriteString(f.paint(styleWarning, "! "+w))
		b.WriteByte('\n')
	}

	body := fragment.RecoveredText
	if fragment.IsValid {
		if pretty, err := Beautify(fragment.ParsedData, int(f.config.Indent)); err == nil {
			body = pretty
		} else {
			f.logger.Debug("msg", "Beautify failed, using recovered text",
				"component", "text_formatter",
				"fragment_id", fragment.ID,
				"error", err)
		}
	}
	for _, line := range strings.Split(body, "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return b.String()
}

func (f *TextFormatter) status(fragment core.Fragment) string {
	switch {
	case !fragment.IsValid:
		return f.paint(styleInvalid, "INVALID")
	case fragment.Repaired():
		return f.paint(styleRepaired, "REPAIRED")
	default:
		return f.paint(styleValid, "VALID")
	}
}

func describeMoli(meta *core.MoliMetadata) string {
	parts := []string{"type=" + string(meta.LogType)}
	for _, kv := range [][2]string{
		{"service", meta.Service},
		{"controller", meta.Controller},
		{"timestamp", meta.Timestamp},
		{"trace", meta.TraceID},
	} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+"="+kv[1])
		}
	}
	if meta.IsIncomplete {
		parts = append(parts, "incomplete")
	}
	return strings.Join(parts, " ")
}

func (f *TextFormatter) paint(style lipgloss.Style, s string) string {
	if !f.config.Color {
		return s
	}
	return style.Render(s)
}
