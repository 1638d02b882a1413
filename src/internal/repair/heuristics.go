// FILE: jsonsieve/src/internal/repair/heuristics.go
package repair

import (
	"regexp"
	"strings"
)

// Warnings recorded by the repair pass, in the order the steps run
const (
	WarnTrailingCommas  = "Removed trailing commas"
	WarnUnquotedKeys    = "Fixed unquoted keys"
	WarnUnmatchedQuotes = "Closed unmatched quotes"
	WarnMissingBraces   = "Added missing closing braces"
	WarnExcessBraces    = "Removed excessive closing braces"
	WarnMissingBrackets = "Added missing closing brackets"
	WarnMissingCommas   = "Inserted missing commas"
	WarnTrailingContent = "Trimmed trailing non-JSON content"
	WarnDeepRepair      = "Applied deep repair"
)

// FailedToParsePrefix starts the final warning of an unrecoverable fragment
const FailedToParsePrefix = "Failed to parse JSON: "

// JSON insignificant whitespace; trimming anything wider could turn
// unparseable text valid without a warning.
const jsonWhitespaceCutset = " \t\r\n"

var (
	lineTrailingSpace = regexp.MustCompile(`(?m)[ \t]+(\r?)$`)
	trailingComma     = regexp.MustCompile(`[ \t]*,(\s*[}\]])`)
	unquotedKey       = regexp.MustCompile(`([{,]\s*)([A-Za-z0-9_]+)(\s*):`)
)

// step is one textual transform paired with the warning it records on change
type step struct {
	warning string
	apply   func(string) (string, string)
}

// steps run in a fixed order: structural balancing comes before comma
// insertion, and truncation comes last so it sees balanced text.
var steps = []step{
	{apply: trimWhitespace},
	{warning: WarnTrailingCommas, apply: removeTrailingCommas},
	{warning: WarnUnquotedKeys, apply: quoteKeys},
	{warning: WarnUnmatchedQuotes, apply: closeQuotes},
	{apply: balanceBraces},
	{warning: WarnMissingBrackets, apply: balanceBrackets},
	{warning: WarnMissingCommas, apply: insertCommas},
	{warning: WarnTrailingContent, apply: trimTrailingContent},
}

// Repair applies the heuristic transforms to text and returns the result
// together with one warning per transform that changed it.
func Repair(text string) (string, []string) {
	warnings := []string{}
	for _, s := range steps {
		next, warning := s.apply(text)
		if next == text {
			continue
		}
		if warning == "" {
			warning = s.warning
		}
		if warning != "" {
			warnings = append(warnings, warning)
		}
		text = next
	}
	return text, warnings
}

func trimWhitespace(text string) (string, string) {
	text = strings.Trim(text, jsonWhitespaceCutset)
	return lineTrailingSpace.ReplaceAllString(text, "$1"), ""
}

// Blanks before the comma go with it, or the line would end in whitespace
// the first step already stripped.
func removeTrailingCommas(text string) (string, string) {
	return mapOutside(text, func(s string) string {
		return trailingComma.ReplaceAllString(s, "$1")
	}), ""
}

func quoteKeys(text string) (string, string) {
	return mapOutside(text, func(s string) string {
		return unquotedKey.ReplaceAllString(s, `$1"$2"$3:`)
	}), ""
}

func closeQuotes(text string) (string, string) {
	if countQuotes(text)%2 != 0 {
		return text + `"`, ""
	}
	return text, ""
}

func balanceBraces(text string) (string, string) {
	opens := countOutside(text, '{')
	closes := countOutside(text, '}')

	switch {
	case opens > closes:
		return text + strings.Repeat("}", opens-closes), WarnMissingBraces
	case closes > opens && strings.HasSuffix(text, "}"):
		return text[:len(text)-1], WarnExcessBraces
	}
	return text, ""
}

func balanceBrackets(text string) (string, string) {
	opens := countOutside(text, '[')
	closes := countOutside(text, ']')
	if opens > closes {
		return text + strings.Repeat("]", opens-closes), ""
	}
	return text, ""
}

// insertCommas adds a comma between a closed string literal and a string
// literal that follows it after nothing but whitespace.
func insertCommas(text string) (string, string) {
	segs := splitStrings(text)

	var b strings.Builder
	b.Grow(len(text) + 8)

	for i, seg := range segs {
		b.WriteString(seg.text)
		if !seg.inString || !seg.closed || i+1 >= len(segs) {
			continue
		}

		next := segs[i+1]
		switch {
		case next.inString:
			b.WriteByte(',')
		case strings.Trim(next.text, jsonWhitespaceCutset) == "" && i+2 < len(segs) && segs[i+2].inString:
			b.WriteByte(',')
		}
	}

	return b.String(), ""
}

func trimTrailingContent(text string) (string, string) {
	last := strings.LastIndexByte(text, '}')
	if last != -1 && last != len(text)-1 {
		return text[:last+1], ""
	}
	return text, ""
}
