// FILE: jsonsieve/src/internal/repair/strings.go
package repair

import "strings"

// segment is a run of text that is either entirely inside a string literal
// (quotes included) or entirely outside one
type segment struct {
	text     string
	inString bool
	closed   bool
}

// splitStrings cuts text at string literal boundaries.
// A backslash escapes the following byte, so only unescaped quotes
// delimit literals. Braces outside literals are counted regardless.
func splitStrings(text string) []segment {
	var segs []segment
	start := 0
	inString := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if c == '\\' {
			i++
			continue
		}
		if c != '"' {
			continue
		}

		if inString {
			segs = append(segs, segment{text: text[start : i+1], inString: true, closed: true})
			start = i + 1
			inString = false
			continue
		}

		if i > start {
			segs = append(segs, segment{text: text[start:i]})
		}
		start = i
		inString = true
	}

	if start < len(text) {
		segs = append(segs, segment{text: text[start:], inString: inString})
	}

	return segs
}

// mapOutside rewrites only the parts of text that lie outside string literals
func mapOutside(text string, fn func(string) string) string {
	segs := splitStrings(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, seg := range segs {
		if seg.inString {
			b.WriteString(seg.text)
		} else {
			b.WriteString(fn(seg.text))
		}
	}
	return b.String()
}

// countOutside counts occurrences of c outside string literals
func countOutside(text string, c byte) int {
	n := 0
	for _, seg := range splitStrings(text) {
		if !seg.inString {
			n += strings.Count(seg.text, string(c))
		}
	}
	return n
}

// countQuotes counts unescaped double quotes
func countQuotes(text string) int {
	n := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '"':
			n++
		}
	}
	return n
}
