// FILE: jsonsieve/src/internal/extract/scanner.go
package extract

// span is a top-level brace group located in the input, end exclusive
type span struct {
	start  int
	end    int
	closed bool
}

// scan walks text once, tracking brace depth outside string literals.
// Only outermost groups are reported, in order of their opening brace.
// With keepTrailing, a group still open at end of input is reported unclosed.
func scan(text string, keepTrailing bool) []span {
	var spans []span
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		// A backslash only suppresses the quote toggle; braces always count
		prev := escaped
		escaped = false

		switch text[i] {
		case '\\':
			escaped = !prev

		case '"':
			if !prev {
				inString = !inString
			}

		case '{':
			if inString {
				continue
			}
			if depth == 0 {
				start = i
			}
			depth++

		case '}':
			// A stray closer at depth 0 is noise, not structure
			if inString || depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				spans = append(spans, span{start: start, end: i + 1, closed: true})
				start = -1
			}
		}
	}

	if keepTrailing && depth > 0 && start >= 0 {
		spans = append(spans, span{start: start, end: len(text)})
	}

	return spans
}

// unterminated reports whether text opens a brace group it never closes
func unterminated(text string) bool {
	spans := scan(text, true)
	return len(spans) > 0 && !spans[len(spans)-1].closed
}
