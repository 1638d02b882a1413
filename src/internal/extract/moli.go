// FILE: jsonsieve/src/internal/extract/moli.go
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"jsonsieve/src/internal/core"
)

// Upstream log buffering cuts MOLI records mid-object; these mark the cut
var (
	trailingOpenBrace = regexp.MustCompile(`\{\s*$`)
	ellipsisMarker    = "..."
)

// Moli returns every top-level brace group in text with MOLI metadata.
// Unlike Generic, a group still open at the end of text becomes a fragment.
func (e *Extractor) Moli(text string) []core.Fragment {
	spans := scan(text, true)
	fragments := make([]core.Fragment, 0, len(spans))

	for _, sp := range spans {
		if f, ok := e.moliFragment(text[sp.start:sp.end], sp.start); ok {
			fragments = append(fragments, f)
		}
	}

	e.logSummary(ModeMoli, len(text), fragments)
	return fragments
}

func (e *Extractor) moliFragment(raw string, start int) (core.Fragment, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return core.Fragment{}, false
	}

	if last := strings.LastIndexByte(cleaned, '}'); last != -1 && last != len(cleaned)-1 {
		cleaned = cleaned[:last+1]
	}

	res := e.engine.ValidateAndRecover(cleaned)
	meta := MoliMetadataFor(res.Data, cleaned)
	if unterminated(raw) {
		meta.IsIncomplete = true
	}

	return core.Fragment{
		ID:            newID("moli"),
		OriginalText:  raw,
		RecoveredText: res.RecoveredText,
		ParsedData:    res.Data,
		IsValid:       res.IsValid,
		Warnings:      res.Warnings,
		StartIndex:    start,
		EndIndex:      start + len(raw),
		MoliMetadata:  &meta,
	}, true
}

// MoliMetadataFor derives MOLI metadata from parsed data and the fragment text
func MoliMetadataFor(data any, original string) core.MoliMetadata {
	meta := core.MoliMetadata{LogType: core.LogTypeUnknown}

	if obj, ok := data.(map[string]any); ok {
		if msg, ok := obj["message"].(string); ok {
			switch strings.ToLower(msg) {
			case "request":
				meta.LogType = core.LogTypeRequest
			case "response":
				meta.LogType = core.LogTypeResponse
			}
		}

		meta.Service = stringField(obj, "service")
		meta.Timestamp = stringField(obj, "timestamp")
		meta.TraceID = stringField(obj, "xray_trace_id")

		if gc, ok := obj["globalContext"].(map[string]any); ok {
			meta.Controller = stringField(gc, "controller")
		}
	}

	meta.IsIncomplete = data == nil || truncated(original)
	return meta
}

// truncated reports textual signs that a record was cut short
func truncated(text string) bool {
	return strings.Contains(text, ellipsisMarker) ||
		trailingOpenBrace.MatchString(text) ||
		unterminated(text)
}

func stringField(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
