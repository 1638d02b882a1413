// FILE: jsonsieve/src/internal/core/types.go
package core

// LogType is the direction of a MOLI HTTP-tracing record
type LogType string

const (
	LogTypeRequest  LogType = "request"
	LogTypeResponse LogType = "response"
	LogTypeUnknown  LogType = "unknown"
)

// Fragment is one brace-delimited JSON candidate found in the input text
type Fragment struct {
	ID            string        `json:"id"`
	OriginalText  string        `json:"originalText"`
	RecoveredText string        `json:"recoveredText"`
	ParsedData    any           `json:"parsedData,omitempty"`
	IsValid       bool          `json:"isValid"`
	Warnings      []string      `json:"warnings"`
	StartIndex    int           `json:"startIndex"`
	EndIndex      int           `json:"endIndex"`
	MoliMetadata  *MoliMetadata `json:"moliMetadata,omitempty"`
}

// Represents metadata derived from a MOLI log record
type MoliMetadata struct {
	LogType      LogType `json:"logType"`
	Service      string  `json:"service,omitempty"`
	Controller   string  `json:"controller,omitempty"`
	Timestamp    string  `json:"timestamp,omitempty"`
	TraceID      string  `json:"traceId,omitempty"`
	IsIncomplete bool    `json:"isIncomplete"`
}

// Repaired reports whether any repair heuristic touched the fragment
func (f Fragment) Repaired() bool {
	return len(f.Warnings) > 0
}
