// FILE: jsonsieve/src/internal/repair/repair.go
package repair

import (
	"github.com/kaptinlin/jsonrepair"
)

// Result is the outcome of validating and, if needed, repairing one fragment
type Result struct {
	Data          any
	IsValid       bool
	Warnings      []string
	RecoveredText string
}

// Engine validates fragments and applies the repair heuristics.
// The zero value runs the heuristic pass only.
type Engine struct {
	// DeepRepair hands text the heuristics could not fix to jsonrepair
	DeepRepair bool
}

// ValidateAndRecover validates text with the zero-value Engine
func ValidateAndRecover(text string) Result {
	return Engine{}.ValidateAndRecover(text)
}

// ValidateAndRecover parses text directly and falls back to the repair pass.
// Malformed input is reported through the result, never as an error.
func (e Engine) ValidateAndRecover(text string) Result {
	if data, err := Parse(text); err == nil {
		return Result{
			Data:          data,
			IsValid:       true,
			Warnings:      []string{},
			RecoveredText: text,
		}
	}

	repaired, warnings := Repair(text)

	data, err := Parse(repaired)
	if err == nil {
		return Result{
			Data:          data,
			IsValid:       true,
			Warnings:      warnings,
			RecoveredText: repaired,
		}
	}

	if e.DeepRepair {
		if res, ok := deepRepair(repaired, warnings); ok {
			return res
		}
	}

	return Result{
		IsValid:       false,
		Warnings:      append(warnings, FailedToParsePrefix+err.Error()),
		RecoveredText: repaired,
	}
}

func deepRepair(text string, warnings []string) (Result, bool) {
	fixed, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return Result{}, false
	}

	data, err := Parse(fixed)
	if err != nil {
		return Result{}, false
	}

	return Result{
		Data:          data,
		IsValid:       true,
		Warnings:      append(warnings, WarnDeepRepair),
		RecoveredText: fixed,
	}, true
}
