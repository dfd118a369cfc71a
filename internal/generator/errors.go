// Package generator synthesizes trip content: day-by-day itineraries,
// categorized packing lists, recommendation sets and note summaries.
//
// Everything here is a pure function of its input except LLMPlanner, which
// delegates to an external text-generation API and validates what comes back.
package generator

import (
	"fmt"
	"strings"
)

// InputError reports a missing or invalid request field. It is raised before
// any generation runs.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string { return e.Message }

func missingField(name string) *InputError {
	return &InputError{Field: name, Message: "Missing required field: " + name}
}

func invalidField(name, format string, args ...any) *InputError {
	return &InputError{Field: name, Message: fmt.Sprintf(format, args...)}
}

// ParseError means the upstream text could not be decoded as JSON.
// Raw holds the text exactly as received.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("AI response was not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError lists every structural problem found in a decoded
// itinerary. The itinerary is rejected as a whole.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "Validation failed: " + strings.Join(e.Problems, "; ")
}
