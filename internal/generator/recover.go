package generator

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	bracedJSON = regexp.MustCompile(`(?s)\{.*\}`)
)

// RecoverJSON is the best-effort recovery adapter for upstream text that is
// not a bare JSON document. It tries the first fenced code block, then the
// span from the first '{' to the last '}'. ok is false when neither candidate
// is valid JSON.
//
// This is not the primary contract. Callers decode strictly first and reach
// for RecoverJSON only when lenient decoding is enabled.
func RecoverJSON(text string) (doc []byte, ok bool) {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		if candidate := strings.TrimSpace(m[1]); json.Valid([]byte(candidate)) {
			return []byte(candidate), true
		}
	}
	if m := bracedJSON.FindString(text); m != "" && json.Valid([]byte(m)) {
		return []byte(m), true
	}
	return nil, false
}

// decodeDocument returns text as a JSON document, strictly unless lenient.
func decodeDocument(text string, lenient bool) ([]byte, error) {
	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) {
		return []byte(trimmed), nil
	}
	if lenient {
		if doc, ok := RecoverJSON(text); ok {
			return doc, nil
		}
	}
	var probe any
	err := json.Unmarshal([]byte(trimmed), &probe)
	return nil, &ParseError{Raw: text, Err: err}
}
