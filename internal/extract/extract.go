// Package extract recovers machine-readable JSON from free-form model output.
//
// Generation replies are frequently wrapped in markdown fences or conversational
// filler. CleanJSON trims that down to the outermost JSON array or object using a
// last-closing-bracket heuristic. It assumes well-formed nesting and can be fooled
// by bracket characters inside string values, so callers must treat a subsequent
// parse failure as a recoverable error.
package extract

import (
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?i)```json")

// CleanJSON strips markdown code fences and returns the best-effort JSON
// substring of s. If no opening bracket is found, the cleaned text is returned
// unchanged and parsing is left to fail downstream.
func CleanJSON(s string) string {
	if s == "" {
		return ""
	}

	cleaned := fenceRe.ReplaceAllString(s, "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	firstSquare := strings.Index(cleaned, "[")
	firstCurly := strings.Index(cleaned, "{")

	// Whichever bracket occurs first decides whether the payload is an array
	// or an object.
	if firstSquare != -1 && (firstCurly == -1 || firstSquare < firstCurly) {
		// The last closer must sit after the opener, otherwise the brackets do
		// not delimit a payload at all.
		if end := strings.LastIndex(cleaned, "]"); end > firstSquare {
			return cleaned[firstSquare : end+1]
		}
	} else if firstCurly != -1 {
		if end := strings.LastIndex(cleaned, "}"); end > firstCurly {
			return cleaned[firstCurly : end+1]
		}
	}

	return cleaned
}
