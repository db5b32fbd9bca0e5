package internal

import (
	"strings"
	"unicode"
)

// SanitizeFilename creates a safe filename fragment from free text such as
// a headline. Letters and digits from any script are kept, everything else
// collapses to single underscores.
func SanitizeFilename(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}
