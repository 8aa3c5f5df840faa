package validators

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SanitizeString folds tabs and newlines to spaces, drops other control
// characters, trims, and caps the result at maxLen bytes without splitting a
// rune. Product names and search terms end up in LIKE patterns and log lines.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, input)
	cleaned = strings.TrimSpace(cleaned)
	if maxLen <= 0 || len(cleaned) <= maxLen {
		return cleaned
	}

	cut := maxLen
	for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
		cut--
	}
	return strings.TrimSpace(cleaned[:cut])
}
