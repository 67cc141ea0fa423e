package models

import (
	"strings"
	"unicode"
)

// Slugify derives the canonical slug form of a name or title: lowercase,
// alphanumeric runs joined by single hyphens, nothing else. "OpenAI Inc." and
// "openai" both slug to "openai" (after suffix stripping by the resolver).
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
