package engine

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes free-form customer text for keyword and pattern
// matching: lower-case, trimmed, with diacritical marks stripped so that
// "amanhã" and "amanha" compare equal. Idempotent.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	// Decompose accented letters, then drop the combining marks.
	text = norm.NFD.String(text)
	text = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, text)

	return norm.NFC.String(text)
}

// containsAny reports whether any of the given normalized keywords occurs in
// the normalized text.
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// equalsAny reports whether the normalized text is exactly one of the given
// keywords.
func equalsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if text == kw {
			return true
		}
	}
	return false
}
