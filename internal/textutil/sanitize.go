package textutil

import (
	"strings"
	"unicode"
)

// NormalizeTitle lowercases a title and strips every rune that is not a
// letter, digit, underscore, or whitespace. Match scoring compares normalized
// titles so punctuation never affects the similarity ratio.
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FileToken converts a display title into the dotted token used in derived
// filenames. Runes outside letters, digits, underscore, hyphen, and
// whitespace are dropped, then whitespace runs collapse to single dots.
func FileToken(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), ".")
}
