package textutil

import (
	"strings"
	"unicode/utf8"
)

// closingMarks may trail terminal punctuation, as in `done."` or `(right?)`.
const closingMarks = "\"'”’)]}»"

// EndsWithPunctuation reports whether text ends with one of the runes in set,
// optionally followed by closing quotes or brackets.
func EndsWithPunctuation(text, set string) bool {
	text = strings.TrimRight(strings.TrimSpace(text), closingMarks)
	if text == "" || set == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(text)
	return strings.ContainsRune(set, last)
}

// FirstLetter returns the first letter or digit in text, skipping leading
// quotes and brackets. The boolean is false when text has none.
func FirstLetter(text string) (rune, bool) {
	for _, r := range text {
		if strings.ContainsRune(`"'“‘([{¿¡-`, r) {
			continue
		}
		return r, true
	}
	return 0, false
}
