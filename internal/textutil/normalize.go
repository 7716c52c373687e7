package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// apostropheReplacer folds typographic apostrophes onto the ASCII one.
var apostropheReplacer = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"ʼ", "'",
)

// NormalizeToken canonicalizes a word for comparison: diacritics are folded,
// letters are lowercased, and every character outside [a-z0-9'] is removed.
func NormalizeToken(text string) string {
	if text == "" {
		return ""
	}
	folded := foldDiacritics(apostropheReplacer.Replace(text))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '\'':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TokenizeEdit splits freeform edited text on whitespace and returns the
// non-empty normalized tokens in order.
func TokenizeEdit(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if token := NormalizeToken(field); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func foldDiacritics(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}
