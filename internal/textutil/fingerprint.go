package textutil

import (
	"math"
	"regexp"
	"strings"
)

// termSplitPattern matches separators between fingerprint terms. Apostrophes
// stay inside terms so contractions count as one term.
var termSplitPattern = regexp.MustCompile(`[^a-z0-9']+`)

// Fingerprint is a term-frequency vector used to compare two passages.
type Fingerprint struct {
	terms map[string]float64
	norm  float64
}

// NewFingerprint creates a fingerprint from the provided text.
// Returns nil if the text produces no valid terms.
func NewFingerprint(text string) *Fingerprint {
	terms := Terms(text)
	if len(terms) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(terms))
	for _, term := range terms {
		counts[term]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{
		terms: counts,
		norm:  math.Sqrt(norm),
	}
}

// Terms splits text into diacritic-folded lowercase terms, dropping terms
// shorter than 3 characters.
func Terms(text string) []string {
	lowered := strings.ToLower(foldDiacritics(apostropheReplacer.Replace(text)))
	raw := termSplitPattern.Split(lowered, -1)
	out := make([]string, 0, len(raw))
	for _, term := range raw {
		term = strings.Trim(term, "'")
		if len(term) < 3 {
			continue
		}
		out = append(out, term)
	}
	return out
}

// TermCount returns the number of unique terms in the fingerprint.
func (f *Fingerprint) TermCount() int {
	if f == nil {
		return 0
	}
	return len(f.terms)
}
