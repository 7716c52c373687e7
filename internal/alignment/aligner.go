package alignment

import (
	"recut/internal/textutil"
	"recut/internal/transcript"
)

// Miss records an edited token that had no remaining match in the source.
type Miss struct {
	Token string `json:"token"`
	Index int    `json:"index"`
}

// AlignResult is the output of one alignment.
type AlignResult struct {
	Words []transcript.Word
	// Misses lists dropped tokens in target order.
	Misses []Miss
	// NearMatches counts tokens bound through near-miss matching.
	NearMatches int
}

// Aligner binds normalized target tokens to source words with a forward-only
// cursor.
type Aligner struct {
	nearMiss       bool
	nearMissMinLen int
}

// AlignerOption configures an Aligner.
type AlignerOption func(*Aligner)

// WithNearMiss lets a token bind to a source word one edit away when no exact
// match remains. Tokens shorter than minLength never near-match.
func WithNearMiss(minLength int) AlignerOption {
	return func(a *Aligner) {
		a.nearMiss = true
		a.nearMissMinLen = minLength
	}
}

// NewAligner constructs an Aligner. The zero configuration drops every token
// without an exact match.
func NewAligner(opts ...AlignerOption) Aligner {
	var a Aligner
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Align maps tokens onto source. The returned words are copies of source
// words, in source order, with their original text, timing, and speaker.
func (a Aligner) Align(source []transcript.Word, tokens []string) AlignResult {
	var result AlignResult
	if len(source) == 0 || len(tokens) == 0 {
		for i, token := range tokens {
			if token != "" {
				result.Misses = append(result.Misses, Miss{Token: token, Index: i})
			}
		}
		return result
	}

	normalized := make([]string, len(source))
	for i, w := range source {
		normalized[i] = textutil.NormalizeToken(w.Text)
	}

	result.Words = make([]transcript.Word, 0, len(tokens))
	cursor := 0
	for i, token := range tokens {
		if token == "" {
			continue
		}
		match := indexExact(normalized, cursor, token)
		if match < 0 && a.nearMiss && len(token) >= a.nearMissMinLen {
			match = indexNear(normalized, cursor, token, a.nearMissMinLen)
			if match >= 0 {
				result.NearMatches++
			}
		}
		if match < 0 {
			result.Misses = append(result.Misses, Miss{Token: token, Index: i})
			continue
		}
		result.Words = append(result.Words, source[match])
		cursor = match + 1
	}
	return result
}

// AlignText tokenizes freeform edited text and aligns it onto source.
func (a Aligner) AlignText(source []transcript.Word, text string) AlignResult {
	return a.Align(source, textutil.TokenizeEdit(text))
}

func indexExact(normalized []string, from int, token string) int {
	for i := from; i < len(normalized); i++ {
		if normalized[i] == token {
			return i
		}
	}
	return -1
}

func indexNear(normalized []string, from int, token string, minLen int) int {
	for i := from; i < len(normalized); i++ {
		if len(normalized[i]) >= minLen && textutil.WithinOneEdit(normalized[i], token) {
			return i
		}
	}
	return -1
}
