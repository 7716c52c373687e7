package alignment

import (
	"strings"

	"recut/internal/textutil"
)

// Lexicon holds the locale-specific word lists used by the Extender.
type Lexicon struct {
	// Conjunctions do not count as a proper sentence start even when
	// capitalized.
	Conjunctions []string
	// MidSentenceStarters flag a clip that begins mid-sentence.
	MidSentenceStarters []string
	// QuestionWords and PronounVerbs form the "{why|what|how} I {was|am|...}"
	// construct.
	QuestionWords []string
	PronounVerbs  []string
	// TerminalPunctuation ends a sentence.
	TerminalPunctuation string
}

// DefaultLexicon returns the built-in English word lists.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Conjunctions: []string{"and", "but", "or", "so"},
		MidSentenceStarters: []string{
			// coordinating
			"and", "but", "or", "so", "nor", "yet", "plus",
			// subordinating
			"because", "cause", "'cause", "since", "although", "though", "unless",
			"until", "while", "whereas", "if", "than", "then",
			// relative
			"which", "that", "who", "whom", "whose", "where", "when",
			// discourse fillers
			"um", "uh", "like", "actually", "basically", "anyway", "also", "just",
		},
		QuestionWords:       []string{"why", "what", "how"},
		PronounVerbs:        []string{"was", "am", "have", "had", "think", "thought", "mean", "meant", "know", "knew", "feel", "felt", "guess", "did", "do", "said", "want", "wanted", "got"},
		TerminalPunctuation: ".!?",
	}
}

// Merge returns l with every empty field filled from fallback.
func (l Lexicon) Merge(fallback Lexicon) Lexicon {
	if len(l.Conjunctions) == 0 {
		l.Conjunctions = fallback.Conjunctions
	}
	if len(l.MidSentenceStarters) == 0 {
		l.MidSentenceStarters = fallback.MidSentenceStarters
	}
	if len(l.QuestionWords) == 0 {
		l.QuestionWords = fallback.QuestionWords
	}
	if len(l.PronounVerbs) == 0 {
		l.PronounVerbs = fallback.PronounVerbs
	}
	if strings.TrimSpace(l.TerminalPunctuation) == "" {
		l.TerminalPunctuation = fallback.TerminalPunctuation
	}
	return l
}

// wordSet is a normalized lookup built from a lexicon list.
type wordSet map[string]struct{}

func newWordSet(words []string) wordSet {
	set := make(wordSet, len(words))
	for _, w := range words {
		if n := textutil.NormalizeToken(w); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func (s wordSet) has(normalized string) bool {
	_, ok := s[normalized]
	return ok
}
