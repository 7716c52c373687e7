package alignment

import (
	"math"
	"strings"
	"unicode"

	"recut/internal/textutil"
	"recut/internal/transcript"
)

const (
	defaultMatchTolerance = 0.5
	defaultMaxGap         = 1.5
)

// Signal names the heuristic that flagged a mid-sentence start.
type Signal string

const (
	SignalNone            Signal = ""
	SignalStarterWord     Signal = "starter_word"
	SignalLowercase       Signal = "lowercase"
	SignalQuestionPronoun Signal = "question_pronoun"
)

// Outcome describes what the Extender decided.
type Outcome string

const (
	OutcomeEmpty       Outcome = "empty"
	OutcomeProperStart Outcome = "proper_start"
	OutcomeNoSignal    Outcome = "no_signal"
	OutcomeNotLocated  Outcome = "not_located"
	OutcomeSourceStart Outcome = "source_start"
	OutcomeSentenceEnd Outcome = "preceded_by_sentence_end"
	OutcomeBoundary    Outcome = "boundary"
	OutcomeExtended    Outcome = "extended"
)

// ExtendResult carries the possibly extended clip and the decision trail.
type ExtendResult struct {
	Words     []transcript.Word
	Prepended int
	Signal    Signal
	Outcome   Outcome
}

// Extender prepends the leading words of a sentence the clip cuts into.
type Extender struct {
	tolerance float64
	maxGap    float64
	terminal  string

	conjunctions wordSet
	starters     wordSet
	questions    wordSet
	verbs        wordSet
}

// ExtenderOption configures an Extender.
type ExtenderOption func(*Extender)

// WithMatchTolerance sets how far, in seconds, a source word's start may
// drift from the clip's first word and still locate it.
func WithMatchTolerance(seconds float64) ExtenderOption {
	return func(e *Extender) {
		if seconds > 0 {
			e.tolerance = seconds
		}
	}
}

// WithMaxGap sets the silence, in seconds, that stops the backward walk.
func WithMaxGap(seconds float64) ExtenderOption {
	return func(e *Extender) {
		if seconds > 0 {
			e.maxGap = seconds
		}
	}
}

// NewExtender builds an Extender from lexicon. Empty lexicon fields fall back
// to DefaultLexicon.
func NewExtender(lexicon Lexicon, opts ...ExtenderOption) *Extender {
	lexicon = lexicon.Merge(DefaultLexicon())
	e := &Extender{
		tolerance:    defaultMatchTolerance,
		maxGap:       defaultMaxGap,
		terminal:     lexicon.TerminalPunctuation,
		conjunctions: newWordSet(lexicon.Conjunctions),
		starters:     newWordSet(lexicon.MidSentenceStarters),
		questions:    newWordSet(lexicon.QuestionWords),
		verbs:        newWordSet(lexicon.PronounVerbs),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extend inspects aligned against the edit text it came from and, when the
// clip starts mid-sentence, prepends the missing source words.
func (e *Extender) Extend(source, aligned []transcript.Word, editText string) ExtendResult {
	result := ExtendResult{Words: aligned}
	if len(aligned) == 0 || len(source) == 0 {
		result.Outcome = OutcomeEmpty
		return result
	}
	if e.properStart(editText) {
		result.Outcome = OutcomeProperStart
		return result
	}
	result.Signal = e.MidSentenceSignal(aligned)
	if result.Signal == SignalNone {
		result.Outcome = OutcomeNoSignal
		return result
	}

	index := e.locate(source, aligned[0])
	switch {
	case index < 0:
		result.Outcome = OutcomeNotLocated
		return result
	case index == 0:
		result.Outcome = OutcomeSourceStart
		return result
	case e.endsSentence(source[index-1]):
		result.Outcome = OutcomeSentenceEnd
		return result
	}

	k := index
	for k > 0 {
		prev, cur := source[k-1], source[k]
		if e.endsSentence(prev) {
			break
		}
		if cur.Start-prev.End > e.maxGap {
			break
		}
		if prev.Speaker() != cur.Speaker() {
			break
		}
		k--
	}
	if k == index {
		result.Outcome = OutcomeBoundary
		return result
	}

	words := make([]transcript.Word, 0, index-k+len(aligned))
	words = append(words, source[k:index]...)
	words = append(words, aligned...)
	result.Words = words
	result.Prepended = index - k
	result.Outcome = OutcomeExtended
	return result
}

// MidSentenceSignal reports which heuristic, if any, marks the clip as
// starting inside a sentence.
func (e *Extender) MidSentenceSignal(aligned []transcript.Word) Signal {
	if len(aligned) == 0 {
		return SignalNone
	}
	first := aligned[0].Text
	norm := textutil.NormalizeToken(first)
	if e.starters.has(norm) {
		return SignalStarterWord
	}
	if r, ok := textutil.FirstLetter(first); ok && unicode.IsLower(r) && !isFirstPerson(norm) {
		return SignalLowercase
	}
	if len(aligned) >= 3 && e.questions.has(norm) &&
		textutil.NormalizeToken(aligned[1].Text) == "i" &&
		e.verbs.has(textutil.NormalizeToken(aligned[2].Text)) {
		return SignalQuestionPronoun
	}
	return SignalNone
}

// properStart reports whether the edit text opens with a capitalized token
// that is not a conjunction.
func (e *Extender) properStart(editText string) bool {
	fields := strings.Fields(editText)
	if len(fields) == 0 {
		return false
	}
	r, ok := textutil.FirstLetter(fields[0])
	if !ok || !unicode.IsUpper(r) {
		return false
	}
	return !e.conjunctions.has(textutil.NormalizeToken(fields[0]))
}

// locate finds the source index of word by normalized text, choosing the
// closest start within tolerance.
func (e *Extender) locate(source []transcript.Word, word transcript.Word) int {
	target := textutil.NormalizeToken(word.Text)
	if target == "" {
		return -1
	}
	best, bestDelta := -1, math.Inf(1)
	for i, w := range source {
		if w.Start > word.Start+e.tolerance {
			break
		}
		delta := math.Abs(w.Start - word.Start)
		if delta > e.tolerance || delta >= bestDelta {
			continue
		}
		if textutil.NormalizeToken(w.Text) == target {
			best, bestDelta = i, delta
		}
	}
	return best
}

func (e *Extender) endsSentence(w transcript.Word) bool {
	return textutil.EndsWithPunctuation(w.Text, e.terminal)
}

func isFirstPerson(normalized string) bool {
	switch normalized {
	case "i", "i'm", "i've", "i'd", "i'll":
		return true
	}
	return false
}
