package captions

import (
	"strings"
	"unicode/utf8"

	"recut/internal/textutil"
	"recut/internal/transcript"
)

// Default legibility limits.
const (
	DefaultMaxWords       = 8
	DefaultMaxChars       = 48
	DefaultMaxDuration    = 3.2
	DefaultSentenceGap    = 0.6
	DefaultSoftPause      = 0.35
	DefaultTerminalMarks  = ".!?"
	DefaultSoftBreakMarks = ",;:"
)

// Options configures a Segmenter. Zero fields take the defaults above.
type Options struct {
	MaxWords    int
	MaxChars    int
	MaxDuration float64
	// SentenceGap starts a new sentence when the silence between words
	// reaches it.
	SentenceGap float64
	// SoftPause marks a preferred cut point inside an oversize sentence.
	SoftPause      float64
	TerminalMarks  string
	SoftBreakMarks string
}

// Segmenter turns retimed words into caption cues.
type Segmenter struct {
	opts Options
}

// NewSegmenter returns a Segmenter with opts applied over the defaults.
func NewSegmenter(opts Options) Segmenter {
	if opts.MaxWords <= 0 {
		opts.MaxWords = DefaultMaxWords
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = DefaultMaxDuration
	}
	if opts.SentenceGap <= 0 {
		opts.SentenceGap = DefaultSentenceGap
	}
	if opts.SoftPause <= 0 {
		opts.SoftPause = DefaultSoftPause
	}
	if opts.TerminalMarks == "" {
		opts.TerminalMarks = DefaultTerminalMarks
	}
	if opts.SoftBreakMarks == "" {
		opts.SoftBreakMarks = DefaultSoftBreakMarks
	}
	return Segmenter{opts: opts}
}

// Options returns the effective limits.
func (s Segmenter) Options() Options {
	return s.opts
}

// Segment returns ordered, non-overlapping cues for words.
func (s Segmenter) Segment(words []transcript.Word) []transcript.CaptionCue {
	words = nonBlank(words)
	if len(words) == 0 {
		return nil
	}

	var (
		cues    []transcript.CaptionCue
		pending []transcript.Word
	)
	flush := func() {
		if len(pending) > 0 {
			cues = append(cues, newCue(pending))
			pending = nil
		}
	}
	for _, sentence := range s.sentences(words) {
		if !s.Fits(sentence) {
			flush()
			for _, chunk := range s.splitSentence(sentence) {
				cues = append(cues, newCue(chunk))
			}
			continue
		}
		if len(pending) > 0 && !s.Fits(concat(pending, sentence)) {
			flush()
		}
		pending = append(pending, sentence...)
	}
	flush()
	// Floored word durations can reach past the next cue.
	for i := 0; i+1 < len(cues); i++ {
		if next := cues[i+1].Start; cues[i].End() > next {
			cues[i].Duration = max(0, next-cues[i].Start)
		}
	}
	return cues
}

// Fits reports whether words satisfy every limit as a single cue.
func (s Segmenter) Fits(words []transcript.Word) bool {
	if len(words) == 0 {
		return true
	}
	if len(words) > s.opts.MaxWords {
		return false
	}
	if utf8.RuneCountInString(joinText(words)) > s.opts.MaxChars {
		return false
	}
	return words[len(words)-1].End-words[0].Start <= s.opts.MaxDuration
}

// sentences groups words at terminal punctuation and long pauses.
func (s Segmenter) sentences(words []transcript.Word) [][]transcript.Word {
	var (
		groups  [][]transcript.Word
		current []transcript.Word
	)
	for i, w := range words {
		if i > 0 && len(current) > 0 && w.Start-words[i-1].End >= s.opts.SentenceGap {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, w)
		if textutil.EndsWithPunctuation(w.Text, s.opts.TerminalMarks) {
			groups = append(groups, current)
			current = nil
		}
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

// splitSentence cuts an oversize sentence at soft breaks, falling back to
// the word before the one that breaks a limit.
func (s Segmenter) splitSentence(words []transcript.Word) [][]transcript.Word {
	var chunks [][]transcript.Word
	start, lastBreak := 0, -1
	for i := 0; i < len(words); i++ {
		if i > start && !s.Fits(words[start:i+1]) {
			cut := i
			if lastBreak > start && lastBreak < i {
				cut = lastBreak
			}
			chunks = append(chunks, words[start:cut])
			start, lastBreak = cut, -1
			// Rescan from the cut so break points after it are tracked again.
			i = cut - 1
			continue
		}
		if textutil.EndsWithPunctuation(words[i].Text, s.opts.SoftBreakMarks) {
			lastBreak = i + 1
		} else if i+1 < len(words) && words[i+1].Start-words[i].End >= s.opts.SoftPause {
			lastBreak = i + 1
		}
	}
	if start < len(words) {
		chunks = append(chunks, words[start:])
	}
	return chunks
}

func newCue(words []transcript.Word) transcript.CaptionCue {
	first, last := words[0], words[len(words)-1]
	duration := last.End - first.Start
	if duration < 0 {
		duration = 0
	}
	return transcript.CaptionCue{
		Text:     joinText(words),
		Start:    first.Start,
		Duration: duration,
	}
}

func joinText(words []transcript.Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = strings.TrimSpace(w.Text)
	}
	return strings.Join(parts, " ")
}

func concat(a, b []transcript.Word) []transcript.Word {
	out := make([]transcript.Word, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func nonBlank(words []transcript.Word) []transcript.Word {
	out := make([]transcript.Word, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w.Text) != "" {
			out = append(out, w)
		}
	}
	return out
}
