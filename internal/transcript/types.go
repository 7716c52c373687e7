package transcript

import "strings"

// UnknownSpeaker is the pseudo speaker id used for words without diarization.
const UnknownSpeaker = "unknown"

// Word is a single transcribed token with source-timeline timing.
type Word struct {
	Text      string  `json:"text"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	SpeakerID string  `json:"speakerId,omitempty"`
}

// Duration returns the word length in seconds.
func (w Word) Duration() float64 {
	return w.End - w.Start
}

// Speaker returns the speaker id, substituting UnknownSpeaker when absent.
func (w Word) Speaker() string {
	if id := strings.TrimSpace(w.SpeakerID); id != "" {
		return id
	}
	return UnknownSpeaker
}

// TimeRange is a span on the source timeline.
type TimeRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the range length in seconds.
func (r TimeRange) Duration() float64 {
	return r.End - r.Start
}

// Contains reports whether t falls inside the range, widened by tolerance.
func (r TimeRange) Contains(t, tolerance float64) bool {
	return t >= r.Start-tolerance && t <= r.End+tolerance
}

// RangeMapping places a source range on the compressed output timeline.
type RangeMapping struct {
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
	TimelineStart float64 `json:"timelineStart"`
}

// Duration returns the mapped length in seconds.
func (m RangeMapping) Duration() float64 {
	return m.End - m.Start
}

// TimelineEnd returns where the mapping ends on the output timeline.
func (m RangeMapping) TimelineEnd() float64 {
	return m.TimelineStart + m.Duration()
}

// Range returns the source span of the mapping.
func (m RangeMapping) Range() TimeRange {
	return TimeRange{Start: m.Start, End: m.End}
}

// CaptionCue is one timed caption on the output timeline.
type CaptionCue struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// End returns the cue end on the output timeline.
func (c CaptionCue) End() float64 {
	return c.Start + c.Duration
}

// SpeakerSnippet is a representative speaking window for one speaker.
type SpeakerSnippet struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the snippet length in seconds.
func (s SpeakerSnippet) Duration() float64 {
	return s.End - s.Start
}

// Box is a normalized bounding region reported by the face detector.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FaceCandidate is an opaque face detection keyed by speaker and slot.
type FaceCandidate struct {
	SpeakerID string  `json:"speakerId"`
	Slot      int     `json:"slot"`
	Box       Box     `json:"box"`
	Score     float64 `json:"score,omitempty"`
}

// TotalDuration returns the latest word end in the list.
func TotalDuration(words []Word) float64 {
	var total float64
	for _, w := range words {
		if w.End > total {
			total = w.End
		}
	}
	return total
}

// PlainText joins word texts with single spaces.
func PlainText(words []Word) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if text := strings.TrimSpace(w.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// SpeakerOrder returns distinct speaker ids in order of first appearance.
func SpeakerOrder(words []Word) []string {
	seen := make(map[string]struct{})
	var order []string
	for _, w := range words {
		id := w.Speaker()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		order = append(order, id)
	}
	return order
}
