package timeline

import (
	"math"

	"recut/internal/transcript"
)

const (
	// DefaultRetimeTolerance absorbs minor alignment drift at range edges.
	DefaultRetimeTolerance = 0.05
	// DefaultMinWordDuration floors retimed word lengths.
	DefaultMinWordDuration = 0.05
)

// Compress places ranges end to end on the output timeline in the order given.
func Compress(ranges []transcript.TimeRange) []transcript.RangeMapping {
	mappings := make([]transcript.RangeMapping, 0, len(ranges))
	var cursor float64
	for _, r := range ranges {
		mappings = append(mappings, transcript.RangeMapping{
			Start:         r.Start,
			End:           r.End,
			TimelineStart: cursor,
		})
		cursor += r.Duration()
	}
	return mappings
}

// OutputDuration returns the length of the compressed timeline.
func OutputDuration(mappings []transcript.RangeMapping) float64 {
	var total float64
	for _, m := range mappings {
		total += m.Duration()
	}
	return total
}

// Retimer re-expresses source-timed words on a compressed timeline.
type Retimer struct {
	Tolerance       float64
	MinWordDuration float64
}

// NewRetimer returns a Retimer with the default tolerance and word floor.
func NewRetimer() Retimer {
	return Retimer{Tolerance: DefaultRetimeTolerance, MinWordDuration: DefaultMinWordDuration}
}

// Retime moves each word onto the output timeline of the first mapping whose
// source span contains its start. Words outside every mapping were cut and are
// dropped.
func (r Retimer) Retime(words []transcript.Word, mappings []transcript.RangeMapping) []transcript.Word {
	out := make([]transcript.Word, 0, len(words))
	for _, w := range words {
		start, ok := r.SourceToOutput(mappings, w.Start)
		if !ok {
			continue
		}
		duration := math.Max(w.Duration(), r.MinWordDuration)
		w.Start = start
		w.End = start + duration
		out = append(out, w)
	}
	return out
}

// SourceToOutput maps a single source time onto the output timeline. A
// mapping containing t exactly wins over one that only reaches it through the
// tolerance.
func (r Retimer) SourceToOutput(mappings []transcript.RangeMapping, t float64) (float64, bool) {
	for _, tolerance := range []float64{0, r.Tolerance} {
		for _, m := range mappings {
			if m.Range().Contains(t, tolerance) {
				return m.TimelineStart + math.Max(0, t-m.Start), true
			}
		}
	}
	return 0, false
}
