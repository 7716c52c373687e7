package timeline

import "recut/internal/transcript"

// DefaultSplitEpsilon is the shortest sub-range kept when splitting.
const DefaultSplitEpsilon = 0.01

// SplitBySpeaker cuts every range spanning more than one speaker at each
// speaker change, so each output range carries a single speaker. Words
// without a speaker id count as the unknown speaker.
func SplitBySpeaker(ranges []transcript.TimeRange, words []transcript.Word, epsilon float64) []transcript.TimeRange {
	if epsilon <= 0 {
		epsilon = DefaultSplitEpsilon
	}
	out := make([]transcript.TimeRange, 0, len(ranges))
	for _, r := range ranges {
		overlapping := overlappingWords(words, r)
		if distinctSpeakers(overlapping) <= 1 {
			out = append(out, r)
			continue
		}

		start := r.Start
		speaker := overlapping[0].Speaker()
		for _, w := range overlapping[1:] {
			if w.Speaker() == speaker {
				continue
			}
			cut := clamp(w.Start, r.Start, r.End)
			if cut-start >= epsilon {
				out = append(out, transcript.TimeRange{Start: start, End: cut})
			}
			start = cut
			speaker = w.Speaker()
		}
		if r.End-start >= epsilon {
			out = append(out, transcript.TimeRange{Start: start, End: r.End})
		}
	}
	return out
}

func overlappingWords(words []transcript.Word, r transcript.TimeRange) []transcript.Word {
	var out []transcript.Word
	for _, w := range words {
		if w.Start < r.End && w.End > r.Start {
			out = append(out, w)
		}
	}
	return out
}

func distinctSpeakers(words []transcript.Word) int {
	seen := make(map[string]struct{}, 2)
	for _, w := range words {
		seen[w.Speaker()] = struct{}{}
	}
	return len(seen)
}
