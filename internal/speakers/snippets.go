package speakers

import (
	"fmt"
	"sort"

	"recut/internal/transcript"
)

const (
	// DefaultMinSnippet is the shortest snippet offered for identification.
	DefaultMinSnippet = 3.0
	// DefaultSnippetGap splits a speaker's words into separate segments.
	DefaultSnippetGap = 0.8
)

// SnippetOptions tunes ExtractSnippets.
type SnippetOptions struct {
	MinDuration float64
	MaxGap      float64
	// Labels overrides the generated "Speaker N" labels by speaker id.
	Labels map[string]string
}

type segment struct {
	start, end float64
}

func (s segment) duration() float64 { return s.end - s.start }

// ExtractSnippets returns one snippet per speaker in order of first
// appearance. Words without a speaker id are grouped under the unknown
// speaker.
func ExtractSnippets(words []transcript.Word, totalDuration float64, opts SnippetOptions) []transcript.SpeakerSnippet {
	if len(words) == 0 {
		return nil
	}
	minDuration := opts.MinDuration
	if minDuration <= 0 {
		minDuration = DefaultMinSnippet
	}
	maxGap := opts.MaxGap
	if maxGap <= 0 {
		maxGap = DefaultSnippetGap
	}
	if totalDuration <= 0 {
		totalDuration = transcript.TotalDuration(words)
	}

	order := transcript.SpeakerOrder(words)
	bySpeaker := make(map[string][]transcript.Word, len(order))
	for _, w := range words {
		id := w.Speaker()
		bySpeaker[id] = append(bySpeaker[id], w)
	}

	snippets := make([]transcript.SpeakerSnippet, 0, len(order))
	for i, id := range order {
		own := bySpeaker[id]
		sort.SliceStable(own, func(a, b int) bool { return own[a].Start < own[b].Start })

		chosen := pickSegment(segmentWords(own, maxGap), minDuration)
		if chosen.end < chosen.start+minDuration {
			chosen.end = chosen.start + minDuration
		}
		if chosen.end > totalDuration {
			chosen.end = totalDuration
			if chosen.duration() < minDuration {
				chosen.start = max(0, chosen.end-minDuration)
			}
		}

		label := opts.Labels[id]
		if label == "" {
			label = fmt.Sprintf("Speaker %d", i+1)
		}
		snippets = append(snippets, transcript.SpeakerSnippet{
			ID:    id,
			Label: label,
			Start: chosen.start,
			End:   chosen.end,
		})
	}
	return snippets
}

func segmentWords(words []transcript.Word, maxGap float64) []segment {
	var segments []segment
	for i, w := range words {
		if i == 0 || w.Start-words[i-1].End > maxGap {
			segments = append(segments, segment{start: w.Start, end: w.End})
			continue
		}
		last := &segments[len(segments)-1]
		if w.End > last.end {
			last.end = w.End
		}
	}
	return segments
}

// pickSegment returns the first segment meeting minDuration, else the
// longest.
func pickSegment(segments []segment, minDuration float64) segment {
	var longest segment
	for i, s := range segments {
		if s.duration() >= minDuration {
			return s
		}
		if i == 0 || s.duration() > longest.duration() {
			longest = s
		}
	}
	return longest
}
