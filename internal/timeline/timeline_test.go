package timeline

import (
	"math"
	"testing"

	"recut/internal/transcript"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func catSource() []transcript.Word {
	return []transcript.Word{
		{Text: "the", Start: 0, End: 0.3},
		{Text: "cat", Start: 0.3, End: 0.6},
		{Text: "sat", Start: 0.6, End: 0.9},
		{Text: "down", Start: 0.9, End: 1.2},
	}
}

func TestBuildKeepRangesCatSat(t *testing.T) {
	source := catSource()
	got := BuildKeepRanges(source, source[1:3], KeepOptions{})
	if len(got.Ranges) != 1 {
		t.Fatalf("expected 1 range, got %+v", got.Ranges)
	}
	if !approx(got.Ranges[0].Start, 0.3) || !approx(got.Ranges[0].End, 0.9) {
		t.Fatalf("unexpected range %+v", got.Ranges[0])
	}
}

func TestBuildKeepRangesSplitsOnGapInIndexes(t *testing.T) {
	source := catSource()
	kept := []transcript.Word{source[0], source[2], source[3]}
	got := BuildKeepRanges(source, kept, KeepOptions{})
	want := []transcript.TimeRange{{Start: 0, End: 0.3}, {Start: 0.6, End: 1.2}}
	if len(got.Ranges) != len(want) {
		t.Fatalf("got %+v, want %+v", got.Ranges, want)
	}
	for i := range want {
		if !approx(got.Ranges[i].Start, want[i].Start) || !approx(got.Ranges[i].End, want[i].End) {
			t.Fatalf("range %d = %+v, want %+v", i, got.Ranges[i], want[i])
		}
	}
}

func TestBuildKeepRangesDropsDegenerateAndClamps(t *testing.T) {
	source := []transcript.Word{
		{Text: "uh", Start: 0, End: 0.05},
		{Text: "well", Start: 0.5, End: 0.8},
		{Text: "okay", Start: 1.0, End: 1.6},
	}
	got := BuildKeepRanges(source, []transcript.Word{source[0], source[2]}, KeepOptions{MinDuration: 0.1, TotalDuration: 1.4})
	if got.Dropped != 1 {
		t.Fatalf("expected one degenerate range dropped, got %d", got.Dropped)
	}
	if len(got.Ranges) != 1 || !approx(got.Ranges[0].End, 1.4) {
		t.Fatalf("expected clamped range ending at 1.4, got %+v", got.Ranges)
	}
}

func TestBuildKeepRangesEmptyAndUnmatched(t *testing.T) {
	source := catSource()
	if got := BuildKeepRanges(source, nil, KeepOptions{}); len(got.Ranges) != 0 {
		t.Fatalf("expected no ranges for empty alignment, got %+v", got.Ranges)
	}
	got := BuildKeepRanges(source, []transcript.Word{{Text: "dog"}, source[3]}, KeepOptions{})
	if got.Unmatched != 1 || len(got.Ranges) != 1 {
		t.Fatalf("expected unmatched word skipped, got %+v", got)
	}
}

func TestSplitBySpeaker(t *testing.T) {
	words := []transcript.Word{
		{Text: "hi", Start: 0, End: 0.5, SpeakerID: "A"},
		{Text: "there", Start: 0.5, End: 1, SpeakerID: "A"},
		{Text: "hello", Start: 1.2, End: 1.8, SpeakerID: "B"},
		{Text: "again", Start: 1.8, End: 2.4},
		{Text: "bye", Start: 5, End: 5.5, SpeakerID: "A"},
	}
	ranges := []transcript.TimeRange{{Start: 0, End: 2.4}, {Start: 5, End: 5.5}}
	got := SplitBySpeaker(ranges, words, 0)
	want := []transcript.TimeRange{
		{Start: 0, End: 1.2},
		{Start: 1.2, End: 1.8},
		{Start: 1.8, End: 2.4},
		{Start: 5, End: 5.5},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if !approx(got[i].Start, want[i].Start) || !approx(got[i].End, want[i].End) {
			t.Fatalf("range %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSplitBySpeakerDropsSlivers(t *testing.T) {
	words := []transcript.Word{
		{Text: "a", Start: 0, End: 1, SpeakerID: "A"},
		{Text: "b", Start: 0.995, End: 1.5, SpeakerID: "B"},
	}
	got := SplitBySpeaker([]transcript.TimeRange{{Start: 0.99, End: 1.5}}, words, 0.01)
	if len(got) != 1 || !approx(got[0].Start, 0.995) {
		t.Fatalf("expected sliver dropped, got %+v", got)
	}
}

func TestCompressScenario(t *testing.T) {
	mappings := Compress([]transcript.TimeRange{{Start: 0, End: 5}, {Start: 8, End: 12}})
	want := []transcript.RangeMapping{
		{Start: 0, End: 5, TimelineStart: 0},
		{Start: 8, End: 12, TimelineStart: 5},
	}
	if len(mappings) != 2 || mappings[0] != want[0] || mappings[1] != want[1] {
		t.Fatalf("Compress() = %+v, want %+v", mappings, want)
	}

	retimed := NewRetimer().Retime([]transcript.Word{{Text: "x", Start: 9, End: 9.4}}, mappings)
	if len(retimed) != 1 || !approx(retimed[0].Start, 6) || !approx(retimed[0].End, 6.4) {
		t.Fatalf("expected word at 9.0 retimed to 6.0, got %+v", retimed)
	}
}

func TestCompressCumulativeInvariant(t *testing.T) {
	ranges := []transcript.TimeRange{
		{Start: 0.5, End: 1.25},
		{Start: 3, End: 3.1},
		{Start: 7.2, End: 9},
		{Start: 10, End: 15.5},
	}
	mappings := Compress(ranges)
	var sum float64
	for i, m := range mappings {
		if !approx(m.TimelineStart, sum) {
			t.Fatalf("mapping %d timelineStart %v, want %v", i, m.TimelineStart, sum)
		}
		if i > 0 {
			prev := mappings[i-1]
			if !approx(prev.TimelineStart+prev.Duration(), m.TimelineStart) {
				t.Fatalf("mapping %d not contiguous with previous", i)
			}
			if m.TimelineStart < prev.TimelineStart {
				t.Fatalf("timelineStart decreased at %d", i)
			}
		}
		sum += m.Duration()
	}
	if !approx(OutputDuration(mappings), sum) {
		t.Fatalf("OutputDuration = %v, want %v", OutputDuration(mappings), sum)
	}
}

func TestRetimeDropsCutWordsAndFloorsDuration(t *testing.T) {
	mappings := Compress([]transcript.TimeRange{{Start: 2, End: 4}})
	words := []transcript.Word{
		{Text: "early", Start: 1.96, End: 2.1},
		{Text: "blip", Start: 3, End: 3},
		{Text: "cut", Start: 6, End: 6.5},
	}
	got := NewRetimer().Retime(words, mappings)
	if len(got) != 2 {
		t.Fatalf("expected cut word dropped, got %+v", got)
	}
	if got[0].Start != 0 {
		t.Fatalf("expected drift clamped to range start, got %v", got[0].Start)
	}
	if !approx(got[1].End-got[1].Start, DefaultMinWordDuration) {
		t.Fatalf("expected floored duration, got %+v", got[1])
	}
	if words[0].Start != 1.96 {
		t.Fatal("Retime must not modify its input")
	}
}

func TestSourceToOutputPrefersExactMapping(t *testing.T) {
	mappings := Compress([]transcript.TimeRange{{Start: 0, End: 5}, {Start: 5.04, End: 8}})
	r := NewRetimer()

	got, ok := r.SourceToOutput(mappings, 5.04)
	if !ok || !approx(got, 5) {
		t.Fatalf("SourceToOutput(5.04) = %v, %v; want 5 from the second range", got, ok)
	}
	got, ok = r.SourceToOutput(mappings, 5.02)
	if !ok || !approx(got, 5.02) {
		t.Fatalf("SourceToOutput(5.02) = %v, %v; want tolerance match on the first range", got, ok)
	}
	if _, ok := r.SourceToOutput(mappings, 8.2); ok {
		t.Fatal("expected time beyond every range to be dropped")
	}
}
