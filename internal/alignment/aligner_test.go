package alignment

import (
	"strings"
	"testing"

	"recut/internal/textutil"
	"recut/internal/transcript"
)

func catSource() []transcript.Word {
	return []transcript.Word{
		{Text: "the", Start: 0, End: 0.3},
		{Text: "cat", Start: 0.3, End: 0.6},
		{Text: "sat", Start: 0.6, End: 0.9},
		{Text: "down", Start: 0.9, End: 1.2},
	}
}

func TestAlignTextCatSat(t *testing.T) {
	got := NewAligner().AlignText(catSource(), "cat sat")
	want := []transcript.Word{
		{Text: "cat", Start: 0.3, End: 0.6},
		{Text: "sat", Start: 0.6, End: 0.9},
	}
	if len(got.Words) != len(want) {
		t.Fatalf("Align returned %d words, want %d", len(got.Words), len(want))
	}
	for i := range want {
		if got.Words[i] != want[i] {
			t.Fatalf("word %d = %+v, want %+v", i, got.Words[i], want[i])
		}
	}
	if len(got.Misses) != 0 {
		t.Fatalf("expected no misses, got %+v", got.Misses)
	}
}

func TestAlignPreservesOriginalFields(t *testing.T) {
	source := []transcript.Word{
		{Text: "Hello,", Start: 1, End: 1.4, SpeakerID: "A"},
		{Text: "World!", Start: 1.5, End: 2, SpeakerID: "B"},
	}
	got := NewAligner().AlignText(source, "hello world")
	if len(got.Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(got.Words))
	}
	if got.Words[0].Text != "Hello," || got.Words[1].SpeakerID != "B" {
		t.Fatalf("expected original casing and speaker, got %+v", got.Words)
	}
}

func TestAlignDropsMissesAndReportsThem(t *testing.T) {
	got := NewAligner().Align(catSource(), []string{"cat", "dog", "down", "the"})
	if len(got.Words) != 2 {
		t.Fatalf("expected cat and down, got %+v", got.Words)
	}
	if len(got.Misses) != 2 {
		t.Fatalf("expected 2 misses, got %+v", got.Misses)
	}
	// "the" occurs before the cursor and cannot be reached again.
	if got.Misses[0] != (Miss{Token: "dog", Index: 1}) || got.Misses[1] != (Miss{Token: "the", Index: 3}) {
		t.Fatalf("unexpected misses %+v", got.Misses)
	}
}

func TestAlignDuplicatesBindMonotonically(t *testing.T) {
	source := []transcript.Word{
		{Text: "go", Start: 0, End: 1},
		{Text: "go", Start: 1, End: 2},
		{Text: "team", Start: 2, End: 3},
		{Text: "go", Start: 3, End: 4},
	}
	got := NewAligner().Align(source, []string{"go", "team", "go"})
	starts := []float64{}
	for _, w := range got.Words {
		starts = append(starts, w.Start)
	}
	if len(starts) != 3 || starts[0] != 0 || starts[1] != 2 || starts[2] != 3 {
		t.Fatalf("unexpected binding starts %v", starts)
	}
}

func TestAlignEmptyInputs(t *testing.T) {
	a := NewAligner()
	if got := a.Align(nil, []string{"x"}); len(got.Words) != 0 || len(got.Misses) != 1 {
		t.Fatalf("empty source: %+v", got)
	}
	if got := a.Align(catSource(), nil); len(got.Words) != 0 || len(got.Misses) != 0 {
		t.Fatalf("empty target: %+v", got)
	}
}

func TestAlignRoundTrip(t *testing.T) {
	source := []transcript.Word{
		{Text: "So,", Start: 0, End: 0.2, SpeakerID: "A"},
		{Text: "we", Start: 0.2, End: 0.4, SpeakerID: "A"},
		{Text: "went", Start: 0.4, End: 0.7, SpeakerID: "A"},
		{Text: "to", Start: 0.7, End: 0.8, SpeakerID: "A"},
		{Text: "the", Start: 0.8, End: 0.9, SpeakerID: "A"},
		{Text: "the", Start: 0.9, End: 1.0, SpeakerID: "A"},
		{Text: "café.", Start: 1.0, End: 1.5, SpeakerID: "A"},
		{Text: "Really?", Start: 2.0, End: 2.5, SpeakerID: "B"},
	}
	tokens := make([]string, 0, len(source))
	for _, w := range source {
		tokens = append(tokens, textutil.NormalizeToken(w.Text))
	}
	got := NewAligner().Align(source, tokens)
	if len(got.Words) != len(source) {
		t.Fatalf("round trip returned %d words, want %d", len(got.Words), len(source))
	}
	for i := range source {
		if got.Words[i] != source[i] {
			t.Fatalf("word %d = %+v, want %+v", i, got.Words[i], source[i])
		}
	}
}

func TestAlignOutputBoundedAndTimestampsFromSource(t *testing.T) {
	source := catSource()
	cases := []string{"", "the the the", "down cat sat the", "cats sat", "completely different words"}
	for _, text := range cases {
		t.Run(text, func(t *testing.T) {
			tokens := textutil.TokenizeEdit(text)
			got := NewAligner().Align(source, tokens)
			if len(got.Words) > len(tokens) {
				t.Fatalf("output %d words exceeds %d tokens", len(got.Words), len(tokens))
			}
			if len(got.Words)+len(got.Misses) != len(tokens) {
				t.Fatalf("words %d + misses %d != tokens %d", len(got.Words), len(got.Misses), len(tokens))
			}
			for _, w := range got.Words {
				found := false
				for _, s := range source {
					if s.Start == w.Start && s.End == w.End {
						found = true
						break
					}
				}
				if !found {
					t.Fatalf("word %+v has timestamps not present in source", w)
				}
			}
		})
	}
}

func TestAlignNearMissOptIn(t *testing.T) {
	source := []transcript.Word{
		{Text: "recieve", Start: 0, End: 0.5},
		{Text: "the", Start: 0.5, End: 0.6},
		{Text: "package", Start: 0.6, End: 1},
	}
	tokens := []string{"receive", "the", "packages"}

	strict := NewAligner().Align(source, tokens)
	if len(strict.Words) != 1 || strict.NearMatches != 0 {
		t.Fatalf("expected only exact match without near-miss, got %+v", strict)
	}

	// "receive" vs "recieve" is a transposition, two edits away.
	loose := NewAligner(WithNearMiss(4)).Align(source, tokens)
	if len(loose.Words) != 2 || loose.NearMatches != 1 {
		t.Fatalf("expected near match on packages, got %+v", loose)
	}
	if loose.Words[1].Text != "package" {
		t.Fatalf("unexpected near match %+v", loose.Words[1])
	}
}

func TestAlignNearMissPrefersExact(t *testing.T) {
	source := []transcript.Word{
		{Text: "cart", Start: 0, End: 0.5},
		{Text: "card", Start: 0.5, End: 1},
	}
	got := NewAligner(WithNearMiss(4)).Align(source, []string{"card"})
	if len(got.Words) != 1 || got.Words[0].Start != 0.5 || got.NearMatches != 0 {
		t.Fatalf("expected exact later match, got %+v", got)
	}
}

func TestAlignNearMissSkipsShortTokens(t *testing.T) {
	source := []transcript.Word{{Text: "cat", Start: 0, End: 0.5}}
	got := NewAligner(WithNearMiss(4)).Align(source, []string{"cut"})
	if len(got.Words) != 0 {
		t.Fatalf("short token should not near-match: %+v", got.Words)
	}
	if !strings.Contains(got.Misses[0].Token, "cut") {
		t.Fatalf("expected miss for cut, got %+v", got.Misses)
	}
}
