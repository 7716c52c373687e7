package transcript

import "testing"

func TestSpeakerOrderFirstAppearance(t *testing.T) {
	words := []Word{
		{Text: "a", SpeakerID: "B"},
		{Text: "b", SpeakerID: "A"},
		{Text: "c"},
		{Text: "d", SpeakerID: "B"},
	}
	got := SpeakerOrder(words)
	want := []string{"B", "A", UnknownSpeaker}
	if len(got) != len(want) {
		t.Fatalf("SpeakerOrder() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SpeakerOrder()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRangeMappingTimelineEnd(t *testing.T) {
	m := RangeMapping{Start: 8, End: 12, TimelineStart: 5}
	if m.TimelineEnd() != 9 {
		t.Fatalf("TimelineEnd() = %v, want 9", m.TimelineEnd())
	}
	if !m.Range().Contains(12.04, 0.05) {
		t.Fatal("expected tolerance to widen range")
	}
}

func TestPlainTextSkipsBlank(t *testing.T) {
	words := []Word{{Text: "Hello,"}, {Text: " "}, {Text: "world"}}
	if got := PlainText(words); got != "Hello, world" {
		t.Fatalf("PlainText() = %q", got)
	}
	if TotalDuration(nil) != 0 {
		t.Fatal("expected zero duration for empty list")
	}
}
