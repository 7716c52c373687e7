package captions

import (
	"bytes"
	"testing"

	"recut/internal/transcript"
)

func TestFormatTimestamps(t *testing.T) {
	tests := []struct {
		seconds float64
		srt     string
		vtt     string
	}{
		{0, "00:00:00,000", "00:00:00.000"},
		{-1, "00:00:00,000", "00:00:00.000"},
		{61.2346, "00:01:01,235", "00:01:01.235"},
		{3725.25, "01:02:05,250", "01:02:05.250"},
	}
	for _, tt := range tests {
		if got := FormatSRTTimestamp(tt.seconds); got != tt.srt {
			t.Fatalf("FormatSRTTimestamp(%v) = %q, want %q", tt.seconds, got, tt.srt)
		}
		if got := FormatVTTTimestamp(tt.seconds); got != tt.vtt {
			t.Fatalf("FormatVTTTimestamp(%v) = %q, want %q", tt.seconds, got, tt.vtt)
		}
	}
}

func TestWriteSRTAndVTT(t *testing.T) {
	cues := []transcript.CaptionCue{
		{Text: "Hello there.", Start: 0, Duration: 1.5},
		{Text: "General Kenobi.", Start: 2, Duration: 1},
	}

	var srt bytes.Buffer
	if err := Write(&srt, FormatSRT, cues); err != nil {
		t.Fatalf("WriteSRT: %v", err)
	}
	wantSRT := "1\n00:00:00,000 --> 00:00:01,500\nHello there.\n\n2\n00:00:02,000 --> 00:00:03,000\nGeneral Kenobi.\n"
	if srt.String() != wantSRT {
		t.Fatalf("unexpected srt:\n%s", srt.String())
	}

	var vtt bytes.Buffer
	if err := Write(&vtt, FormatVTT, cues); err != nil {
		t.Fatalf("WriteVTT: %v", err)
	}
	wantVTT := "WEBVTT\n\n00:00:00.000 --> 00:00:01.500\nHello there.\n\n00:00:02.000 --> 00:00:03.000\nGeneral Kenobi.\n"
	if vtt.String() != wantVTT {
		t.Fatalf("unexpected vtt:\n%s", vtt.String())
	}
}

func TestParseFormatAndPath(t *testing.T) {
	if f, err := ParseFormat(" WebVTT "); err != nil || f != FormatVTT {
		t.Fatalf("ParseFormat webvtt = %q, %v", f, err)
	}
	if _, err := ParseFormat("ass"); err == nil {
		t.Fatal("expected unsupported format error")
	}
	if FormatForPath("out/cut.VTT", FormatSRT) != FormatVTT {
		t.Fatal("expected extension to select vtt")
	}
	if FormatForPath("out/cut.txt", FormatSRT) != FormatSRT {
		t.Fatal("expected fallback for unknown extension")
	}
}
