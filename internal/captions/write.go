package captions

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"recut/internal/transcript"
)

// Format is a caption file format.
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// ParseFormat resolves a format name, defaulting to SRT.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("unsupported caption format %q", name)
	}
}

// FormatForPath infers a format from a file extension, falling back to
// fallback when the extension is not recognized.
func FormatForPath(path string, fallback Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	}
	return fallback
}

// Write encodes cues in the given format.
func Write(w io.Writer, format Format, cues []transcript.CaptionCue) error {
	switch format {
	case FormatVTT:
		return WriteVTT(w, cues)
	default:
		return WriteSRT(w, cues)
	}
}

// WriteSRT writes cues as SubRip with 1-based indexes.
func WriteSRT(w io.Writer, cues []transcript.CaptionCue) error {
	bw := bufio.NewWriter(w)
	for i, cue := range cues {
		if i > 0 {
			bw.WriteString("\n")
		}
		fmt.Fprintf(bw, "%d\n", i+1)
		fmt.Fprintf(bw, "%s --> %s\n", FormatSRTTimestamp(cue.Start), FormatSRTTimestamp(cue.End()))
		bw.WriteString(cue.Text)
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// WriteVTT writes cues as WebVTT.
func WriteVTT(w io.Writer, cues []transcript.CaptionCue) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("WEBVTT\n")
	for _, cue := range cues {
		bw.WriteString("\n")
		fmt.Fprintf(bw, "%s --> %s\n", FormatVTTTimestamp(cue.Start), FormatVTTTimestamp(cue.End()))
		bw.WriteString(cue.Text)
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// FormatSRTTimestamp renders seconds as HH:MM:SS,mmm.
func FormatSRTTimestamp(seconds float64) string {
	h, m, s, ms := splitTimestamp(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// FormatVTTTimestamp renders seconds as HH:MM:SS.mmm.
func FormatVTTTimestamp(seconds float64) string {
	h, m, s, ms := splitTimestamp(seconds)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func splitTimestamp(seconds float64) (hours, minutes, secs, millis int) {
	if seconds < 0 {
		seconds = 0
	}
	msTotal := int(seconds*1000 + 0.5)
	hours = msTotal / 3_600_000
	msTotal %= 3_600_000
	minutes = msTotal / 60_000
	msTotal %= 60_000
	secs = msTotal / 1_000
	millis = msTotal % 1_000
	return hours, minutes, secs, millis
}
