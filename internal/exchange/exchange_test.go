package exchange

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"recut/internal/refine"
	"recut/internal/services"
	"recut/internal/speakers"
	"recut/internal/transcript"
)

func sampleDocument(t *testing.T) Document {
	t.Helper()
	thumb := filepath.Join(t.TempDir(), "face.jpg")
	if err := os.WriteFile(thumb, []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("write thumbnail: %v", err)
	}

	doc := New([]transcript.Word{
		{Text: "hello", Start: 0, End: 0.5, SpeakerID: "A"},
		{Text: "there", Start: 0.5, End: 1, SpeakerID: "B"},
	})
	doc.Refinement = &refine.Result{
		PassID:   "pass-1",
		Mode:     refine.ModeText,
		Ranges:   []transcript.TimeRange{{Start: 0, End: 1}},
		Mappings: []transcript.RangeMapping{{Start: 0, End: 1, TimelineStart: 0}},
	}
	doc.SpeakerSnippets = []transcript.SpeakerSnippet{{ID: "A", Label: "Speaker 1", Start: 0, End: 3}}
	doc.FaceSlotsBySpeaker["A"] = []transcript.FaceCandidate{{SpeakerID: "A", Slot: 0}, {SpeakerID: "A", Slot: 1}}
	doc.Thumbnails = []Thumbnail{{SpeakerID: "A", Slot: 0, Path: thumb}}
	doc.SetPrimarySpeaker("A")
	doc.MaxFaces = 2
	doc.Assignment = speakers.Assignment{"A": 1}
	return doc
}

func TestExportImportRoundTrip(t *testing.T) {
	doc := sampleDocument(t)
	path := filepath.Join(t.TempDir(), "exports", "pass.json")
	now := time.Date(2026, 3, 4, 5, 6, 7, 890, time.FixedZone("X", 3600))

	if err := Export(path, doc, now); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	for _, want := range []string{
		`"exportedAt": "2026-03-04T04:06:07Z"`,
		`"primarySpeakerId": "A"`,
		`"timelineStart"`,
	} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("expected %s in export:\n%s", want, raw)
		}
	}

	got, err := Import(path)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if got.Version != Version {
		t.Fatalf("version = %d, want %d", got.Version, Version)
	}
	if !slices.Equal(got.Words, doc.Words) {
		t.Fatalf("words changed in round trip: %+v", got.Words)
	}
	if got.PrimarySpeaker() != "A" || got.Assignment.SlotFor("A", 0) != 1 {
		t.Fatalf("unexpected primary %q or assignment %v", got.PrimarySpeaker(), got.Assignment)
	}
	if got.Refinement == nil || got.Refinement.PassID != "pass-1" {
		t.Fatalf("unexpected refinement %+v", got.Refinement)
	}
	if len(got.FaceSlotsBySpeaker["A"]) != 2 {
		t.Fatalf("expected 2 face slots for A, got %+v", got.FaceSlotsBySpeaker)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Document)
		want   error
	}{
		{"version", func(d *Document) { d.Version = 2 }, ErrUnsupportedVersion},
		{"words", func(d *Document) { d.Words = nil }, ErrIncomplete},
		{"snippets", func(d *Document) { d.SpeakerSnippets = nil }, ErrIncomplete},
		{"thumbnails", func(d *Document) { d.Thumbnails = nil }, ErrIncomplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDocument(t)
			tt.mutate(&doc)
			err := doc.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation marker, got %v", err)
			}
		})
	}
	if err := sampleDocument(t).Validate(); err != nil {
		t.Fatalf("complete document rejected: %v", err)
	}
}

func TestDecodeRejects(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"version":1,"words":[]}`)); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("empty words: got %v", err)
	}
	if _, err := Decode(strings.NewReader(`{"version":`)); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("malformed json: got %v", err)
	}
	if _, err := Import(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing file: got %v", err)
	}
}

func TestEncodeNullPrimarySpeaker(t *testing.T) {
	doc := sampleDocument(t)
	doc.SetPrimarySpeaker("")
	var buf bytes.Buffer
	if err := Encode(&buf, doc, time.Unix(0, 0)); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"primarySpeakerId": null`) || !strings.Contains(out, `"exportedAt": "1970-01-01T00:00:00Z"`) {
		t.Fatalf("unexpected encoding:\n%s", out)
	}
}

func TestExportRefusesInvalid(t *testing.T) {
	doc := sampleDocument(t)
	doc.Thumbnails = nil
	path := filepath.Join(t.TempDir(), "pass.json")
	if err := Export(path, doc, time.Now()); err == nil {
		t.Fatal("expected invalid document to be refused")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("invalid documents must not be written, stat err %v", err)
	}
}

func TestBundleThumbnails(t *testing.T) {
	doc := sampleDocument(t)
	doc.Thumbnails[0].SpeakerID = "spk/0"
	dir := t.TempDir()

	bundled, err := BundleThumbnails(doc, dir)
	if err != nil {
		t.Fatalf("BundleThumbnails returned error: %v", err)
	}
	if len(bundled.Thumbnails) != 1 {
		t.Fatalf("expected 1 thumbnail, got %+v", bundled.Thumbnails)
	}
	if want := filepath.Join("thumbnails", "spk-0-0.jpg"); bundled.Thumbnails[0].Path != want {
		t.Fatalf("bundled path = %q, want %q", bundled.Thumbnails[0].Path, want)
	}
	data, err := os.ReadFile(filepath.Join(dir, bundled.Thumbnails[0].Path))
	if err != nil {
		t.Fatalf("read bundled thumbnail: %v", err)
	}
	if string(data) != "jpeg" {
		t.Fatalf("unexpected thumbnail bytes %q", data)
	}
	if doc.Thumbnails[0].Path == bundled.Thumbnails[0].Path {
		t.Fatal("original document must be unchanged")
	}

	doc.Thumbnails[0].Path = filepath.Join(dir, "missing.jpg")
	if _, err := BundleThumbnails(doc, dir); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing thumbnail: got %v", err)
	}
}
