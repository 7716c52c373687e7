package refine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"recut/internal/config"
	"recut/internal/metrics"
	"recut/internal/services"
	"recut/internal/transcript"
)

func interview() []transcript.Word {
	return []transcript.Word{
		{Text: "Welcome", Start: 0, End: 0.4, SpeakerID: "A"},
		{Text: "back.", Start: 0.4, End: 0.8, SpeakerID: "A"},
		{Text: "So", Start: 1.0, End: 1.2, SpeakerID: "A"},
		{Text: "I", Start: 1.2, End: 1.3, SpeakerID: "A"},
		{Text: "started", Start: 1.3, End: 1.7, SpeakerID: "A"},
		{Text: "baking", Start: 1.7, End: 2.1, SpeakerID: "A"},
		{Text: "because", Start: 2.1, End: 2.5, SpeakerID: "A"},
		{Text: "my", Start: 2.5, End: 2.6, SpeakerID: "A"},
		{Text: "grandmother", Start: 2.6, End: 3.2, SpeakerID: "A"},
		{Text: "taught", Start: 3.2, End: 3.5, SpeakerID: "A"},
		{Text: "me.", Start: 3.5, End: 3.8, SpeakerID: "A"},
		{Text: "That's", Start: 6.0, End: 6.3, SpeakerID: "B"},
		{Text: "lovely.", Start: 6.3, End: 6.9, SpeakerID: "B"},
	}
}

func TestRunTextEditEndToEnd(t *testing.T) {
	recorder := metrics.New()
	refiner := New(DefaultOptions(), nil, recorder)

	result, err := refiner.Run(context.Background(), interview(), Edit{TrimmedText: "because my grandmother taught me. lovely"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.PassID == "" || result.Mode != ModeText {
		t.Fatalf("unexpected pass metadata %+v", result)
	}
	if result.Prepended != 4 || result.Words[0].Text != "So" {
		t.Fatalf("expected extension back to 'So', got prepended=%d first=%q", result.Prepended, result.Words[0].Text)
	}
	if len(result.Ranges) != 2 {
		t.Fatalf("expected two keep ranges, got %+v", result.Ranges)
	}
	if result.Ranges[0].Start != 1.0 || result.Ranges[0].End != 3.8 {
		t.Fatalf("unexpected first range %+v", result.Ranges[0])
	}
	if result.Mappings[1].TimelineStart != result.Ranges[0].Duration() {
		t.Fatalf("second mapping should start where the first ends: %+v", result.Mappings)
	}
	if len(result.Captions) == 0 || result.Captions[0].Start != 0 {
		t.Fatalf("expected captions on the output timeline, got %+v", result.Captions)
	}
	if result.Coverage <= 0.5 {
		t.Fatalf("expected high coverage, got %v", result.Coverage)
	}
	if n, err := testutil.GatherAndCount(recorder.Registry(), "recut_passes_total"); err != nil || n != 1 {
		t.Fatalf("expected one pass series recorded, got %d (%v)", n, err)
	}
}

func TestRunCatSat(t *testing.T) {
	source := []transcript.Word{
		{Text: "the", Start: 0, End: 0.3},
		{Text: "cat", Start: 0.3, End: 0.6},
		{Text: "sat", Start: 0.6, End: 0.9},
		{Text: "down", Start: 0.9, End: 1.2},
	}
	opts := DefaultOptions()
	opts.ExtendSentences = false
	result, err := New(opts, nil, nil).Run(context.Background(), source, Edit{TrimmedText: "cat sat"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(result.Words) != 2 || result.Words[0].Start != 0.3 || result.Words[1].End != 0.9 {
		t.Fatalf("unexpected aligned words %+v", result.Words)
	}
	if len(result.Ranges) != 1 || result.Ranges[0] != (transcript.TimeRange{Start: 0.3, End: 0.9}) {
		t.Fatalf("unexpected ranges %+v", result.Ranges)
	}
}

func TestRunNoClips(t *testing.T) {
	result, err := New(DefaultOptions(), nil, nil).Run(context.Background(), interview(), Edit{TrimmedText: "nothing here matches"})
	if !errors.Is(err, ErrNoClips) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected no clips validation error, got %v", err)
	}
	if len(result.Ranges) != 0 || len(result.Misses) != 3 {
		t.Fatalf("expected empty ranges and reported misses, got %+v", result)
	}
}

func TestRunStructuredWordsSkipAlignment(t *testing.T) {
	source := interview()
	edit := Edit{TrimmedWords: source[11:13], TrimmedText: "ignored"}
	result, err := New(DefaultOptions(), nil, nil).Run(context.Background(), source, edit)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Mode != ModeWords || result.Prepended != 0 || len(result.Misses) != 0 {
		t.Fatalf("expected words mode without alignment, got %+v", result)
	}
	if len(result.Ranges) != 1 || result.Ranges[0].Start != 6.0 {
		t.Fatalf("unexpected ranges %+v", result.Ranges)
	}
	if result.Coverage < 0.999 {
		t.Fatalf("expected full coverage for structured words, got %v", result.Coverage)
	}
}

func TestRunSplitsSpeakers(t *testing.T) {
	source := []transcript.Word{
		{Text: "are", Start: 0, End: 0.3, SpeakerID: "A"},
		{Text: "you", Start: 0.3, End: 0.5, SpeakerID: "A"},
		{Text: "ready", Start: 0.5, End: 0.9, SpeakerID: "A"},
		{Text: "yes", Start: 0.9, End: 1.3, SpeakerID: "B"},
	}
	opts := DefaultOptions()
	opts.SplitSpeakers = true
	result, err := New(opts, nil, nil).Run(context.Background(), source, Edit{TrimmedWords: source})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(result.Ranges) != 2 || result.Ranges[0].End != 0.9 {
		t.Fatalf("expected split at speaker change, got %+v", result.Ranges)
	}
}

func TestRunRejectsEmptyInputs(t *testing.T) {
	r := New(DefaultOptions(), nil, nil)
	if _, err := r.Run(context.Background(), nil, Edit{TrimmedText: "x"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty source, got %v", err)
	}
	if _, err := r.Run(context.Background(), interview(), Edit{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty edit, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Run(ctx, interview(), Edit{TrimmedText: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled context, got %v", err)
	}
}

func TestRunBatch(t *testing.T) {
	edits := []Edit{
		{TrimmedText: "Welcome back."},
		{TrimmedText: "unmatched words only"},
		{TrimmedText: "That's lovely."},
	}
	items, err := New(DefaultOptions(), nil, nil).RunBatch(context.Background(), interview(), edits, 2)
	if err != nil {
		t.Fatalf("RunBatch returned error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Err != nil || items[2].Err != nil {
		t.Fatalf("expected successful passes, got %v / %v", items[0].Err, items[2].Err)
	}
	if !errors.Is(items[1].Err, ErrNoClips) {
		t.Fatalf("expected second pass to report no clips, got %v", items[1].Err)
	}
	if items[0].Result.PassID == items[2].Result.PassID {
		t.Fatal("expected distinct pass ids")
	}
}

func TestDecodeEdit(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		mode    string
		wantErr bool
	}{
		{"text", `{"trimmed_text":"hello there"}`, ModeText, false},
		{"words", `{"trimmed_words":[{"text":"hi","start":0,"end":0.2}]}`, ModeWords, false},
		{"plain", "just some text\n", ModeText, false},
		{"empty object", `{}`, "", true},
		{"malformed", `{"trimmed_text":`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edit, err := DecodeEdit([]byte(tt.data))
			if tt.wantErr {
				if !errors.Is(err, services.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeEdit: %v", err)
			}
			if edit.Mode() != tt.mode {
				t.Fatalf("mode = %q, want %q", edit.Mode(), tt.mode)
			}
		})
	}
}

func TestLoadEdit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edit.json")
	if err := os.WriteFile(path, []byte(`{"trimmed_text":"cat sat"}`), 0o644); err != nil {
		t.Fatalf("write edit: %v", err)
	}
	edit, err := LoadEdit(path)
	if err != nil || edit.Text() != "cat sat" {
		t.Fatalf("LoadEdit = %+v, %v", edit, err)
	}
	if _, err := LoadEdit(filepath.Join(dir, "missing.json")); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Alignment.NearMiss = true
	cfg.Captions.MaxWords = 5
	cfg.Lexicon.SoftBreakChars = ";"
	opts := OptionsFromConfig(&cfg)
	if !opts.NearMiss || opts.Captions.MaxWords != 5 || opts.Captions.SoftBreakMarks != ";" {
		t.Fatalf("unexpected options %+v", opts)
	}
	if !strings.Contains(opts.Captions.TerminalMarks, "?") {
		t.Fatalf("expected terminal marks carried over, got %q", opts.Captions.TerminalMarks)
	}
}
