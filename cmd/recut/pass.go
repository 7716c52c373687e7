package main

import (
	"context"
	"encoding/json"
	"io"
	"slices"
	"strings"

	"recut/internal/captions"
	"recut/internal/config"
	"recut/internal/exchange"
	"recut/internal/fileutil"
	"recut/internal/logging"
	"recut/internal/passcache"
	"recut/internal/refine"
	"recut/internal/services"
	"recut/internal/speakers"
	"recut/internal/transcript"
)

// runPass runs one refinement pass, consulting the pass cache when useCache
// is set. The boolean reports a cache hit.
func (c *commandContext) runPass(ctx context.Context, src sourceFile, edit refine.Edit, opts refine.Options, useCache bool) (refine.Result, bool, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return refine.Result{}, false, err
	}

	var (
		store *passcache.Store
		key   string
	)
	if useCache {
		store, err = c.openCache()
		if err != nil {
			return refine.Result{}, false, err
		}
		defer store.Close()

		key, err = passKey(src.raw, edit, opts)
		if err != nil {
			return refine.Result{}, false, err
		}
		cached, ok, err := store.GetPass(ctx, key)
		if err != nil {
			return refine.Result{}, false, err
		}
		if ok {
			logger.Info("pass cache hit",
				logging.String("cache_key", key[:12]),
				logging.String(logging.FieldPassID, cached.PassID),
			)
			return cached, true, nil
		}
	}

	result, err := refine.New(opts, logger, c.recorder).Run(ctx, src.words, edit)
	if err != nil {
		return result, false, err
	}
	if store != nil {
		if err := store.PutPass(ctx, key, result); err != nil {
			logging.WarnWithContext(logger, "pass cache write failed", "cache_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "the next run will recompute this pass"),
			)
		}
	}
	return result, false, nil
}

// passKey identifies a pass by its source bytes, edit payload, and tuning.
func passKey(source []byte, edit refine.Edit, opts refine.Options) (string, error) {
	editData, err := json.Marshal(edit)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "cli", "cache key", "Failed to encode edit", err)
	}
	optsData, err := json.Marshal(opts)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "cli", "cache key", "Failed to encode options", err)
	}
	return passcache.Key(source, editData, optsData), nil
}

// assignmentKey identifies a speaker-to-face assignment by the source words
// and the face detections it was chosen from, so rerunning detection never
// serves a stale map.
func assignmentKey(words []transcript.Word, faces map[string][]transcript.FaceCandidate) (string, error) {
	wordData, err := json.Marshal(words)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "cli", "assignment key", "Failed to encode words", err)
	}
	faceData, err := json.Marshal(faces)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "cli", "assignment key", "Failed to encode face slots", err)
	}
	return passcache.Key(wordData, faceData), nil
}

// offersAssignment reports whether every slot in cached is still offered by
// machine.
func offersAssignment(machine speakers.Machine, cached speakers.Assignment) bool {
	offered := machine.AvailableSlots()
	for _, slot := range cached {
		if !slices.Contains(offered, slot) {
			return false
		}
	}
	return true
}

func writeCaptionFile(cfg *config.Config, path string, cues []transcript.CaptionCue) (captions.Format, error) {
	fallback, err := captions.ParseFormat(cfg.Captions.Format)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "cli", "write captions", "Invalid caption format", err)
	}
	format := captions.FormatForPath(path, fallback)
	err = fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return captions.Write(w, format, cues)
	})
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "cli", "write captions", "Failed to write caption file", err)
	}
	return format, nil
}

func snippetOptions(cfg *config.Config) speakers.SnippetOptions {
	return speakers.SnippetOptions{
		MinDuration: cfg.Snippets.MinDurationSeconds,
		MaxGap:      cfg.Snippets.MaxGapSeconds,
	}
}

// faceDetections is the face detector output merged into pass documents.
type faceDetections struct {
	FaceSlotsBySpeaker map[string][]transcript.FaceCandidate `json:"faceSlotsBySpeaker"`
	Thumbnails         []exchange.Thumbnail                  `json:"thumbnails"`
	MaxFaces           int                                   `json:"maxFaces"`
}

func loadFaces(path string) (faceDetections, error) {
	var faces faceDetections
	if strings.TrimSpace(path) == "" {
		return faces, nil
	}
	data, err := readInput("faces", path)
	if err != nil {
		return faces, err
	}
	if err := json.Unmarshal(data, &faces); err != nil {
		return faces, services.Wrap(services.ErrValidation, "cli", "read faces", "Invalid face detection file", err)
	}
	return faces, nil
}

// buildDocument assembles a pass document. When the face data leaves nothing
// to ask, the trivial assignment is recorded immediately.
func buildDocument(cfg *config.Config, src sourceFile, result *refine.Result, faces faceDetections, duration float64) exchange.Document {
	total := duration
	if total <= 0 {
		total = transcript.TotalDuration(src.words)
	}
	doc := exchange.New(src.words)
	doc.Refinement = result
	doc.SpeakerSnippets = speakers.ExtractSnippets(src.words, total, snippetOptions(cfg))
	if faces.FaceSlotsBySpeaker != nil {
		doc.FaceSlotsBySpeaker = faces.FaceSlotsBySpeaker
	}
	doc.Thumbnails = faces.Thumbnails
	doc.MaxFaces = faces.MaxFaces

	machine, assignment := speakers.Machine{}.Begin(doc.SpeakerSnippets, doc.FaceSlotsBySpeaker)
	doc.SetPrimarySpeaker(machine.Primary())
	if machine.State() == speakers.StateResolved {
		doc.Assignment = assignment
	}
	return doc
}
