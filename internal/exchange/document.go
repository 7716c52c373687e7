// Package exchange implements the version 1 pass document used to cache,
// export, and resume a completed refinement pass.
package exchange

import (
	"errors"
	"fmt"
	"time"

	"recut/internal/refine"
	"recut/internal/services"
	"recut/internal/speakers"
	"recut/internal/transcript"
)

// Version is the only document schema this package reads or writes.
const Version = 1

var (
	// ErrUnsupportedVersion rejects documents from another schema.
	ErrUnsupportedVersion = errors.New("unsupported pass document version")
	// ErrIncomplete rejects documents missing the data needed to resume.
	ErrIncomplete = errors.New("incomplete pass document")
)

// Thumbnail references a face crop for one speaker slot.
type Thumbnail struct {
	SpeakerID string `json:"speakerId"`
	Slot      int    `json:"slot"`
	Path      string `json:"path"`
}

// Document is a completed pass. Field names follow the upstream JSON
// contract.
type Document struct {
	Version            int                                   `json:"version"`
	Words              []transcript.Word                     `json:"words"`
	Refinement         *refine.Result                        `json:"refinement,omitempty"`
	SpeakerSnippets    []transcript.SpeakerSnippet           `json:"speakerSnippets"`
	FaceSlotsBySpeaker map[string][]transcript.FaceCandidate `json:"faceSlotsBySpeaker"`
	Thumbnails         []Thumbnail                           `json:"thumbnails"`
	PrimarySpeakerID   *string                               `json:"primarySpeakerId"`
	MaxFaces           int                                   `json:"maxFaces"`
	Assignment         speakers.Assignment                   `json:"assignment,omitempty"`
	ExportedAt         time.Time                             `json:"exportedAt"`
}

// New returns a Document at the current version.
func New(words []transcript.Word) Document {
	return Document{
		Version:            Version,
		Words:              words,
		FaceSlotsBySpeaker: map[string][]transcript.FaceCandidate{},
	}
}

// SetPrimarySpeaker records id, or clears the field when id is empty.
func (d *Document) SetPrimarySpeaker(id string) {
	if id == "" {
		d.PrimarySpeakerID = nil
		return
	}
	d.PrimarySpeakerID = &id
}

// PrimarySpeaker returns the primary speaker id or "".
func (d Document) PrimarySpeaker() string {
	if d.PrimarySpeakerID == nil {
		return ""
	}
	return *d.PrimarySpeakerID
}

// Validate checks that d can resume a pass.
func (d Document) Validate() error {
	if d.Version != Version {
		return services.Wrap(services.ErrValidation, "exchange", "validate",
			fmt.Sprintf("Document version %d, want %d", d.Version, Version), ErrUnsupportedVersion)
	}
	var missing []string
	if len(d.Words) == 0 {
		missing = append(missing, "words")
	}
	if len(d.SpeakerSnippets) == 0 {
		missing = append(missing, "speakerSnippets")
	}
	if len(d.Thumbnails) == 0 {
		missing = append(missing, "thumbnails")
	}
	if len(missing) > 0 {
		return services.Wrap(services.ErrValidation, "exchange", "validate",
			fmt.Sprintf("Document missing %v", missing), ErrIncomplete)
	}
	return nil
}
