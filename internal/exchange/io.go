package exchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"recut/internal/fileutil"
	"recut/internal/services"
	"recut/internal/textutil"
)

// Decode reads and validates a document.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, services.Wrap(services.ErrValidation, "exchange", "decode", "Invalid pass document", err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Import reads and validates the document at path.
func Import(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Document{}, services.Wrap(services.ErrNotFound, "exchange", "import", fmt.Sprintf("Pass document %q not found", path), err)
		}
		return Document{}, services.Wrap(services.ErrTransient, "exchange", "import", "Failed to read pass document", err)
	}
	return Decode(bytes.NewReader(data))
}

// Encode stamps ExportedAt and writes doc as indented JSON.
func Encode(w io.Writer, doc Document, now time.Time) error {
	doc.Version = Version
	doc.ExportedAt = now.UTC().Truncate(time.Second)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return services.Wrap(services.ErrTransient, "exchange", "encode", "Failed to encode pass document", err)
	}
	return nil
}

// Export validates doc and atomically writes it to path.
func Export(path string, doc Document, now time.Time) error {
	doc.Version = Version
	if err := doc.Validate(); err != nil {
		return err
	}
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, doc, now)
	})
	if err != nil {
		return services.Wrap(services.ErrTransient, "exchange", "export", "Failed to write pass document", err)
	}
	return nil
}

// BundleThumbnails copies every thumbnail into dir/thumbnails and returns a
// copy of doc whose thumbnail paths are relative to dir.
func BundleThumbnails(doc Document, dir string) (Document, error) {
	out := doc
	out.Thumbnails = make([]Thumbnail, len(doc.Thumbnails))
	for i, thumb := range doc.Thumbnails {
		rel := filepath.Join("thumbnails", fmt.Sprintf("%s-%d%s", safeID(thumb.SpeakerID), thumb.Slot, filepath.Ext(thumb.Path)))
		if err := fileutil.CopyFile(thumb.Path, filepath.Join(dir, rel)); err != nil {
			marker := services.ErrTransient
			if errors.Is(err, os.ErrNotExist) {
				marker = services.ErrNotFound
			}
			return Document{}, services.Wrap(marker, "exchange", "bundle", fmt.Sprintf("Failed to copy thumbnail %q", thumb.Path), err)
		}
		thumb.Path = rel
		out.Thumbnails[i] = thumb
	}
	return out, nil
}

func safeID(id string) string {
	if s := textutil.SanitizeFileName(id); s != "" {
		return s
	}
	return "speaker"
}
