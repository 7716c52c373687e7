package refine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"recut/internal/services"
	"recut/internal/transcript"
)

// Edit modes.
const (
	ModeWords = "words"
	ModeText  = "text"
)

// Edit is the generative edit service output. Structured words take
// precedence over freeform text.
type Edit struct {
	TrimmedWords []transcript.Word `json:"trimmed_words,omitempty"`
	TrimmedText  string            `json:"trimmed_text,omitempty"`
}

// Mode reports which payload the edit carries.
func (e Edit) Mode() string {
	if len(e.TrimmedWords) > 0 {
		return ModeWords
	}
	return ModeText
}

// Text returns the edit as plain text.
func (e Edit) Text() string {
	if e.Mode() == ModeWords {
		return transcript.PlainText(e.TrimmedWords)
	}
	return strings.TrimSpace(e.TrimmedText)
}

// Empty reports whether the edit carries nothing to align.
func (e Edit) Empty() bool {
	return len(e.TrimmedWords) == 0 && strings.TrimSpace(e.TrimmedText) == ""
}

// LoadEdit reads an edit payload from path. Files that are not JSON are
// treated as freeform text.
func LoadEdit(path string) (Edit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Edit{}, services.Wrap(services.ErrNotFound, "refine", "load edit", fmt.Sprintf("Edit %q not found", path), err)
		}
		return Edit{}, services.Wrap(services.ErrTransient, "refine", "load edit", "Failed to read edit", err)
	}
	return DecodeEdit(data)
}

// DecodeEdit parses an edit payload.
func DecodeEdit(data []byte) (Edit, error) {
	trimmed := strings.TrimSpace(string(data))
	var edit Edit
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), &edit); err != nil {
			return Edit{}, services.Wrap(services.ErrValidation, "refine", "decode edit", "Invalid edit payload", err)
		}
	} else {
		edit.TrimmedText = trimmed
	}
	if edit.Empty() {
		return Edit{}, services.Wrap(services.ErrValidation, "refine", "decode edit", "Edit has neither trimmed_words nor trimmed_text", nil)
	}
	return edit, nil
}
