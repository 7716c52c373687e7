package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"recut/internal/services"
)

// Format identifies a source transcript encoding.
type Format string

const (
	FormatNative     Format = "native"
	FormatTranscribe Format = "aws-transcribe"
	FormatScribe     Format = "scribe"
)

// LoadWords reads a source transcript file and returns its words sorted by
// start time.
func LoadWords(path string) ([]Word, Format, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, "", services.Wrap(services.ErrValidation, "transcript", "load", "Transcript path is empty", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", services.Wrap(services.ErrNotFound, "transcript", "load", fmt.Sprintf("Transcript %q not found", path), err)
		}
		return nil, "", services.Wrap(services.ErrTransient, "transcript", "load", "Failed to read transcript", err)
	}
	return DecodeWords(data)
}

// DecodeWords detects the transcript format of data and decodes it.
func DecodeWords(data []byte) ([]Word, Format, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, "", services.Wrap(services.ErrValidation, "transcript", "decode", "Transcript is empty", nil)
	}

	var (
		words  []Word
		format Format
		err    error
	)
	switch {
	case trimmed[0] == '[':
		format = FormatNative
		err = json.Unmarshal(trimmed, &words)
	default:
		format, words, err = decodeObject(trimmed)
	}
	if err != nil {
		return nil, format, services.Wrap(services.ErrValidation, "transcript", "decode", fmt.Sprintf("Invalid %s transcript", formatLabel(format)), err)
	}
	if len(words) == 0 {
		return nil, format, services.Wrap(services.ErrValidation, "transcript", "decode", "Transcript contains no words", nil)
	}
	sort.SliceStable(words, func(i, j int) bool { return words[i].Start < words[j].Start })
	return words, format, nil
}

type objectProbe struct {
	Results json.RawMessage `json:"results"`
	Words   json.RawMessage `json:"words"`
}

func decodeObject(data []byte) (Format, []Word, error) {
	var probe objectProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return FormatNative, nil, err
	}
	if len(probe.Results) > 0 {
		words, err := decodeTranscribe(data)
		return FormatTranscribe, words, err
	}
	if len(probe.Words) == 0 {
		return FormatNative, nil, errors.New("missing words array")
	}
	if isScribe(probe.Words) {
		words, err := decodeScribe(probe.Words)
		return FormatScribe, words, err
	}
	var words []Word
	if err := json.Unmarshal(probe.Words, &words); err != nil {
		return FormatNative, nil, err
	}
	return FormatNative, words, nil
}

func formatLabel(f Format) string {
	if f == "" {
		return "json"
	}
	return string(f)
}

// transcribeResult mirrors the subset of Amazon Transcribe output used here.
type transcribeResult struct {
	Results struct {
		Items []transcribeItem `json:"items"`
	} `json:"results"`
}

type transcribeItem struct {
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	Type         string `json:"type"`
	SpeakerLabel string `json:"speaker_label,omitempty"`
	Alternatives []struct {
		Content string `json:"content"`
	} `json:"alternatives"`
}

func decodeTranscribe(data []byte) ([]Word, error) {
	var result transcribeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	words := make([]Word, 0, len(result.Results.Items))
	for i, item := range result.Results.Items {
		if len(item.Alternatives) == 0 {
			continue
		}
		content := item.Alternatives[0].Content
		switch item.Type {
		case "punctuation":
			// Punctuation has no timing; it belongs to the preceding word.
			if n := len(words); n > 0 {
				words[n-1].Text += content
			}
		case "pronunciation":
			start, err := strconv.ParseFloat(item.StartTime, 64)
			if err != nil {
				return nil, fmt.Errorf("item %d start_time: %w", i, err)
			}
			end, err := strconv.ParseFloat(item.EndTime, 64)
			if err != nil {
				return nil, fmt.Errorf("item %d end_time: %w", i, err)
			}
			words = append(words, Word{
				Text:      content,
				Start:     start,
				End:       end,
				SpeakerID: item.SpeakerLabel,
			})
		}
	}
	return words, nil
}

// scribeWord mirrors an ElevenLabs Scribe word entry.
type scribeWord struct {
	Text      string  `json:"text"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Type      string  `json:"type"`
	SpeakerID string  `json:"speaker_id"`
}

func isScribe(raw json.RawMessage) bool {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil || len(entries) == 0 {
		return false
	}
	_, hasType := entries[0]["type"]
	return hasType
}

func decodeScribe(raw json.RawMessage) ([]Word, error) {
	var entries []scribeWord
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	words := make([]Word, 0, len(entries))
	for _, entry := range entries {
		if entry.Type != "word" {
			continue
		}
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}
		words = append(words, Word{
			Text:      text,
			Start:     entry.Start,
			End:       entry.End,
			SpeakerID: entry.SpeakerID,
		})
	}
	return words, nil
}
