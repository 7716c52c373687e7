package testsupport

import "recut/internal/transcript"

// InterviewWords returns a two-speaker source transcript used across package
// tests. Speaker A opens with a sentence that the edit usually cuts into.
func InterviewWords() []transcript.Word {
	return []transcript.Word{
		{Text: "Thanks", Start: 0.0, End: 0.3, SpeakerID: "A"},
		{Text: "for", Start: 0.3, End: 0.45, SpeakerID: "A"},
		{Text: "coming.", Start: 0.45, End: 0.9, SpeakerID: "A"},
		{Text: "So", Start: 1.2, End: 1.4, SpeakerID: "B"},
		{Text: "I", Start: 1.4, End: 1.5, SpeakerID: "B"},
		{Text: "think", Start: 1.5, End: 1.8, SpeakerID: "B"},
		{Text: "that", Start: 1.8, End: 2.0, SpeakerID: "B"},
		{Text: "we", Start: 2.0, End: 2.1, SpeakerID: "B"},
		{Text: "shipped", Start: 2.1, End: 2.5, SpeakerID: "B"},
		{Text: "early.", Start: 2.5, End: 3.0, SpeakerID: "B"},
		{Text: "It", Start: 4.0, End: 4.2, SpeakerID: "A"},
		{Text: "worked", Start: 4.2, End: 4.6, SpeakerID: "A"},
		{Text: "out", Start: 4.6, End: 4.8, SpeakerID: "A"},
		{Text: "well.", Start: 4.8, End: 5.3, SpeakerID: "A"},
	}
}
