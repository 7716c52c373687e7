// Package transcript defines the time-coded data model shared by the recut
// pipeline and loads source transcripts produced by upstream speech-to-text
// services.
//
// Words, keep ranges, range mappings, caption cues, and speaker snippets are
// rebuilt on every refinement cycle. Source word lists are sorted by start
// time once loaded and must not be mutated afterwards; every stage copies
// before it changes anything.
//
// Loaders accept the native JSON shape as well as Amazon Transcribe and
// ElevenLabs Scribe output files so a pass can start from whatever the
// transcription step left on disk.
package transcript
