// Package captions chunks retimed words into display cues and writes them as
// SubRip or WebVTT.
//
// Segmentation is a two-level greedy pass. Words are first grouped into
// sentences at terminal punctuation or long pauses, then sentences are packed
// into cues that respect word, character, and duration limits. A sentence
// that cannot fit on its own is cut at its last soft break (comma, semicolon,
// colon, or a short pause) before the limit. A single word that alone exceeds
// a limit becomes its own cue.
package captions
