// Package alignment maps freeform edited text back onto the time-coded source
// transcript.
//
// The Aligner walks the edited tokens with a forward-only cursor into the
// source words, so matches are monotonic and source timestamps, speakers, and
// original spelling are preserved. Tokens with no remaining match are dropped
// and reported as misses. The Extender then repairs clips that begin in the
// middle of a sentence by prepending the missing source words, using the word
// lists in a Lexicon so locales can be swapped without touching the
// algorithm.
//
// Everything here is pure and synchronous; callers may run it on any
// goroutine.
package alignment
