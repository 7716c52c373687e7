// Package textutil provides the text primitives the recut pipeline compares
// words with.
//
// The primary use cases are:
//   - Canonicalizing transcript tokens so edited text can be matched back to
//     source words (NormalizeToken, TokenizeEdit)
//   - Bounded edit distance for optional near-miss matching
//   - Term fingerprints and cosine similarity for measuring how much of an
//     edit survived alignment
//   - Sanitizing filenames for derived output files
//
// Token normalization folds diacritics, lowercases, and keeps only ASCII
// letters, digits, and apostrophes. An empty normalized token is valid and
// callers skip it.
package textutil
