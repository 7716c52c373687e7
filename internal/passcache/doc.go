// Package passcache persists completed refinement passes and resolved
// speaker assignments in SQLite so an unchanged edit or source never has to
// be recomputed or re-confirmed.
//
// Entries are keyed by content digests supplied by the caller (see Key). The
// cache is caller-owned: nothing in the alignment engine consults it
// implicitly. Writes take a file lock beside the database so concurrent CLI
// invocations serialize cleanly.
package passcache
