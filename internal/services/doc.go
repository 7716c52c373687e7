// Package services defines shared utilities consumed by the recut pipeline,
// its storage layers, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp refinement pass IDs and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent CLI exit codes.
//
// Use these helpers when wiring new I/O code so failure classification stays
// uniform across loaders, the pass cache, and the exchange format.
package services
