// Package main hosts the recut CLI entrypoint and command graph.
//
// The Cobra-based command tree loads source transcripts and edit payloads,
// runs refinement passes, writes caption files and pass documents, walks the
// speaker-to-face confirmation flow, and manages the pass cache. It
// centralizes configuration resolution, logging setup, and output formatting
// so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
