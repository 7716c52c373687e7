// Package config loads, normalizes, and validates recut configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// refinement pipeline and CLI need: alignment tolerances, the heuristic word
// lists used for sentence-boundary repair, caption legibility limits, snippet
// sizing, and where caches, exports, and logs live.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
