// Package config loads, normalizes, and validates chatmark configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI and analysis pipeline need: marker registry locations, chunking and
// matching thresholds, aggregation windows, the optional embedding provider,
// and the optional run-history store.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
