// Package logging assembles structured slog loggers used across the chatmark
// pipeline.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes typed attribute helpers so stage code tags log lines
// with component names, run IDs, and chunk/match counts in a consistent
// shape. A no-op logger is provided for tests and wiring code that cannot
// fail.
//
// Prefer these constructors over hand-rolled slog setup so every stage emits
// events with the same shape and routing guarantees.
package logging
