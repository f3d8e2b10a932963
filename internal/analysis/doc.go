// Package analysis orchestrates the full pipeline: chunking a transcript,
// matching markers, scoring, and time-series aggregation. It owns the run
// identity, stage-boundary logging, and the collected diagnostics of a run.
package analysis
