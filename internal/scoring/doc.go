// Package scoring turns marker matches into numeric scores on a 1-10 scale.
//
// A scoring model assigns weights to marker categories and multipliers to
// severities; the engine evaluates every chunk against every active model,
// normalizes by chunk length, and aggregates the results into per-model,
// per-speaker, and per-hour views with threshold alerts.
package scoring
