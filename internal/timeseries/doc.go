// Package timeseries aggregates chunk scores and marker matches into
// time-indexed series.
//
// Timestamps are bucketed into calendar-aligned windows (hour, day, week,
// month, quarter, year, or a custom hour span) that cover the full observed
// range without gaps. Each series carries per-window statistics, an overall
// trend, and optional moving-average smoothing; heatmaps and correlation
// matrices are derived from the same windows.
package timeseries
