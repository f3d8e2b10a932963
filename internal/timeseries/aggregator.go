package timeseries

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"chatmark/internal/config"
	"chatmark/internal/logging"
	"chatmark/internal/marker"
	"chatmark/internal/scoring"
)

// SeriesSummary is the condensed view of one series used in reports.
type SeriesSummary struct {
	Average       float64
	Trend         string
	Periods       int
	ActivePeriods int
}

// Result bundles everything an aggregation run produced.
type Result struct {
	Period   Period
	Series   map[string]*Series
	Heatmaps map[string]*Heatmap

	// Correlations pairs the ordered score series IDs with their Pearson
	// correlation matrix. Nil when fewer than two score series exist or
	// the series are too short.
	Correlations *CorrelationMatrix

	Summary map[string]SeriesSummary
	Export  []ExportRow
	Elapsed time.Duration
}

// Aggregator buckets scores and matches into time windows.
type Aggregator struct {
	cfg    config.Aggregation
	logger *slog.Logger
}

// New returns an Aggregator with the given configuration.
func New(cfg config.Aggregation, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		cfg:    cfg,
		logger: logging.WithComponent(logger, "timeseries"),
	}
}

// Aggregate builds all time series for the run. An empty period falls back
// to the configured one. Inputs without timestamps are ignored; if nothing
// carries a timestamp the result contains no series.
func (a *Aggregator) Aggregate(chunkScores []scoring.ChunkScore, matches []marker.Match, period Period) (*Result, error) {
	start := time.Now()

	if period == "" {
		period = Period(a.cfg.Period)
	}
	period, err := ParsePeriod(string(period))
	if err != nil {
		return nil, err
	}

	result := &Result{
		Period:   period,
		Series:   make(map[string]*Series),
		Heatmaps: make(map[string]*Heatmap),
		Summary:  make(map[string]SeriesSummary),
	}

	for id, series := range a.aggregateScores(chunkScores, period) {
		result.Series[id] = series
	}
	for id, series := range a.aggregateMarkers(matches, period) {
		result.Series[id] = series
	}

	if hm := a.categoryHeatmap(matches, period); hm != nil {
		result.Heatmaps["marker_categories"] = hm
	}
	if hm := a.speakerHeatmap(chunkScores); hm != nil {
		result.Heatmaps["score_comparison"] = hm
	}

	result.Correlations = correlateScoreSeries(result.Series)

	for id, series := range result.Series {
		result.Summary[id] = SeriesSummary{
			Average:       series.Stats.Average,
			Trend:         string(series.Stats.Trend),
			Periods:       series.Stats.TotalPeriods,
			ActivePeriods: series.Stats.NonZeroPeriods,
		}
	}

	result.Export = exportRows(result.Series)
	result.Elapsed = time.Since(start)

	a.logger.Info("aggregation complete",
		"period", string(period),
		"series", len(result.Series),
		"heatmaps", len(result.Heatmaps),
		"elapsed", result.Elapsed)
	return result, nil
}

// aggregateScores produces one series per score type present in the input.
func (a *Aggregator) aggregateScores(chunkScores []scoring.ChunkScore, period Period) map[string]*Series {
	byType := make(map[scoring.ScoreType][]scoring.ChunkScore)
	for _, score := range chunkScores {
		if score.Timestamp.IsZero() {
			continue
		}
		byType[score.ScoreType] = append(byType[score.ScoreType], score)
	}

	out := make(map[string]*Series, len(byType))
	for scoreType, scores := range byType {
		sort.Slice(scores, func(i, j int) bool { return scores[i].Timestamp.Before(scores[j].Timestamp) })

		windows := buildWindows(scores[0].Timestamp, scores[len(scores)-1].Timestamp, period, a.cfg.CustomPeriodHours)

		var points []Point
		for _, window := range windows {
			var windowScores []scoring.ChunkScore
			for _, s := range scores {
				if window.Contains(s.Timestamp) {
					windowScores = append(windowScores, s)
				}
			}
			if len(windowScores) == 0 && !a.cfg.IncludeZeroPeriods {
				continue
			}
			points = append(points, scorePoint(windowScores, window))
		}

		if a.cfg.SmoothData {
			smooth(points, a.cfg.SmoothingWindow)
		}

		id := "scores_" + string(scoreType)
		series := &Series{
			ID:         id,
			Name:       titleCase(string(scoreType)) + " Scores",
			MetricType: "score",
			Period:     period,
			Points:     points,
		}
		series.Stats = seriesStats(series)
		out[id] = series
	}
	return out
}

func scorePoint(scores []scoring.ChunkScore, window Window) Point {
	point := Point{
		Timestamp:   window.Start,
		PeriodStart: window.Start,
		PeriodEnd:   window.End,
		Values:      map[string]float64{"mean": 0, "min": 0, "max": 0, "std": 0, "median": 0},
		Counts:      map[string]int{"chunk_count": len(scores)},
	}
	if len(scores) == 0 {
		return point
	}

	values := make([]float64, len(scores))
	sum := 0.0
	confSum := 0.0
	min, max := scores[0].NormalizedScore, scores[0].NormalizedScore
	for i, s := range scores {
		values[i] = s.NormalizedScore
		sum += s.NormalizedScore
		confSum += s.Confidence
		if s.NormalizedScore < min {
			min = s.NormalizedScore
		}
		if s.NormalizedScore > max {
			max = s.NormalizedScore
		}
	}
	mean := sum / float64(len(values))

	point.Values["mean"] = mean
	point.Values["min"] = min
	point.Values["max"] = max
	point.Values["std"] = stdDev(values, mean)
	point.Values["median"] = median(values)
	point.Values["confidence_avg"] = confSum / float64(len(values))
	return point
}

// aggregateMarkers produces the total match-count series plus one series
// per category that actually occurs.
func (a *Aggregator) aggregateMarkers(matches []marker.Match, period Period) map[string]*Series {
	var timed []marker.Match
	for _, m := range matches {
		if !m.Timestamp.IsZero() {
			timed = append(timed, m)
		}
	}
	if len(timed) == 0 {
		return nil
	}
	sort.Slice(timed, func(i, j int) bool { return timed[i].Timestamp.Before(timed[j].Timestamp) })

	windows := buildWindows(timed[0].Timestamp, timed[len(timed)-1].Timestamp, period, a.cfg.CustomPeriodHours)

	seen := make(map[marker.Category]bool)
	for _, m := range timed {
		seen[m.Category] = true
	}
	var categories []marker.Category
	for _, c := range marker.Categories() {
		if seen[c] {
			categories = append(categories, c)
		}
	}

	var totalPoints []Point
	categoryPoints := make(map[marker.Category][]Point)

	for _, window := range windows {
		counts := make(map[marker.Category]int)
		total := 0
		for _, m := range timed {
			if window.Contains(m.Timestamp) {
				counts[m.Category]++
				total++
			}
		}
		if total == 0 && !a.cfg.IncludeZeroPeriods {
			continue
		}

		totalPoint := Point{
			Timestamp:   window.Start,
			PeriodStart: window.Start,
			PeriodEnd:   window.End,
			Values:      map[string]float64{"marker_count": float64(total)},
			Counts:      map[string]int{"total": total},
		}
		for category, count := range counts {
			totalPoint.Counts[string(category)] = count
		}
		totalPoints = append(totalPoints, totalPoint)

		for _, category := range categories {
			categoryPoints[category] = append(categoryPoints[category], Point{
				Timestamp:   window.Start,
				PeriodStart: window.Start,
				PeriodEnd:   window.End,
				Values:      map[string]float64{"count": float64(counts[category])},
				Counts:      map[string]int{string(category): counts[category]},
			})
		}
	}

	out := make(map[string]*Series, len(categories)+1)
	total := &Series{
		ID:         "markers_total",
		Name:       "Total Marker Count",
		MetricType: "count",
		Period:     period,
		Points:     totalPoints,
	}
	total.Stats = seriesStats(total)
	out["markers_total"] = total

	for _, category := range categories {
		id := "markers_" + string(category)
		series := &Series{
			ID:         id,
			Name:       titleCase(string(category)) + " Markers",
			MetricType: "count",
			Period:     period,
			Points:     categoryPoints[category],
		}
		series.Stats = seriesStats(series)
		out[id] = series
	}
	return out
}

func titleCase(snake string) string {
	words := strings.Split(snake, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
