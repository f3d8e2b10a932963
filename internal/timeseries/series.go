package timeseries

import (
	"math"
	"sort"
	"time"

	"chatmark/internal/trend"
)

// Point is one aggregated window in a series.
type Point struct {
	Timestamp   time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time

	// Values holds aggregated metrics (mean, min, max, std, median, or
	// count depending on the series type).
	Values map[string]float64
	// Counts holds integer tallies such as chunk and category counts.
	Counts map[string]int
}

// Stats summarizes a whole series.
type Stats struct {
	TotalPeriods   int
	NonZeroPeriods int
	Average        float64
	StdDev         float64
	Min            float64
	Max            float64
	Sum            float64
	Trend          trend.Direction
}

// Series is a time-ordered sequence of aggregated points.
type Series struct {
	ID         string
	Name       string
	MetricType string
	Period     Period
	Points     []Point
	Stats      Stats
}

// mainValues extracts the primary metric of each point: "count" metrics use
// the count value, score metrics use the window mean.
func (s *Series) mainValues() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		switch s.MetricType {
		case "count":
			if v, ok := p.Values["marker_count"]; ok {
				values[i] = v
			} else {
				values[i] = p.Values["count"]
			}
		default:
			values[i] = p.Values["mean"]
		}
	}
	return values
}

func seriesStats(s *Series) Stats {
	values := s.mainValues()
	if len(values) == 0 {
		return Stats{}
	}

	stats := Stats{
		TotalPeriods: len(values),
		Min:          values[0],
		Max:          values[0],
		Trend:        trend.Classify(values),
	}
	for _, v := range values {
		stats.Sum += v
		if v > 0 {
			stats.NonZeroPeriods++
		}
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	stats.Average = stats.Sum / float64(len(values))
	stats.StdDev = stdDev(values, stats.Average)
	return stats
}

func stdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// smooth writes a centered moving average of the window means into each
// point as "mean_smoothed". The raw mean is kept untouched.
func smooth(points []Point, window int) {
	if window < 2 || len(points) <= window {
		return
	}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Values["mean"]
	}
	half := window / 2
	for i := range points {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(values) {
			hi = len(values)
		}
		sum := 0.0
		for _, v := range values[lo:hi] {
			sum += v
		}
		points[i].Values["mean_smoothed"] = sum / float64(hi-lo)
	}
}
