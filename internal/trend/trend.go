// Package trend classifies the direction of a numeric series by comparing
// its first and last thirds. Both score aggregation and time-series
// summaries use the same classification so reports never disagree about
// whether a conversation is deteriorating.
package trend

// Direction is the coarse movement of a series.
type Direction string

const (
	Rising  Direction = "rising"
	Falling Direction = "falling"
	Stable  Direction = "stable"
)

// relativeChangeThreshold is the minimum relative change between the first
// and last third means before a series counts as moving.
const relativeChangeThreshold = 0.10

// Classify compares the mean of the first third of values against the mean
// of the last third. A relative change above 10% is rising or falling;
// anything smaller, or a series too short to split, is stable.
func Classify(values []float64) Direction {
	change := Change(values)
	switch {
	case change > relativeChangeThreshold:
		return Rising
	case change < -relativeChangeThreshold:
		return Falling
	default:
		return Stable
	}
}

// Change returns the relative change between the first and last third means,
// clamped to [-1, 1]. A zero early mean with nonzero late values saturates
// the change in the late direction.
func Change(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	third := len(values) / 3
	if third == 0 {
		third = 1
	}
	early := mean(values[:third])
	late := mean(values[len(values)-third:])

	if early == 0 {
		if late > 0 {
			return 1
		}
		if late < 0 {
			return -1
		}
		return 0
	}

	change := (late - early) / abs(early)
	if change > 1 {
		return 1
	}
	if change < -1 {
		return -1
	}
	return change
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
