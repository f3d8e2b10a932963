package timeseries

import (
	"fmt"
	"time"
)

// Period is the aggregation window size.
type Period string

const (
	PeriodHourly    Period = "hourly"
	PeriodDaily     Period = "daily"
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
	PeriodCustom    Period = "custom"
)

// ParsePeriod validates a period string from configuration or CLI flags.
func ParsePeriod(raw string) (Period, error) {
	switch Period(raw) {
	case PeriodHourly, PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly, PeriodCustom:
		return Period(raw), nil
	default:
		return "", fmt.Errorf("unknown aggregation period %q", raw)
	}
}

// Window is a half-open [Start,End) time interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether ts falls inside the window.
func (w Window) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && ts.Before(w.End)
}

// align snaps ts down to the period boundary so windows line up with the
// calendar instead of the first observation.
func align(ts time.Time, period Period, customHours int) time.Time {
	switch period {
	case PeriodHourly:
		return ts.Truncate(time.Hour)
	case PeriodDaily:
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	case PeriodWeekly:
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
		// Weeks start on Monday.
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case PeriodMonthly:
		return time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, ts.Location())
	case PeriodQuarterly:
		quarter := (int(ts.Month()) - 1) / 3
		return time.Date(ts.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, ts.Location())
	case PeriodYearly:
		return time.Date(ts.Year(), 1, 1, 0, 0, 0, 0, ts.Location())
	case PeriodCustom:
		if customHours <= 0 {
			customHours = 24
		}
		return ts.Truncate(time.Duration(customHours) * time.Hour)
	default:
		return ts.Truncate(24 * time.Hour)
	}
}

// next advances a window start by one period, calendar-aware for months,
// quarters, and years.
func next(start time.Time, period Period, customHours int) time.Time {
	switch period {
	case PeriodHourly:
		return start.Add(time.Hour)
	case PeriodDaily:
		return start.AddDate(0, 0, 1)
	case PeriodWeekly:
		return start.AddDate(0, 0, 7)
	case PeriodMonthly:
		return start.AddDate(0, 1, 0)
	case PeriodQuarterly:
		return start.AddDate(0, 3, 0)
	case PeriodYearly:
		return start.AddDate(1, 0, 0)
	case PeriodCustom:
		if customHours <= 0 {
			customHours = 24
		}
		return start.Add(time.Duration(customHours) * time.Hour)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// buildWindows returns consecutive windows covering [min, max]. There is
// always at least one window, and the final window contains max.
func buildWindows(min, max time.Time, period Period, customHours int) []Window {
	var windows []Window
	current := align(min, period, customHours)
	for !current.After(max) {
		end := next(current, period, customHours)
		windows = append(windows, Window{Start: current, End: end})
		current = end
	}
	return windows
}
