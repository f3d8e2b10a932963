package timeseries

import (
	"sort"

	"chatmark/internal/marker"
	"chatmark/internal/scoring"
)

// Heatmap is a labeled matrix; Values[y][x] belongs to YLabels[y] and
// XLabels[x].
type Heatmap struct {
	Title   string
	XLabels []string
	YLabels []string
	Values  [][]float64
}

// categoryHeatmap counts matches per category per window: rows are
// categories, columns are windows.
func (a *Aggregator) categoryHeatmap(matches []marker.Match, period Period) *Heatmap {
	var timed []marker.Match
	for _, m := range matches {
		if !m.Timestamp.IsZero() {
			timed = append(timed, m)
		}
	}
	if len(timed) == 0 {
		return nil
	}

	min, max := timed[0].Timestamp, timed[0].Timestamp
	for _, m := range timed[1:] {
		if m.Timestamp.Before(min) {
			min = m.Timestamp
		}
		if m.Timestamp.After(max) {
			max = m.Timestamp
		}
	}
	windows := buildWindows(min, max, period, a.cfg.CustomPeriodHours)
	categories := marker.Categories()

	hm := &Heatmap{
		Title:   "Marker Categories Over Time",
		YLabels: make([]string, len(categories)),
		Values:  make([][]float64, len(categories)),
	}
	for i, category := range categories {
		hm.YLabels[i] = string(category)
		hm.Values[i] = make([]float64, len(windows))
	}

	for x, window := range windows {
		hm.XLabels = append(hm.XLabels, window.Start.Format("2006-01-02 15:04"))
		for _, m := range timed {
			if !window.Contains(m.Timestamp) {
				continue
			}
			for y, category := range categories {
				if m.Category == category {
					hm.Values[y][x]++
					break
				}
			}
		}
	}
	return hm
}

// speakerHeatmap averages normalized scores per score type and speaker:
// rows are score types, columns are speakers.
func (a *Aggregator) speakerHeatmap(chunkScores []scoring.ChunkScore) *Heatmap {
	type cell struct {
		sum   float64
		count int
	}
	cells := make(map[scoring.ScoreType]map[string]*cell)
	speakerSet := make(map[string]bool)

	for _, score := range chunkScores {
		if score.Timestamp.IsZero() {
			continue
		}
		speaker := score.Speaker
		if speaker == "" {
			speaker = "Unknown"
		}
		if cells[score.ScoreType] == nil {
			cells[score.ScoreType] = make(map[string]*cell)
		}
		c := cells[score.ScoreType][speaker]
		if c == nil {
			c = &cell{}
			cells[score.ScoreType][speaker] = c
		}
		c.sum += score.NormalizedScore
		c.count++
		speakerSet[speaker] = true
	}
	if len(cells) == 0 {
		return nil
	}

	var scoreTypes []string
	for scoreType := range cells {
		scoreTypes = append(scoreTypes, string(scoreType))
	}
	sort.Strings(scoreTypes)

	var speakers []string
	for speaker := range speakerSet {
		speakers = append(speakers, speaker)
	}
	sort.Strings(speakers)

	hm := &Heatmap{
		Title:   "Average Scores by Type and Speaker",
		XLabels: speakers,
		YLabels: scoreTypes,
		Values:  make([][]float64, len(scoreTypes)),
	}
	for y, scoreType := range scoreTypes {
		hm.Values[y] = make([]float64, len(speakers))
		for x, speaker := range speakers {
			if c := cells[scoring.ScoreType(scoreType)][speaker]; c != nil && c.count > 0 {
				hm.Values[y][x] = c.sum / float64(c.count)
			}
		}
	}
	return hm
}
