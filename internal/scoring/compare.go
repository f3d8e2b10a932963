package scoring

import (
	"fmt"
	"sort"
)

// Comparison contrasts one model's scores across speakers.
type Comparison struct {
	ModelID   string
	ScoreType ScoreType

	Speakers    []string
	Scores      map[string]Aggregate
	Differences map[string]float64

	// Winner is the speaker with the most favorable average for the
	// model's scale orientation.
	Winner   string
	Insights []string
}

// CompareSpeakers contrasts per-speaker aggregates under one model. At least
// two speakers must have scores for that model.
func (e *Engine) CompareSpeakers(speakerScores map[string]map[ScoreType]Aggregate, modelID string) (*Comparison, error) {
	model, ok := e.models[modelID]
	if !ok {
		return nil, fmt.Errorf("unknown scoring model %q", modelID)
	}

	cmp := &Comparison{
		ModelID:     model.ID,
		ScoreType:   model.Type,
		Scores:      make(map[string]Aggregate),
		Differences: make(map[string]float64),
	}

	for speaker, byType := range speakerScores {
		if agg, ok := byType[model.Type]; ok {
			cmp.Speakers = append(cmp.Speakers, speaker)
			cmp.Scores[speaker] = agg
		}
	}
	if len(cmp.Speakers) < 2 {
		return nil, fmt.Errorf("speaker comparison for %q needs at least two scored speakers, have %d", modelID, len(cmp.Speakers))
	}
	sort.Strings(cmp.Speakers)

	for i := 0; i < len(cmp.Speakers); i++ {
		for j := i + 1; j < len(cmp.Speakers); j++ {
			a, b := cmp.Speakers[i], cmp.Speakers[j]
			key := a + " vs " + b
			cmp.Differences[key] = cmp.Scores[a].AverageScore - cmp.Scores[b].AverageScore
		}
	}

	cmp.Winner = pickWinner(cmp, model)
	cmp.Insights = compareInsights(cmp, model)
	return cmp, nil
}

// pickWinner chooses the speaker whose average is most favorable: highest
// on an inverse (health) scale, lowest on a normal (risk) scale.
func pickWinner(cmp *Comparison, model *Model) string {
	winner := cmp.Speakers[0]
	for _, speaker := range cmp.Speakers[1:] {
		current := cmp.Scores[speaker].AverageScore
		best := cmp.Scores[winner].AverageScore
		if model.InverseScale {
			if current > best {
				winner = speaker
			}
		} else if current < best {
			winner = speaker
		}
	}
	return winner
}

func compareInsights(cmp *Comparison, model *Model) []string {
	var insights []string
	insights = append(insights, fmt.Sprintf("%s shows the most favorable %s (%.1f)",
		cmp.Winner, model.Name, cmp.Scores[cmp.Winner].AverageScore))

	for _, speaker := range cmp.Speakers {
		agg := cmp.Scores[speaker]
		if agg.Trend == "stable" {
			continue
		}
		insights = append(insights, fmt.Sprintf("%s: %s is %s", speaker, model.Name, agg.Trend))
	}
	return insights
}
