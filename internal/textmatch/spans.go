package textmatch

import "sort"

// Span is a half-open [Start,End) interval with a match confidence.
type Span struct {
	Start      int
	End        int
	Confidence float64
}

// SelectSpans resolves overlapping spans by greedy interval scheduling:
// candidates are ranked by confidence (desc) then start (asc), and each is
// accepted only if it overlaps no previously accepted span. The returned
// indices reference the input slice and are ordered by start position.
func SelectSpans(spans []Span) []int {
	if len(spans) == 0 {
		return nil
	}

	order := make([]int, len(spans))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := spans[order[i]], spans[order[j]]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.Start < b.Start
	})

	var accepted []int
	for _, idx := range order {
		candidate := spans[idx]
		overlaps := false
		for _, keptIdx := range accepted {
			kept := spans[keptIdx]
			if candidate.Start < kept.End && kept.Start < candidate.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			accepted = append(accepted, idx)
		}
	}

	sort.Slice(accepted, func(i, j int) bool {
		return spans[accepted[i]].Start < spans[accepted[j]].Start
	})
	return accepted
}
