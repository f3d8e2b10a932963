package timeseries

import (
	"math"
	"sort"
	"strings"
)

// CorrelationMatrix holds pairwise Pearson correlations between score
// series. Matrix[i][j] correlates SeriesIDs[i] with SeriesIDs[j].
type CorrelationMatrix struct {
	SeriesIDs []string
	Matrix    [][]float64
}

// minCorrelationPoints guards against meaningless correlations over tiny
// series.
const minCorrelationPoints = 4

// correlateScoreSeries builds the correlation matrix over all score series
// of equal length. Nil when fewer than two qualify.
func correlateScoreSeries(series map[string]*Series) *CorrelationMatrix {
	var ids []string
	for id, s := range series {
		if strings.HasPrefix(id, "scores_") && len(s.Points) >= minCorrelationPoints {
			ids = append(ids, id)
		}
	}
	if len(ids) < 2 {
		return nil
	}
	sort.Strings(ids)

	values := make([][]float64, len(ids))
	for i, id := range ids {
		values[i] = series[id].mainValues()
	}

	matrix := make([][]float64, len(ids))
	for i := range ids {
		matrix[i] = make([]float64, len(ids))
		for j := range ids {
			if len(values[i]) == len(values[j]) {
				matrix[i][j] = pearson(values[i], values[j])
			}
		}
	}
	return &CorrelationMatrix{SeriesIDs: ids, Matrix: matrix}
}

// pearson returns the Pearson correlation coefficient, or 0 when either
// series has no variance.
func pearson(a, b []float64) float64 {
	n := len(a)
	if n == 0 || n != len(b) {
		return 0
	}

	meanA, meanB := 0.0, 0.0
	for i := 0; i < n; i++ {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(n)
	meanB /= float64(n)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}
