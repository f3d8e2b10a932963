package timeseries

import (
	"sort"
	"time"
)

// ExportRow is one record of the tabular export: one row per timestamp,
// with every series' window merged in. Column names carry the series id as
// a prefix so metrics from different series never collide.
type ExportRow struct {
	Timestamp   time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	Values      map[string]float64
	Counts      map[string]int
}

// exportRows pivots the series map into one row per timestamp, ordered by
// timestamp. Series are merged in id order so repeated runs produce the
// same rows.
func exportRows(series map[string]*Series) []ExportRow {
	ids := make([]string, 0, len(series))
	for id := range series {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	byTime := make(map[time.Time]*ExportRow)
	for _, id := range ids {
		for _, point := range series[id].Points {
			ts := point.Timestamp.UTC()
			row, ok := byTime[ts]
			if !ok {
				row = &ExportRow{
					Timestamp:   point.Timestamp,
					PeriodStart: point.PeriodStart,
					PeriodEnd:   point.PeriodEnd,
					Values:      make(map[string]float64),
					Counts:      make(map[string]int),
				}
				byTime[ts] = row
			}
			for k, v := range point.Values {
				row.Values[id+"_"+k] = v
			}
			for k, v := range point.Counts {
				row.Counts[id+"_"+k+"_count"] = v
			}
		}
	}

	rows := make([]ExportRow, 0, len(byTime))
	for _, row := range byTime {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})
	return rows
}
