package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"chatmark/internal/timeseries"
)

// WriteCSV writes the time-series export as CSV, one row per timestamp.
// Columns are the window fields followed by every value and count key seen
// across the export, sorted for stable output. Cells without a value stay
// empty.
func WriteCSV(w io.Writer, rows []timeseries.ExportRow) error {
	valueKeys := map[string]struct{}{}
	countKeys := map[string]struct{}{}
	for _, row := range rows {
		for k := range row.Values {
			valueKeys[k] = struct{}{}
		}
		for k := range row.Counts {
			countKeys[k] = struct{}{}
		}
	}

	header := []string{"timestamp", "period_start", "period_end"}
	header = append(header, sortedKeys(valueKeys)...)
	header = append(header, sortedKeys(countKeys)...)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range rows {
		record[0] = row.Timestamp.UTC().Format(time.RFC3339)
		record[1] = row.PeriodStart.UTC().Format(time.RFC3339)
		record[2] = row.PeriodEnd.UTC().Format(time.RFC3339)
		for i, key := range header[3:] {
			cell := ""
			if v, ok := row.Values[key]; ok {
				cell = strconv.FormatFloat(v, 'f', -1, 64)
			} else if c, ok := row.Counts[key]; ok {
				cell = strconv.Itoa(c)
			}
			record[3+i] = cell
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
