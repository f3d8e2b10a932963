package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"chatmark/internal/analysis"
	"chatmark/internal/scoring"
)

// Renderer writes human-readable result sections to a terminal or file.
type Renderer struct {
	out io.Writer
}

// New returns a Renderer writing to out.
func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render writes the complete report: overview, risk summary, scores,
// alerts, speakers, and time-series digests.
func (r *Renderer) Render(result *analysis.Result) error {
	sections := []string{
		r.overview(result),
		result.Matching.Summary,
		r.scoresTable(result.Scoring),
		r.alertsTable(result.Scoring),
		r.speakersTable(result.Scoring),
		r.seriesTable(result),
	}

	for _, section := range sections {
		if section == "" {
			continue
		}
		if _, err := fmt.Fprintln(r.out, section); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(r.out); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) overview(result *analysis.Result) string {
	rows := [][]string{
		{"Run", result.RunID},
		{"Chunks", strconv.Itoa(len(result.Chunking.Chunks))},
		{"Matches", strconv.Itoa(len(result.Matching.Matches))},
		{"Risk level", strings.ToUpper(string(result.Matching.RiskLevel))},
		{"Markers", fmt.Sprintf("v%d (%.8s)", result.MarkerVersion, result.MarkerChecksum)},
		{"Elapsed", result.Elapsed.Round(time.Millisecond).String()},
	}
	if len(result.Diagnostics) > 0 {
		rows = append(rows, []string{"Diagnostics", strconv.Itoa(len(result.Diagnostics))})
	}
	return Table([]string{"Field", "Value"}, rows, nil)
}

func (r *Renderer) scoresTable(result *scoring.Result) string {
	if len(result.Aggregated) == 0 {
		return ""
	}

	interpretations := make(map[scoring.ScoreType]string, len(result.Summary.KeyInsights))
	for _, insight := range result.Summary.KeyInsights {
		interpretations[insight.ScoreType] = insight.Interpretation
	}

	types := sortedScoreTypes(result.Aggregated)
	rows := make([][]string, 0, len(types))
	for _, scoreType := range types {
		agg := result.Aggregated[scoreType]
		rows = append(rows, []string{
			string(scoreType),
			fmt.Sprintf("%.1f", agg.AverageScore),
			fmt.Sprintf("%.1f", agg.MinScore),
			fmt.Sprintf("%.1f", agg.MaxScore),
			string(agg.Trend),
			interpretations[scoreType],
		})
	}
	return Table(
		[]string{"Score", "Avg", "Min", "Max", "Trend", "Rating"},
		rows,
		[]Alignment{AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft, AlignLeft},
	)
}

func (r *Renderer) alertsTable(result *scoring.Result) string {
	if len(result.Alerts) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(result.Alerts))
	for _, alert := range result.Alerts {
		rows = append(rows, []string{
			strings.ToUpper(alert.Level),
			string(alert.ScoreType),
			alert.Message,
			fmt.Sprintf("%.1f", alert.Threshold),
		})
	}
	return Table(
		[]string{"Level", "Score", "Message", "Threshold"},
		rows,
		[]Alignment{AlignLeft, AlignLeft, AlignLeft, AlignRight},
	)
}

func (r *Renderer) speakersTable(result *scoring.Result) string {
	if len(result.SpeakerScores) < 2 {
		return ""
	}

	speakers := make([]string, 0, len(result.SpeakerScores))
	for speaker := range result.SpeakerScores {
		speakers = append(speakers, speaker)
	}
	sort.Strings(speakers)

	var rows [][]string
	for _, speaker := range speakers {
		for _, scoreType := range sortedScoreTypes(result.SpeakerScores[speaker]) {
			agg := result.SpeakerScores[speaker][scoreType]
			rows = append(rows, []string{
				speaker,
				string(scoreType),
				fmt.Sprintf("%.1f", agg.AverageScore),
				string(agg.Trend),
			})
		}
	}
	return Table(
		[]string{"Speaker", "Score", "Avg", "Trend"},
		rows,
		[]Alignment{AlignLeft, AlignLeft, AlignRight, AlignLeft},
	)
}

func (r *Renderer) seriesTable(result *analysis.Result) string {
	if result.TimeSeries == nil || len(result.TimeSeries.Summary) == 0 {
		return ""
	}

	ids := make([]string, 0, len(result.TimeSeries.Summary))
	for id := range result.TimeSeries.Summary {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		summary := result.TimeSeries.Summary[id]
		rows = append(rows, []string{
			id,
			fmt.Sprintf("%.2f", summary.Average),
			summary.Trend,
			fmt.Sprintf("%d/%d", summary.ActivePeriods, summary.Periods),
		})
	}
	return Table(
		[]string{"Series", "Avg", "Trend", "Active"},
		rows,
		[]Alignment{AlignLeft, AlignRight, AlignLeft, AlignRight},
	)
}

func sortedScoreTypes(m map[scoring.ScoreType]scoring.Aggregate) []scoring.ScoreType {
	types := make([]scoring.ScoreType, 0, len(m))
	for scoreType := range m {
		types = append(types, scoreType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
