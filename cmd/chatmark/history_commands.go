package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"chatmark/internal/history"
	"chatmark/internal/report"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect archived analysis runs",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryDeleteCommand(ctx))

	return historyCmd
}

func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return errors.New("history is disabled; set history.enabled = true in the configuration")
	}

	store, err := history.Open(cfg.History)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				records, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No archived runs")
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						record.RunID,
						record.StartedAt.Local().Format(time.DateTime),
						record.RiskLevel,
						strconv.Itoa(record.ChunkCount),
						strconv.Itoa(record.MatchCount),
						fmt.Sprintf("%.1f", record.TotalRiskScore),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), report.Table(
					[]string{"Run", "Started", "Risk", "Chunks", "Matches", "Score"},
					rows,
					[]report.Alignment{report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignRight, report.AlignRight, report.AlignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one archived run in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				record, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, record)
				}

				rows := [][]string{
					{"Run", record.RunID},
					{"Started", record.StartedAt.Local().Format(time.DateTime)},
					{"Elapsed", record.Elapsed.String()},
					{"Chunks", strconv.Itoa(record.ChunkCount)},
					{"Matches", strconv.Itoa(record.MatchCount)},
					{"Risk level", record.RiskLevel},
					{"Risk score", fmt.Sprintf("%.1f", record.TotalRiskScore)},
					{"Markers", fmt.Sprintf("v%d (%.8s)", record.MarkerVersion, record.MarkerChecksum)},
				}
				for _, scoreType := range sortedScoreNames(record.Scores) {
					rows = append(rows, []string{scoreType, fmt.Sprintf("%.1f", record.Scores[scoreType])})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, report.Table([]string{"Field", "Value"}, rows, nil))
				if record.Summary != "" {
					fmt.Fprintln(out)
					fmt.Fprintln(out, record.Summary)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the record as JSON")
	return cmd
}

func newHistoryDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete one archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				if err := store.DeleteRun(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
				return nil
			})
		},
	}
}

func sortedScoreNames(scores map[string]float64) []string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
