package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"chatmark/internal/logging"
	"chatmark/internal/report"
)

func newMarkersCommand(ctx *commandContext) *cobra.Command {
	markersCmd := &cobra.Command{
		Use:   "markers",
		Short: "Marker registry utilities",
	}

	markersCmd.AddCommand(newMarkersListCommand(ctx))
	markersCmd.AddCommand(newMarkersValidateCommand(ctx))

	return markersCmd
}

func newMarkersListCommand(ctx *commandContext) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List markers loaded from the configured directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, issues, err := ctx.loadRegistry(logging.NewNop())
			if err != nil {
				return err
			}

			snapshot := registry.Snapshot()
			defs := snapshot.All()
			if !showAll {
				defs = snapshot.Active()
			}

			rows := make([][]string, 0, len(defs))
			for _, def := range defs {
				rows = append(rows, []string{
					def.ID,
					def.Name,
					string(def.Category),
					string(def.Severity),
					strconv.FormatFloat(def.Weight, 'g', -1, 64),
					strconv.Itoa(len(def.Patterns) + len(def.Keywords) + len(def.Examples)),
					yesNo(def.Active),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.Table(
				[]string{"ID", "Name", "Category", "Severity", "Weight", "Phrases", "Active"},
				rows,
				[]report.Alignment{report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignRight, report.AlignRight, report.AlignLeft},
			))

			if len(issues) > 0 {
				fmt.Fprintf(out, "\n%d entries were skipped; run `chatmark markers validate` for details\n", len(issues))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "Include inactive markers")
	return cmd
}

func newMarkersValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every marker file and report skipped entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, issues, err := ctx.loadRegistry(logging.NewNop())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			snapshot := registry.Snapshot()
			fmt.Fprintf(out, "Loaded %d markers (checksum %.8s)\n", snapshot.Len(), snapshot.Checksum())

			if len(issues) == 0 {
				fmt.Fprintln(out, "All marker files are valid")
				return nil
			}
			for _, issue := range issues {
				fmt.Fprintf(out, "skipped: %s\n", issue)
			}
			return fmt.Errorf("%d marker entries were skipped", len(issues))
		},
	}
}
