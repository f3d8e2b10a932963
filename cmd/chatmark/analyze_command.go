package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"chatmark/internal/analysis"
	"chatmark/internal/chunker"
	"chatmark/internal/config"
	"chatmark/internal/history"
	"chatmark/internal/report"
	"chatmark/internal/timeseries"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		formatFlag string
		periodFlag string
		modelsFlag []string
		jsonFlag   bool
		csvPath    string
		noHistory  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <transcript>",
		Short: "Run the full analysis pipeline over a chat transcript",
		Long: `Analyze chunks a chat transcript, matches it against the marker registry,
computes risk scores, and aggregates them into time series. Pass "-" to read
the transcript from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			format, err := chunker.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			var period timeseries.Period
			if periodFlag != "" {
				period, err = timeseries.ParsePeriod(periodFlag)
				if err != nil {
					return err
				}
			}

			text, err := readTranscript(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			registry, issues, err := ctx.loadRegistry(logger)
			if err != nil {
				return err
			}
			for _, issue := range issues {
				fmt.Fprintf(cmd.ErrOrStderr(), "marker registry: %s\n", issue)
			}

			pipeline := analysis.New(cfg, registry, logger)
			result, err := pipeline.Run(cmd.Context(), text, analysis.Options{
				FormatHint: format,
				Models:     modelsFlag,
				Period:     period,
			})
			if err != nil {
				return err
			}

			if jsonFlag {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
			} else {
				renderRiskHeadline(cmd.OutOrStdout(), result.Matching.RiskLevel)
				if err := report.New(cmd.OutOrStdout()).Render(result); err != nil {
					return err
				}
			}

			if csvPath != "" {
				if err := writeExport(csvPath, result); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote time-series export to %s\n", csvPath)
			}

			if cfg.History.Enabled && !noHistory {
				if err := archiveRun(cmd, cfg.History, result); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "auto", "Transcript format (auto, whatsapp, telegram, generic, plain)")
	cmd.Flags().StringVarP(&periodFlag, "period", "p", "", "Aggregation period override (hourly, daily, weekly, monthly, quarterly, yearly, custom)")
	cmd.Flags().StringSliceVarP(&modelsFlag, "model", "m", nil, "Restrict scoring to the named models")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the full result as JSON instead of tables")
	cmd.Flags().StringVar(&csvPath, "export-csv", "", "Write the flattened time-series export to this CSV file")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Skip archiving this run even when history is enabled")

	return cmd
}

func readTranscript(stdin io.Reader, arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	path, err := config.ExpandPath(arg)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return string(data), nil
}

func writeExport(path string, result *analysis.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := report.WriteCSV(file, result.TimeSeries.Export); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func archiveRun(cmd *cobra.Command, cfg config.History, result *analysis.Result) error {
	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	if err := store.SaveRun(cmd.Context(), result); err != nil {
		return fmt.Errorf("archive run: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Archived run %s\n", result.RunID)
	return nil
}
