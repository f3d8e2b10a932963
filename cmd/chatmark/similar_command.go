package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"chatmark/internal/chunker"
	"chatmark/internal/embedding"
	"chatmark/internal/report"
)

func newSimilarCommand(ctx *commandContext) *cobra.Command {
	var (
		formatFlag string
		topFlag    int
	)

	cmd := &cobra.Command{
		Use:   "similar <query> <transcript>",
		Short: "Rank transcript chunks by semantic similarity to a query",
		Long: `Similar chunks the transcript, embeds every chunk together with the query
phrase through the configured embedding provider, and prints the closest
chunks by cosine similarity. Requires embedding.enabled in the configuration.`,
		Args: cobra.ExactArgs(2),
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

			client, err := embedding.NewClient(cfg.Embedding, logger)
			if errors.Is(err, embedding.ErrDisabled) {
				return errors.New("embedding is disabled; set embedding.enabled = true and an API key in the configuration")
			}
			if err != nil {
				return err
			}
			provider := embedding.NewCachedProvider(client)

			text, err := readTranscript(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}
			chunked := chunker.New(cfg.Chunking, logger).Chunk(text, format)
			if len(chunked.Chunks) == 0 {
				return errors.New("transcript produced no chunks")
			}

			texts := make([]string, 0, len(chunked.Chunks)+1)
			texts = append(texts, args[0])
			for _, chunk := range chunked.Chunks {
				texts = append(texts, chunk.Text)
			}
			vectors, err := provider.Embed(cmd.Context(), texts)
			if err != nil {
				return fmt.Errorf("embed chunks: %w", err)
			}

			type ranked struct {
				chunk      chunker.Chunk
				similarity float64
			}
			results := make([]ranked, 0, len(chunked.Chunks))
			for i, chunk := range chunked.Chunks {
				results = append(results, ranked{
					chunk:      chunk,
					similarity: embedding.Cosine(vectors[0], vectors[i+1]),
				})
			}
			sort.Slice(results, func(i, j int) bool { return results[i].similarity > results[j].similarity })
			if topFlag > 0 && len(results) > topFlag {
				results = results[:topFlag]
			}

			rows := make([][]string, 0, len(results))
			for rank, r := range results {
				speaker := ""
				if r.chunk.Speaker != nil {
					speaker = r.chunk.Speaker.Name
				}
				rows = append(rows, []string{
					strconv.Itoa(rank + 1),
					fmt.Sprintf("%.3f", r.similarity),
					speaker,
					excerpt(r.chunk.Text, 80),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Table(
				[]string{"#", "Similarity", "Speaker", "Excerpt"},
				rows,
				[]report.Alignment{report.AlignRight, report.AlignRight, report.AlignLeft, report.AlignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "auto", "Transcript format (auto, whatsapp, telegram, generic, plain)")
	cmd.Flags().IntVarP(&topFlag, "top", "n", 5, "Number of chunks to show")
	return cmd
}

func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}
