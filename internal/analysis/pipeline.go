package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"chatmark/internal/chunker"
	"chatmark/internal/config"
	"chatmark/internal/logging"
	"chatmark/internal/marker"
	"chatmark/internal/matcher"
	"chatmark/internal/scoring"
	"chatmark/internal/timeseries"
)

// Diagnostic is a non-fatal problem observed during a run.
type Diagnostic struct {
	Stage  string
	Detail string
}

// Result bundles the outputs of every pipeline stage for one run.
type Result struct {
	RunID     string
	StartedAt time.Time
	Elapsed   time.Duration

	Chunking    *chunker.Result
	Matching    *matcher.Result
	Scoring     *scoring.Result
	TimeSeries  *timeseries.Result
	Diagnostics []Diagnostic

	MarkerVersion  int64
	MarkerChecksum string
}

// Options tune a single run beyond the static configuration.
type Options struct {
	// FormatHint forces the transcript format instead of detecting it.
	FormatHint chunker.Format
	// Models restricts scoring to the named models; empty means all.
	Models []string
	// Period overrides the configured aggregation period.
	Period timeseries.Period
}

// Pipeline wires the four stages together over a marker registry.
type Pipeline struct {
	cfg      *config.Config
	registry *marker.Registry
	engine   *scoring.Engine
	logger   *slog.Logger
}

// New builds a pipeline. The registry must already be loaded; the scoring
// engine starts with the default models.
func New(cfg *config.Config, registry *marker.Registry, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:      cfg,
		registry: registry,
		engine:   scoring.NewEngine(logger),
		logger:   logging.WithComponent(logger, "pipeline"),
	}
}

// Engine exposes the scoring engine for custom model registration.
func (p *Pipeline) Engine() *scoring.Engine { return p.engine }

// Run executes all stages over one transcript. Stage-level issues (bad
// timestamps, invalid patterns) are collected as diagnostics; only
// structural failures such as an invalid period abort the run.
func (p *Pipeline) Run(ctx context.Context, text string, opts Options) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: start,
	}
	logger := p.logger.With(logging.String(logging.FieldRunID, result.RunID))

	snapshot := p.registry.Snapshot()
	result.MarkerVersion = snapshot.Version()
	result.MarkerChecksum = snapshot.Checksum()
	logger.Info("run started",
		"markers", snapshot.Len(),
		"marker_version", snapshot.Version(),
		"bytes", len(text))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("stage started", logging.String(logging.FieldStage, "chunking"))
	result.Chunking = chunker.New(p.cfg.Chunking, logger).Chunk(text, opts.FormatHint)
	for _, issue := range result.Chunking.Issues {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{Stage: "chunking", Detail: issue})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("stage started", logging.String(logging.FieldStage, "matching"))
	result.Matching = matcher.New(snapshot, p.cfg.Matching, logger).Analyze(result.Chunking.Chunks)
	for _, issue := range result.Matching.Issues {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{Stage: "matching", Detail: issue})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("stage started", logging.String(logging.FieldStage, "scoring"))
	result.Scoring = p.engine.Score(result.Chunking.Chunks, result.Matching.Matches, opts.Models)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("stage started", logging.String(logging.FieldStage, "aggregation"))
	aggregated, err := timeseries.New(p.cfg.Aggregation, logger).Aggregate(
		result.Scoring.ChunkScores, result.Matching.Matches, opts.Period)
	if err != nil {
		return nil, Wrap(ErrAggregation, "aggregation", "build time series", err)
	}
	result.TimeSeries = aggregated

	result.Elapsed = time.Since(start)
	logger.Info("run finished",
		logging.Int(logging.FieldChunkCount, len(result.Chunking.Chunks)),
		logging.Int(logging.FieldMatchCount, len(result.Matching.Matches)),
		"risk_level", string(result.Matching.RiskLevel),
		"diagnostics", len(result.Diagnostics),
		"elapsed", result.Elapsed)
	return result, nil
}
