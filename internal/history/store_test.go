package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"chatmark/internal/analysis"
	"chatmark/internal/chunker"
	"chatmark/internal/config"
	"chatmark/internal/marker"
	"chatmark/internal/matcher"
	"chatmark/internal/scoring"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.History{
		Enabled: true,
		Path:    filepath.Join(t.TempDir(), "history.db"),
	}
	store, err := Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult(runID string, started time.Time) *analysis.Result {
	return &analysis.Result{
		RunID:     runID,
		StartedAt: started,
		Elapsed:   1500 * time.Millisecond,
		Chunking:  &chunker.Result{Chunks: make([]chunker.Chunk, 4)},
		Matching: &matcher.Result{
			Matches:        make([]marker.Match, 3),
			RiskLevel:      matcher.RiskYellow,
			TotalRiskScore: 3.5,
			Summary:        "Risk level: YELLOW",
		},
		Scoring: &scoring.Result{
			Aggregated: map[scoring.ScoreType]scoring.Aggregate{
				scoring.TypeManipulationIndex: {AverageScore: 4.2},
			},
		},
		MarkerVersion:  2,
		MarkerChecksum: "deadbeef",
	}
}

func TestSaveAndGetRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	started := time.Date(2024, 5, 12, 14, 30, 0, 0, time.UTC)

	if err := store.SaveRun(ctx, sampleResult("run-1", started)); err != nil {
		t.Fatalf("save: %v", err)
	}

	record, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.ChunkCount != 4 || record.MatchCount != 3 {
		t.Fatalf("counts = %d/%d, want 4/3", record.ChunkCount, record.MatchCount)
	}
	if record.RiskLevel != "yellow" {
		t.Fatalf("risk level = %q", record.RiskLevel)
	}
	if !record.StartedAt.Equal(started) {
		t.Fatalf("started at = %s, want %s", record.StartedAt, started)
	}
	if record.Elapsed != 1500*time.Millisecond {
		t.Fatalf("elapsed = %s", record.Elapsed)
	}
	if got := record.Scores["manipulation_index"]; got != 4.2 {
		t.Fatalf("stored score = %f, want 4.2", got)
	}
	if record.MarkerVersion != 2 || record.MarkerChecksum != "deadbeef" {
		t.Fatal("marker snapshot identity lost")
	}
}

func TestGetRunNotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.GetRun(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 12, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		result := sampleResult("run-"+string(rune('a'+i)), base.Add(time.Duration(i)*time.Hour))
		if err := store.SaveRun(ctx, result); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	records, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].RunID != "run-c" || records[1].RunID != "run-b" {
		t.Fatalf("order = %s, %s", records[0].RunID, records[1].RunID)
	}
}

func TestDeleteRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveRun(ctx, sampleResult("run-1", time.Now())); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.DeleteRun(ctx, "run-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteRun(ctx, "run-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
