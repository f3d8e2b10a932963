package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"chatmark/internal/analysis"
	"chatmark/internal/config"
)

// ErrNotFound is returned when a run id has no stored record.
var ErrNotFound = errors.New("run not found")

// Record is one archived analysis run.
type Record struct {
	RunID          string
	StartedAt      time.Time
	Elapsed        time.Duration
	ChunkCount     int
	MatchCount     int
	RiskLevel      string
	TotalRiskScore float64
	MarkerVersion  int64
	MarkerChecksum string
	Summary        string
	Scores         map[string]float64
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg config.History) (*Store, error) {
	path, err := config.ExpandPath(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve history path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
    run_id           TEXT PRIMARY KEY,
    started_at       TEXT NOT NULL,
    elapsed_ms       INTEGER NOT NULL,
    chunk_count      INTEGER NOT NULL,
    match_count      INTEGER NOT NULL,
    risk_level       TEXT NOT NULL,
    total_risk_score REAL NOT NULL,
    marker_version   INTEGER NOT NULL,
    marker_checksum  TEXT NOT NULL,
    summary          TEXT NOT NULL,
    scores_json      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// SaveRun archives the headline facts of a finished pipeline run.
func (s *Store) SaveRun(ctx context.Context, result *analysis.Result) error {
	scores := make(map[string]float64, len(result.Scoring.Aggregated))
	for scoreType, agg := range result.Scoring.Aggregated {
		scores[string(scoreType)] = agg.AverageScore
	}
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (
            run_id, started_at, elapsed_ms, chunk_count, match_count,
            risk_level, total_risk_score, marker_version, marker_checksum,
            summary, scores_json
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.StartedAt.UTC().Format(time.RFC3339Nano),
		result.Elapsed.Milliseconds(),
		len(result.Chunking.Chunks),
		len(result.Matching.Matches),
		string(result.Matching.RiskLevel),
		result.Matching.TotalRiskScore,
		result.MarkerVersion,
		result.MarkerChecksum,
		result.Matching.Summary,
		string(scoresJSON),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRun loads one archived run by id.
func (s *Store) GetRun(ctx context.Context, runID string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, started_at, elapsed_ms, chunk_count, match_count,
                risk_level, total_risk_score, marker_version, marker_checksum,
                summary, scores_json
         FROM runs WHERE run_id = ?`, runID)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %q: %w", runID, ErrNotFound)
	}
	return record, err
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, started_at, elapsed_ms, chunk_count, match_count,
                risk_level, total_risk_score, marker_version, marker_checksum,
                summary, scores_json
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteRun removes one archived run.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %q: %w", runID, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		record    Record
		startedAt string
		elapsedMS int64
		scores    string
	)
	err := row.Scan(
		&record.RunID,
		&startedAt,
		&elapsedMS,
		&record.ChunkCount,
		&record.MatchCount,
		&record.RiskLevel,
		&record.TotalRiskScore,
		&record.MarkerVersion,
		&record.MarkerChecksum,
		&record.Summary,
		&scores,
	)
	if err != nil {
		return nil, err
	}

	record.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	record.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	if err := json.Unmarshal([]byte(scores), &record.Scores); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	return &record, nil
}
