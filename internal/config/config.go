package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	MarkerDirs []string `toml:"marker_dirs"`
	LogDir     string   `toml:"log_dir"`
}

// Chunking controls how raw transcripts are segmented into chunks.
type Chunking struct {
	MaxChunkSize        int  `toml:"max_chunk_size"`
	TimeGapMinutes      int  `toml:"time_gap_minutes"`
	ChunkBySpeaker      bool `toml:"chunk_by_speaker"`
	ChunkByTime         bool `toml:"chunk_by_time"`
	NormalizeWhitespace bool `toml:"normalize_whitespace"`
}

// Matching controls marker matching behavior.
type Matching struct {
	// FuzzyThreshold is the minimum similarity for a sliding-window fuzzy
	// match to count, in [0,1].
	FuzzyThreshold float64 `toml:"fuzzy_threshold"`
	ContextWords   int     `toml:"context_words"`
	EnableFuzzy    bool    `toml:"enable_fuzzy"`
}

// Aggregation controls time-series bucketing of scores and matches.
type Aggregation struct {
	Period             string `toml:"period"`
	CustomPeriodHours  int    `toml:"custom_period_hours"`
	IncludeZeroPeriods bool   `toml:"include_zero_periods"`
	SmoothData         bool   `toml:"smooth_data"`
	SmoothingWindow    int    `toml:"smoothing_window"`
}

// Embedding contains settings for the optional external similarity provider.
type Embedding struct {
	Enabled        bool   `toml:"enabled"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	BatchSize      int    `toml:"batch_size"`
}

// History contains settings for the optional analysis-run archive.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for chatmark.
//
// Configuration sections by subsystem:
//   - Paths: marker registry directories and log output
//   - Chunking: transcript segmentation thresholds
//   - Matching: fuzzy threshold and context extraction
//   - Aggregation: time-series window granularity and smoothing
//   - Embedding: optional external similarity provider
//   - History: optional SQLite archive of analysis runs
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Chunking    Chunking    `toml:"chunking"`
	Matching    Matching    `toml:"matching"`
	Aggregation Aggregation `toml:"aggregation"`
	Embedding   Embedding   `toml:"embedding"`
	History     History     `toml:"history"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/chatmark/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. A missing file yields
// the defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("chatmark.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
