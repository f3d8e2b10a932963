package config

import (
	"errors"
	"fmt"
)

var validPeriods = map[string]bool{
	"hourly":    true,
	"daily":     true,
	"weekly":    true,
	"monthly":   true,
	"quarterly": true,
	"yearly":    true,
	"custom":    true,
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateChunking(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateAggregation(); err != nil {
		return err
	}
	if err := c.validateEmbedding(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateChunking() error {
	if c.Chunking.MaxChunkSize <= 0 {
		return errors.New("chunking.max_chunk_size must be positive")
	}
	if c.Chunking.TimeGapMinutes <= 0 {
		return errors.New("chunking.time_gap_minutes must be positive")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.FuzzyThreshold < 0 || c.Matching.FuzzyThreshold > 1 {
		return errors.New("matching.fuzzy_threshold must be between 0 and 1")
	}
	if c.Matching.ContextWords < 0 {
		return errors.New("matching.context_words must not be negative")
	}
	return nil
}

func (c *Config) validateAggregation() error {
	if !validPeriods[c.Aggregation.Period] {
		return fmt.Errorf("aggregation.period: unsupported value %q", c.Aggregation.Period)
	}
	if c.Aggregation.Period == "custom" && c.Aggregation.CustomPeriodHours <= 0 {
		return errors.New("aggregation.custom_period_hours must be positive when period is custom")
	}
	if c.Aggregation.SmoothData && c.Aggregation.SmoothingWindow < 2 {
		return errors.New("aggregation.smoothing_window must be at least 2 when smoothing is enabled")
	}
	return nil
}

func (c *Config) validateEmbedding() error {
	if !c.Embedding.Enabled {
		return nil
	}
	if c.Embedding.APIKey == "" {
		return errors.New("embedding.api_key is required when embedding is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}
