package config

const (
	defaultMarkerDir            = "~/.config/chatmark/markers"
	defaultLogDir               = "~/.local/share/chatmark/logs"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultMaxChunkSize         = 1000
	defaultTimeGapMinutes       = 30
	defaultFuzzyThreshold       = 0.7
	defaultContextWords         = 10
	defaultAggregationPeriod    = "daily"
	defaultSmoothingWindow      = 3
	defaultHistoryPath          = "~/.local/share/chatmark/history.db"
	defaultEmbeddingTimeoutSecs = 30
	defaultEmbeddingBatchSize   = 32
	defaultEmbeddingModel       = "text-embedding-3-small"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			MarkerDirs: []string{defaultMarkerDir},
			LogDir:     defaultLogDir,
		},
		Chunking: Chunking{
			MaxChunkSize:        defaultMaxChunkSize,
			TimeGapMinutes:      defaultTimeGapMinutes,
			ChunkBySpeaker:      true,
			ChunkByTime:         true,
			NormalizeWhitespace: true,
		},
		Matching: Matching{
			FuzzyThreshold: defaultFuzzyThreshold,
			ContextWords:   defaultContextWords,
			EnableFuzzy:    true,
		},
		Aggregation: Aggregation{
			Period:             defaultAggregationPeriod,
			IncludeZeroPeriods: true,
			SmoothData:         false,
			SmoothingWindow:    defaultSmoothingWindow,
		},
		Embedding: Embedding{
			Enabled:        false,
			Model:          defaultEmbeddingModel,
			TimeoutSeconds: defaultEmbeddingTimeoutSecs,
			BatchSize:      defaultEmbeddingBatchSize,
		},
		History: History{
			Enabled: false,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
