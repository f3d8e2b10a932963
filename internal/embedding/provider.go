package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"chatmark/internal/config"
	"chatmark/internal/logging"
)

// Provider produces one vector per input text, in input order.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// ErrDisabled is returned by NewClient when embeddings are turned off.
var ErrDisabled = errors.New("embeddings disabled")

// Client calls the OpenAI embeddings endpoint in configured batch sizes.
type Client struct {
	api       openai.Client
	model     string
	batchSize int
	timeout   time.Duration
	logger    *slog.Logger
}

// NewClient builds a Client from configuration. A missing API key is a
// configuration error, not a silent no-op.
func NewClient(cfg config.Embedding, logger *slog.Logger) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	if cfg.APIKey == "" {
		return nil, errors.New("embedding enabled but no API key configured")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		api:       openai.NewClient(opts...),
		model:     cfg.Model,
		batchSize: cfg.BatchSize,
		timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:    logging.WithComponent(logger, "embedding"),
	}, nil
}

// Embed returns one vector per text, preserving order. Requests are issued
// in batches so long transcripts do not exceed request limits.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batchSize := c.batchSize
	if batchSize <= 0 {
		batchSize = len(texts)
	}

	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embedding batch starting at %d: %w", start, err)
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (c *Client) embedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response has %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(resp.Data))
	for _, item := range resp.Data {
		vectors[item.Index] = item.Embedding
	}
	c.logger.Debug("embedded batch", "texts", len(texts), "model", c.model)
	return vectors, nil
}

// Cosine returns the cosine similarity of two vectors, 0 for mismatched or
// zero-magnitude input.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
