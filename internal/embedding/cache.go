package embedding

import (
	"context"
	"sync"
)

// CachedProvider memoizes vectors per input text so repeated phrases across
// chunks cost one API call. Safe for concurrent use.
type CachedProvider struct {
	inner Provider

	mu      sync.RWMutex
	vectors map[string][]float64
}

// NewCachedProvider wraps a provider with an in-memory cache.
func NewCachedProvider(inner Provider) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		vectors: make(map[string][]float64),
	}
}

// Embed serves cached vectors and requests only the misses from the inner
// provider.
func (p *CachedProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	results := make([][]float64, len(texts))

	var (
		missing    []string
		missingIdx []int
	)
	p.mu.RLock()
	for i, text := range texts {
		if vec, ok := p.vectors[text]; ok {
			results[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	p.mu.RUnlock()

	if len(missing) == 0 {
		return results, nil
	}

	fetched, err := p.inner.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	for i, vec := range fetched {
		p.vectors[missing[i]] = vec
		results[missingIdx[i]] = vec
	}
	p.mu.Unlock()
	return results, nil
}

// Len reports the number of cached vectors.
func (p *CachedProvider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.vectors)
}
