package textmatch

import (
	"regexp"
	"sync"
)

// RegexCache compiles patterns case-insensitively and memoizes the result.
// Concurrent readers are safe; two goroutines compiling the same pattern at
// once simply do redundant work and one result wins.
type RegexCache struct {
	entries sync.Map // pattern -> *regexp.Regexp
}

// NewRegexCache returns an empty cache.
func NewRegexCache() *RegexCache {
	return &RegexCache{}
}

// Compile returns the compiled case-insensitive pattern, caching successes.
// Failures are not cached; invalid patterns are expected to be rare and
// skipped by callers.
func (c *RegexCache) Compile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := c.entries.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	compiled, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	actual, _ := c.entries.LoadOrStore(pattern, compiled)
	return actual.(*regexp.Regexp), nil
}
