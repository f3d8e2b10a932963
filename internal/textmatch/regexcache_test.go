package textmatch

import "testing"

func TestRegexCacheCompileAndReuse(t *testing.T) {
	cache := NewRegexCache()
	first, err := cache.Compile(`du\s+bist\s+schuld`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, err := cache.Compile(`du\s+bist\s+schuld`)
	if err != nil {
		t.Fatalf("recompile: %v", err)
	}
	if first != second {
		t.Fatal("expected cached regexp to be reused")
	}
	if !first.MatchString("DU BIST schuld") {
		t.Fatal("expected case-insensitive match")
	}
}

func TestRegexCacheInvalidPattern(t *testing.T) {
	cache := NewRegexCache()
	if _, err := cache.Compile(`[unclosed`); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
	// A failed compile must not poison the cache for later patterns.
	if _, err := cache.Compile(`valid`); err != nil {
		t.Fatalf("valid pattern after failure: %v", err)
	}
}
