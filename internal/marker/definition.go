package marker

import (
	"time"
)

// Definition describes one marker: a named pattern representing a linguistic
// or behavioral signal. Definitions are owned by the registry and must be
// treated as read-only during an analysis run.
type Definition struct {
	ID          string
	Name        string
	Category    Category
	Severity    Severity
	Description string

	// Patterns are regular expressions matched case-insensitively.
	Patterns []string
	// Keywords are short exact phrases matched as substrings.
	Keywords []string
	// Examples are full example phrases; multi-word examples additionally
	// participate in fuzzy matching.
	Examples []string

	Weight float64
	Tags   []string
	Active bool
}

// ExactPhrases returns the phrases used for exact substring matching.
func (d *Definition) ExactPhrases() []string {
	phrases := make([]string, 0, len(d.Keywords)+len(d.Examples))
	phrases = append(phrases, d.Keywords...)
	phrases = append(phrases, d.Examples...)
	return phrases
}

// PatternType identifies how a match was found.
type PatternType string

const (
	PatternExact PatternType = "exact"
	PatternRegex PatternType = "regex"
	PatternFuzzy PatternType = "fuzzy"
)

// Match is a located occurrence of a marker within a chunk.
type Match struct {
	MarkerID   string
	MarkerName string
	Category   Category
	Severity   Severity

	ChunkID string
	Text    string
	Context string

	// Start and End are byte offsets into the chunk text, 0 <= Start < End.
	Start int
	End   int

	Confidence  float64
	PatternType PatternType
	Weight      float64
	Tags        []string

	Speaker   string
	Timestamp time.Time
}

// Span returns the half-open match interval.
func (m *Match) Span() (int, int) { return m.Start, m.End }

// Overlaps reports whether two spans intersect.
func (m *Match) Overlaps(other *Match) bool {
	return m.Start < other.End && other.Start < m.End
}
