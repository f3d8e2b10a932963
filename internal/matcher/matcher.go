package matcher

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"chatmark/internal/chunker"
	"chatmark/internal/config"
	"chatmark/internal/logging"
	"chatmark/internal/marker"
	"chatmark/internal/textmatch"
)

// Matcher runs the matching engines against a fixed marker snapshot. It is
// safe for concurrent use; the regex cache tolerates concurrent compiles.
type Matcher struct {
	snapshot *marker.Snapshot
	cfg      config.Matching
	regexes  *textmatch.RegexCache
	logger   *slog.Logger
}

// Result is the outcome of matching a set of chunks.
type Result struct {
	Matches        []marker.Match
	TotalRiskScore float64
	AdjustedScore  float64
	RiskLevel      RiskLevel
	Categories     map[marker.Category]int
	Summary        string
	Issues         []string
}

// New returns a Matcher over the given snapshot.
func New(snapshot *marker.Snapshot, cfg config.Matching, logger *slog.Logger) *Matcher {
	return &Matcher{
		snapshot: snapshot,
		cfg:      cfg,
		regexes:  textmatch.NewRegexCache(),
		logger:   logging.WithComponent(logger, "matcher"),
	}
}

// Analyze matches every chunk and rolls the hits into a risk assessment.
func (m *Matcher) Analyze(chunks []chunker.Chunk) *Result {
	result := &Result{Categories: make(map[marker.Category]int)}

	seenIssues := make(map[string]struct{})
	for i := range chunks {
		matches, issues := m.MatchChunk(&chunks[i])
		result.Matches = append(result.Matches, matches...)
		for _, issue := range issues {
			if _, ok := seenIssues[issue]; ok {
				continue
			}
			seenIssues[issue] = struct{}{}
			result.Issues = append(result.Issues, issue)
		}
	}

	for i := range result.Matches {
		match := &result.Matches[i]
		result.Categories[match.Category]++
		result.TotalRiskScore += match.Weight
	}

	result.RiskLevel, result.AdjustedScore = classifyRisk(result.TotalRiskScore, len(result.Matches))
	result.Summary = summarize(result.Matches, result.RiskLevel)

	m.logger.Info("matching complete",
		logging.Int(logging.FieldChunkCount, len(chunks)),
		logging.Int(logging.FieldMatchCount, len(result.Matches)),
		"risk_level", string(result.RiskLevel))
	return result
}

// MatchChunk runs every engine over one chunk and resolves overlaps,
// keeping the highest-confidence hit for each span.
func (m *Matcher) MatchChunk(chunk *chunker.Chunk) ([]marker.Match, []string) {
	var (
		candidates []marker.Match
		issues     []string
	)

	active := m.snapshot.Active()
	for i := range active {
		def := &active[i]
		candidates = append(candidates, m.exactMatches(chunk, def)...)

		regexHits, regexIssues := m.regexMatches(chunk, def)
		candidates = append(candidates, regexHits...)
		issues = append(issues, regexIssues...)

		if m.cfg.EnableFuzzy {
			candidates = append(candidates, m.fuzzyMatches(chunk, def)...)
		}
	}

	if len(candidates) == 0 {
		return nil, issues
	}

	spans := make([]textmatch.Span, len(candidates))
	for i := range candidates {
		spans[i] = textmatch.Span{
			Start:      candidates[i].Start,
			End:        candidates[i].End,
			Confidence: candidates[i].Confidence,
		}
	}

	kept := textmatch.SelectSpans(spans)
	matches := make([]marker.Match, 0, len(kept))
	for _, idx := range kept {
		match := candidates[idx]
		match.Context = textmatch.ExtractContext(chunk.Text, match.Start, m.cfg.ContextWords)
		matches = append(matches, match)
	}
	return matches, issues
}

// exactMatches finds literal occurrences of the marker's keywords and
// examples, case-insensitively. Spans are located directly in the original
// text so byte offsets stay valid even when case mappings change rune length.
func (m *Matcher) exactMatches(chunk *chunker.Chunk, def *marker.Definition) []marker.Match {
	var matches []marker.Match
	for _, phrase := range def.ExactPhrases() {
		needle := strings.TrimSpace(phrase)
		if needle == "" {
			continue
		}
		offset := 0
		for {
			start, end, ok := textmatch.FoldIndex(chunk.Text, needle, offset)
			if !ok {
				break
			}
			matches = append(matches, m.newMatch(chunk, def, start, end, 1.0, marker.PatternExact))
			offset = start + 1
		}
	}
	return matches
}

// regexMatches evaluates the marker's regex patterns. Invalid patterns are
// reported and skipped; a bad pattern never aborts the run.
func (m *Matcher) regexMatches(chunk *chunker.Chunk, def *marker.Definition) ([]marker.Match, []string) {
	var (
		matches []marker.Match
		issues  []string
	)
	for _, pattern := range def.Patterns {
		re, err := m.regexes.Compile(pattern)
		if err != nil {
			m.logger.Warn("skipping invalid pattern",
				logging.String(logging.FieldMarkerID, def.ID),
				"pattern", pattern,
				logging.Error(err))
			issues = append(issues, "invalid pattern for marker "+def.ID+": "+pattern)
			continue
		}
		for _, loc := range re.FindAllStringIndex(chunk.Text, -1) {
			matches = append(matches, m.newMatch(chunk, def, loc[0], loc[1], 0.9, marker.PatternRegex))
		}
	}
	return matches, issues
}

// fuzzyMatches slides a window of the example's word count across the chunk
// and accepts windows whose similarity clears the configured threshold.
// Single-word examples are left to exact matching.
func (m *Matcher) fuzzyMatches(chunk *chunker.Chunk, def *marker.Definition) []marker.Match {
	words := wordSpans(chunk.Text)
	if len(words) == 0 {
		return nil
	}

	var matches []marker.Match
	for _, example := range def.Examples {
		patternWords := strings.Fields(example)
		if len(patternWords) < 2 || len(patternWords) > len(words) {
			continue
		}
		pattern := strings.Join(patternWords, " ")

		for i := 0; i+len(patternWords) <= len(words); i++ {
			first := words[i]
			last := words[i+len(patternWords)-1]
			window := chunk.Text[first.start:last.end]

			similarity := textmatch.Similarity(window, pattern)
			if similarity < m.cfg.FuzzyThreshold {
				continue
			}
			// Exact hits are already covered with full confidence.
			if similarity >= 1.0 {
				continue
			}
			matches = append(matches, m.newMatch(chunk, def, first.start, last.end, similarity, marker.PatternFuzzy))
		}
	}
	return matches
}

func (m *Matcher) newMatch(chunk *chunker.Chunk, def *marker.Definition, start, end int, confidence float64, patternType marker.PatternType) marker.Match {
	speaker := ""
	if chunk.Speaker != nil {
		speaker = chunk.Speaker.Name
	}
	return marker.Match{
		MarkerID:    def.ID,
		MarkerName:  def.Name,
		Category:    def.Category,
		Severity:    def.Severity,
		ChunkID:     chunk.ID,
		Text:        chunk.Text[start:end],
		Start:       start,
		End:         end,
		Confidence:  confidence,
		PatternType: patternType,
		Weight:      def.Weight,
		Tags:        def.Tags,
		Speaker:     speaker,
		Timestamp:   chunk.Timestamp,
	}
}

// wordSpan locates one whitespace-separated word within the original text.
type wordSpan struct {
	start int
	end   int
}

func wordSpans(text string) []wordSpan {
	words := strings.Fields(text)
	spans := make([]wordSpan, 0, len(words))
	cursor := 0
	for _, word := range words {
		start := strings.Index(text[cursor:], word) + cursor
		end := start + len(word)
		spans = append(spans, wordSpan{start, end})
		cursor = end
	}
	return spans
}

// summarize builds the human-readable digest shown in reports.
func summarize(matches []marker.Match, level RiskLevel) string {
	if len(matches) == 0 {
		return "No critical markers found. The conversation appears neutral."
	}

	counts := make(map[string]int)
	for i := range matches {
		counts[matches[i].MarkerName]++
	}
	type markerCount struct {
		name  string
		count int
	}
	ranked := make([]markerCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, markerCount{name, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	var sb strings.Builder
	sb.WriteString("Risk level: ")
	sb.WriteString(strings.ToUpper(string(level)))
	sb.WriteString("\nMarkers found: ")
	sb.WriteString(strconv.Itoa(len(matches)))
	sb.WriteString("\nMost frequent: ")
	for i, entry := range ranked {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(entry.name)
		sb.WriteString(" (")
		sb.WriteString(strconv.Itoa(entry.count))
		sb.WriteString("x)")
	}
	if level == RiskBlinking || level == RiskRed {
		sb.WriteString("\nWARNING: clear signs of manipulative communication detected.")
	}
	return sb.String()
}
