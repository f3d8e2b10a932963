package scoring

import (
	"strings"
	"testing"
	"time"

	"chatmark/internal/chunker"
	"chatmark/internal/marker"
	"chatmark/internal/trend"
)

func testChunk(id, speaker string, words int, ts time.Time) chunker.Chunk {
	text := strings.TrimSpace(strings.Repeat("wort ", words))
	return chunker.Chunk{
		ID:        id,
		Type:      chunker.TypeMessage,
		Text:      text,
		Speaker:   &chunker.Speaker{ID: "sp_" + speaker, Name: speaker},
		Timestamp: ts,
	}
}

func gaslightingMatch(chunkID string, confidence float64) marker.Match {
	return marker.Match{
		MarkerID:   "gaslighting_denial",
		MarkerName: "Reality denial",
		Category:   marker.CategoryGaslighting,
		Severity:   marker.SeverityHigh,
		ChunkID:    chunkID,
		Confidence: confidence,
		Weight:     1.0,
	}
}

func empathyMatch(chunkID string) marker.Match {
	return marker.Match{
		MarkerID:   "empathy_validation",
		MarkerName: "Validation",
		Category:   marker.CategoryEmpathy,
		Severity:   marker.SeverityMedium,
		ChunkID:    chunkID,
		Confidence: 1.0,
		Weight:     1.0,
	}
}

func TestDefaultModelsRegistered(t *testing.T) {
	e := NewEngine(nil)
	for _, id := range []string{"manipulation_index", "relationship_health", "fraud_probability", "communication_quality"} {
		model, ok := e.Model(id)
		if !ok {
			t.Fatalf("missing default model %s", id)
		}
		if model.ScaleMin != 1 || model.ScaleMax != 10 {
			t.Fatalf("model %s scale = [%f, %f], want [1, 10]", id, model.ScaleMin, model.ScaleMax)
		}
		if len(model.SeverityMultipliers) == 0 || len(model.Thresholds) == 0 {
			t.Fatalf("model %s missing defaults", id)
		}
	}
}

func TestRawScoreComposition(t *testing.T) {
	e := NewEngine(nil)
	chunk := testChunk("c1", "Anna", 100, time.Time{})
	match := gaslightingMatch("c1", 0.9)
	match.Weight = 2.0

	result := e.Score([]chunker.Chunk{chunk}, []marker.Match{match}, []string{"manipulation_index"})
	if len(result.ChunkScores) != 1 {
		t.Fatalf("expected 1 chunk score, got %d", len(result.ChunkScores))
	}
	// category 3.0 * severity high 2.0 * marker weight 2.0 * confidence 0.9
	want := 3.0 * 2.0 * 2.0 * 0.9
	got := result.ChunkScores[0].RawScore
	if got != want {
		t.Fatalf("raw score = %f, want %f", got, want)
	}
}

func TestNormalizeMonotonic(t *testing.T) {
	model := &Model{InverseScale: false}
	model.fill()

	prev := normalize(0, model, 100)
	for _, raw := range []float64{0.5, 1, 2, 4, 8, 16} {
		score := normalize(raw, model, 100)
		if score < prev {
			t.Fatalf("normalize must be monotonic: raw %f gave %f after %f", raw, score, prev)
		}
		prev = score
	}
	if normalize(1000, model, 100) != model.ScaleMax {
		t.Fatal("large raw score must clamp to scale max")
	}
	if normalize(0, model, 0) != model.ScaleMin {
		t.Fatal("zero word count must clamp to scale min")
	}
}

func TestNormalizeInverseScale(t *testing.T) {
	model := &Model{InverseScale: true}
	model.fill()

	// Positive raw scores (healthy findings carry positive weights) hold the
	// top end; negative raw scores pull toward the floor.
	healthy := normalize(5, model, 100)
	neutral := normalize(0, model, 100)
	unhealthy := normalize(-5, model, 100)

	if !(healthy >= neutral && neutral >= unhealthy) {
		t.Fatalf("inverse scale ordering broken: healthy %f, neutral %f, unhealthy %f", healthy, neutral, unhealthy)
	}
	if healthy != model.ScaleMax {
		t.Fatalf("healthy inverse score = %f, want scale max", healthy)
	}
	if neutral != model.ScaleMax {
		t.Fatalf("neutral inverse score = %f, want scale max", neutral)
	}
	if unhealthy >= neutral {
		t.Fatalf("risk findings must pull an inverse score down, got %f", unhealthy)
	}

	prev := normalize(-20, model, 100)
	for _, raw := range []float64{-10, -5, -1, 0, 1, 5} {
		score := normalize(raw, model, 100)
		if score < prev {
			t.Fatalf("inverse normalize must stay monotonic: raw %f gave %f after %f", raw, score, prev)
		}
		prev = score
	}
}

func TestInverseModelPositiveMatchesStayHigh(t *testing.T) {
	e := NewEngine(nil)
	chunk := testChunk("c1", "Ben", 10, time.Time{})
	matches := []marker.Match{
		empathyMatch("c1"),
		empathyMatch("c1"),
		empathyMatch("c1"),
	}

	result := e.Score([]chunker.Chunk{chunk}, matches, []string{"relationship_health"})
	if len(result.ChunkScores) != 1 {
		t.Fatalf("expected 1 chunk score, got %d", len(result.ChunkScores))
	}
	score := result.ChunkScores[0]
	if score.RawScore <= 0 {
		t.Fatalf("positive-category raw score = %f, want > 0", score.RawScore)
	}
	model, _ := e.Model("relationship_health")
	mid := (model.ScaleMin + model.ScaleMax) / 2
	if score.NormalizedScore <= mid {
		t.Fatalf("healthy-only input normalized to %f, want above %f", score.NormalizedScore, mid)
	}
	if score.NormalizedScore != model.ScaleMax {
		t.Fatalf("healthy-only input = %f, want scale max", score.NormalizedScore)
	}
}

func TestConfidenceBlend(t *testing.T) {
	model := &Model{CategoryWeights: map[marker.Category]float64{marker.CategoryGaslighting: 3.0}}
	model.fill()

	if got := scoreConfidence(nil, model); got != 0.5 {
		t.Fatalf("no matches confidence = %f, want 0.5", got)
	}

	matches := []marker.Match{gaslightingMatch("c1", 1.0)}
	// avg 1.0 * 0.7 + (1/10) * 0.3
	want := 1.0*0.7 + 0.1*0.3
	if got := scoreConfidence(matches, model); !almost(got, want) {
		t.Fatalf("confidence = %f, want %f", got, want)
	}

	var many []marker.Match
	for i := 0; i < 12; i++ {
		many = append(many, gaslightingMatch("c1", 1.0))
	}
	// volume factor saturates at 10 relevant matches
	if got := scoreConfidence(many, model); !almost(got, 1.0) {
		t.Fatalf("saturated confidence = %f, want 1.0", got)
	}
}

func TestAggregateTrend(t *testing.T) {
	e := NewEngine(nil)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	var chunks []chunker.Chunk
	var matches []marker.Match
	for i := 0; i < 6; i++ {
		id := string(rune('a' + i))
		// Long chunks keep the normalized scores off the scale ceiling so
		// the escalation stays visible.
		chunks = append(chunks, testChunk(id, "Anna", 1000, base.Add(time.Duration(i)*time.Hour)))
		// escalate: later chunks accumulate more gaslighting
		for j := 0; j <= i; j++ {
			matches = append(matches, gaslightingMatch(id, 1.0))
		}
	}

	result := e.Score(chunks, matches, []string{"manipulation_index"})
	agg, ok := result.Aggregated[TypeManipulationIndex]
	if !ok {
		t.Fatal("missing manipulation_index aggregate")
	}
	if agg.Trend != trend.Rising {
		t.Fatalf("trend = %s, want rising", agg.Trend)
	}
	if agg.ChunkCount != 6 {
		t.Fatalf("chunk count = %d, want 6", agg.ChunkCount)
	}
	if agg.MinScore > agg.AverageScore || agg.AverageScore > agg.MaxScore {
		t.Fatal("aggregate ordering min <= avg <= max violated")
	}
}

func TestAlertsOrientedByScale(t *testing.T) {
	e := NewEngine(nil)
	chunk := testChunk("c1", "Anna", 10, time.Time{})
	// Heavy gaslighting on a tiny chunk maxes out the manipulation index
	// and drags relationship health to the floor.
	matches := []marker.Match{
		gaslightingMatch("c1", 1.0),
		gaslightingMatch("c1", 1.0),
		gaslightingMatch("c1", 1.0),
	}

	result := e.Score([]chunker.Chunk{chunk}, matches, nil)
	if len(result.Alerts) == 0 {
		t.Fatal("expected alerts")
	}

	seen := make(map[ScoreType]string)
	for _, alert := range result.Alerts {
		seen[alert.ScoreType] = alert.Level
	}
	if seen[TypeManipulationIndex] != "critical" {
		t.Fatalf("manipulation_index alert = %q, want critical", seen[TypeManipulationIndex])
	}
	if seen[TypeRelationshipHealth] != "critical" {
		t.Fatalf("relationship_health alert = %q, want critical", seen[TypeRelationshipHealth])
	}
	if result.Alerts[0].Level != "critical" {
		t.Fatal("critical alerts must sort first")
	}
}

func TestSpeakerScoresAndComparison(t *testing.T) {
	e := NewEngine(nil)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	chunks := []chunker.Chunk{
		testChunk("a1", "Anna", 50, base),
		testChunk("a2", "Anna", 50, base.Add(time.Hour)),
		testChunk("b1", "Ben", 50, base),
		testChunk("b2", "Ben", 50, base.Add(time.Hour)),
	}
	matches := []marker.Match{
		gaslightingMatch("a1", 1.0),
		gaslightingMatch("a2", 1.0),
		empathyMatch("b1"),
		empathyMatch("b2"),
	}

	result := e.Score(chunks, matches, []string{"manipulation_index"})
	if len(result.SpeakerScores) != 2 {
		t.Fatalf("speaker scores for %d speakers, want 2", len(result.SpeakerScores))
	}

	cmp, err := e.CompareSpeakers(result.SpeakerScores, "manipulation_index")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	// Lower manipulation index is favorable, so Ben wins.
	if cmp.Winner != "Ben" {
		t.Fatalf("winner = %s, want Ben", cmp.Winner)
	}
	if len(cmp.Differences) != 1 {
		t.Fatalf("differences = %d, want 1", len(cmp.Differences))
	}
	if len(cmp.Insights) == 0 {
		t.Fatal("expected insights")
	}
}

func TestCompareSpeakersNeedsTwo(t *testing.T) {
	e := NewEngine(nil)
	chunk := testChunk("a1", "Anna", 50, time.Time{})
	result := e.Score([]chunker.Chunk{chunk}, []marker.Match{gaslightingMatch("a1", 1.0)}, []string{"manipulation_index"})

	if _, err := e.CompareSpeakers(result.SpeakerScores, "manipulation_index"); err == nil {
		t.Fatal("expected error with a single speaker")
	}
	if _, err := e.CompareSpeakers(result.SpeakerScores, "no_such_model"); err == nil {
		t.Fatal("expected error for unknown model")
	}
}

func TestTimelineBucketsByHour(t *testing.T) {
	e := NewEngine(nil)
	base := time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC)

	chunks := []chunker.Chunk{
		testChunk("a1", "Anna", 50, base),
		testChunk("a2", "Anna", 50, base.Add(10*time.Minute)),
		testChunk("a3", "Anna", 50, base.Add(2*time.Hour)),
	}
	matches := []marker.Match{gaslightingMatch("a1", 1.0)}

	result := e.Score(chunks, matches, []string{"manipulation_index"})
	if len(result.Timeline) != 2 {
		t.Fatalf("timeline buckets = %d, want 2", len(result.Timeline))
	}
	first := result.Timeline[0]
	if !first.Timestamp.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("first bucket = %s, want hour truncation", first.Timestamp)
	}
	if stats := first.Scores[TypeManipulationIndex]; stats.Count != 2 {
		t.Fatalf("first bucket count = %d, want 2", stats.Count)
	}
}

func TestCustomModel(t *testing.T) {
	e := NewEngine(nil)
	e.AddModel(Model{
		ID:   "trust_level",
		Name: "Trust Level",
		Type: ScoreType("trust_level"),
		CategoryWeights: map[marker.Category]float64{
			marker.CategorySupport: 2.0,
		},
		InverseScale: true,
		Active:       true,
	})

	model, ok := e.Model("trust_level")
	if !ok {
		t.Fatal("custom model not registered")
	}
	if model.NormalizationFactor != 100 {
		t.Fatalf("custom model missing fill defaults, factor = %f", model.NormalizationFactor)
	}

	chunk := testChunk("c1", "Anna", 50, time.Time{})
	result := e.Score([]chunker.Chunk{chunk}, nil, []string{"trust_level"})
	if _, ok := result.Aggregated[ScoreType("trust_level")]; !ok {
		t.Fatal("custom model produced no aggregate")
	}
}

func TestSummary(t *testing.T) {
	e := NewEngine(nil)
	chunk := testChunk("c1", "Anna", 10, time.Time{})
	matches := []marker.Match{gaslightingMatch("c1", 1.0), gaslightingMatch("c1", 1.0)}

	result := e.Score([]chunker.Chunk{chunk}, matches, nil)
	summary := result.Summary
	if summary.TotalChunkScores != len(result.ChunkScores) {
		t.Fatalf("summary chunk scores = %d, want %d", summary.TotalChunkScores, len(result.ChunkScores))
	}
	if summary.SpeakerCount != 1 {
		t.Fatalf("speaker count = %d, want 1", summary.SpeakerCount)
	}
	if len(summary.KeyInsights) != len(result.Aggregated) {
		t.Fatalf("insights = %d, want %d", len(summary.KeyInsights), len(result.Aggregated))
	}
	for _, insight := range summary.KeyInsights {
		if insight.Interpretation == "" {
			t.Fatalf("insight for %s has no interpretation", insight.ScoreType)
		}
	}
}

func almost(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
