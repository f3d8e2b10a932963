package scoring

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"chatmark/internal/chunker"
	"chatmark/internal/logging"
	"chatmark/internal/marker"
	"chatmark/internal/trend"
)

// Contribution records one marker's share of a chunk score.
type Contribution struct {
	MarkerID   string
	MarkerName string
	Category   marker.Category
	Severity   marker.Severity
	Amount     float64
	Confidence float64
}

// ChunkScore is one model's evaluation of one chunk.
type ChunkScore struct {
	ChunkID   string
	ModelID   string
	ScoreType ScoreType

	RawScore        float64
	NormalizedScore float64

	Contributions []Contribution
	Confidence    float64
	Timestamp     time.Time
	Speaker       string
	WordCount     int
	MarkerCount   int
}

// MarkerCount pairs a marker name with its occurrence count.
type MarkerCount struct {
	Name  string
	Count int
}

// Aggregate summarizes one model's scores over many chunks.
type Aggregate struct {
	ModelID   string
	ScoreType ScoreType

	AverageScore float64
	MinScore     float64
	MaxScore     float64

	Trend         trend.Direction
	TrendStrength float64

	ChunkCount   int
	Distribution map[string]int
	TopMarkers   []MarkerCount
}

// Alert fires when an aggregated score crosses a model threshold.
type Alert struct {
	Level     string
	ScoreType ScoreType
	Message   string
	Score     float64
	Threshold float64
}

// Insight is one line of the result summary.
type Insight struct {
	ScoreType      ScoreType
	Score          float64
	Trend          trend.Direction
	Interpretation string
}

// TimePoint is an hourly bucket in the score timeline.
type TimePoint struct {
	Timestamp time.Time
	Scores    map[ScoreType]TimeStats
}

// TimeStats summarizes scores of one type within a timeline bucket.
type TimeStats struct {
	Average float64
	Min     float64
	Max     float64
	Count   int
}

// Summary condenses a scoring run to its headline facts.
type Summary struct {
	TotalChunkScores int
	ModelsUsed       []ScoreType
	CriticalAlerts   int
	WarningAlerts    int
	SpeakerCount     int
	KeyInsights      []Insight
}

// Result carries everything a scoring run produced.
type Result struct {
	ChunkScores   []ChunkScore
	Aggregated    map[ScoreType]Aggregate
	SpeakerScores map[string]map[ScoreType]Aggregate
	Timeline      []TimePoint
	Alerts        []Alert
	Summary       Summary
	Elapsed       time.Duration
}

// Engine evaluates chunks against its registered models.
type Engine struct {
	models map[string]*Model
	order  []string
	logger *slog.Logger
}

// NewEngine returns an engine preloaded with the default models.
func NewEngine(logger *slog.Logger) *Engine {
	e := &Engine{
		models: make(map[string]*Model),
		logger: logging.WithComponent(logger, "scoring"),
	}
	for _, model := range DefaultModels() {
		m := model
		e.models[m.ID] = &m
		e.order = append(e.order, m.ID)
	}
	return e
}

// AddModel registers a custom model, replacing any model with the same id.
func (e *Engine) AddModel(model Model) {
	model.fill()
	if _, exists := e.models[model.ID]; !exists {
		e.order = append(e.order, model.ID)
	}
	e.models[model.ID] = &model
	e.logger.Info("registered scoring model", "model_id", model.ID, "name", model.Name)
}

// Model returns a registered model by id.
func (e *Engine) Model(id string) (*Model, bool) {
	m, ok := e.models[id]
	return m, ok
}

// Score evaluates all chunks against the selected models. An empty modelIDs
// slice selects every active model.
func (e *Engine) Score(chunks []chunker.Chunk, matches []marker.Match, modelIDs []string) *Result {
	start := time.Now()
	models := e.activeModels(modelIDs)

	byChunk := make(map[string][]marker.Match)
	for _, match := range matches {
		byChunk[match.ChunkID] = append(byChunk[match.ChunkID], match)
	}

	result := &Result{
		Aggregated:    make(map[ScoreType]Aggregate),
		SpeakerScores: make(map[string]map[ScoreType]Aggregate),
	}

	for i := range chunks {
		chunk := &chunks[i]
		chunkMatches := byChunk[chunk.ID]
		for _, model := range models {
			result.ChunkScores = append(result.ChunkScores, e.scoreChunk(chunk, chunkMatches, model))
		}
	}

	for _, model := range models {
		if agg, ok := aggregate(selectScores(result.ChunkScores, model.ID), model); ok {
			result.Aggregated[model.Type] = agg
		}
	}

	result.SpeakerScores = e.speakerScores(chunks, result.ChunkScores, models)
	result.Timeline = buildTimeline(result.ChunkScores)
	result.Alerts = e.generateAlerts(result.Aggregated)
	result.Summary = e.buildSummary(result)
	result.Elapsed = time.Since(start)

	e.logger.Info("scoring complete",
		logging.Int(logging.FieldChunkCount, len(chunks)),
		"models", len(models),
		"alerts", len(result.Alerts),
		"elapsed", result.Elapsed)
	return result
}

func (e *Engine) activeModels(modelIDs []string) []*Model {
	var models []*Model
	if len(modelIDs) == 0 {
		for _, id := range e.order {
			if m := e.models[id]; m.Active {
				models = append(models, m)
			}
		}
		return models
	}
	for _, id := range modelIDs {
		if m, ok := e.models[id]; ok && m.Active {
			models = append(models, m)
		}
	}
	return models
}

// scoreChunk computes the weighted raw score and its normalized form for one
// chunk under one model.
func (e *Engine) scoreChunk(chunk *chunker.Chunk, matches []marker.Match, model *Model) ChunkScore {
	raw := 0.0
	var contributions []Contribution

	for i := range matches {
		match := &matches[i]
		weight, relevant := model.CategoryWeights[match.Category]
		if !relevant {
			continue
		}
		amount := weight * model.severityMultiplier(match.Severity) * match.Weight * match.Confidence
		raw += amount
		contributions = append(contributions, Contribution{
			MarkerID:   match.MarkerID,
			MarkerName: match.MarkerName,
			Category:   match.Category,
			Severity:   match.Severity,
			Amount:     amount,
			Confidence: match.Confidence,
		})
	}

	speaker := ""
	if chunk.Speaker != nil {
		speaker = chunk.Speaker.Name
	}

	wordCount := chunk.WordCount()
	return ChunkScore{
		ChunkID:         chunk.ID,
		ModelID:         model.ID,
		ScoreType:       model.Type,
		RawScore:        raw,
		NormalizedScore: normalize(raw, model, wordCount),
		Contributions:   contributions,
		Confidence:      scoreConfidence(matches, model),
		Timestamp:       chunk.Timestamp,
		Speaker:         speaker,
		WordCount:       wordCount,
		MarkerCount:     len(matches),
	}
}

// normalize maps a raw score onto the model's scale. The raw score is first
// put in proportion to chunk length so long chunks do not dominate. Both
// orientations are monotonically increasing in raw: inverse models carry
// positive weights on healthy categories, so positive raw holds the score
// at the healthy top end while negative raw (risk findings) pulls it toward
// the floor.
func normalize(raw float64, model *Model, wordCount int) float64 {
	perWord := 0.0
	if wordCount > 0 {
		perWord = (raw / float64(wordCount)) * model.NormalizationFactor
	}

	var score float64
	if model.InverseScale {
		if perWord < 0 {
			score = model.ScaleMax + perWord*2
		} else {
			score = model.ScaleMax + perWord/10
		}
	} else {
		score = model.ScaleMin + perWord*2
	}

	if score < model.ScaleMin {
		return model.ScaleMin
	}
	if score > model.ScaleMax {
		return model.ScaleMax
	}
	return score
}

// scoreConfidence blends the mean match confidence with a volume factor
// that saturates at ten relevant matches.
func scoreConfidence(matches []marker.Match, model *Model) float64 {
	if len(matches) == 0 {
		return 0.5
	}

	sum := 0.0
	relevant := 0
	for i := range matches {
		sum += matches[i].Confidence
		if _, ok := model.CategoryWeights[matches[i].Category]; ok {
			relevant++
		}
	}
	avg := sum / float64(len(matches))

	countFactor := float64(relevant) / 10
	if countFactor > 1 {
		countFactor = 1
	}
	return avg*0.7 + countFactor*0.3
}

func selectScores(scores []ChunkScore, modelID string) []ChunkScore {
	var out []ChunkScore
	for _, s := range scores {
		if s.ModelID == modelID {
			out = append(out, s)
		}
	}
	return out
}

func aggregate(scores []ChunkScore, model *Model) (Aggregate, bool) {
	if len(scores) == 0 {
		return Aggregate{}, false
	}

	values := make([]float64, len(scores))
	sum := 0.0
	minScore, maxScore := scores[0].NormalizedScore, scores[0].NormalizedScore
	for i, s := range scores {
		values[i] = s.NormalizedScore
		sum += s.NormalizedScore
		if s.NormalizedScore < minScore {
			minScore = s.NormalizedScore
		}
		if s.NormalizedScore > maxScore {
			maxScore = s.NormalizedScore
		}
	}

	counts := make(map[string]int)
	for _, s := range scores {
		for _, c := range s.Contributions {
			counts[c.MarkerName]++
		}
	}
	top := make([]MarkerCount, 0, len(counts))
	for name, count := range counts {
		top = append(top, MarkerCount{name, count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > 5 {
		top = top[:5]
	}

	return Aggregate{
		ModelID:       model.ID,
		ScoreType:     model.Type,
		AverageScore:  sum / float64(len(scores)),
		MinScore:      minScore,
		MaxScore:      maxScore,
		Trend:         trend.Classify(values),
		TrendStrength: trend.Change(values),
		ChunkCount:    len(scores),
		Distribution:  distribution(values),
		TopMarkers:    top,
	}, true
}

// distribution buckets scores into the five bands used by reports.
func distribution(values []float64) map[string]int {
	dist := map[string]int{
		"1-2": 0, "3-4": 0, "5-6": 0, "7-8": 0, "9-10": 0,
	}
	for _, v := range values {
		switch {
		case v <= 2:
			dist["1-2"]++
		case v <= 4:
			dist["3-4"]++
		case v <= 6:
			dist["5-6"]++
		case v <= 8:
			dist["7-8"]++
		default:
			dist["9-10"]++
		}
	}
	return dist
}

func (e *Engine) speakerScores(chunks []chunker.Chunk, scores []ChunkScore, models []*Model) map[string]map[ScoreType]Aggregate {
	chunkSpeaker := make(map[string]string, len(chunks))
	for i := range chunks {
		if chunks[i].Speaker != nil {
			chunkSpeaker[chunks[i].ID] = chunks[i].Speaker.Name
		}
	}

	bySpeaker := make(map[string]map[string][]ChunkScore)
	for _, score := range scores {
		speaker, ok := chunkSpeaker[score.ChunkID]
		if !ok {
			continue
		}
		if bySpeaker[speaker] == nil {
			bySpeaker[speaker] = make(map[string][]ChunkScore)
		}
		bySpeaker[speaker][score.ModelID] = append(bySpeaker[speaker][score.ModelID], score)
	}

	result := make(map[string]map[ScoreType]Aggregate, len(bySpeaker))
	for speaker, byModel := range bySpeaker {
		result[speaker] = make(map[ScoreType]Aggregate)
		for _, model := range models {
			if agg, ok := aggregate(byModel[model.ID], model); ok {
				result[speaker][model.Type] = agg
			}
		}
	}
	return result
}

// buildTimeline groups chunk scores into hourly buckets ordered by time.
func buildTimeline(scores []ChunkScore) []TimePoint {
	buckets := make(map[time.Time]map[ScoreType][]float64)
	for _, score := range scores {
		if score.Timestamp.IsZero() {
			continue
		}
		hour := score.Timestamp.Truncate(time.Hour)
		if buckets[hour] == nil {
			buckets[hour] = make(map[ScoreType][]float64)
		}
		buckets[hour][score.ScoreType] = append(buckets[hour][score.ScoreType], score.NormalizedScore)
	}

	hours := make([]time.Time, 0, len(buckets))
	for hour := range buckets {
		hours = append(hours, hour)
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Before(hours[j]) })

	timeline := make([]TimePoint, 0, len(hours))
	for _, hour := range hours {
		point := TimePoint{Timestamp: hour, Scores: make(map[ScoreType]TimeStats)}
		for scoreType, values := range buckets[hour] {
			stats := TimeStats{Count: len(values), Min: values[0], Max: values[0]}
			sum := 0.0
			for _, v := range values {
				sum += v
				if v < stats.Min {
					stats.Min = v
				}
				if v > stats.Max {
					stats.Max = v
				}
			}
			stats.Average = sum / float64(len(values))
			point.Scores[scoreType] = stats
		}
		timeline = append(timeline, point)
	}
	return timeline
}

// generateAlerts fires warning and critical alerts where aggregated
// averages cross model thresholds. On an inverse scale low averages are the
// dangerous ones.
func (e *Engine) generateAlerts(aggregated map[ScoreType]Aggregate) []Alert {
	var alerts []Alert
	for scoreType, agg := range aggregated {
		model, ok := e.models[agg.ModelID]
		if !ok {
			continue
		}
		for _, level := range []string{"critical", "warning"} {
			threshold, ok := model.Thresholds[level]
			if !ok {
				continue
			}
			triggered := false
			if model.InverseScale {
				triggered = agg.AverageScore <= threshold
			} else {
				triggered = agg.AverageScore >= threshold
			}
			if !triggered {
				continue
			}
			alerts = append(alerts, Alert{
				Level:     level,
				ScoreType: scoreType,
				Message:   fmt.Sprintf("%s is %s: %.1f", model.Name, level, agg.AverageScore),
				Score:     agg.AverageScore,
				Threshold: threshold,
			})
			// The critical alert supersedes the warning for the same model.
			break
		}
	}
	sort.Slice(alerts, func(i, j int) bool {
		if (alerts[i].Level == "critical") != (alerts[j].Level == "critical") {
			return alerts[i].Level == "critical"
		}
		return alerts[i].ScoreType < alerts[j].ScoreType
	})
	return alerts
}

func (e *Engine) buildSummary(result *Result) Summary {
	summary := Summary{
		TotalChunkScores: len(result.ChunkScores),
		SpeakerCount:     len(result.SpeakerScores),
	}

	types := make([]ScoreType, 0, len(result.Aggregated))
	for scoreType := range result.Aggregated {
		types = append(types, scoreType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	summary.ModelsUsed = types

	for _, alert := range result.Alerts {
		switch alert.Level {
		case "critical":
			summary.CriticalAlerts++
		case "warning":
			summary.WarningAlerts++
		}
	}

	for _, scoreType := range types {
		agg := result.Aggregated[scoreType]
		model := e.models[agg.ModelID]
		summary.KeyInsights = append(summary.KeyInsights, Insight{
			ScoreType:      scoreType,
			Score:          agg.AverageScore,
			Trend:          agg.Trend,
			Interpretation: interpret(model, agg.AverageScore),
		})
	}
	return summary
}

// interpret renders a score as a verbal judgment relative to the model's
// scale orientation.
func interpret(model *Model, score float64) string {
	if model == nil {
		return "unknown"
	}
	if model.InverseScale {
		switch {
		case score >= 8:
			return "excellent"
		case score >= 6:
			return "good"
		case score >= 4:
			return "average"
		case score >= 2:
			return "problematic"
		default:
			return "critical"
		}
	}
	switch {
	case score <= 2:
		return "very low"
	case score <= 4:
		return "low"
	case score <= 6:
		return "moderate"
	case score <= 8:
		return "high"
	default:
		return "very high"
	}
}
