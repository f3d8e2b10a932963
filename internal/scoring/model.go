package scoring

import "chatmark/internal/marker"

// ScoreType identifies the interpretation of a model's output.
type ScoreType string

const (
	TypeManipulationIndex    ScoreType = "manipulation_index"
	TypeRelationshipHealth   ScoreType = "relationship_health"
	TypeFraudProbability     ScoreType = "fraud_probability"
	TypeCommunicationQuality ScoreType = "communication_quality"
)

// Model defines how marker matches translate into a score. On a normal
// scale high scores signal trouble; on an inverse scale high scores signal
// health, so negative category weights pull the score down.
type Model struct {
	ID          string
	Name        string
	Type        ScoreType
	Description string

	CategoryWeights     map[marker.Category]float64
	SeverityMultipliers map[marker.Severity]float64

	ScaleMin     float64
	ScaleMax     float64
	InverseScale bool

	// NormalizationFactor rescales the per-word raw score before mapping
	// onto [ScaleMin, ScaleMax].
	NormalizationFactor float64

	// Thresholds map alert levels (critical, warning, ...) to average
	// scores that trigger them.
	Thresholds map[string]float64

	Active bool
}

func defaultSeverityMultipliers() map[marker.Severity]float64 {
	return map[marker.Severity]float64{
		marker.SeverityLow:      0.5,
		marker.SeverityMedium:   1.0,
		marker.SeverityHigh:     2.0,
		marker.SeverityCritical: 3.0,
	}
}

func defaultThresholds() map[string]float64 {
	return map[string]float64{
		"critical": 8.0,
		"warning":  6.0,
		"normal":   4.0,
		"good":     2.0,
	}
}

// severityMultiplier resolves a severity with the medium multiplier as
// fallback for unknown values.
func (m *Model) severityMultiplier(severity marker.Severity) float64 {
	if mult, ok := m.SeverityMultipliers[severity]; ok {
		return mult
	}
	return 1.0
}

// fill populates zero-valued optional fields with defaults.
func (m *Model) fill() {
	if m.SeverityMultipliers == nil {
		m.SeverityMultipliers = defaultSeverityMultipliers()
	}
	if m.Thresholds == nil {
		m.Thresholds = defaultThresholds()
	}
	if m.ScaleMax == 0 {
		m.ScaleMin = 1.0
		m.ScaleMax = 10.0
	}
	if m.NormalizationFactor == 0 {
		m.NormalizationFactor = 100.0
	}
}

// DefaultModels returns the built-in scoring models in registration order.
func DefaultModels() []Model {
	models := []Model{
		{
			ID:          "manipulation_index",
			Name:        "Manipulation Index",
			Type:        TypeManipulationIndex,
			Description: "Measures the degree of manipulative communication",
			CategoryWeights: map[marker.Category]float64{
				marker.CategoryManipulation:   2.0,
				marker.CategoryGaslighting:    3.0,
				marker.CategoryEmotionalAbuse: 2.5,
				marker.CategoryLoveBombing:    1.5,
				marker.CategoryFraud:          3.0,
				marker.CategoryPositive:       -1.0,
				marker.CategoryEmpathy:        -0.5,
				marker.CategorySupport:        -0.5,
			},
			InverseScale: false,
			Active:       true,
		},
		{
			ID:          "relationship_health",
			Name:        "Relationship Health",
			Type:        TypeRelationshipHealth,
			Description: "Rates the health of relationship communication",
			CategoryWeights: map[marker.Category]float64{
				marker.CategoryPositive:           2.0,
				marker.CategoryEmpathy:            2.5,
				marker.CategorySupport:            2.0,
				marker.CategoryConflictResolution: 1.5,
				marker.CategoryManipulation:       -2.0,
				marker.CategoryGaslighting:        -3.0,
				marker.CategoryEmotionalAbuse:     -2.5,
				marker.CategoryFraud:              -3.0,
			},
			InverseScale: true,
			Active:       true,
		},
		{
			ID:          "fraud_probability",
			Name:        "Fraud Probability",
			Type:        TypeFraudProbability,
			Description: "Likelihood of fraud or scam behavior",
			CategoryWeights: map[marker.Category]float64{
				marker.CategoryFraud:          3.0,
				marker.CategoryFinancialAbuse: 2.5,
				marker.CategoryLoveBombing:    1.5,
				marker.CategoryManipulation:   1.0,
				marker.CategoryPositive:       -0.5,
				marker.CategoryEmpathy:        -0.3,
			},
			Thresholds: map[string]float64{
				"critical": 7.0,
				"warning":  5.0,
				"normal":   3.0,
				"low":      1.5,
			},
			InverseScale: false,
			Active:       true,
		},
		{
			ID:          "communication_quality",
			Name:        "Communication Quality",
			Type:        TypeCommunicationQuality,
			Description: "Overall quality of the communication",
			CategoryWeights: map[marker.Category]float64{
				marker.CategoryPositive:           1.5,
				marker.CategoryEmpathy:            2.0,
				marker.CategorySupport:            1.5,
				marker.CategoryConflictResolution: 2.0,
				marker.CategoryBoundarySetting:    1.0,
				marker.CategorySelfCare:           0.5,
				marker.CategoryManipulation:       -1.5,
				marker.CategoryGaslighting:        -2.0,
				marker.CategoryEmotionalAbuse:     -2.0,
			},
			InverseScale: true,
			Active:       true,
		},
	}
	for i := range models {
		models[i].fill()
	}
	return models
}
