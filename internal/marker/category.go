package marker

import (
	"fmt"
	"strings"
)

// Category classifies the behavioral signal a marker represents.
type Category string

const (
	CategoryFraud              Category = "fraud"
	CategoryManipulation       Category = "manipulation"
	CategoryGaslighting        Category = "gaslighting"
	CategoryLoveBombing        Category = "love_bombing"
	CategoryEmotionalAbuse     Category = "emotional_abuse"
	CategoryFinancialAbuse     Category = "financial_abuse"
	CategoryAmbivalence        Category = "ambivalence"
	CategoryPositive           Category = "positive"
	CategoryEmpathy            Category = "empathy"
	CategorySupport            Category = "support"
	CategoryConflictResolution Category = "conflict_resolution"
	CategoryBoundarySetting    Category = "boundary_setting"
	CategorySelfCare           Category = "self_care"
)

// Categories lists every known category in a stable order.
func Categories() []Category {
	return []Category{
		CategoryFraud,
		CategoryManipulation,
		CategoryGaslighting,
		CategoryLoveBombing,
		CategoryEmotionalAbuse,
		CategoryFinancialAbuse,
		CategoryAmbivalence,
		CategoryPositive,
		CategoryEmpathy,
		CategorySupport,
		CategoryConflictResolution,
		CategoryBoundarySetting,
		CategorySelfCare,
	}
}

// categoryAliases maps legacy and shorthand spellings seen in marker files to
// canonical categories. Resolved once at parse time; unknown values are
// rejected rather than silently defaulted.
var categoryAliases = map[string]Category{
	"scam":             CategoryFraud,
	"love_scam":        CategoryFraud,
	"lovebombing":      CategoryLoveBombing,
	"love-bombing":     CategoryLoveBombing,
	"abuse":            CategoryEmotionalAbuse,
	"financial":        CategoryFinancialAbuse,
	"ambivalence_knot": CategoryAmbivalence,
	"resonance":        CategoryEmpathy,
	"supportive":       CategorySupport,
	"boundaries":       CategoryBoundarySetting,
	"selfcare":         CategorySelfCare,
}

// ParseCategory resolves a raw category string, applying the alias table.
// Unknown values return an error.
func ParseCategory(raw string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	if normalized == "" {
		return "", fmt.Errorf("category is empty")
	}
	for _, c := range Categories() {
		if normalized == string(c) {
			return c, nil
		}
	}
	if c, ok := categoryAliases[normalized]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// IsPositive reports whether the category describes a healthy signal. Used by
// scoring models to orient contributions on inverse scales.
func (c Category) IsPositive() bool {
	switch c {
	case CategoryPositive, CategoryEmpathy, CategorySupport,
		CategoryConflictResolution, CategoryBoundarySetting, CategorySelfCare:
		return true
	default:
		return false
	}
}

// Severity grades how serious a marker occurrence is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityAliases = map[string]Severity{
	"minor":    SeverityLow,
	"moderate": SeverityMedium,
	"major":    SeverityHigh,
	"severe":   SeverityCritical,
}

// ParseSeverity resolves a raw severity string, applying the alias table.
// An empty value defaults to medium; unknown values return an error.
func ParseSeverity(raw string) (Severity, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return SeverityMedium, nil
	}
	switch Severity(normalized) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return Severity(normalized), nil
	}
	if s, ok := severityAliases[normalized]; ok {
		return s, nil
	}
	return "", fmt.Errorf("unknown severity %q", raw)
}
