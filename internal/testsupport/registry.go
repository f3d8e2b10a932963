package testsupport

import (
	"testing"

	"chatmark/internal/marker"
)

// DefaultDefinitions returns a small marker set that covers the exact,
// regex, and fuzzy engines plus one positive category.
func DefaultDefinitions() []marker.Definition {
	return []marker.Definition{
		{
			ID:       "gaslighting_denial",
			Name:     "Reality denial",
			Category: marker.CategoryGaslighting,
			Severity: marker.SeverityHigh,
			Keywords: []string{"bildest dir das nur ein", "habe ich nie gesagt"},
			Weight:   3,
			Active:   true,
		},
		{
			ID:       "fraud_money_request",
			Name:     "Money request",
			Category: marker.CategoryFraud,
			Severity: marker.SeverityCritical,
			Patterns: []string{`geld\s+(schicken|senden|überweisen)`},
			Weight:   4,
			Active:   true,
		},
		{
			ID:       "support_checkin",
			Name:     "Supportive check-in",
			Category: marker.CategorySupport,
			Severity: marker.SeverityLow,
			Examples: []string{"lass uns erst telefonieren"},
			Weight:   1,
			Active:   true,
		},
	}
}

// NewRegistry builds a registry from defs, falling back to the default test
// marker set when none are given.
func NewRegistry(t testing.TB, defs ...marker.Definition) *marker.Registry {
	t.Helper()

	if len(defs) == 0 {
		defs = DefaultDefinitions()
	}
	registry, err := marker.NewRegistry(defs)
	if err != nil {
		t.Fatalf("marker.NewRegistry: %v", err)
	}
	return registry
}
