package textmatch

import (
	"reflect"
	"testing"
)

func TestSelectSpansEmpty(t *testing.T) {
	if got := SelectSpans(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}

func TestSelectSpansNoOverlap(t *testing.T) {
	spans := []Span{
		{Start: 10, End: 20, Confidence: 0.7},
		{Start: 0, End: 5, Confidence: 0.9},
	}
	got := SelectSpans(spans)
	if want := []int{1, 0}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected both spans ordered by start, got %v", got)
	}
}

func TestSelectSpansPrefersHigherConfidence(t *testing.T) {
	spans := []Span{
		{Start: 0, End: 10, Confidence: 0.7},
		{Start: 5, End: 15, Confidence: 1.0},
	}
	got := SelectSpans(spans)
	if want := []int{1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected only the exact match to survive, got %v", got)
	}
}

func TestSelectSpansTieBreaksOnStart(t *testing.T) {
	spans := []Span{
		{Start: 5, End: 15, Confidence: 0.9},
		{Start: 0, End: 10, Confidence: 0.9},
	}
	got := SelectSpans(spans)
	if want := []int{1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected the earlier span to win the tie, got %v", got)
	}
}

func TestSelectSpansAdjacentNotOverlapping(t *testing.T) {
	// Half-open intervals: [0,5) and [5,10) touch but do not overlap.
	spans := []Span{
		{Start: 0, End: 5, Confidence: 0.9},
		{Start: 5, End: 10, Confidence: 0.7},
	}
	got := SelectSpans(spans)
	if want := []int{0, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("adjacent spans must both survive, got %v", got)
	}
}

func TestSelectSpansChain(t *testing.T) {
	// The middle span overlaps both outer spans. Once it is rejected the
	// outer pair coexists.
	spans := []Span{
		{Start: 0, End: 10, Confidence: 1.0},
		{Start: 8, End: 18, Confidence: 0.9},
		{Start: 16, End: 26, Confidence: 1.0},
	}
	got := SelectSpans(spans)
	if want := []int{0, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected outer spans only, got %v", got)
	}
}
