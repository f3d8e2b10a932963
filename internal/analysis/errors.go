package analysis

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfig      = errors.New("configuration error")
	ErrPattern     = errors.New("pattern error")
	ErrParse       = errors.New("parse error")
	ErrAggregation = errors.New("aggregation error")
)

// Wrap builds an error message carrying stage context while tagging it with
// one of the sentinel errors above for later classification.
func Wrap(sentinel error, stage, operation string, err error) error {
	detail := buildDetail(stage, operation)
	if sentinel == nil {
		sentinel = ErrParse
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", sentinel, detail, err)
	}
	return fmt.Errorf("%w: %s", sentinel, detail)
}

func buildDetail(stage, operation string) string {
	parts := make([]string, 0, 2)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if len(parts) == 0 {
		return "analysis failure"
	}
	return strings.Join(parts, ": ")
}
