package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks bad or missing input; no backend is attempted.
	ErrValidation = errors.New("validation error")
	// ErrUnavailable marks a remote backend that is unconfigured or failed;
	// it triggers the local fallback rather than surfacing to the caller.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrNotFound marks lookups for unknown identifiers.
	ErrNotFound = errors.New("not found")
	// ErrTransient marks failures with no more specific classification.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
