// Package services groups clients for the external collaborators of the
// pipeline and the tagged error markers the HTTP layer maps to status codes.
package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers wrapped into service errors so callers can classify
// failures without matching on message strings.
var (
	// ErrValidation marks bad caller input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a missing project or artifact.
	ErrNotFound = errors.New("not found")
	// ErrConfiguration marks missing keys or unusable settings.
	ErrConfiguration = errors.New("configuration error")
	// ErrUpstream marks a failure reported by an external service.
	ErrUpstream = errors.New("upstream error")
	// ErrConflict marks an operation racing an in-flight pipeline run.
	ErrConflict = errors.New("conflict")
	// ErrAmbiguous marks a request that needs an explicit project slug.
	ErrAmbiguous = errors.New("ambiguous project")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later status classification.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrUpstream
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
