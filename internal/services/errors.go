package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLaunch marks failures to find or spawn an external executable.
	// These are the only process-level failures surfaced as hard errors.
	ErrLaunch = errors.New("launch error")
	// ErrStream marks a failed read from an open process stream. Callers
	// recover by treating the stream as prematurely ended.
	ErrStream = errors.New("stream error")
	// ErrConfiguration marks invalid or missing configuration values.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error that includes component context while tagging it with
// the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = errors.New("service failure")
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
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
