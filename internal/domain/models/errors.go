package models

import (
	"errors"
	"fmt"
)

// ErrPredictorNotConfigured is reported on the ML path when no prediction
// provider was wired at startup but a request asked for ML.
var ErrPredictorNotConfigured = errors.New("predictor not configured")

// ValidationError marks a malformed request. Returned before any provider
// call and surfaced to the caller as a 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// UpstreamError wraps a failure from an external provider. A base analysis
// failure is fatal to the request; ML failures never reach the caller as errors.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
