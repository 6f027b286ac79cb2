package errors

import (
	"fmt"
	"net/http"
)

// SourceError is a structured error for a failed source operation. It keeps
// which source and operation failed alongside the classified sentinel so the
// orchestrator can log a useful line and still match with errors.Is().
type SourceError struct {
	Source string
	Op     string
	Kind   error
	Cause  error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v: %v", e.Source, e.Op, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Op, e.Kind)
}

func (e *SourceError) Unwrap() error {
	return e.Kind
}

// NewSourceError builds a SourceError with the given classification.
func NewSourceError(source, op string, kind, cause error) *SourceError {
	return &SourceError{Source: source, Op: op, Kind: kind, Cause: cause}
}

// ClassifyStatus maps an HTTP response status to the error taxonomy.
// 2xx maps to nil.
func ClassifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrConfiguration
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 500:
		return ErrSourceUnavailable
	default:
		return ErrContractViolation
	}
}
