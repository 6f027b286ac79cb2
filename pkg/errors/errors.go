// Package errors provides the domain error taxonomy for radar-social.
//
// Source adapters never let raw transport or parse errors escape their
// boundary. Every failure is classified into one of the sentinel errors
// below and wrapped with context, so callers can use errors.Is() checks
// to decide whether to fall through to the next source, retry, or abort.
//
// Usage:
//
//	import rserrors "github.com/pressiona/radar-social/pkg/errors"
//
//	// Return a domain error
//	return nil, rserrors.Wrapf(rserrors.ErrSourceUnavailable, "chamber api: %v", err)
//
//	// Check for domain errors
//	if rserrors.IsSourceUnavailable(err) {
//	    // fall through to the next source
//	}
package errors

import (
	"errors"
	"fmt"
)

// Domain errors - sentinel errors for resolution failure classes.
var (
	// ErrSourceUnavailable indicates an external source could not be reached
	// or answered with a transport-level failure. Transient by nature.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrContractViolation indicates an external source answered with a
	// payload that does not match its documented shape.
	ErrContractViolation = errors.New("contract violation")

	// ErrConfiguration indicates missing or rejected credentials or other
	// invalid local configuration. Never retryable.
	ErrConfiguration = errors.New("configuration error")

	// ErrRateLimited indicates the source throttled us and retries were
	// exhausted.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotFound indicates the requested record was not found.
	ErrNotFound = errors.New("not found")
)

// IsSourceUnavailable reports whether any error in err's chain is ErrSourceUnavailable.
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsContractViolation reports whether any error in err's chain is ErrContractViolation.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrContractViolation)
}

// IsConfiguration reports whether any error in err's chain is ErrConfiguration.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsRateLimited reports whether any error in err's chain is ErrRateLimited.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsNotFound reports whether any error in err's chain is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Wrap annotates a sentinel with a static message while keeping the chain.
func Wrap(sentinel error, msg string) error {
	return fmt.Errorf("%s: %w", msg, sentinel)
}

// Wrapf annotates a sentinel with a formatted message while keeping the chain.
func Wrapf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, sentinel)...)
}
