package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsSourceUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"direct match", ErrSourceUnavailable, true},
		{"wrapped once", fmt.Errorf("chamber api: %w", ErrSourceUnavailable), true},
		{"wrapped twice", fmt.Errorf("resolve: %w", fmt.Errorf("fetch: %w", ErrSourceUnavailable)), true},
		{"different error", ErrContractViolation, false},
		{"nil error", nil, false},
		{"unrelated error", errors.New("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSourceUnavailable(tt.err); got != tt.want {
				t.Errorf("IsSourceUnavailable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsContractViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"direct match", ErrContractViolation, true},
		{"wrapped", fmt.Errorf("parse response: %w", ErrContractViolation), true},
		{"different error", ErrSourceUnavailable, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsContractViolation(tt.err); got != tt.want {
				t.Errorf("IsContractViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsConfiguration(t *testing.T) {
	if !IsConfiguration(Wrap(ErrConfiguration, "invalid API key")) {
		t.Error("wrapped configuration error should match")
	}
	if IsConfiguration(ErrRateLimited) {
		t.Error("rate limited should not match configuration")
	}
}

func TestIsRateLimited(t *testing.T) {
	if !IsRateLimited(Wrapf(ErrRateLimited, "after %d attempts", 3)) {
		t.Error("wrapped rate limit error should match")
	}
	if IsRateLimited(nil) {
		t.Error("nil should not match")
	}
}

func TestWrapf_PreservesChainAndMessage(t *testing.T) {
	err := Wrapf(ErrSourceUnavailable, "senate api: status %d", 502)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Error("Wrapf should preserve the sentinel in the chain")
	}
	want := "senate api: status 502: source unavailable"
	if err.Error() != want {
		t.Errorf("Wrapf message = %q, want %q", err.Error(), want)
	}
}

func TestSourceError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewSourceError("websearch", "fetch results", ErrSourceUnavailable, cause)

	if !errors.Is(err, ErrSourceUnavailable) {
		t.Error("SourceError should unwrap to its kind")
	}
	want := "websearch: fetch results: source unavailable: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	noCause := NewSourceError("chamber", "deputy lookup", ErrContractViolation, nil)
	if noCause.Error() != "chamber: deputy lookup: contract violation" {
		t.Errorf("Error() without cause = %q", noCause.Error())
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusOK, nil},
		{http.StatusCreated, nil},
		{http.StatusUnauthorized, ErrConfiguration},
		{http.StatusForbidden, ErrConfiguration},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusInternalServerError, ErrSourceUnavailable},
		{http.StatusBadGateway, ErrSourceUnavailable},
		{http.StatusNotFound, ErrContractViolation},
		{http.StatusBadRequest, ErrContractViolation},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			got := ClassifyStatus(tt.status)
			if tt.want == nil {
				if got != nil {
					t.Errorf("ClassifyStatus(%d) = %v, want nil", tt.status, got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("ClassifyStatus(%d) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
