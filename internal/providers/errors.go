package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// MissingCredentialError is the factory's fail-fast signal: the credential for
// the requested provider is absent from configuration. It is raised before any
// network call so a misconfigured deployment never surfaces as a confusing
// transport error.
type MissingCredentialError struct {
	Provider string
	EnvVar   string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s API key is not configured (set %s)", e.Provider, e.EnvVar)
}

// APIError is a non-2xx response from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}

	return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
}

// NormalizedError is the only error shape that crosses the HTTP boundary.
type NormalizedError struct {
	Status  int
	Message string
}

// Normalize converts any error raised while talking to a provider into exactly
// one of five outcomes. First match wins; the conditions are not mutually
// exclusive in the underlying error shapes, so the order matters. It is a pure
// function of its input and never panics, including on nil.
func Normalize(err error) NormalizedError {
	var missing *MissingCredentialError
	if errors.As(err, &missing) {
		return NormalizedError{
			Status:  http.StatusInternalServerError,
			Message: fmt.Sprintf("%s API key is not configured. Set %s in the gateway configuration or environment.", missing.Provider, missing.EnvVar),
		}
	}

	if isTransportError(err) {
		return NormalizedError{
			Status:  http.StatusServiceUnavailable,
			Message: "Could not reach the AI service. Check your API key and network connection.",
		}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return NormalizedError{
				Status:  http.StatusUnauthorized,
				Message: "Invalid API key. Check that the provider credential is correct.",
			}
		case http.StatusTooManyRequests:
			return NormalizedError{
				Status:  http.StatusTooManyRequests,
				Message: "Rate limit hit. Wait a moment and try again.",
			}
		}
	}

	if err != nil && err.Error() != "" {
		return NormalizedError{
			Status:  http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return NormalizedError{
		Status:  http.StatusInternalServerError,
		Message: "An unexpected error occurred",
	}
}

func isTransportError(err error) bool {
	if err == nil {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Some SDK-shaped errors only carry the generic connection message.
	return strings.Contains(err.Error(), "Connection error.")
}
