package domain

import (
	"errors"
	"net/http"
)

// Sentinel errors for the annotation pipeline. Callers classify failures with
// errors.Is; each maps to exactly one HTTP status.
var (
	// ErrInvalidInput marks an unparseable variant identifier.
	ErrInvalidInput = errors.New("invalid variant identifier")

	// ErrNotFound marks a variant the annotation source has no record for, or a
	// record without transcript consequences.
	ErrNotFound = errors.New("annotation not found")

	// ErrUpstreamUnavailable marks a transport failure, non-2xx status, or
	// malformed payload from the annotation source.
	ErrUpstreamUnavailable = errors.New("annotation source unavailable")

	// ErrResourceExhausted marks score-store pool exhaustion or lookup deadline
	// expiry.
	ErrResourceExhausted = errors.New("score store exhausted")
)

// HTTPStatus maps a pipeline error to its response status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, ErrResourceExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
