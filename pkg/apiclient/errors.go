package apiclient

import (
	"errors"
	"fmt"
)

// Sentinel errors for common response codes.
var (
	// ErrEmptyBaseURL is returned by New when no base URL is supplied.
	ErrEmptyBaseURL = errors.New("apiclient: empty base URL")

	// ErrUnauthorized is returned for 401 responses (expired or missing token).
	ErrUnauthorized = errors.New("apiclient: unauthorized")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("apiclient: not found")
)

// APIError describes a non-2xx response that has no dedicated sentinel.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apiclient: unexpected status %d: %s", e.Status, e.Body)
}
