package devops

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates the credentials were rejected (401/403).
	ErrUnauthorized = errors.New("azure devops rejected credentials")

	// ErrNotFound indicates the organization, project, or work item does not exist.
	ErrNotFound = errors.New("azure devops resource not found")

	// ErrUnavailable indicates the server is unreachable or failing (5xx).
	ErrUnavailable = errors.New("azure devops unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("azure devops request timed out")

	// ErrMalformedResponse indicates a response body could not be decoded.
	ErrMalformedResponse = errors.New("malformed azure devops response")
)

// APIError wraps a failed call with the operation and HTTP status.
type APIError struct {
	Op     string
	Status int
	Err    error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
