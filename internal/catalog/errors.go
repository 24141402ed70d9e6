package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a 404 from the API.
	ErrNotFound = errors.New("catalog: not found")
	// ErrInvalidCredentials reports a rejected login.
	ErrInvalidCredentials = errors.New("catalog: invalid credentials")
)

// APIError carries a non-2xx response that is not covered by a sentinel.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog: unexpected status %d: %s", e.StatusCode, e.Body)
}
