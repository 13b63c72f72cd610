package rest

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record does not exist, including
	// records removed by a hard delete.
	ErrNotFound = errors.New("record not found")

	// ErrMissingBaseURL is returned when a client is constructed
	// without an API address.
	ErrMissingBaseURL = errors.New("no API base URL configured")
)

// APIError is a non-2xx response from the LIMS API, carrying the
// server's message when the body held one.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: %s (status %d)", e.Message, e.StatusCode)
}

// RequestError is a transport-level failure: the request never
// produced an HTTP response.
type RequestError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}
