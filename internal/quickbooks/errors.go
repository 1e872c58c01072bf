package quickbooks

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRejected is returned when the API rejects the access token.
	ErrAuthRejected = errors.New("authorization rejected")

	// ErrInvalidRequest is returned for malformed requests.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is returned when the API throttles the caller.
	ErrRateLimited = errors.New("rate limited")

	// ErrServerError is returned for provider-side failures.
	ErrServerError = errors.New("server error")
)

// APIError represents an error response from the QuickBooks API. Intuit
// wraps failures in a Fault envelope with one or more coded errors.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Detail     string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("quickbooks: %s (code %s, status %d): %s", e.Message, e.Code, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("quickbooks: %s (code %s, status %d)", e.Message, e.Code, e.StatusCode)
}

// Unwrap returns the sentinel classifying this error.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether err means the current credential was
// rejected and a refresh or re-authorization is warranted.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthRejected)
}

// IsRetryable reports whether the request may succeed if repeated.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServerError)
}

// classify maps an HTTP status to the matching sentinel.
func classify(status int) error {
	switch {
	case status == 401 || status == 403:
		return ErrAuthRejected
	case status == 404:
		return ErrNotFound
	case status == 429:
		return ErrRateLimited
	case status >= 500:
		return ErrServerError
	case status >= 400:
		return ErrInvalidRequest
	}
	return nil
}
