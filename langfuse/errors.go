package langfuse

import (
	"errors"
	"fmt"
)

// Sentinel errors for configuration and lifecycle problems.
var (
	ErrMissingPublicKey = errors.New("langfuse: public key is required")
	ErrMissingSecretKey = errors.New("langfuse: secret key is required")
	ErrMissingHost      = errors.New("langfuse: host is required")
	ErrClientClosed     = errors.New("langfuse: client is closed")
	ErrNilRequest       = errors.New("langfuse: request cannot be nil")
)

// Sentinel APIError values for use with errors.Is(). These match on status
// code only.
var (
	ErrNotFound     = &APIError{StatusCode: 404}
	ErrUnauthorized = &APIError{StatusCode: 401}
	ErrForbidden    = &APIError{StatusCode: 403}
	ErrRateLimited  = &APIError{StatusCode: 429}
)

// APIError represents an error response from the Langfuse API.
// It supports comparison via errors.Is on the status code.
type APIError struct {
	StatusCode   int    `json:"statusCode"`
	Message      string `json:"message"`
	ErrorMessage string `json:"error"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.ErrorMessage
	}
	if msg == "" {
		msg = "request failed"
	}
	return fmt.Sprintf("langfuse: API error %d: %s", e.StatusCode, msg)
}

// Is reports whether target is an APIError with the same status code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode
}

// IsNotFound returns true for 404 responses.
func (e *APIError) IsNotFound() bool { return e.StatusCode == 404 }

// IsUnauthorized returns true for 401 responses.
func (e *APIError) IsUnauthorized() bool { return e.StatusCode == 401 }

// IsRateLimited returns true for 429 responses.
func (e *APIError) IsRateLimited() bool { return e.StatusCode == 429 }

// IsServerError returns true for 5xx responses.
func (e *APIError) IsServerError() bool { return e.StatusCode >= 500 }

// IsRetryable returns true if the request may succeed when retried.
// Rate limiting and server errors are retryable; client errors are not.
func (e *APIError) IsRetryable() bool {
	return e.IsRateLimited() || e.IsServerError()
}

// AsAPIError extracts an *APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsRetryable returns true if the error represents a retryable condition.
// Non-API errors (network failures) are treated as retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.IsRetryable()
	}
	return true
}

// ValidationError reports a request that failed client-side validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("langfuse: validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
