package transport

import (
	"fmt"
)

// ErrorType classifies transport errors.
type ErrorType string

const (
	// ErrorTypeConnection indicates network or DNS errors
	ErrorTypeConnection ErrorType = "connection"

	// ErrorTypeTimeout indicates request timeout or deadline exceeded
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeInvalidReq indicates request validation error (invalid method, URL, etc.)
	ErrorTypeInvalidReq ErrorType = "invalid_request"

	// ErrorTypeCancelled indicates context was cancelled
	ErrorTypeCancelled ErrorType = "cancelled"
)

// Error represents a structured failure from transport execution.
//
// An Error means the request never produced an HTTP status code. Responses
// that carry a status, including 4xx and 5xx, are returned as *Response
// with a nil error, so there is no error type for status codes here.
type Error struct {
	// Type classifies the error
	Type ErrorType

	// Message is a user-facing error message with credentials redacted
	// Should be safe to log and display to users
	Message string

	// Cause is the underlying error
	// May contain sensitive data - use Message for user-facing errors
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsType returns true if the error is of the given type.
func (e *Error) IsType(t ErrorType) bool {
	return e.Type == t
}

// IsUserVisible implements pkg/errors.UserVisibleError.
// Transport errors are always user-visible; Message is already redacted.
func (e *Error) IsUserVisible() bool {
	return true
}

// UserMessage implements pkg/errors.UserVisibleError.
func (e *Error) UserMessage() string {
	return e.Message
}

// Suggestion implements pkg/errors.UserVisibleError.
func (e *Error) Suggestion() string {
	switch e.Type {
	case ErrorTypeConnection:
		return "Check your network connection and the API base URL"
	case ErrorTypeTimeout:
		return "Try again, or raise the request timeout"
	default:
		return ""
	}
}
