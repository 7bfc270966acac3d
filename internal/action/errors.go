package action

import (
	"fmt"
	"net/http"
)

// ErrorType classifies action errors for appropriate handling.
type ErrorType string

const (
	// ErrorTypeAuth indicates authentication or authorization failure (401, 403)
	ErrorTypeAuth ErrorType = "auth_error"

	// ErrorTypeNotFound indicates resource not found (404)
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeValidation indicates invalid request data (400, 422, other 4xx)
	ErrorTypeValidation ErrorType = "validation_error"

	// ErrorTypeConflict indicates the resource state blocks the operation
	// (405 unmergeable pull request, 409 head changed)
	ErrorTypeConflict ErrorType = "conflict"

	// ErrorTypeRateLimit indicates rate limit exceeded (429)
	ErrorTypeRateLimit ErrorType = "rate_limited"

	// ErrorTypeServer indicates server-side error (500, 502, 503, 504)
	ErrorTypeServer ErrorType = "server_error"
)

// Error represents an application-level failure reported by GitHub.
//
// An Error always carries a status code: it exists because GitHub answered
// with something outside the action's success policy. Network failures
// never produce an Error, they surface as transport errors instead.
type Error struct {
	// Type classifies the error
	Type ErrorType

	// Action is the "category.name" reference that failed
	Action string

	// StatusCode is the HTTP status code GitHub returned
	StatusCode int

	// Message is the human-readable description, preferring GitHub's own
	// "message" field when the response carried one
	Message string

	// RequestID from GitHub, for support requests
	RequestID string

	// SuggestText provides guidance on how to resolve the error
	SuggestText string
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("ActionError: %s", e.Message)

	if e.Type != "" {
		msg = fmt.Sprintf("%s (type: %s)", msg, e.Type)
	}

	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s [HTTP %d]", msg, e.StatusCode)
	}

	if e.RequestID != "" {
		msg = fmt.Sprintf("%s (request-id: %s)", msg, e.RequestID)
	}

	return msg
}

// IsUserVisible implements pkg/errors.UserVisibleError.
// Action errors are always user-visible.
func (e *Error) IsUserVisible() bool {
	return true
}

// UserMessage implements pkg/errors.UserVisibleError.
func (e *Error) UserMessage() string {
	return e.Message
}

// Suggestion implements pkg/errors.UserVisibleError.
func (e *Error) Suggestion() string {
	return e.SuggestText
}

// IsStatusCode returns true if the error carries the given HTTP status.
func (e *Error) IsStatusCode(code int) bool {
	return e.StatusCode == code
}

// ClassifyStatus maps an HTTP status code to an error type.
func ClassifyStatus(status int) ErrorType {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorTypeAuth
	case status == http.StatusNotFound:
		return ErrorTypeNotFound
	case status == http.StatusMethodNotAllowed || status == http.StatusConflict:
		return ErrorTypeConflict
	case status == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case status >= 500:
		return ErrorTypeServer
	default:
		return ErrorTypeValidation
	}
}

// ErrorFromStatus builds an Error for a response outside an action's
// success policy. message should be GitHub's "message" field when the
// response carried one; it falls back to the standard status text.
func ErrorFromStatus(actionRef string, status int, message, requestID string) *Error {
	errType := ClassifyStatus(status)

	if message == "" {
		message = fmt.Sprintf("%d %s", status, http.StatusText(status))
	}

	err := &Error{
		Type:       errType,
		Action:     actionRef,
		StatusCode: status,
		Message:    message,
		RequestID:  requestID,
	}

	switch errType {
	case ErrorTypeAuth:
		err.SuggestText = "Check that the token is valid and has the required scopes"
	case ErrorTypeNotFound:
		err.SuggestText = "Verify the owner, repository, and resource number exist and the token can see them"
	case ErrorTypeConflict:
		err.SuggestText = "Resolve the conflicting state and retry (e.g. update the branch before merging)"
	case ErrorTypeValidation:
		err.SuggestText = "Check the request fields against the GitHub API documentation"
	case ErrorTypeRateLimit:
		err.SuggestText = "Wait for the rate limit window to reset"
	case ErrorTypeServer:
		err.SuggestText = "GitHub reported a server error; try again later"
	}

	return err
}
