// Package transport provides protocol-level request execution for the
// GitHub API client.
//
// The transport layer separates wire concerns (connections, TLS, timeouts)
// from API concerns (endpoint paths, parameter encoding, response
// interpretation). Every response that carries an HTTP status code is
// returned as data, including 4xx and 5xx: deciding what a status means is
// the caller's concern. Errors are reserved for requests that never
// produced a status, such as DNS failures, refused connections, timeouts,
// and cancelled contexts.
package transport

import (
	"context"
)

// Transport executes requests with protocol-specific handling.
// A transport performs exactly one attempt per Execute call: there is no
// retry, backoff, or rate limiting at this layer.
type Transport interface {
	// Execute sends a request and returns a response.
	// The context controls cancellation and deadlines.
	// Returns *Error when no response was received.
	Execute(ctx context.Context, req *Request) (*Response, error)

	// Name returns the transport identifier (e.g., "http").
	Name() string
}

// Request represents a transport-agnostic request.
// Transports validate requests before execution and return invalid_request
// errors for invalid method, URL, or header violations.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS)
	// Required, must be non-empty
	Method string

	// URL is the full request URL
	// Required, must be valid per RFC 3986
	URL string

	// Headers are request headers (case-insensitive)
	// Optional, may be nil or empty map
	Headers map[string]string

	// Body is the request body
	// Optional, may be nil or empty slice
	Body []byte
}

// Response represents a transport-agnostic response.
type Response struct {
	// StatusCode is the HTTP status code
	StatusCode int

	// Headers contains response headers
	Headers map[string][]string

	// Body is the raw response body
	Body []byte

	// Metadata contains transport-specific data (e.g., the GitHub request ID)
	Metadata map[string]interface{}
}

// Standard metadata keys used across transports
const (
	// MetadataRequestID is the service request ID (X-GitHub-Request-Id)
	MetadataRequestID = "request_id"
)
