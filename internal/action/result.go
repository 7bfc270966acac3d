package action

import (
	"time"
)

// Result represents the output of a completed action.
//
// A Result exists only when GitHub answered; its status code may still be
// outside the 2xx range for actions whose success policy accepts that
// (e.g. a merge check treating 404 as "not merged").
type Result struct {
	// Action is the "category.name" reference that produced the result
	Action string

	// StatusCode is the HTTP status code GitHub returned
	StatusCode int

	// Response is the action's shaped output (usually the parsed JSON
	// body, or a small derived map such as {"merged": false})
	Response interface{}

	// RawResponse is the exact body text GitHub returned
	RawResponse string

	// Metadata contains execution details (request ID, timing)
	Metadata map[string]interface{}

	// Duration is the wall-clock time of the call
	Duration time.Duration
}

// Standard metadata keys.
const (
	// MetadataRequestID is the X-GitHub-Request-Id of the call
	MetadataRequestID = "request_id"
)

// GetResponse returns the shaped response data.
func (r *Result) GetResponse() interface{} {
	return r.Response
}

// GetStatusCode returns the HTTP status code.
func (r *Result) GetStatusCode() int {
	return r.StatusCode
}

// GetMetadata returns execution metadata.
func (r *Result) GetMetadata() map[string]interface{} {
	return r.Metadata
}
