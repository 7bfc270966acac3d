// Package github implements a thin client for the GitHub REST API.
//
// The client performs exactly one HTTP call per invocation and returns a
// normalized envelope of status code, raw body text, and parsed JSON. It
// never judges a response: 4xx and 5xx come back as data with a nil error,
// and callers interpret status codes themselves. Only transport failures
// (DNS, refused connections, timeouts, cancelled contexts) return an error.
//
// The rest of the package builds one action per GitHub endpoint on top of
// the client; see actions.go and the per-category files.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tombee/stagehand/internal/transport"
	pkgerrors "github.com/tombee/stagehand/pkg/errors"
)

const (
	// DefaultBaseURL is the hosted GitHub REST API endpoint. Override for
	// GitHub Enterprise Server installs.
	DefaultBaseURL = "https://api.github.com"

	// DefaultAPIVersion is the REST API version sent as X-GitHub-Api-Version.
	DefaultAPIVersion = "2022-11-28"

	// defaultAccept is GitHub's standard media type.
	defaultAccept = "application/vnd.github+json"

	// acceptReactionsPreview is the media type the reactions endpoints
	// require.
	acceptReactionsPreview = "application/vnd.github.squirrel-girl-preview+json"
)

// Request describes one GitHub REST API call.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE)
	Method string

	// Path is the endpoint-relative path, always beginning with "/"
	// (e.g. "/repos/octocat/Hello-World/issues/42")
	Path string

	// Params carries query parameters (GET and DELETE) or the JSON request
	// body (POST, PUT, PATCH), depending on the method
	Params map[string]interface{}

	// BodyParams forces a JSON body on DELETE for the few endpoints that
	// require one (GitHub's remove-requested-reviewers). Ignored for every
	// other method. Most callers leave it nil.
	BodyParams map[string]interface{}

	// Headers are extra request headers. A header named like a default
	// replaces the default, compared case-insensitively (e.g. a preview
	// Accept media type overriding the standard one).
	Headers map[string]string
}

// Envelope is the normalized outcome of one API call.
//
// Status and Body are always populated when an Envelope exists. JSON holds
// the parsed body when the body is valid JSON and is nil otherwise; a parse
// failure is not an error, callers fall back to Body.
type Envelope struct {
	// Status is the HTTP status code
	Status int

	// Body is the exact response text GitHub returned
	Body string

	// JSON is the parsed body, or nil when Body is empty or not JSON
	JSON interface{}

	// RequestID is GitHub's X-GitHub-Request-Id value when one was sent,
	// for correlating a response with GitHub's own logs
	RequestID string
}

// IsSuccess reports whether the status is in the 2xx range.
func (e *Envelope) IsSuccess() bool {
	return e.Status >= 200 && e.Status < 300
}

// Object returns the parsed JSON as an object, when the body held one.
func (e *Envelope) Object() (map[string]interface{}, bool) {
	obj, ok := e.JSON.(map[string]interface{})
	return obj, ok
}

// Message returns the "message" field GitHub puts in error responses,
// or "" when there is none.
func (e *Envelope) Message() string {
	obj, ok := e.Object()
	if !ok {
		return ""
	}
	msg, _ := obj["message"].(string)
	return msg
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// BaseURL is the API root (default: DefaultBaseURL)
	BaseURL string

	// Token is the bearer credential (required, never empty)
	Token string

	// APIVersion is the X-GitHub-Api-Version value (default: DefaultAPIVersion)
	APIVersion string

	// Transport executes requests (default: HTTPTransport with defaults)
	Transport transport.Transport
}

// Client issues single requests against the GitHub REST API.
// A Client is immutable after construction and safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	apiVersion string
	transport  transport.Transport
}

// NewClient creates a Client from config. The token is required; base URL
// and API version fall back to the GitHub defaults.
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil || config.Token == "" {
		return nil, &pkgerrors.ConfigError{
			Key:    "token",
			Reason: "a GitHub token is required",
		}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, &pkgerrors.ConfigError{
			Key:    "base_url",
			Reason: fmt.Sprintf("invalid base URL %q", baseURL),
			Cause:  err,
		}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return nil, &pkgerrors.ConfigError{
			Key:    "base_url",
			Reason: fmt.Sprintf("base URL must be http(s) with a host, got %q", baseURL),
		}
	}

	apiVersion := config.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	tr := config.Transport
	if tr == nil {
		tr, err = transport.NewHTTPTransport(nil)
		if err != nil {
			return nil, err
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      config.Token,
		apiVersion: apiVersion,
		transport:  tr,
	}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs one API call and returns the envelope.
//
// Do returns an error only when the request descriptor is invalid or when
// no HTTP response was received (a *transport.Error). Any response with a
// status code, 4xx and 5xx included, yields (envelope, nil); interpreting
// the status is the caller's responsibility.
func (c *Client) Do(ctx context.Context, req *Request) (*Envelope, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	fullURL := c.baseURL + req.Path

	// GET and DELETE carry params in the query string; mutating methods
	// carry them as a JSON body. DELETE may additionally carry BodyParams
	// for the endpoints that demand one.
	var body []byte
	var bodyParams map[string]interface{}
	switch req.Method {
	case http.MethodGet, http.MethodDelete:
		fullURL += buildQueryString(req.Params)
		if req.Method == http.MethodDelete {
			bodyParams = req.BodyParams
		}
	default:
		bodyParams = req.Params
	}
	if len(bodyParams) > 0 {
		var err error
		body, err = buildRequestBody(bodyParams)
		if err != nil {
			return nil, &pkgerrors.ValidationError{
				Field:   "params",
				Message: fmt.Sprintf("cannot encode params as JSON: %v", err),
			}
		}
	}

	resp, err := c.transport.Execute(ctx, &transport.Request{
		Method:  req.Method,
		URL:     fullURL,
		Headers: c.buildHeaders(req.Headers, body != nil),
		Body:    body,
	})
	if err != nil {
		return nil, err
	}

	env := &Envelope{
		Status: resp.StatusCode,
		Body:   string(resp.Body),
		JSON:   parseJSON(resp.Body),
	}
	if id, ok := resp.Metadata[transport.MetadataRequestID].(string); ok {
		env.RequestID = id
	}
	return env, nil
}

// allowedMethods are the HTTP methods the GitHub client accepts.
var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// validateRequest checks the request descriptor before any network work.
func validateRequest(req *Request) error {
	if req == nil {
		return &pkgerrors.ValidationError{
			Field:   "request",
			Message: "request is required",
		}
	}
	if !allowedMethods[req.Method] {
		return &pkgerrors.ValidationError{
			Field:      "method",
			Message:    fmt.Sprintf("unsupported HTTP method %q", req.Method),
			Suggestion: "use one of GET, POST, PUT, PATCH, DELETE",
		}
	}
	if !strings.HasPrefix(req.Path, "/") {
		return &pkgerrors.ValidationError{
			Field:   "path",
			Message: fmt.Sprintf("path must begin with /, got %q", req.Path),
		}
	}
	return nil
}

// buildHeaders merges the default headers with caller extras. Extras win on
// a name match, compared case-insensitively.
func (c *Client) buildHeaders(extra map[string]string, hasBody bool) map[string]string {
	headers := make(map[string]string, 4+len(extra))
	set := func(name, value string) {
		headers[http.CanonicalHeaderKey(name)] = value
	}

	set("Authorization", "Bearer "+c.token)
	set("Accept", defaultAccept)
	set("X-GitHub-Api-Version", c.apiVersion)
	if hasBody {
		set("Content-Type", "application/json")
	}
	for name, value := range extra {
		set(name, value)
	}

	return headers
}

// buildQueryString encodes params as a URL query string. Arrays encode as
// repeated keys. Returns "" when there is nothing to encode.
func buildQueryString(params map[string]interface{}) string {
	if len(params) == 0 {
		return ""
	}

	values := url.Values{}
	for key, value := range params {
		if value == nil {
			continue
		}
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				values.Add(key, item)
			}
		case []interface{}:
			for _, item := range v {
				values.Add(key, fmt.Sprint(item))
			}
		default:
			values.Add(key, fmt.Sprint(value))
		}
	}

	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// buildRequestBody encodes params as a JSON object. Returns nil for an
// empty map so no body is sent. Explicit nil values are kept: GitHub uses
// null to clear fields (e.g. removing an issue's milestone).
func buildRequestBody(params map[string]interface{}) ([]byte, error) {
	if len(params) == 0 {
		return nil, nil
	}
	return json.Marshal(params)
}

// parseJSON parses body as JSON. Empty or invalid bodies yield nil, never
// an error; callers fall back to the raw body text.
func parseJSON(body []byte) interface{} {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil
	}
	return parsed
}
