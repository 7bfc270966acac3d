package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tombee/stagehand/pkg/httpclient"
)

// HTTPTransport implements the Transport interface for HTTP/HTTPS requests.
// Each call performs exactly one attempt against the remote host.
type HTTPTransport struct {
	client *http.Client
}

// HTTPTransportConfig configures the HTTP transport.
type HTTPTransportConfig struct {
	// Timeout is the request timeout (default: 30s)
	Timeout time.Duration

	// UserAgent overrides the default User-Agent header
	UserAgent string
}

// Validate checks if the configuration is valid.
func (c *HTTPTransportConfig) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", c.Timeout)
	}
	return nil
}

// NewHTTPTransport creates a new HTTP transport with the given configuration.
// A nil config uses defaults.
func NewHTTPTransport(config *HTTPTransportConfig) (*HTTPTransport, error) {
	if config == nil {
		config = &HTTPTransportConfig{}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientCfg := httpclient.DefaultConfig()
	if config.Timeout > 0 {
		clientCfg.Timeout = config.Timeout
	}
	if config.UserAgent != "" {
		clientCfg.UserAgent = config.UserAgent
	}

	client, err := httpclient.New(clientCfg)
	if err != nil {
		return nil, err
	}

	return &HTTPTransport{client: client}, nil
}

// Name returns "http".
func (t *HTTPTransport) Name() string {
	return "http"
}

// Execute sends a single HTTP request and returns the response.
// Any response with a status code is returned as data, 4xx and 5xx
// included. Errors occur only when no status was received.
func (t *HTTPTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, &Error{
			Type:    ErrorTypeInvalidReq,
			Message: fmt.Sprintf("invalid request: %s", err.Error()),
			Cause:   err,
		}
	}

	httpReq, err := buildHTTPRequest(ctx, req)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeInvalidReq,
			Message: fmt.Sprintf("failed to build HTTP request: %s", err.Error()),
			Cause:   err,
		}
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, classifyHTTPError(err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeConnection,
			Message: fmt.Sprintf("failed to read response body: %s", err.Error()),
			Cause:   err,
		}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
		Metadata:   make(map[string]interface{}),
	}

	// Extract request ID if present
	if requestID := httpResp.Header.Get("X-GitHub-Request-Id"); requestID != "" {
		resp.Metadata[MetadataRequestID] = requestID
	}

	return resp, nil
}

// validMethods are the HTTP methods the transport accepts.
var validMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true,
	"PATCH": true, "HEAD": true, "OPTIONS": true,
}

// validateRequest checks if the request is valid.
func validateRequest(req *Request) error {
	if req.Method == "" {
		return fmt.Errorf("method is required")
	}
	if !validMethods[req.Method] {
		return fmt.Errorf("invalid HTTP method: %q", req.Method)
	}

	if req.URL == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(req.URL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must include host")
	}

	// Reject header injection before the request ever reaches the wire
	for name, value := range req.Headers {
		if name == "" {
			return fmt.Errorf("header name must be non-empty")
		}
		if strings.ContainsAny(name, " \r\n\x00") {
			return fmt.Errorf("invalid header name: %q", name)
		}
		if strings.ContainsAny(value, "\r\n\x00") {
			return fmt.Errorf("invalid value for header %q", name)
		}
	}

	return nil
}

// buildHTTPRequest constructs an http.Request from a transport Request.
func buildHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, err
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	// Set Content-Type if body is present and not already set
	if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	return httpReq, nil
}

// classifyHTTPError classifies HTTP client errors into Error types.
// Only failures that never produced a status code reach this path.
func classifyHTTPError(err error) *Error {
	if errors.Is(err, context.Canceled) {
		return &Error{
			Type:    ErrorTypeCancelled,
			Message: "request cancelled",
			Cause:   err,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || isTimeoutError(err) {
		return &Error{
			Type:    ErrorTypeTimeout,
			Message: "request timed out",
			Cause:   err,
		}
	}

	return &Error{
		Type:    ErrorTypeConnection,
		Message: fmt.Sprintf("connection error: %s", err.Error()),
		Cause:   err,
	}
}

// isTimeoutError checks if an error is a timeout error.
func isTimeoutError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
