package github

import (
	"context"
	"net/http"
	"strings"

	"github.com/tombee/stagehand/internal/action"
)

// rawActions declares the api category: the untyped passthrough for
// endpoints that have no dedicated action.
func (a *Actions) rawActions() []*action.Action {
	return []*action.Action{
		{
			Category:    "api",
			Name:        "request",
			Description: "Call any GitHub REST API endpoint and return the raw envelope",
			Params: []action.Param{
				{Name: "method", Type: action.TypeString, Description: "HTTP method", Default: "GET"},
				{Name: "path", Type: action.TypeString, Description: "Endpoint path beginning with /", Required: true},
				{Name: "params", Type: action.TypeObject, Description: "Query parameters (GET, DELETE) or JSON body (POST, PUT, PATCH)"},
				{Name: "headers", Type: action.TypeObject, Description: "Extra request headers"},
			},
			Run: a.rawRequest,
		},
	}
}

type rawRequestParams struct {
	Method  string                 `json:"method"`
	Path    string                 `json:"path"`
	Params  map[string]interface{} `json:"params"`
	Headers map[string]string      `json:"headers"`
}

// rawRequest succeeds on every status code, 4xx and 5xx included. The
// response carries the whole envelope so callers branch on status
// themselves.
func (a *Actions) rawRequest(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	const ref = "api.request"

	var p rawRequestParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	method := strings.ToUpper(strings.TrimSpace(p.Method))
	if method == "" {
		method = http.MethodGet
	}

	env, duration, err := a.send(ctx, ref, &Request{
		Method:  method,
		Path:    p.Path,
		Params:  p.Params,
		Headers: p.Headers,
	})
	if err != nil {
		return nil, err
	}

	recordMetrics(ref, outcomeSuccess, duration)
	return result(ref, env, duration, map[string]interface{}{
		"status": env.Status,
		"body":   env.Body,
		"json":   env.JSON,
	}), nil
}
