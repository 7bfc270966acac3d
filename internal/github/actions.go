package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tombee/stagehand/internal/action"
	pkgerrors "github.com/tombee/stagehand/pkg/errors"
)

// Actions is the full GitHub action set, backed by one shared client.
// Each category file (issues.go, pulls.go, ...) declares its actions and
// parameter schemas; every run funnels through call for uniform envelope
// handling, error classification, and metrics.
type Actions struct {
	client *Client
}

// NewActions creates the action set backed by client.
func NewActions(client *Client) (*Actions, error) {
	if client == nil {
		return nil, &pkgerrors.ValidationError{
			Field:   "client",
			Message: "client is required",
		}
	}
	return &Actions{client: client}, nil
}

// Client returns the underlying API client.
func (a *Actions) Client() *Client {
	return a.client
}

// Register adds every GitHub action to reg. Panics on a duplicate ref,
// which can only come from a bug in the category tables.
func (a *Actions) Register(reg *action.Registry) {
	reg.MustRegister(a.rawActions()...)
	reg.MustRegister(a.issueActions()...)
	reg.MustRegister(a.commentActions()...)
	reg.MustRegister(a.labelActions()...)
	reg.MustRegister(a.milestoneActions()...)
	reg.MustRegister(a.pullActions()...)
	reg.MustRegister(a.reviewActions()...)
	reg.MustRegister(a.reactionActions()...)
	reg.MustRegister(a.repoActions()...)
}

// call executes one API request for the named action under the standard
// success policy: any 2xx status succeeds, anything else becomes a
// classified *action.Error. The result response is the parsed JSON body.
func (a *Actions) call(ctx context.Context, ref string, req *Request) (*action.Result, error) {
	env, duration, err := a.send(ctx, ref, req)
	if err != nil {
		return nil, err
	}
	if !env.IsSuccess() {
		recordMetrics(ref, outcomeAPIError, duration)
		return nil, action.ErrorFromStatus(ref, env.Status, env.Message(), env.RequestID)
	}
	recordMetrics(ref, outcomeSuccess, duration)
	return result(ref, env, duration, env.JSON), nil
}

// send performs the HTTP exchange and records transport failures. Status
// interpretation is left to the caller; actions with non-standard success
// policies (api.request, pulls.is_merged) use send directly.
func (a *Actions) send(ctx context.Context, ref string, req *Request) (*Envelope, time.Duration, error) {
	start := time.Now()
	env, err := a.client.Do(ctx, req)
	duration := time.Since(start)
	if err != nil {
		recordMetrics(ref, outcomeError, duration)
		return nil, duration, err
	}
	recordResponse(env.Status)
	return env, duration, nil
}

// result assembles an action result from an envelope.
func result(ref string, env *Envelope, duration time.Duration, response interface{}) *action.Result {
	metadata := map[string]interface{}{}
	if env.RequestID != "" {
		metadata[action.MetadataRequestID] = env.RequestID
	}
	return &action.Result{
		Action:      ref,
		StatusCode:  env.Status,
		Response:    response,
		RawResponse: env.Body,
		Metadata:    metadata,
		Duration:    duration,
	}
}

// repoPath builds "/repos/{owner}/{repo}" plus a formatted suffix. Owner
// and repo are path-escaped here; string arguments inside format must be
// escaped by the caller (label names can contain spaces).
func repoPath(owner, repo, format string, args ...interface{}) string {
	base := "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo)
	if format == "" {
		return base
	}
	return base + fmt.Sprintf(format, args...)
}

// oneOf validates an enumerated string parameter. An empty value passes,
// absence is checked separately by the required-parameter validation.
func oneOf(field, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}
	return &pkgerrors.ValidationError{
		Field:      field,
		Message:    fmt.Sprintf("invalid value %q", value),
		Suggestion: "use one of: " + strings.Join(allowed, ", "),
	}
}

// schema concatenates parameter groups into one declaration list.
func schema(groups ...[]action.Param) []action.Param {
	var out []action.Param
	for _, group := range groups {
		out = append(out, group...)
	}
	return out
}

// repoParams is the owner/repo pair almost every action starts with.
func repoParams() []action.Param {
	return []action.Param{
		{Name: "owner", Type: action.TypeString, Description: "Repository owner (user or organization)", Required: true},
		{Name: "repo", Type: action.TypeString, Description: "Repository name", Required: true},
	}
}

// pageParams declares the pagination controls list actions accept.
func pageParams() []action.Param {
	return []action.Param{
		{Name: "per_page", Type: action.TypeInt, Description: "Results per page (max 100)"},
		{Name: "page", Type: action.TypeInt, Description: "Page number to fetch"},
	}
}

// pageQuery copies pagination values into query params when set.
func pageQuery(params map[string]interface{}, perPage, page int) {
	if perPage > 0 {
		params["per_page"] = perPage
	}
	if page > 0 {
		params["page"] = page
	}
}
