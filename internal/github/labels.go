package github

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tombee/stagehand/internal/action"
	pkgerrors "github.com/tombee/stagehand/pkg/errors"
)

// labelActions declares the labels category, both the repository label
// set and label membership on individual issues.
func (a *Actions) labelActions() []*action.Action {
	return []*action.Action{
		{
			Category:    "labels",
			Name:        "create",
			Description: "Create a label in a repository",
			Params: schema(repoParams(), []action.Param{
				{Name: "name", Type: action.TypeString, Description: "Label name", Required: true},
				{Name: "color", Type: action.TypeString, Description: "Six-character hex color, without the leading #"},
				{Name: "description", Type: action.TypeString, Description: "Short description"},
			}),
			Run: a.createLabel,
		},
		{
			Category:    "labels",
			Name:        "get",
			Description: "Get a single label",
			Params: schema(repoParams(), []action.Param{
				{Name: "name", Type: action.TypeString, Description: "Label name", Required: true},
			}),
			Run: a.getLabel,
		},
		{
			Category:    "labels",
			Name:        "update",
			Description: "Rename a label or change its color or description",
			Params: schema(repoParams(), []action.Param{
				{Name: "name", Type: action.TypeString, Description: "Current label name", Required: true},
				{Name: "new_name", Type: action.TypeString, Description: "New label name"},
				{Name: "color", Type: action.TypeString, Description: "Six-character hex color, without the leading #"},
				{Name: "description", Type: action.TypeString, Description: "New description"},
			}),
			Run: a.updateLabel,
		},
		{
			Category:    "labels",
			Name:        "delete",
			Description: "Delete a label from a repository",
			Params: schema(repoParams(), []action.Param{
				{Name: "name", Type: action.TypeString, Description: "Label name", Required: true},
			}),
			Destructive: true,
			Run:         a.deleteLabel,
		},
		{
			Category:    "labels",
			Name:        "list",
			Description: "List a repository's labels",
			Params:      schema(repoParams(), pageParams()),
			Run:         a.listLabels,
		},
		{
			Category:    "labels",
			Name:        "list_on_issue",
			Description: "List the labels on an issue",
			Params: schema(repoParams(), []action.Param{
				{Name: "issue_number", Type: action.TypeInt, Description: "Issue number", Required: true},
			}, pageParams()),
			Run: a.listLabelsOnIssue,
		},
		{
			Category:    "labels",
			Name:        "add_to_issue",
			Description: "Add labels to an issue, keeping its existing ones",
			Params: schema(repoParams(), []action.Param{
				{Name: "issue_number", Type: action.TypeInt, Description: "Issue number", Required: true},
				{Name: "labels", Type: action.TypeArray, Description: "Label names to add", Required: true},
			}),
			Run: a.addLabelsToIssue,
		},
		{
			Category:    "labels",
			Name:        "set_on_issue",
			Description: "Replace all labels on an issue; an empty list removes every label",
			Params: schema(repoParams(), []action.Param{
				{Name: "issue_number", Type: action.TypeInt, Description: "Issue number", Required: true},
				{Name: "labels", Type: action.TypeArray, Description: "Replacement label names"},
			}),
			Run: a.setLabelsOnIssue,
		},
		{
			Category:    "labels",
			Name:        "remove_from_issue",
			Description: "Remove one label from an issue",
			Params: schema(repoParams(), []action.Param{
				{Name: "issue_number", Type: action.TypeInt, Description: "Issue number", Required: true},
				{Name: "name", Type: action.TypeString, Description: "Label name to remove", Required: true},
			}),
			Destructive: true,
			Run:         a.removeLabelFromIssue,
		},
		{
			Category:    "labels",
			Name:        "clear_from_issue",
			Description: "Remove every label from an issue",
			Params: schema(repoParams(), []action.Param{
				{Name: "issue_number", Type: action.TypeInt, Description: "Issue number", Required: true},
			}),
			Destructive: true,
			Run:         a.clearLabelsFromIssue,
		},
	}
}

type createLabelParams struct {
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

func (a *Actions) createLabel(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p createLabelParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	params := map[string]interface{}{"name": p.Name}
	if p.Color != "" {
		params["color"] = p.Color
	}
	if p.Description != "" {
		params["description"] = p.Description
	}

	return a.call(ctx, "labels.create", &Request{
		Method: http.MethodPost,
		Path:   repoPath(p.Owner, p.Repo, "/labels"),
		Params: params,
	})
}

type labelRefParams struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Name  string `json:"name"`
}

func (a *Actions) getLabel(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p labelRefParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	return a.call(ctx, "labels.get", &Request{
		Method: http.MethodGet,
		Path:   repoPath(p.Owner, p.Repo, "/labels/%s", url.PathEscape(p.Name)),
	})
}

type updateLabelParams struct {
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	Name        string `json:"name"`
	NewName     string `json:"new_name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

func (a *Actions) updateLabel(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p updateLabelParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	if p.NewName != "" {
		params["new_name"] = p.NewName
	}
	if p.Color != "" {
		params["color"] = p.Color
	}
	if p.Description != "" {
		params["description"] = p.Description
	}

	return a.call(ctx, "labels.update", &Request{
		Method: http.MethodPatch,
		Path:   repoPath(p.Owner, p.Repo, "/labels/%s", url.PathEscape(p.Name)),
		Params: params,
	})
}

func (a *Actions) deleteLabel(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p labelRefParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	return a.call(ctx, "labels.delete", &Request{
		Method: http.MethodDelete,
		Path:   repoPath(p.Owner, p.Repo, "/labels/%s", url.PathEscape(p.Name)),
	})
}

type listLabelsParams struct {
	Owner   string `json:"owner"`
	Repo    string `json:"repo"`
	PerPage int    `json:"per_page"`
	Page    int    `json:"page"`
}

func (a *Actions) listLabels(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p listLabelsParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	pageQuery(params, p.PerPage, p.Page)

	return a.call(ctx, "labels.list", &Request{
		Method: http.MethodGet,
		Path:   repoPath(p.Owner, p.Repo, "/labels"),
		Params: params,
	})
}

type issueLabelsPageParams struct {
	Owner   string `json:"owner"`
	Repo    string `json:"repo"`
	Number  int    `json:"issue_number"`
	PerPage int    `json:"per_page"`
	Page    int    `json:"page"`
}

func (a *Actions) listLabelsOnIssue(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p issueLabelsPageParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	pageQuery(params, p.PerPage, p.Page)

	return a.call(ctx, "labels.list_on_issue", &Request{
		Method: http.MethodGet,
		Path:   repoPath(p.Owner, p.Repo, "/issues/%d/labels", p.Number),
		Params: params,
	})
}

type issueLabelsParams struct {
	Owner  string   `json:"owner"`
	Repo   string   `json:"repo"`
	Number int      `json:"issue_number"`
	Labels []string `json:"labels"`
}

func (a *Actions) addLabelsToIssue(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p issueLabelsParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	if len(p.Labels) == 0 {
		return nil, &pkgerrors.ValidationError{
			Field:   "labels",
			Message: "at least one label is required",
		}
	}

	return a.call(ctx, "labels.add_to_issue", &Request{
		Method: http.MethodPost,
		Path:   repoPath(p.Owner, p.Repo, "/issues/%d/labels", p.Number),
		Params: map[string]interface{}{"labels": p.Labels},
	})
}

func (a *Actions) setLabelsOnIssue(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p issueLabelsParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	// Always send the labels key; an empty array clears the issue.
	labels := p.Labels
	if labels == nil {
		labels = []string{}
	}

	return a.call(ctx, "labels.set_on_issue", &Request{
		Method: http.MethodPut,
		Path:   repoPath(p.Owner, p.Repo, "/issues/%d/labels", p.Number),
		Params: map[string]interface{}{"labels": labels},
	})
}

type removeLabelParams struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"issue_number"`
	Name   string `json:"name"`
}

func (a *Actions) removeLabelFromIssue(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p removeLabelParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	return a.call(ctx, "labels.remove_from_issue", &Request{
		Method: http.MethodDelete,
		Path:   repoPath(p.Owner, p.Repo, "/issues/%d/labels/%s", p.Number, url.PathEscape(p.Name)),
	})
}

func (a *Actions) clearLabelsFromIssue(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p issueRefParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	return a.call(ctx, "labels.clear_from_issue", &Request{
		Method: http.MethodDelete,
		Path:   repoPath(p.Owner, p.Repo, "/issues/%d/labels", p.Number),
	})
}
