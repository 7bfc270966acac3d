package github

import (
	"context"
	"net/http"

	"github.com/tombee/stagehand/internal/action"
)

// issueActions declares the issues category.
func (a *Actions) issueActions() []*action.Action {
	return []*action.Action{
		{
			Category:    "issues",
			Name:        "create",
			Description: "Create an issue",
			Params: schema(repoParams(), []action.Param{
				{Name: "title", Type: action.TypeString, Description: "Issue title", Required: true},
				{Name: "body", Type: action.TypeString, Description: "Issue body text (Markdown)"},
				{Name: "labels", Type: action.TypeArray, Description: "Label names to apply"},
				{Name: "assignees", Type: action.TypeArray, Description: "Logins to assign"},
				{Name: "milestone", Type: action.TypeInt, Description: "Milestone number to associate"},
			}),
			Run: a.createIssue,
		},
		{
			Category:    "issues",
			Name:        "get",
			Description: "Get a single issue",
			Params: schema(repoParams(), []action.Param{
				{Name: "issue_number", Type: action.TypeInt, Description: "Issue number", Required: true},
			}),
			Run: a.getIssue,
		},
		{
			Category:    "issues",
			Name:        "update",
			Description: "Update an issue's title, body, state, labels, assignees, or milestone",
			Params: schema(repoParams(), []action.Param{
				{Name: "issue_number", Type: action.TypeInt, Description: "Issue number", Required: true},
				{Name: "title", Type: action.TypeString, Description: "New title"},
				{Name: "body", Type: action.TypeString, Description: "New body text"},
				{Name: "state", Type: action.TypeString, Description: "New state (open or closed)"},
				{Name: "labels", Type: action.TypeArray, Description: "Replacement label names"},
				{Name: "assignees", Type: action.TypeArray, Description: "Replacement assignee logins"},
				{Name: "milestone", Type: action.TypeInt, Description: "Milestone number, or 0 to clear"},
			}),
			Run: a.updateIssue,
		},
		{
			Category:    "issues",
			Name:        "list",
			Description: "List issues in a repository",
			Params: schema(repoParams(), []action.Param{
				{Name: "state", Type: action.TypeString, Description: "Filter by state (open, closed, all)", Default: "open"},
				{Name: "labels", Type: action.TypeString, Description: "Comma-separated label names to filter by"},
				{Name: "assignee", Type: action.TypeString, Description: "Filter by assignee login, * for any"},
				{Name: "creator", Type: action.TypeString, Description: "Filter by creator login"},
				{Name: "mentioned", Type: action.TypeString, Description: "Filter by mentioned login"},
				{Name: "sort", Type: action.TypeString, Description: "Sort field (created, updated, comments)"},
				{Name: "direction", Type: action.TypeString, Description: "Sort direction (asc, desc)"},
				{Name: "since", Type: action.TypeString, Description: "Only issues updated at or after this ISO 8601 timestamp"},
			}, pageParams()),
			Run: a.listIssues,
		},
		{
			Category:    "issues",
			Name:        "lock",
			Description: "Lock an issue's conversation",
			Params: schema(repoParams(), []action.Param{
				{Name: "issue_number", Type: action.TypeInt, Description: "Issue number", Required: true},
				{Name: "lock_reason", Type: action.TypeString, Description: "Reason (off-topic, too heated, resolved, spam)"},
			}),
			Run: a.lockIssue,
		},
		{
			Category:    "issues",
			Name:        "unlock",
			Description: "Unlock an issue's conversation",
			Params: schema(repoParams(), []action.Param{
				{Name: "issue_number", Type: action.TypeInt, Description: "Issue number", Required: true},
			}),
			Run: a.unlockIssue,
		},
	}
}

type createIssueParams struct {
	Owner     string   `json:"owner"`
	Repo      string   `json:"repo"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Labels    []string `json:"labels"`
	Assignees []string `json:"assignees"`
	Milestone int      `json:"milestone"`
}

func (a *Actions) createIssue(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p createIssueParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	params := map[string]interface{}{"title": p.Title}
	if p.Body != "" {
		params["body"] = p.Body
	}
	if len(p.Labels) > 0 {
		params["labels"] = p.Labels
	}
	if len(p.Assignees) > 0 {
		params["assignees"] = p.Assignees
	}
	if p.Milestone > 0 {
		params["milestone"] = p.Milestone
	}

	return a.call(ctx, "issues.create", &Request{
		Method: http.MethodPost,
		Path:   repoPath(p.Owner, p.Repo, "/issues"),
		Params: params,
	})
}

type issueRefParams struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"issue_number"`
}

func (a *Actions) getIssue(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p issueRefParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	return a.call(ctx, "issues.get", &Request{
		Method: http.MethodGet,
		Path:   repoPath(p.Owner, p.Repo, "/issues/%d", p.Number),
	})
}

type updateIssueParams struct {
	Owner     string   `json:"owner"`
	Repo      string   `json:"repo"`
	Number    int      `json:"issue_number"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	State     string   `json:"state"`
	Labels    []string `json:"labels"`
	Assignees []string `json:"assignees"`
	Milestone int      `json:"milestone"`
}

func (a *Actions) updateIssue(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p updateIssueParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	if err := oneOf("state", p.State, "open", "closed"); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	if p.Title != "" {
		params["title"] = p.Title
	}
	if p.Body != "" {
		params["body"] = p.Body
	}
	if p.State != "" {
		params["state"] = p.State
	}
	if p.Labels != nil {
		params["labels"] = p.Labels
	}
	if p.Assignees != nil {
		params["assignees"] = p.Assignees
	}
	// GitHub clears the milestone on an explicit null.
	if p.Milestone > 0 {
		params["milestone"] = p.Milestone
	} else if _, ok := inputs["milestone"]; ok {
		params["milestone"] = nil
	}

	return a.call(ctx, "issues.update", &Request{
		Method: http.MethodPatch,
		Path:   repoPath(p.Owner, p.Repo, "/issues/%d", p.Number),
		Params: params,
	})
}

type listIssuesParams struct {
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	State     string `json:"state"`
	Labels    string `json:"labels"`
	Assignee  string `json:"assignee"`
	Creator   string `json:"creator"`
	Mentioned string `json:"mentioned"`
	Sort      string `json:"sort"`
	Direction string `json:"direction"`
	Since     string `json:"since"`
	PerPage   int    `json:"per_page"`
	Page      int    `json:"page"`
}

func (a *Actions) listIssues(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p listIssuesParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	if err := oneOf("state", p.State, "open", "closed", "all"); err != nil {
		return nil, err
	}
	if err := oneOf("sort", p.Sort, "created", "updated", "comments"); err != nil {
		return nil, err
	}
	if err := oneOf("direction", p.Direction, "asc", "desc"); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	if p.State != "" {
		params["state"] = p.State
	}
	if p.Labels != "" {
		params["labels"] = p.Labels
	}
	if p.Assignee != "" {
		params["assignee"] = p.Assignee
	}
	if p.Creator != "" {
		params["creator"] = p.Creator
	}
	if p.Mentioned != "" {
		params["mentioned"] = p.Mentioned
	}
	if p.Sort != "" {
		params["sort"] = p.Sort
	}
	if p.Direction != "" {
		params["direction"] = p.Direction
	}
	if p.Since != "" {
		params["since"] = p.Since
	}
	pageQuery(params, p.PerPage, p.Page)

	return a.call(ctx, "issues.list", &Request{
		Method: http.MethodGet,
		Path:   repoPath(p.Owner, p.Repo, "/issues"),
		Params: params,
	})
}

type lockIssueParams struct {
	Owner      string `json:"owner"`
	Repo       string `json:"repo"`
	Number     int    `json:"issue_number"`
	LockReason string `json:"lock_reason"`
}

func (a *Actions) lockIssue(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p lockIssueParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	if err := oneOf("lock_reason", p.LockReason, "off-topic", "too heated", "resolved", "spam"); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	if p.LockReason != "" {
		params["lock_reason"] = p.LockReason
	}

	return a.call(ctx, "issues.lock", &Request{
		Method: http.MethodPut,
		Path:   repoPath(p.Owner, p.Repo, "/issues/%d/lock", p.Number),
		Params: params,
	})
}

func (a *Actions) unlockIssue(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p issueRefParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	return a.call(ctx, "issues.unlock", &Request{
		Method: http.MethodDelete,
		Path:   repoPath(p.Owner, p.Repo, "/issues/%d/lock", p.Number),
	})
}
