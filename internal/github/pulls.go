package github

import (
	"context"
	"net/http"

	"github.com/tombee/stagehand/internal/action"
)

// pullActions declares the pulls category.
func (a *Actions) pullActions() []*action.Action {
	return []*action.Action{
		{
			Category:    "pulls",
			Name:        "create",
			Description: "Open a pull request",
			Params: schema(repoParams(), []action.Param{
				{Name: "title", Type: action.TypeString, Description: "Pull request title", Required: true},
				{Name: "head", Type: action.TypeString, Description: "Branch with the changes (user:branch for forks)", Required: true},
				{Name: "base", Type: action.TypeString, Description: "Branch to merge into", Required: true},
				{Name: "body", Type: action.TypeString, Description: "Pull request body text (Markdown)"},
				{Name: "draft", Type: action.TypeBool, Description: "Open as a draft"},
				{Name: "maintainer_can_modify", Type: action.TypeBool, Description: "Allow maintainer edits on the head branch"},
			}),
			Run: a.createPull,
		},
		{
			Category:    "pulls",
			Name:        "get",
			Description: "Get a single pull request",
			Params: schema(repoParams(), []action.Param{
				{Name: "pull_number", Type: action.TypeInt, Description: "Pull request number", Required: true},
			}),
			Run: a.getPull,
		},
		{
			Category:    "pulls",
			Name:        "update",
			Description: "Update a pull request's title, body, state, or base branch",
			Params: schema(repoParams(), []action.Param{
				{Name: "pull_number", Type: action.TypeInt, Description: "Pull request number", Required: true},
				{Name: "title", Type: action.TypeString, Description: "New title"},
				{Name: "body", Type: action.TypeString, Description: "New body text"},
				{Name: "state", Type: action.TypeString, Description: "New state (open or closed)"},
				{Name: "base", Type: action.TypeString, Description: "New base branch"},
			}),
			Run: a.updatePull,
		},
		{
			Category:    "pulls",
			Name:        "list",
			Description: "List pull requests in a repository",
			Params: schema(repoParams(), []action.Param{
				{Name: "state", Type: action.TypeString, Description: "Filter by state (open, closed, all)", Default: "open"},
				{Name: "head", Type: action.TypeString, Description: "Filter by head, as user:branch"},
				{Name: "base", Type: action.TypeString, Description: "Filter by base branch"},
				{Name: "sort", Type: action.TypeString, Description: "Sort field (created, updated, popularity, long-running)"},
				{Name: "direction", Type: action.TypeString, Description: "Sort direction (asc, desc)"},
			}, pageParams()),
			Run: a.listPulls,
		},
		{
			Category:    "pulls",
			Name:        "merge",
			Description: "Merge a pull request",
			Params: schema(repoParams(), []action.Param{
				{Name: "pull_number", Type: action.TypeInt, Description: "Pull request number", Required: true},
				{Name: "commit_title", Type: action.TypeString, Description: "Title for the merge commit"},
				{Name: "commit_message", Type: action.TypeString, Description: "Extra detail for the merge commit"},
				{Name: "merge_method", Type: action.TypeString, Description: "Merge method (merge, squash, rebase)", Default: "merge"},
				{Name: "sha", Type: action.TypeString, Description: "SHA the head must match for the merge to proceed"},
			}),
			Destructive: true,
			Run:         a.mergePull,
		},
		{
			Category:    "pulls",
			Name:        "is_merged",
			Description: "Check whether a pull request has been merged",
			Params: schema(repoParams(), []action.Param{
				{Name: "pull_number", Type: action.TypeInt, Description: "Pull request number", Required: true},
			}),
			Run: a.isPullMerged,
		},
		{
			Category:    "pulls",
			Name:        "list_files",
			Description: "List the files changed by a pull request",
			Params: schema(repoParams(), []action.Param{
				{Name: "pull_number", Type: action.TypeInt, Description: "Pull request number", Required: true},
			}, pageParams()),
			Run: a.listPullFiles,
		},
	}
}

type createPullParams struct {
	Owner               string `json:"owner"`
	Repo                string `json:"repo"`
	Title               string `json:"title"`
	Head                string `json:"head"`
	Base                string `json:"base"`
	Body                string `json:"body"`
	Draft               bool   `json:"draft"`
	MaintainerCanModify bool   `json:"maintainer_can_modify"`
}

func (a *Actions) createPull(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p createPullParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	params := map[string]interface{}{
		"title": p.Title,
		"head":  p.Head,
		"base":  p.Base,
	}
	if p.Body != "" {
		params["body"] = p.Body
	}
	if p.Draft {
		params["draft"] = true
	}
	if p.MaintainerCanModify {
		params["maintainer_can_modify"] = true
	}

	return a.call(ctx, "pulls.create", &Request{
		Method: http.MethodPost,
		Path:   repoPath(p.Owner, p.Repo, "/pulls"),
		Params: params,
	})
}

type pullRefParams struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"pull_number"`
}

func (a *Actions) getPull(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p pullRefParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	return a.call(ctx, "pulls.get", &Request{
		Method: http.MethodGet,
		Path:   repoPath(p.Owner, p.Repo, "/pulls/%d", p.Number),
	})
}

type updatePullParams struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"pull_number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"`
	Base   string `json:"base"`
}

func (a *Actions) updatePull(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p updatePullParams
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
	if p.Base != "" {
		params["base"] = p.Base
	}

	return a.call(ctx, "pulls.update", &Request{
		Method: http.MethodPatch,
		Path:   repoPath(p.Owner, p.Repo, "/pulls/%d", p.Number),
		Params: params,
	})
}

type listPullsParams struct {
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	State     string `json:"state"`
	Head      string `json:"head"`
	Base      string `json:"base"`
	Sort      string `json:"sort"`
	Direction string `json:"direction"`
	PerPage   int    `json:"per_page"`
	Page      int    `json:"page"`
}

func (a *Actions) listPulls(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p listPullsParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	if err := oneOf("state", p.State, "open", "closed", "all"); err != nil {
		return nil, err
	}
	if err := oneOf("sort", p.Sort, "created", "updated", "popularity", "long-running"); err != nil {
		return nil, err
	}
	if err := oneOf("direction", p.Direction, "asc", "desc"); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	if p.State != "" {
		params["state"] = p.State
	}
	if p.Head != "" {
		params["head"] = p.Head
	}
	if p.Base != "" {
		params["base"] = p.Base
	}
	if p.Sort != "" {
		params["sort"] = p.Sort
	}
	if p.Direction != "" {
		params["direction"] = p.Direction
	}
	pageQuery(params, p.PerPage, p.Page)

	return a.call(ctx, "pulls.list", &Request{
		Method: http.MethodGet,
		Path:   repoPath(p.Owner, p.Repo, "/pulls"),
		Params: params,
	})
}

type mergePullParams struct {
	Owner         string `json:"owner"`
	Repo          string `json:"repo"`
	Number        int    `json:"pull_number"`
	CommitTitle   string `json:"commit_title"`
	CommitMessage string `json:"commit_message"`
	MergeMethod   string `json:"merge_method"`
	SHA           string `json:"sha"`
}

// mergePull merges the pull request. GitHub answers 405 when the pull is
// not mergeable and 409 when sha no longer matches the head; both surface
// as conflict errors.
func (a *Actions) mergePull(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p mergePullParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	if err := oneOf("merge_method", p.MergeMethod, "merge", "squash", "rebase"); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	if p.CommitTitle != "" {
		params["commit_title"] = p.CommitTitle
	}
	if p.CommitMessage != "" {
		params["commit_message"] = p.CommitMessage
	}
	if p.MergeMethod != "" {
		params["merge_method"] = p.MergeMethod
	}
	if p.SHA != "" {
		params["sha"] = p.SHA
	}

	return a.call(ctx, "pulls.merge", &Request{
		Method: http.MethodPut,
		Path:   repoPath(p.Owner, p.Repo, "/pulls/%d/merge", p.Number),
		Params: params,
	})
}

// isPullMerged maps GitHub's status-only answer to a boolean: 204 means
// merged, 404 means not merged. Both are success for this action.
func (a *Actions) isPullMerged(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	const ref = "pulls.is_merged"

	var p pullRefParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	env, duration, err := a.send(ctx, ref, &Request{
		Method: http.MethodGet,
		Path:   repoPath(p.Owner, p.Repo, "/pulls/%d/merge", p.Number),
	})
	if err != nil {
		return nil, err
	}

	var merged bool
	switch {
	case env.IsSuccess():
		merged = true
	case env.Status == http.StatusNotFound:
		merged = false
	default:
		recordMetrics(ref, outcomeAPIError, duration)
		return nil, action.ErrorFromStatus(ref, env.Status, env.Message(), env.RequestID)
	}

	recordMetrics(ref, outcomeSuccess, duration)
	return result(ref, env, duration, map[string]interface{}{"merged": merged}), nil
}

type listPullFilesParams struct {
	Owner   string `json:"owner"`
	Repo    string `json:"repo"`
	Number  int    `json:"pull_number"`
	PerPage int    `json:"per_page"`
	Page    int    `json:"page"`
}

func (a *Actions) listPullFiles(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p listPullFilesParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	pageQuery(params, p.PerPage, p.Page)

	return a.call(ctx, "pulls.list_files", &Request{
		Method: http.MethodGet,
		Path:   repoPath(p.Owner, p.Repo, "/pulls/%d/files", p.Number),
		Params: params,
	})
}
