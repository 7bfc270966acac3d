package github

import (
	"context"
	"net/http"

	"github.com/tombee/stagehand/internal/action"
)

// milestoneActions declares the milestones category.
func (a *Actions) milestoneActions() []*action.Action {
	return []*action.Action{
		{
			Category:    "milestones",
			Name:        "create",
			Description: "Create a milestone",
			Params: schema(repoParams(), []action.Param{
				{Name: "title", Type: action.TypeString, Description: "Milestone title", Required: true},
				{Name: "state", Type: action.TypeString, Description: "State (open or closed)"},
				{Name: "description", Type: action.TypeString, Description: "Milestone description"},
				{Name: "due_on", Type: action.TypeString, Description: "Due date as an ISO 8601 timestamp"},
			}),
			Run: a.createMilestone,
		},
		{
			Category:    "milestones",
			Name:        "get",
			Description: "Get a single milestone",
			Params: schema(repoParams(), []action.Param{
				{Name: "milestone_number", Type: action.TypeInt, Description: "Milestone number", Required: true},
			}),
			Run: a.getMilestone,
		},
		{
			Category:    "milestones",
			Name:        "update",
			Description: "Update a milestone's title, state, description, or due date",
			Params: schema(repoParams(), []action.Param{
				{Name: "milestone_number", Type: action.TypeInt, Description: "Milestone number", Required: true},
				{Name: "title", Type: action.TypeString, Description: "New title"},
				{Name: "state", Type: action.TypeString, Description: "New state (open or closed)"},
				{Name: "description", Type: action.TypeString, Description: "New description"},
				{Name: "due_on", Type: action.TypeString, Description: "New due date as an ISO 8601 timestamp"},
			}),
			Run: a.updateMilestone,
		},
		{
			Category:    "milestones",
			Name:        "delete",
			Description: "Delete a milestone",
			Params: schema(repoParams(), []action.Param{
				{Name: "milestone_number", Type: action.TypeInt, Description: "Milestone number", Required: true},
			}),
			Destructive: true,
			Run:         a.deleteMilestone,
		},
		{
			Category:    "milestones",
			Name:        "list",
			Description: "List a repository's milestones",
			Params: schema(repoParams(), []action.Param{
				{Name: "state", Type: action.TypeString, Description: "Filter by state (open, closed, all)", Default: "open"},
				{Name: "sort", Type: action.TypeString, Description: "Sort field (due_on, completeness)"},
				{Name: "direction", Type: action.TypeString, Description: "Sort direction (asc, desc)"},
			}, pageParams()),
			Run: a.listMilestones,
		},
	}
}

type createMilestoneParams struct {
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	Title       string `json:"title"`
	State       string `json:"state"`
	Description string `json:"description"`
	DueOn       string `json:"due_on"`
}

func (a *Actions) createMilestone(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p createMilestoneParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	if err := oneOf("state", p.State, "open", "closed"); err != nil {
		return nil, err
	}

	params := map[string]interface{}{"title": p.Title}
	if p.State != "" {
		params["state"] = p.State
	}
	if p.Description != "" {
		params["description"] = p.Description
	}
	if p.DueOn != "" {
		params["due_on"] = p.DueOn
	}

	return a.call(ctx, "milestones.create", &Request{
		Method: http.MethodPost,
		Path:   repoPath(p.Owner, p.Repo, "/milestones"),
		Params: params,
	})
}

type milestoneRefParams struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"milestone_number"`
}

func (a *Actions) getMilestone(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p milestoneRefParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	return a.call(ctx, "milestones.get", &Request{
		Method: http.MethodGet,
		Path:   repoPath(p.Owner, p.Repo, "/milestones/%d", p.Number),
	})
}

type updateMilestoneParams struct {
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	Number      int    `json:"milestone_number"`
	Title       string `json:"title"`
	State       string `json:"state"`
	Description string `json:"description"`
	DueOn       string `json:"due_on"`
}

func (a *Actions) updateMilestone(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p updateMilestoneParams
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
	if p.State != "" {
		params["state"] = p.State
	}
	if p.Description != "" {
		params["description"] = p.Description
	}
	if p.DueOn != "" {
		params["due_on"] = p.DueOn
	}

	return a.call(ctx, "milestones.update", &Request{
		Method: http.MethodPatch,
		Path:   repoPath(p.Owner, p.Repo, "/milestones/%d", p.Number),
		Params: params,
	})
}

func (a *Actions) deleteMilestone(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p milestoneRefParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	return a.call(ctx, "milestones.delete", &Request{
		Method: http.MethodDelete,
		Path:   repoPath(p.Owner, p.Repo, "/milestones/%d", p.Number),
	})
}

type listMilestonesParams struct {
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	State     string `json:"state"`
	Sort      string `json:"sort"`
	Direction string `json:"direction"`
	PerPage   int    `json:"per_page"`
	Page      int    `json:"page"`
}

func (a *Actions) listMilestones(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p listMilestonesParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	if err := oneOf("state", p.State, "open", "closed", "all"); err != nil {
		return nil, err
	}
	if err := oneOf("sort", p.Sort, "due_on", "completeness"); err != nil {
		return nil, err
	}
	if err := oneOf("direction", p.Direction, "asc", "desc"); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	if p.State != "" {
		params["state"] = p.State
	}
	if p.Sort != "" {
		params["sort"] = p.Sort
	}
	if p.Direction != "" {
		params["direction"] = p.Direction
	}
	pageQuery(params, p.PerPage, p.Page)

	return a.call(ctx, "milestones.list", &Request{
		Method: http.MethodGet,
		Path:   repoPath(p.Owner, p.Repo, "/milestones"),
		Params: params,
	})
}
