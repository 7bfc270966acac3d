package github

import (
	"context"
	"net/http"

	"github.com/tombee/stagehand/internal/action"
)

// repoActions declares the repos category.
func (a *Actions) repoActions() []*action.Action {
	return []*action.Action{
		{
			Category:    "repos",
			Name:        "get",
			Description: "Get a repository",
			Params:      repoParams(),
			Run:         a.getRepo,
		},
		{
			Category:    "repos",
			Name:        "list",
			Description: "List repositories the authenticated user can access",
			Params: schema([]action.Param{
				{Name: "visibility", Type: action.TypeString, Description: "Filter by visibility (all, public, private)"},
				{Name: "affiliation", Type: action.TypeString, Description: "Comma-separated affiliations (owner, collaborator, organization_member)"},
				{Name: "type", Type: action.TypeString, Description: "Filter by type (all, owner, public, private, member); not combinable with visibility or affiliation"},
				{Name: "sort", Type: action.TypeString, Description: "Sort field (created, updated, pushed, full_name)"},
				{Name: "direction", Type: action.TypeString, Description: "Sort direction (asc, desc)"},
			}, pageParams()),
			Run: a.listRepos,
		},
		{
			Category:    "repos",
			Name:        "list_tags",
			Description: "List a repository's tags",
			Params:      schema(repoParams(), pageParams()),
			Run:         a.listRepoTags,
		},
	}
}

type repoRefParams struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

func (a *Actions) getRepo(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p repoRefParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	return a.call(ctx, "repos.get", &Request{
		Method: http.MethodGet,
		Path:   repoPath(p.Owner, p.Repo, ""),
	})
}

type listReposParams struct {
	Visibility  string `json:"visibility"`
	Affiliation string `json:"affiliation"`
	Type        string `json:"type"`
	Sort        string `json:"sort"`
	Direction   string `json:"direction"`
	PerPage     int    `json:"per_page"`
	Page        int    `json:"page"`
}

func (a *Actions) listRepos(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p listReposParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	if err := oneOf("visibility", p.Visibility, "all", "public", "private"); err != nil {
		return nil, err
	}
	if err := oneOf("type", p.Type, "all", "owner", "public", "private", "member"); err != nil {
		return nil, err
	}
	if err := oneOf("sort", p.Sort, "created", "updated", "pushed", "full_name"); err != nil {
		return nil, err
	}
	if err := oneOf("direction", p.Direction, "asc", "desc"); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	if p.Visibility != "" {
		params["visibility"] = p.Visibility
	}
	if p.Affiliation != "" {
		params["affiliation"] = p.Affiliation
	}
	if p.Type != "" {
		params["type"] = p.Type
	}
	if p.Sort != "" {
		params["sort"] = p.Sort
	}
	if p.Direction != "" {
		params["direction"] = p.Direction
	}
	pageQuery(params, p.PerPage, p.Page)

	return a.call(ctx, "repos.list", &Request{
		Method: http.MethodGet,
		Path:   "/user/repos",
		Params: params,
	})
}

type listTagsParams struct {
	Owner   string `json:"owner"`
	Repo    string `json:"repo"`
	PerPage int    `json:"per_page"`
	Page    int    `json:"page"`
}

func (a *Actions) listRepoTags(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p listTagsParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	pageQuery(params, p.PerPage, p.Page)

	return a.call(ctx, "repos.list_tags", &Request{
		Method: http.MethodGet,
		Path:   repoPath(p.Owner, p.Repo, "/tags"),
		Params: params,
	})
}
