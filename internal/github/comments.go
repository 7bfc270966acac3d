package github

import (
	"context"
	"net/http"

	"github.com/tombee/stagehand/internal/action"
)

// commentActions declares the comments category. Issue and pull request
// comments share these endpoints; GitHub treats pulls as issues here.
func (a *Actions) commentActions() []*action.Action {
	return []*action.Action{
		{
			Category:    "comments",
			Name:        "create",
			Description: "Comment on an issue or pull request",
			Params: schema(repoParams(), []action.Param{
				{Name: "issue_number", Type: action.TypeInt, Description: "Issue or pull request number", Required: true},
				{Name: "body", Type: action.TypeString, Description: "Comment text (Markdown)", Required: true},
			}),
			Run: a.createComment,
		},
		{
			Category:    "comments",
			Name:        "get",
			Description: "Get a single comment",
			Params: schema(repoParams(), []action.Param{
				{Name: "comment_id", Type: action.TypeInt, Description: "Comment ID", Required: true},
			}),
			Run: a.getComment,
		},
		{
			Category:    "comments",
			Name:        "update",
			Description: "Edit a comment",
			Params: schema(repoParams(), []action.Param{
				{Name: "comment_id", Type: action.TypeInt, Description: "Comment ID", Required: true},
				{Name: "body", Type: action.TypeString, Description: "Replacement text", Required: true},
			}),
			Run: a.updateComment,
		},
		{
			Category:    "comments",
			Name:        "delete",
			Description: "Delete a comment",
			Params: schema(repoParams(), []action.Param{
				{Name: "comment_id", Type: action.TypeInt, Description: "Comment ID", Required: true},
			}),
			Destructive: true,
			Run:         a.deleteComment,
		},
		{
			Category:    "comments",
			Name:        "list",
			Description: "List comments on an issue or pull request",
			Params: schema(repoParams(), []action.Param{
				{Name: "issue_number", Type: action.TypeInt, Description: "Issue or pull request number", Required: true},
				{Name: "since", Type: action.TypeString, Description: "Only comments updated at or after this ISO 8601 timestamp"},
			}, pageParams()),
			Run: a.listComments,
		},
	}
}

type createCommentParams struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"issue_number"`
	Body   string `json:"body"`
}

func (a *Actions) createComment(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p createCommentParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	return a.call(ctx, "comments.create", &Request{
		Method: http.MethodPost,
		Path:   repoPath(p.Owner, p.Repo, "/issues/%d/comments", p.Number),
		Params: map[string]interface{}{"body": p.Body},
	})
}

type commentRefParams struct {
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	CommentID int64  `json:"comment_id"`
}

func (a *Actions) getComment(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p commentRefParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	return a.call(ctx, "comments.get", &Request{
		Method: http.MethodGet,
		Path:   repoPath(p.Owner, p.Repo, "/issues/comments/%d", p.CommentID),
	})
}

type updateCommentParams struct {
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	CommentID int64  `json:"comment_id"`
	Body      string `json:"body"`
}

func (a *Actions) updateComment(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p updateCommentParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	return a.call(ctx, "comments.update", &Request{
		Method: http.MethodPatch,
		Path:   repoPath(p.Owner, p.Repo, "/issues/comments/%d", p.CommentID),
		Params: map[string]interface{}{"body": p.Body},
	})
}

func (a *Actions) deleteComment(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p commentRefParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	return a.call(ctx, "comments.delete", &Request{
		Method: http.MethodDelete,
		Path:   repoPath(p.Owner, p.Repo, "/issues/comments/%d", p.CommentID),
	})
}

type listCommentsParams struct {
	Owner   string `json:"owner"`
	Repo    string `json:"repo"`
	Number  int    `json:"issue_number"`
	Since   string `json:"since"`
	PerPage int    `json:"per_page"`
	Page    int    `json:"page"`
}

func (a *Actions) listComments(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p listCommentsParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	if p.Since != "" {
		params["since"] = p.Since
	}
	pageQuery(params, p.PerPage, p.Page)

	return a.call(ctx, "comments.list", &Request{
		Method: http.MethodGet,
		Path:   repoPath(p.Owner, p.Repo, "/issues/%d/comments", p.Number),
		Params: params,
	})
}
