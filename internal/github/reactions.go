package github

import (
	"context"
	"net/http"

	"github.com/tombee/stagehand/internal/action"
)

// reactionContents are the reaction types GitHub accepts.
var reactionContents = []string{"+1", "-1", "laugh", "confused", "heart", "hooray", "rocket", "eyes"}

// previewHeaders returns the Accept override the reactions endpoints
// require; the preview media type replaces the standard one.
func previewHeaders() map[string]string {
	return map[string]string{"Accept": acceptReactionsPreview}
}

// reactionActions declares the reactions category.
func (a *Actions) reactionActions() []*action.Action {
	contentDesc := "Reaction type (+1, -1, laugh, confused, heart, hooray, rocket, eyes)"
	return []*action.Action{
		{
			Category:    "reactions",
			Name:        "create_for_issue",
			Description: "React to an issue or pull request",
			Params: schema(repoParams(), []action.Param{
				{Name: "issue_number", Type: action.TypeInt, Description: "Issue or pull request number", Required: true},
				{Name: "content", Type: action.TypeString, Description: contentDesc, Required: true},
			}),
			Run: a.createIssueReaction,
		},
		{
			Category:    "reactions",
			Name:        "list_for_issue",
			Description: "List reactions on an issue or pull request",
			Params: schema(repoParams(), []action.Param{
				{Name: "issue_number", Type: action.TypeInt, Description: "Issue or pull request number", Required: true},
				{Name: "content", Type: action.TypeString, Description: "Only reactions of this type"},
			}, pageParams()),
			Run: a.listIssueReactions,
		},
		{
			Category:    "reactions",
			Name:        "create_for_comment",
			Description: "React to an issue comment",
			Params: schema(repoParams(), []action.Param{
				{Name: "comment_id", Type: action.TypeInt, Description: "Comment ID", Required: true},
				{Name: "content", Type: action.TypeString, Description: contentDesc, Required: true},
			}),
			Run: a.createCommentReaction,
		},
		{
			Category:    "reactions",
			Name:        "list_for_comment",
			Description: "List reactions on an issue comment",
			Params: schema(repoParams(), []action.Param{
				{Name: "comment_id", Type: action.TypeInt, Description: "Comment ID", Required: true},
				{Name: "content", Type: action.TypeString, Description: "Only reactions of this type"},
			}, pageParams()),
			Run: a.listCommentReactions,
		},
	}
}

type issueReactionParams struct {
	Owner   string `json:"owner"`
	Repo    string `json:"repo"`
	Number  int    `json:"issue_number"`
	Content string `json:"content"`
}

func (a *Actions) createIssueReaction(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p issueReactionParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	if err := oneOf("content", p.Content, reactionContents...); err != nil {
		return nil, err
	}

	return a.call(ctx, "reactions.create_for_issue", &Request{
		Method:  http.MethodPost,
		Path:    repoPath(p.Owner, p.Repo, "/issues/%d/reactions", p.Number),
		Params:  map[string]interface{}{"content": p.Content},
		Headers: previewHeaders(),
	})
}

type listIssueReactionsParams struct {
	Owner   string `json:"owner"`
	Repo    string `json:"repo"`
	Number  int    `json:"issue_number"`
	Content string `json:"content"`
	PerPage int    `json:"per_page"`
	Page    int    `json:"page"`
}

func (a *Actions) listIssueReactions(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p listIssueReactionsParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	if err := oneOf("content", p.Content, reactionContents...); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	if p.Content != "" {
		params["content"] = p.Content
	}
	pageQuery(params, p.PerPage, p.Page)

	return a.call(ctx, "reactions.list_for_issue", &Request{
		Method:  http.MethodGet,
		Path:    repoPath(p.Owner, p.Repo, "/issues/%d/reactions", p.Number),
		Params:  params,
		Headers: previewHeaders(),
	})
}

type commentReactionParams struct {
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	CommentID int64  `json:"comment_id"`
	Content   string `json:"content"`
}

func (a *Actions) createCommentReaction(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p commentReactionParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	if err := oneOf("content", p.Content, reactionContents...); err != nil {
		return nil, err
	}

	return a.call(ctx, "reactions.create_for_comment", &Request{
		Method:  http.MethodPost,
		Path:    repoPath(p.Owner, p.Repo, "/issues/comments/%d/reactions", p.CommentID),
		Params:  map[string]interface{}{"content": p.Content},
		Headers: previewHeaders(),
	})
}

type listCommentReactionsParams struct {
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	CommentID int64  `json:"comment_id"`
	Content   string `json:"content"`
	PerPage   int    `json:"per_page"`
	Page      int    `json:"page"`
}

func (a *Actions) listCommentReactions(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p listCommentReactionsParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	if err := oneOf("content", p.Content, reactionContents...); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	if p.Content != "" {
		params["content"] = p.Content
	}
	pageQuery(params, p.PerPage, p.Page)

	return a.call(ctx, "reactions.list_for_comment", &Request{
		Method:  http.MethodGet,
		Path:    repoPath(p.Owner, p.Repo, "/issues/comments/%d/reactions", p.CommentID),
		Params:  params,
		Headers: previewHeaders(),
	})
}
