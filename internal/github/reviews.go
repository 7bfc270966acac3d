package github

import (
	"context"
	"net/http"

	"github.com/tombee/stagehand/internal/action"
	pkgerrors "github.com/tombee/stagehand/pkg/errors"
)

// reviewActions declares the reviews category.
func (a *Actions) reviewActions() []*action.Action {
	return []*action.Action{
		{
			Category:    "reviews",
			Name:        "create",
			Description: "Create a review on a pull request; without an event it stays pending",
			Params: schema(repoParams(), []action.Param{
				{Name: "pull_number", Type: action.TypeInt, Description: "Pull request number", Required: true},
				{Name: "body", Type: action.TypeString, Description: "Review summary text"},
				{Name: "event", Type: action.TypeString, Description: "Review action (APPROVE, REQUEST_CHANGES, COMMENT)"},
				{Name: "commit_id", Type: action.TypeString, Description: "SHA of the commit to review"},
				{Name: "comments", Type: action.TypeArray, Description: "Inline comments, each with path, line or position, and body"},
			}),
			Run: a.createReview,
		},
		{
			Category:    "reviews",
			Name:        "list",
			Description: "List the reviews on a pull request",
			Params: schema(repoParams(), []action.Param{
				{Name: "pull_number", Type: action.TypeInt, Description: "Pull request number", Required: true},
			}, pageParams()),
			Run: a.listReviews,
		},
		{
			Category:    "reviews",
			Name:        "submit",
			Description: "Submit a pending review",
			Params: schema(repoParams(), []action.Param{
				{Name: "pull_number", Type: action.TypeInt, Description: "Pull request number", Required: true},
				{Name: "review_id", Type: action.TypeInt, Description: "Review ID", Required: true},
				{Name: "event", Type: action.TypeString, Description: "Review action (APPROVE, REQUEST_CHANGES, COMMENT)", Required: true},
				{Name: "body", Type: action.TypeString, Description: "Review summary text"},
			}),
			Run: a.submitReview,
		},
		{
			Category:    "reviews",
			Name:        "dismiss",
			Description: "Dismiss a submitted review",
			Params: schema(repoParams(), []action.Param{
				{Name: "pull_number", Type: action.TypeInt, Description: "Pull request number", Required: true},
				{Name: "review_id", Type: action.TypeInt, Description: "Review ID", Required: true},
				{Name: "message", Type: action.TypeString, Description: "Reason shown with the dismissal", Required: true},
			}),
			Run: a.dismissReview,
		},
		{
			Category:    "reviews",
			Name:        "request",
			Description: "Request reviewers for a pull request",
			Params: schema(repoParams(), []action.Param{
				{Name: "pull_number", Type: action.TypeInt, Description: "Pull request number", Required: true},
				{Name: "reviewers", Type: action.TypeArray, Description: "Logins to request"},
				{Name: "team_reviewers", Type: action.TypeArray, Description: "Team slugs to request"},
			}),
			Run: a.requestReviewers,
		},
		{
			Category:    "reviews",
			Name:        "unrequest",
			Description: "Withdraw review requests from a pull request",
			Params: schema(repoParams(), []action.Param{
				{Name: "pull_number", Type: action.TypeInt, Description: "Pull request number", Required: true},
				{Name: "reviewers", Type: action.TypeArray, Description: "Logins to withdraw"},
				{Name: "team_reviewers", Type: action.TypeArray, Description: "Team slugs to withdraw"},
			}),
			Run: a.unrequestReviewers,
		},
	}
}

type createReviewParams struct {
	Owner    string                   `json:"owner"`
	Repo     string                   `json:"repo"`
	Number   int                      `json:"pull_number"`
	Body     string                   `json:"body"`
	Event    string                   `json:"event"`
	CommitID string                   `json:"commit_id"`
	Comments []map[string]interface{} `json:"comments"`
}

func (a *Actions) createReview(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p createReviewParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	if err := oneOf("event", p.Event, "APPROVE", "REQUEST_CHANGES", "COMMENT"); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	if p.Body != "" {
		params["body"] = p.Body
	}
	if p.Event != "" {
		params["event"] = p.Event
	}
	if p.CommitID != "" {
		params["commit_id"] = p.CommitID
	}
	if len(p.Comments) > 0 {
		params["comments"] = p.Comments
	}

	return a.call(ctx, "reviews.create", &Request{
		Method: http.MethodPost,
		Path:   repoPath(p.Owner, p.Repo, "/pulls/%d/reviews", p.Number),
		Params: params,
	})
}

type listReviewsParams struct {
	Owner   string `json:"owner"`
	Repo    string `json:"repo"`
	Number  int    `json:"pull_number"`
	PerPage int    `json:"per_page"`
	Page    int    `json:"page"`
}

func (a *Actions) listReviews(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p listReviewsParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	params := map[string]interface{}{}
	pageQuery(params, p.PerPage, p.Page)

	return a.call(ctx, "reviews.list", &Request{
		Method: http.MethodGet,
		Path:   repoPath(p.Owner, p.Repo, "/pulls/%d/reviews", p.Number),
		Params: params,
	})
}

type submitReviewParams struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	Number   int    `json:"pull_number"`
	ReviewID int64  `json:"review_id"`
	Event    string `json:"event"`
	Body     string `json:"body"`
}

func (a *Actions) submitReview(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p submitReviewParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	if err := oneOf("event", p.Event, "APPROVE", "REQUEST_CHANGES", "COMMENT"); err != nil {
		return nil, err
	}

	params := map[string]interface{}{"event": p.Event}
	if p.Body != "" {
		params["body"] = p.Body
	}

	return a.call(ctx, "reviews.submit", &Request{
		Method: http.MethodPost,
		Path:   repoPath(p.Owner, p.Repo, "/pulls/%d/reviews/%d/events", p.Number, p.ReviewID),
		Params: params,
	})
}

type dismissReviewParams struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	Number   int    `json:"pull_number"`
	ReviewID int64  `json:"review_id"`
	Message  string `json:"message"`
}

func (a *Actions) dismissReview(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p dismissReviewParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}

	return a.call(ctx, "reviews.dismiss", &Request{
		Method: http.MethodPut,
		Path:   repoPath(p.Owner, p.Repo, "/pulls/%d/reviews/%d/dismissals", p.Number, p.ReviewID),
		Params: map[string]interface{}{"message": p.Message},
	})
}

type reviewersParams struct {
	Owner         string   `json:"owner"`
	Repo          string   `json:"repo"`
	Number        int      `json:"pull_number"`
	Reviewers     []string `json:"reviewers"`
	TeamReviewers []string `json:"team_reviewers"`
}

func (p *reviewersParams) body() (map[string]interface{}, error) {
	if len(p.Reviewers) == 0 && len(p.TeamReviewers) == 0 {
		return nil, &pkgerrors.ValidationError{
			Field:   "reviewers",
			Message: "at least one reviewer or team reviewer is required",
		}
	}
	body := map[string]interface{}{}
	if len(p.Reviewers) > 0 {
		body["reviewers"] = p.Reviewers
	}
	if len(p.TeamReviewers) > 0 {
		body["team_reviewers"] = p.TeamReviewers
	}
	return body, nil
}

func (a *Actions) requestReviewers(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p reviewersParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	body, err := p.body()
	if err != nil {
		return nil, err
	}

	return a.call(ctx, "reviews.request", &Request{
		Method: http.MethodPost,
		Path:   repoPath(p.Owner, p.Repo, "/pulls/%d/requested_reviewers", p.Number),
		Params: body,
	})
}

// unrequestReviewers is the one DELETE in the set whose endpoint demands a
// JSON body, hence BodyParams instead of Params.
func (a *Actions) unrequestReviewers(ctx context.Context, inputs map[string]interface{}) (*action.Result, error) {
	var p reviewersParams
	if err := action.Decode(inputs, &p); err != nil {
		return nil, err
	}
	body, err := p.body()
	if err != nil {
		return nil, err
	}

	return a.call(ctx, "reviews.unrequest", &Request{
		Method:     http.MethodDelete,
		Path:       repoPath(p.Owner, p.Repo, "/pulls/%d/requested_reviewers", p.Number),
		BodyParams: body,
	})
}
