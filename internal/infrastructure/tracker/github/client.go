package github

import (
	"context"
	"net/http"
	"time"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	domainerrors "github.com/onelance/project-tracker/internal/domain/errors"
	"github.com/onelance/project-tracker/internal/domain/models"
	"github.com/onelance/project-tracker/internal/domain/ports"
	"github.com/onelance/project-tracker/internal/infrastructure/httpclient"
)

const (
	userAgent    = "project-tracker"
	acceptHeader = "application/vnd.github.v3+json"

	defaultBaseURL    = "https://api.github.com"
	defaultGraphQLURL = "https://api.github.com/graphql"
)

var _ ports.TrackerClient = (*GitHubClient)(nil)

type IssuesService interface {
	ListMilestones(ctx context.Context, owner, repo string, opts *github.MilestoneListOptions) ([]*github.Milestone, *github.Response, error)
	ListComments(ctx context.Context, owner, repo string, number int, opts *github.IssueListCommentsOptions) ([]*github.IssueComment, *github.Response, error)
}

type ActivityService interface {
	ListRepositoryEvents(ctx context.Context, owner, repo string, opts *github.ListOptions) ([]*github.Event, *github.Response, error)
}

// GitHubClient implementa ports.TrackerClient contra la API de GitHub.
// Las llamadas REST tipadas van por go-github; la consulta GraphQL y el
// listado de sub-issues van por el cliente HTTP crudo.
type GitHubClient struct {
	issuesService   IssuesService
	activityService ActivityService
	httpClient      httpclient.HTTPClient
	baseURL         string
	graphqlURL      string
	owner           string
	repo            string
	token           string
}

func NewGitHubClient(owner, repo, token string, timeout time.Duration) *GitHubClient {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(context.Background(), ts)
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = timeout

	client := github.NewClient(hc)
	client.UserAgent = userAgent

	return &GitHubClient{
		issuesService:   client.Issues,
		activityService: client.Activity,
		httpClient:      httpclient.NewDefaultHTTPClient(timeout),
		baseURL:         defaultBaseURL,
		graphqlURL:      defaultGraphQLURL,
		owner:           owner,
		repo:            repo,
		token:           token,
	}
}

func NewGitHubClientWithServices(
	issuesService IssuesService,
	activityService ActivityService,
	rawClient httpclient.HTTPClient,
	owner string,
	repo string,
) *GitHubClient {
	return &GitHubClient{
		issuesService:   issuesService,
		activityService: activityService,
		httpClient:      rawClient,
		baseURL:         defaultBaseURL,
		graphqlURL:      defaultGraphQLURL,
		owner:           owner,
		repo:            repo,
	}
}

// ListMilestones obtiene todos los milestones del repositorio, en cualquier estado.
func (ghc *GitHubClient) ListMilestones(ctx context.Context) ([]models.Milestone, error) {
	opts := &github.MilestoneListOptions{State: "all"}
	raw, resp, err := ghc.issuesService.ListMilestones(ctx, ghc.owner, ghc.repo, opts)
	if err != nil {
		return nil, restError("milestones", resp, err)
	}

	milestones := make([]models.Milestone, 0, len(raw))
	for _, m := range raw {
		milestones = append(milestones, models.Milestone{
			Number:       m.GetNumber(),
			Title:        m.GetTitle(),
			Description:  m.Description,
			State:        m.GetState(),
			OpenIssues:   m.GetOpenIssues(),
			ClosedIssues: m.GetClosedIssues(),
			HTMLURL:      m.GetHTMLURL(),
			DueOn:        timestampPtr(m.DueOn),
			CreatedAt:    timestampPtr(m.CreatedAt),
			UpdatedAt:    timestampPtr(m.UpdatedAt),
			ClosedAt:     timestampPtr(m.ClosedAt),
		})
	}

	return milestones, nil
}

// ListEvents obtiene los eventos de actividad del repositorio con su payload crudo.
func (ghc *GitHubClient) ListEvents(ctx context.Context, pageSize int) ([]models.RawEvent, error) {
	opts := &github.ListOptions{PerPage: pageSize}
	raw, resp, err := ghc.activityService.ListRepositoryEvents(ctx, ghc.owner, ghc.repo, opts)
	if err != nil {
		return nil, restError("events", resp, err)
	}

	events := make([]models.RawEvent, 0, len(raw))
	for _, e := range raw {
		events = append(events, models.RawEvent{
			ID:   e.GetID(),
			Type: e.GetType(),
			Actor: models.Assignee{
				Login:     e.GetActor().GetLogin(),
				AvatarURL: e.GetActor().GetAvatarURL(),
			},
			CreatedAt: e.GetCreatedAt().Time,
			RepoName:  e.GetRepo().GetName(),
			Payload:   e.GetRawPayload(),
		})
	}

	return events, nil
}

// ListComments obtiene los comentarios de una issue, en su forma REST.
func (ghc *GitHubClient) ListComments(ctx context.Context, issueNumber int) ([]models.Comment, error) {
	raw, resp, err := ghc.issuesService.ListComments(ctx, ghc.owner, ghc.repo, issueNumber, nil)
	if err != nil {
		return nil, restError("comments", resp, err)
	}

	comments := make([]models.Comment, 0, len(raw))
	for _, c := range raw {
		comment := models.Comment{
			ID:        c.GetID(),
			Body:      c.GetBody(),
			CreatedAt: c.GetCreatedAt().Time,
			UpdatedAt: timestampPtr(c.UpdatedAt),
			HTMLURL:   c.GetHTMLURL(),
		}
		if c.User != nil {
			comment.User = &models.Assignee{
				Login:     c.User.GetLogin(),
				AvatarURL: c.User.GetAvatarURL(),
			}
		}
		comments = append(comments, comment)
	}

	return comments, nil
}

// restError traduce un fallo de go-github al error de transporte del dominio.
func restError(endpoint string, resp *github.Response, err error) error {
	if resp != nil {
		return domainerrors.NewAPIError(endpoint, resp.StatusCode, err.Error())
	}
	return domainerrors.WrapAPIError(endpoint, err)
}

func timestampPtr(ts *github.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time
	return &t
}
