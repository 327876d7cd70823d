package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/onelance/project-tracker/internal/domain/models"
	"github.com/onelance/project-tracker/internal/logger"
)

const eventsPageSize = 100

const maxEventCommits = 3

// allowedEventTypes es la lista fija de tipos que llegan al dashboard.
// Cualquier otro tipo se descarta antes de normalizar.
var allowedEventTypes = map[string]struct{}{
	"IssuesEvent":                   {},
	"IssueCommentEvent":             {},
	"PushEvent":                     {},
	"PullRequestEvent":              {},
	"PullRequestReviewEvent":        {},
	"PullRequestReviewCommentEvent": {},
}

// Payloads decodificados por tipo de evento.
type (
	eventIssue struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		State  string `json:"state"`
	}

	eventPullRequest struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		State  string `json:"state"`
	}

	eventComment struct {
		Body string `json:"body"`
	}

	eventReview struct {
		State string `json:"state"`
	}

	issuesPayload struct {
		Action string     `json:"action"`
		Issue  eventIssue `json:"issue"`
	}

	issueCommentPayload struct {
		Action  string       `json:"action"`
		Issue   eventIssue   `json:"issue"`
		Comment eventComment `json:"comment"`
	}

	pushPayload struct {
		Ref     string       `json:"ref"`
		Commits []pushCommit `json:"commits"`
	}

	pushCommit struct {
		SHA     string `json:"sha"`
		Message string `json:"message"`
	}

	pullRequestPayload struct {
		Action      string           `json:"action"`
		Number      int              `json:"number"`
		PullRequest eventPullRequest `json:"pull_request"`
	}

	reviewPayload struct {
		Action      string           `json:"action"`
		Review      eventReview      `json:"review"`
		PullRequest eventPullRequest `json:"pull_request"`
	}

	reviewCommentPayload struct {
		Action      string           `json:"action"`
		Comment     eventComment     `json:"comment"`
		PullRequest eventPullRequest `json:"pull_request"`
	}
)

// GetEvents obtiene el feed de actividad del repositorio, filtrado a los tipos
// permitidos y con la descripción generada en el idioma configurado.
func (s *AggregatorService) GetEvents(ctx context.Context) ([]models.Event, error) {
	raw, err := s.tracker.ListEvents(ctx, eventsPageSize)
	if err != nil {
		logger.Error(ctx, "event fetch failed", err)
		return nil, fmt.Errorf("error al obtener los eventos: %w", err)
	}

	return s.filterAndNormalize(ctx, raw), nil
}

// filterAndNormalize descarta los tipos fuera de la lista permitida y arma el
// evento canónico por tipo. Un payload que no decodifica se descarta con un
// aviso en el log.
func (s *AggregatorService) filterAndNormalize(ctx context.Context, raw []models.RawEvent) []models.Event {
	events := make([]models.Event, 0, len(raw))

	for _, re := range raw {
		if _, ok := allowedEventTypes[re.Type]; !ok {
			continue
		}

		event, err := s.normalizeEvent(re)
		if err != nil {
			logger.Warn(ctx, "dropping event with malformed payload",
				"event_id", re.ID,
				"event_type", re.Type,
				"error", err)
			continue
		}
		events = append(events, event)
	}

	return events
}

func (s *AggregatorService) normalizeEvent(re models.RawEvent) (models.Event, error) {
	event := models.Event{
		ID:          re.ID,
		Type:        re.Type,
		Actor:       re.Actor.Login,
		ActorAvatar: re.Actor.AvatarURL,
		CreatedAt:   re.CreatedAt,
		Repo:        re.RepoName,
	}

	switch re.Type {
	case "IssuesEvent":
		var p issuesPayload
		if err := json.Unmarshal(re.Payload, &p); err != nil {
			return models.Event{}, err
		}
		event.Action = p.Action
		event.IssueNumber = p.Issue.Number
		event.IssueTitle = p.Issue.Title
		event.IssueState = p.Issue.State
		event.Description = s.trans.GetMessage(actionMessageID("event_issue", p.Action), 0, map[string]interface{}{
			"Number": p.Issue.Number,
			"Title":  p.Issue.Title,
		})

	case "IssueCommentEvent":
		var p issueCommentPayload
		if err := json.Unmarshal(re.Payload, &p); err != nil {
			return models.Event{}, err
		}
		event.Action = p.Action
		event.IssueNumber = p.Issue.Number
		event.IssueTitle = p.Issue.Title
		event.CommentBody = p.Comment.Body
		event.Description = s.trans.GetMessage("event_issue_comment", 0, map[string]interface{}{
			"Number": p.Issue.Number,
			"Title":  p.Issue.Title,
		})

	case "PushEvent":
		var p pushPayload
		if err := json.Unmarshal(re.Payload, &p); err != nil {
			return models.Event{}, err
		}
		event.Ref = p.Ref
		event.CommitCount = len(p.Commits)
		event.Commits = truncateCommits(p.Commits)
		event.Description = s.trans.GetMessage("event_push", event.CommitCount, map[string]interface{}{
			"Count": event.CommitCount,
			"Ref":   p.Ref,
		})

	case "PullRequestEvent":
		var p pullRequestPayload
		if err := json.Unmarshal(re.Payload, &p); err != nil {
			return models.Event{}, err
		}
		event.Action = p.Action
		event.PRNumber = p.Number
		event.PRTitle = p.PullRequest.Title
		event.PRState = p.PullRequest.State
		event.Description = s.trans.GetMessage(actionMessageID("event_pr", p.Action), 0, map[string]interface{}{
			"Number": p.Number,
			"Title":  p.PullRequest.Title,
		})

	case "PullRequestReviewEvent":
		var p reviewPayload
		if err := json.Unmarshal(re.Payload, &p); err != nil {
			return models.Event{}, err
		}
		event.Action = p.Action
		event.PRNumber = p.PullRequest.Number
		event.PRTitle = p.PullRequest.Title
		event.ReviewState = p.Review.State
		event.Description = s.trans.GetMessage("event_pr_review", 0, map[string]interface{}{
			"Number": p.PullRequest.Number,
			"State":  p.Review.State,
		})

	case "PullRequestReviewCommentEvent":
		var p reviewCommentPayload
		if err := json.Unmarshal(re.Payload, &p); err != nil {
			return models.Event{}, err
		}
		event.Action = p.Action
		event.PRNumber = p.PullRequest.Number
		event.PRTitle = p.PullRequest.Title
		event.CommentBody = p.Comment.Body
		event.Description = s.trans.GetMessage("event_pr_review_comment", 0, map[string]interface{}{
			"Number": p.PullRequest.Number,
		})
	}

	return event, nil
}

// actionMessageID elige la frase según la acción del evento: opened y closed
// tienen mensaje propio, cualquier otra acción cae en "modified".
func actionMessageID(prefix, action string) string {
	switch action {
	case "opened":
		return prefix + "_opened"
	case "closed":
		return prefix + "_closed"
	default:
		return prefix + "_modified"
	}
}

func truncateCommits(commits []pushCommit) []models.EventCommit {
	limit := len(commits)
	if limit > maxEventCommits {
		limit = maxEventCommits
	}

	truncated := make([]models.EventCommit, 0, limit)
	for _, c := range commits[:limit] {
		sha := c.SHA
		if len(sha) > 7 {
			sha = sha[:7]
		}
		truncated = append(truncated, models.EventCommit{
			SHA:     sha,
			Message: c.Message,
		})
	}
	return truncated
}
