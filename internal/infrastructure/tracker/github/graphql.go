package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domainerrors "github.com/onelance/project-tracker/internal/domain/errors"
	"github.com/onelance/project-tracker/internal/domain/models"
)

const issuesQuery = `query($owner: String!, $name: String!) {
  repository(owner: $owner, name: $name) {
    issues(first: 100, states: [OPEN, CLOSED]) {
      nodes {
        number
        title
        body
        state
        createdAt
        updatedAt
        closedAt
        url
        labels(first: 10) {
          nodes {
            name
            color
          }
        }
        assignees(first: 10) {
          nodes {
            login
            avatarUrl
          }
        }
        milestone {
          title
          number
        }
        comments {
          totalCount
        }
        author {
          login
        }
        projectItems(first: 5) {
          nodes {
            fieldValues(first: 20) {
              nodes {
                ... on ProjectV2ItemFieldSingleSelectValue {
                  name
                  field {
                    ... on ProjectV2SingleSelectField {
                      name
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

// Formas de la respuesta GraphQL. Los campos que no coinciden con el fragmento
// de single-select decodifican como objetos vacíos y se descartan al mapear.
type (
	graphQLRequest struct {
		Query     string                 `json:"query"`
		Variables map[string]interface{} `json:"variables"`
	}

	graphQLResponse struct {
		Data   *graphQLData   `json:"data"`
		Errors []graphQLError `json:"errors"`
	}

	graphQLError struct {
		Message string `json:"message"`
	}

	graphQLData struct {
		Repository *repositoryNode `json:"repository"`
	}

	repositoryNode struct {
		Issues issueConnection `json:"issues"`
	}

	issueConnection struct {
		Nodes []issueNode `json:"nodes"`
	}

	issueNode struct {
		Number       int                    `json:"number"`
		Title        string                 `json:"title"`
		Body         *string                `json:"body"`
		State        string                 `json:"state"`
		CreatedAt    time.Time              `json:"createdAt"`
		UpdatedAt    time.Time              `json:"updatedAt"`
		ClosedAt     *time.Time             `json:"closedAt"`
		URL          string                 `json:"url"`
		Labels       labelConnection        `json:"labels"`
		Assignees    assigneeConnection     `json:"assignees"`
		Milestone    *models.MilestoneRef   `json:"milestone"`
		Comments     commentsNode           `json:"comments"`
		Author       *models.Author         `json:"author"`
		ProjectItems projectItemsConnection `json:"projectItems"`
	}

	labelConnection struct {
		Nodes []models.Label `json:"nodes"`
	}

	assigneeConnection struct {
		Nodes []assigneeNode `json:"nodes"`
	}

	assigneeNode struct {
		Login     string `json:"login"`
		AvatarURL string `json:"avatarUrl"`
	}

	commentsNode struct {
		TotalCount int `json:"totalCount"`
	}

	projectItemsConnection struct {
		Nodes []projectItemNode `json:"nodes"`
	}

	projectItemNode struct {
		FieldValues fieldValuesConnection `json:"fieldValues"`
	}

	fieldValuesConnection struct {
		Nodes []fieldValueNode `json:"nodes"`
	}

	fieldValueNode struct {
		Name  string     `json:"name"`
		Field *fieldNode `json:"field"`
	}

	fieldNode struct {
		Name string `json:"name"`
	}
)

// QueryIssues ejecuta la consulta GraphQL de issues y devuelve los nodos
// decodificados. Un 200 con arreglo `errors` se reporta como GraphQLError.
func (ghc *GitHubClient) QueryIssues(ctx context.Context) ([]models.IssueNode, error) {
	payload, err := json.Marshal(graphQLRequest{
		Query: issuesQuery,
		Variables: map[string]interface{}{
			"owner": ghc.owner,
			"name":  ghc.repo,
		},
	})
	if err != nil {
		return nil, domainerrors.WrapAPIError("graphql", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ghc.graphqlURL, bytes.NewReader(payload))
	if err != nil {
		return nil, domainerrors.WrapAPIError("graphql", err)
	}
	req.Header.Set("Authorization", "Bearer "+ghc.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := ghc.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.WrapAPIError("graphql", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, domainerrors.NewAPIError("graphql", resp.StatusCode, string(body))
	}

	var decoded graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, domainerrors.WrapAPIError("graphql", fmt.Errorf("error decoding response: %w", err))
	}

	if len(decoded.Errors) > 0 {
		messages := make([]string, 0, len(decoded.Errors))
		for _, e := range decoded.Errors {
			messages = append(messages, e.Message)
		}
		return nil, domainerrors.NewGraphQLError(messages)
	}

	if decoded.Data == nil || decoded.Data.Repository == nil {
		return nil, domainerrors.WrapAPIError("graphql", fmt.Errorf("la respuesta no trae el repositorio"))
	}

	nodes := make([]models.IssueNode, 0, len(decoded.Data.Repository.Issues.Nodes))
	for _, n := range decoded.Data.Repository.Issues.Nodes {
		nodes = append(nodes, mapIssueNode(n))
	}

	return nodes, nil
}

func mapIssueNode(n issueNode) models.IssueNode {
	node := models.IssueNode{
		Number:       n.Number,
		Title:        n.Title,
		Body:         n.Body,
		State:        n.State,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
		ClosedAt:     n.ClosedAt,
		URL:          n.URL,
		Labels:       n.Labels.Nodes,
		Milestone:    n.Milestone,
		CommentCount: n.Comments.TotalCount,
		Author:       n.Author,
	}

	node.Assignees = make([]models.Assignee, 0, len(n.Assignees.Nodes))
	for _, a := range n.Assignees.Nodes {
		node.Assignees = append(node.Assignees, models.Assignee{
			Login:     a.Login,
			AvatarURL: a.AvatarURL,
		})
	}

	node.ProjectItems = make([]models.ProjectItem, 0, len(n.ProjectItems.Nodes))
	for _, item := range n.ProjectItems.Nodes {
		projectItem := models.ProjectItem{}
		for _, fv := range item.FieldValues.Nodes {
			if fv.Field == nil || fv.Field.Name == "" {
				continue
			}
			projectItem.FieldValues = append(projectItem.FieldValues, models.FieldValue{
				FieldName: fv.Field.Name,
				Value:     fv.Name,
			})
		}
		node.ProjectItems = append(node.ProjectItems, projectItem)
	}

	return node
}
