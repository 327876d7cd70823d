package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	domainerrors "github.com/onelance/project-tracker/internal/domain/errors"
	"github.com/onelance/project-tracker/internal/domain/models"
)

// subIssueRecord es la forma REST de una issue dentro del listado de sub-issues.
type subIssueRecord struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	State     string `json:"state"`
	HTMLURL   string `json:"html_url"`
	Labels    []subIssueLabel    `json:"labels"`
	Assignees []subIssueAssignee `json:"assignees"`
}

type subIssueLabel struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type subIssueAssignee struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// ListSubIssues obtiene las sub-issues de una issue vía la API REST.
// El estado de cada sub-issue se conserva tal cual lo reporta el upstream.
func (ghc *GitHubClient) ListSubIssues(ctx context.Context, issueNumber int) ([]models.SubIssueRef, error) {
	endpoint := fmt.Sprintf("sub_issues(%d)", issueNumber)
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/sub_issues", ghc.baseURL, ghc.owner, ghc.repo, issueNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domainerrors.WrapAPIError(endpoint, err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", userAgent)
	if ghc.token != "" {
		req.Header.Set("Authorization", "token "+ghc.token)
	}

	resp, err := ghc.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.WrapAPIError(endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, domainerrors.NewAPIError(endpoint, resp.StatusCode, string(body))
	}

	var records []subIssueRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, domainerrors.WrapAPIError(endpoint, fmt.Errorf("error decoding response: %w", err))
	}

	subIssues := make([]models.SubIssueRef, 0, len(records))
	for _, r := range records {
		ref := models.SubIssueRef{
			Number:    r.Number,
			Title:     r.Title,
			State:     r.State,
			HTMLURL:   r.HTMLURL,
			Labels:    make([]models.Label, 0, len(r.Labels)),
			Assignees: make([]models.Assignee, 0, len(r.Assignees)),
		}
		for _, l := range r.Labels {
			ref.Labels = append(ref.Labels, models.Label{Name: l.Name, Color: l.Color})
		}
		for _, a := range r.Assignees {
			ref.Assignees = append(ref.Assignees, models.Assignee{Login: a.Login, AvatarURL: a.AvatarURL})
		}
		subIssues = append(subIssues, ref)
	}

	return subIssues, nil
}
