package models

import "time"

type (
	// Issue representa una issue normalizada del repositorio, lista para el dashboard.
	Issue struct {
		Number            int           `json:"number"`
		Title             string        `json:"title"`
		Body              *string       `json:"body"`
		State             string        `json:"state"`
		CreatedAt         time.Time     `json:"created_at"`
		UpdatedAt         time.Time     `json:"updated_at"`
		ClosedAt          *time.Time    `json:"closed_at"`
		HTMLURL           string        `json:"html_url"`
		Labels            []Label       `json:"labels"`
		Assignees         []Assignee    `json:"assignees"`
		Milestone         *MilestoneRef `json:"milestone"`
		Comments          int           `json:"comments"`
		User              *Author       `json:"user"`
		ProjectStatus     *string       `json:"project_status"`
		IssueType         *string       `json:"issue_type"`
		SubIssues         []SubIssueRef `json:"sub_issues"`
		SubIssueStats     SubIssueStats `json:"sub_issue_stats"`
		IsSubIssue        bool          `json:"is_sub_issue"`
		ParentIssueNumber *int          `json:"parent_issue_number"`
	}

	Label struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}

	Assignee struct {
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
	}

	// MilestoneRef es la referencia mínima al milestone de una issue.
	MilestoneRef struct {
		Title  string `json:"title"`
		Number int    `json:"number"`
	}

	Author struct {
		Login string `json:"login"`
	}

	// SubIssueRef representa una sub-issue tal como la reporta la API.
	// El campo State conserva el valor crudo del upstream, sin normalizar.
	SubIssueRef struct {
		Number    int        `json:"number"`
		Title     string     `json:"title"`
		State     string     `json:"state"`
		HTMLURL   string     `json:"html_url"`
		Labels    []Label    `json:"labels"`
		Assignees []Assignee `json:"assignees"`
	}

	SubIssueStats struct {
		Total     int `json:"total"`
		Completed int `json:"completed"`
	}

	// Milestone es la representación REST del milestone; se pasa tal cual al cliente.
	Milestone struct {
		Number       int        `json:"number"`
		Title        string     `json:"title"`
		Description  *string    `json:"description"`
		State        string     `json:"state"`
		OpenIssues   int        `json:"open_issues"`
		ClosedIssues int        `json:"closed_issues"`
		HTMLURL      string     `json:"html_url"`
		DueOn        *time.Time `json:"due_on"`
		CreatedAt    *time.Time `json:"created_at"`
		UpdatedAt    *time.Time `json:"updated_at"`
		ClosedAt     *time.Time `json:"closed_at"`
	}

	// AggregatedData es el payload que consume el dashboard.
	AggregatedData struct {
		Milestones []Milestone `json:"milestones"`
		Issues     []Issue     `json:"issues"`
	}
)
