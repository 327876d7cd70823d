package models

import "time"

type (
	// Event representa un evento de actividad normalizado para el dashboard.
	// Solo los campos relevantes para el tipo de evento quedan poblados.
	Event struct {
		ID          string        `json:"id"`
		Type        string        `json:"type"`
		Actor       string        `json:"actor"`
		ActorAvatar string        `json:"actor_avatar"`
		CreatedAt   time.Time     `json:"created_at"`
		Repo        string        `json:"repo"`
		Action      string        `json:"action,omitempty"`
		IssueNumber int           `json:"issue_number,omitempty"`
		IssueTitle  string        `json:"issue_title,omitempty"`
		IssueState  string        `json:"issue_state,omitempty"`
		CommentBody string        `json:"comment_body,omitempty"`
		PRNumber    int           `json:"pr_number,omitempty"`
		PRTitle     string        `json:"pr_title,omitempty"`
		PRState     string        `json:"pr_state,omitempty"`
		ReviewState string        `json:"review_state,omitempty"`
		Ref         string        `json:"ref,omitempty"`
		CommitCount int           `json:"commit_count,omitempty"`
		Commits     []EventCommit `json:"commits,omitempty"`
		Description string        `json:"description"`
	}

	// EventCommit es el resumen truncado de un commit dentro de un push.
	EventCommit struct {
		SHA     string `json:"sha"`
		Message string `json:"message"`
	}
)
