package ports

import (
	"context"

	"github.com/onelance/project-tracker/internal/domain/models"
)

// TrackerClient define los métodos para consultar la API del sistema de
// seguimiento de issues (REST y GraphQL).
type TrackerClient interface {
	// ListMilestones obtiene todos los milestones del repositorio, en cualquier estado.
	ListMilestones(ctx context.Context) ([]models.Milestone, error)
	// QueryIssues ejecuta la consulta GraphQL de issues (abiertas y cerradas)
	// y devuelve los nodos ya decodificados.
	QueryIssues(ctx context.Context) ([]models.IssueNode, error)
	// ListSubIssues obtiene las sub-issues declaradas de una issue.
	ListSubIssues(ctx context.Context, issueNumber int) ([]models.SubIssueRef, error)
	// ListEvents obtiene los eventos de actividad del repositorio.
	ListEvents(ctx context.Context, pageSize int) ([]models.RawEvent, error)
	// ListComments obtiene los comentarios de una issue.
	ListComments(ctx context.Context, issueNumber int) ([]models.Comment, error)
}
