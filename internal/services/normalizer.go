package services

import (
	"strings"

	"github.com/onelance/project-tracker/internal/domain/models"
)

// NormalizeIssue convierte un nodo GraphQL en la issue canónica del dashboard.
// Es una transformación pura: los datos de sub-issues (SubIssues, SubIssueStats,
// IsSubIssue, ParentIssueNumber) los completa la agregación.
func NormalizeIssue(node models.IssueNode) models.Issue {
	issue := models.Issue{
		Number:        node.Number,
		Title:         node.Title,
		Body:          node.Body,
		State:         strings.ToLower(node.State),
		CreatedAt:     node.CreatedAt,
		UpdatedAt:     node.UpdatedAt,
		ClosedAt:      node.ClosedAt,
		HTMLURL:       node.URL,
		Labels:        node.Labels,
		Assignees:     node.Assignees,
		Milestone:     node.Milestone,
		Comments:      node.CommentCount,
		User:          node.Author,
		ProjectStatus: ExtractStatus(node.ProjectItems),
		IssueType:     ExtractIssueType(node.ProjectItems, node.Labels),
		SubIssues:     []models.SubIssueRef{},
	}

	if issue.Labels == nil {
		issue.Labels = []models.Label{}
	}
	if issue.Assignees == nil {
		issue.Assignees = []models.Assignee{}
	}

	return issue
}

// ExtractStatus busca el valor del campo "Status" (comparación exacta) entre
// las asociaciones de tablero de la issue.
func ExtractStatus(items []models.ProjectItem) *string {
	status, _ := extractProjectFields(items)
	return status
}

// ExtractIssueType busca el campo de tipo de issue en los tableros; si ningún
// campo coincide, cae al nombre de la primera etiqueta.
func ExtractIssueType(items []models.ProjectItem, labels []models.Label) *string {
	_, issueType := extractProjectFields(items)
	if issueType == nil && len(labels) > 0 {
		name := labels[0].Name
		issueType = &name
	}
	return issueType
}

// extractProjectFields recorre los items en orden y se queda con la primera
// coincidencia de cada campo. Corta el recorrido cuando ya encontró ambos:
// un item posterior nunca pisa un valor ya encontrado.
func extractProjectFields(items []models.ProjectItem) (status, issueType *string) {
	for _, item := range items {
		for _, fv := range item.FieldValues {
			if status == nil && fv.FieldName == "Status" {
				value := fv.Value
				status = &value
			}
			if issueType == nil && isIssueTypeField(fv.FieldName) {
				value := fv.Value
				issueType = &value
			}
		}
		if status != nil && issueType != nil {
			break
		}
	}
	return status, issueType
}

func isIssueTypeField(name string) bool {
	lower := strings.ToLower(name)
	return lower == "issue type" || strings.Contains(lower, "type")
}
