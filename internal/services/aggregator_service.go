package services

import (
	"context"
	"fmt"

	"github.com/onelance/project-tracker/internal/domain/models"
	"github.com/onelance/project-tracker/internal/domain/ports"
	"github.com/onelance/project-tracker/internal/i18n"
	"github.com/onelance/project-tracker/internal/logger"
)

var _ ports.DashboardService = (*AggregatorService)(nil)

// AggregatorService arma la vista consolidada del repositorio a partir de las
// respuestas del cliente upstream. No guarda estado entre peticiones.
type AggregatorService struct {
	tracker ports.TrackerClient
	trans   *i18n.Translations
}

func NewAggregatorService(tracker ports.TrackerClient, trans *i18n.Translations) *AggregatorService {
	return &AggregatorService{
		tracker: tracker,
		trans:   trans,
	}
}

// GetAggregatedData obtiene milestones e issues, enriquece cada issue con sus
// sub-issues y marca cuáles son a su vez sub-issues de otra.
// Un fallo en milestones o en la consulta de issues aborta toda la agregación.
func (s *AggregatorService) GetAggregatedData(ctx context.Context) (*models.AggregatedData, error) {
	milestones, err := s.tracker.ListMilestones(ctx)
	if err != nil {
		logger.Error(ctx, "milestone fetch failed", err)
		return nil, fmt.Errorf("error al obtener los milestones: %w", err)
	}

	nodes, err := s.tracker.QueryIssues(ctx)
	if err != nil {
		logger.Error(ctx, "issue query failed", err)
		return nil, fmt.Errorf("error al obtener las issues: %w", err)
	}

	issues := make([]models.Issue, 0, len(nodes))
	for _, node := range nodes {
		issues = append(issues, NormalizeIssue(node))
	}

	s.enrichSubIssues(ctx, issues)
	crossReferenceSubIssues(issues)

	return &models.AggregatedData{
		Milestones: milestones,
		Issues:     issues,
	}, nil
}

// GetComments devuelve los comentarios de una issue sin normalizar.
func (s *AggregatorService) GetComments(ctx context.Context, issueNumber int) ([]models.Comment, error) {
	comments, err := s.tracker.ListComments(ctx, issueNumber)
	if err != nil {
		logger.Error(ctx, "comment fetch failed", err, "issue", issueNumber)
		return nil, fmt.Errorf("error al obtener los comentarios de la issue %d: %w", issueNumber, err)
	}
	return comments, nil
}

// crossReferenceSubIssues marca cada issue cuyo número aparece como sub-issue
// de alguna otra. Solo puede calcularse cuando todas las issues ya tienen sus
// sub-issues resueltas. El padre concreto no se resuelve: ParentIssueNumber
// queda en nil.
func crossReferenceSubIssues(issues []models.Issue) {
	seen := make(map[int]struct{})
	for _, issue := range issues {
		for _, sub := range issue.SubIssues {
			seen[sub.Number] = struct{}{}
		}
	}

	for i := range issues {
		_, ok := seen[issues[i].Number]
		issues[i].IsSubIssue = ok
	}
}
