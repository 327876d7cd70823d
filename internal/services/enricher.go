package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/onelance/project-tracker/internal/domain/models"
	"github.com/onelance/project-tracker/internal/logger"
)

// maxConcurrentEnrichments acota el fan-out de llamadas de sub-issues.
const maxConcurrentEnrichments = 10

// enrichSubIssues consulta las sub-issues de cada issue en paralelo y espera
// a que todas terminen. Cada goroutine escribe solo en su propia issue, así
// que no hace falta sincronización más allá de la barrera final.
// Un fallo en una issue degrada esa issue a lista vacía y stats en cero;
// nunca aborta el lote.
func (s *AggregatorService) enrichSubIssues(ctx context.Context, issues []models.Issue) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentEnrichments)

	for i := range issues {
		g.Go(func() error {
			issue := &issues[i]

			subIssues, err := s.tracker.ListSubIssues(ctx, issue.Number)
			if err != nil {
				logger.Warn(ctx, "sub-issue fetch failed, continuing without enrichment",
					"issue", issue.Number,
					"error", err)
				issue.SubIssues = []models.SubIssueRef{}
				issue.SubIssueStats = models.SubIssueStats{}
				return nil
			}

			if subIssues == nil {
				subIssues = []models.SubIssueRef{}
			}
			issue.SubIssues = subIssues
			issue.SubIssueStats = computeSubIssueStats(subIssues)
			return nil
		})
	}

	// Las goroutines nunca devuelven error: la degradación es por issue.
	_ = g.Wait()
}

func computeSubIssueStats(subIssues []models.SubIssueRef) models.SubIssueStats {
	stats := models.SubIssueStats{Total: len(subIssues)}
	for _, sub := range subIssues {
		if sub.State == "closed" {
			stats.Completed++
		}
	}
	return stats
}
