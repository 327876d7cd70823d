package ports

import (
	"context"

	"github.com/onelance/project-tracker/internal/domain/models"
)

// DashboardService define las operaciones agregadas que expone la capa de rutas.
type DashboardService interface {
	// GetAggregatedData arma la vista consolidada de milestones e issues enriquecidas.
	GetAggregatedData(ctx context.Context) (*models.AggregatedData, error)
	// GetEvents obtiene el feed de actividad filtrado y normalizado.
	GetEvents(ctx context.Context) ([]models.Event, error)
	// GetComments obtiene los comentarios de una issue, sin normalizar.
	GetComments(ctx context.Context, issueNumber int) ([]models.Comment, error)
}
