package server

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/onelance/project-tracker/internal/domain/models"
)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetAggregatedData(ctx context.Context) (*models.AggregatedData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AggregatedData), args.Error(1)
}

func (m *MockDashboardService) GetEvents(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockDashboardService) GetComments(ctx context.Context, issueNumber int) ([]models.Comment, error) {
	args := m.Called(ctx, issueNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

type MockMagicLinkSender struct {
	mock.Mock
}

func (m *MockMagicLinkSender) SendMagicLink(ctx context.Context, to, token string) error {
	args := m.Called(ctx, to, token)
	return args.Error(0)
}
