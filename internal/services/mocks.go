package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/onelance/project-tracker/internal/domain/models"
)

type MockTrackerClient struct {
	mock.Mock
}

func (m *MockTrackerClient) ListMilestones(ctx context.Context) ([]models.Milestone, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Milestone), args.Error(1)
}

func (m *MockTrackerClient) QueryIssues(ctx context.Context) ([]models.IssueNode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.IssueNode), args.Error(1)
}

func (m *MockTrackerClient) ListSubIssues(ctx context.Context, issueNumber int) ([]models.SubIssueRef, error) {
	args := m.Called(ctx, issueNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SubIssueRef), args.Error(1)
}

func (m *MockTrackerClient) ListEvents(ctx context.Context, pageSize int) ([]models.RawEvent, error) {
	args := m.Called(ctx, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RawEvent), args.Error(1)
}

func (m *MockTrackerClient) ListComments(ctx context.Context, issueNumber int) ([]models.Comment, error) {
	args := m.Called(ctx, issueNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}
