package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/onelance/project-tracker/internal/domain/errors"
	"github.com/onelance/project-tracker/internal/domain/models"
	"github.com/onelance/project-tracker/internal/i18n"
)

func newTestService(t *testing.T, tracker *MockTrackerClient) *AggregatorService {
	t.Helper()
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return NewAggregatorService(tracker, trans)
}

func TestAggregatorService_GetAggregatedData(t *testing.T) {
	t.Run("should aggregate milestones and enriched issues", func(t *testing.T) {
		tracker := &MockTrackerClient{}
		service := newTestService(t, tracker)

		milestones := []models.Milestone{{Number: 1, Title: "v1.0", State: "open"}}
		nodes := []models.IssueNode{
			{Number: 1, Title: "Epic", State: "OPEN"},
			{Number: 2, Title: "Task", State: "CLOSED"},
		}

		tracker.On("ListMilestones", mock.Anything).Return(milestones, nil)
		tracker.On("QueryIssues", mock.Anything).Return(nodes, nil)
		tracker.On("ListSubIssues", mock.Anything, 1).Return([]models.SubIssueRef{
			{Number: 2, Title: "Task", State: "closed"},
			{Number: 7, Title: "External", State: "open"},
		}, nil)
		tracker.On("ListSubIssues", mock.Anything, 2).Return([]models.SubIssueRef{}, nil)

		data, err := service.GetAggregatedData(context.Background())

		require.NoError(t, err)
		assert.Equal(t, milestones, data.Milestones)
		require.Len(t, data.Issues, 2)

		epic := data.Issues[0]
		assert.Equal(t, 1, epic.Number)
		assert.Equal(t, models.SubIssueStats{Total: 2, Completed: 1}, epic.SubIssueStats)
		assert.Len(t, epic.SubIssues, 2)

		tracker.AssertExpectations(t)
	})

	t.Run("should mark issues referenced as sub-issues of another", func(t *testing.T) {
		tracker := &MockTrackerClient{}
		service := newTestService(t, tracker)

		tracker.On("ListMilestones", mock.Anything).Return([]models.Milestone{}, nil)
		tracker.On("QueryIssues", mock.Anything).Return([]models.IssueNode{
			{Number: 1, Title: "A", State: "OPEN"},
			{Number: 2, Title: "B", State: "OPEN"},
		}, nil)
		tracker.On("ListSubIssues", mock.Anything, 1).Return([]models.SubIssueRef{
			{Number: 2, Title: "B", State: "open"},
		}, nil)
		tracker.On("ListSubIssues", mock.Anything, 2).Return([]models.SubIssueRef{}, nil)

		data, err := service.GetAggregatedData(context.Background())

		require.NoError(t, err)
		assert.False(t, data.Issues[0].IsSubIssue)
		assert.True(t, data.Issues[1].IsSubIssue)
		assert.Nil(t, data.Issues[0].ParentIssueNumber)
		assert.Nil(t, data.Issues[1].ParentIssueNumber)
	})

	t.Run("should degrade an issue whose sub-issue fetch fails", func(t *testing.T) {
		tracker := &MockTrackerClient{}
		service := newTestService(t, tracker)

		tracker.On("ListMilestones", mock.Anything).Return([]models.Milestone{}, nil)
		tracker.On("QueryIssues", mock.Anything).Return([]models.IssueNode{
			{Number: 41, Title: "OK", State: "OPEN"},
			{Number: 42, Title: "Falla", State: "OPEN"},
		}, nil)
		tracker.On("ListSubIssues", mock.Anything, 41).Return([]models.SubIssueRef{
			{Number: 50, State: "closed"},
		}, nil)
		tracker.On("ListSubIssues", mock.Anything, 42).
			Return(nil, domainerrors.NewAPIError("sub_issues(42)", 502, "bad gateway"))

		data, err := service.GetAggregatedData(context.Background())

		require.NoError(t, err)
		require.Len(t, data.Issues, 2)

		degraded := data.Issues[1]
		assert.Equal(t, 42, degraded.Number)
		assert.Equal(t, []models.SubIssueRef{}, degraded.SubIssues)
		assert.Equal(t, models.SubIssueStats{Total: 0, Completed: 0}, degraded.SubIssueStats)

		enriched := data.Issues[0]
		assert.Equal(t, models.SubIssueStats{Total: 1, Completed: 1}, enriched.SubIssueStats)
	})

	t.Run("should abort when the milestone fetch fails", func(t *testing.T) {
		tracker := &MockTrackerClient{}
		service := newTestService(t, tracker)

		tracker.On("ListMilestones", mock.Anything).
			Return(nil, domainerrors.NewAPIError("milestones", 500, "boom"))

		data, err := service.GetAggregatedData(context.Background())

		assert.Nil(t, data)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "milestones")
		tracker.AssertNotCalled(t, "QueryIssues", mock.Anything)
	})

	t.Run("should abort when the issue query reports graphql errors", func(t *testing.T) {
		tracker := &MockTrackerClient{}
		service := newTestService(t, tracker)

		tracker.On("ListMilestones", mock.Anything).Return([]models.Milestone{}, nil)
		tracker.On("QueryIssues", mock.Anything).
			Return(nil, domainerrors.NewGraphQLError([]string{"field does not exist"}))

		data, err := service.GetAggregatedData(context.Background())

		assert.Nil(t, data)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "field does not exist")
		tracker.AssertNotCalled(t, "ListSubIssues", mock.Anything, mock.Anything)
	})
}

func TestAggregatorService_GetComments(t *testing.T) {
	t.Run("should pass comments through untouched", func(t *testing.T) {
		tracker := &MockTrackerClient{}
		service := newTestService(t, tracker)

		comments := []models.Comment{{ID: 7, Body: "ping"}}
		tracker.On("ListComments", mock.Anything, 12).Return(comments, nil)

		got, err := service.GetComments(context.Background(), 12)

		require.NoError(t, err)
		assert.Equal(t, comments, got)
	})

	t.Run("should surface a comment fetch failure", func(t *testing.T) {
		tracker := &MockTrackerClient{}
		service := newTestService(t, tracker)

		tracker.On("ListComments", mock.Anything, 12).
			Return(nil, domainerrors.NewAPIError("comments", 404, "not found"))

		got, err := service.GetComments(context.Background(), 12)

		assert.Nil(t, got)
		require.Error(t, err)
	})
}

func TestComputeSubIssueStats(t *testing.T) {
	t.Run("should count closed sub-issues as completed", func(t *testing.T) {
		subIssues := []models.SubIssueRef{
			{Number: 1, State: "closed"},
			{Number: 2, State: "open"},
			{Number: 3, State: "closed"},
		}

		stats := computeSubIssueStats(subIssues)

		assert.Equal(t, models.SubIssueStats{Total: 3, Completed: 2}, stats)
		assert.LessOrEqual(t, stats.Completed, stats.Total)
	})

	t.Run("should not lowercase the raw state before comparing", func(t *testing.T) {
		stats := computeSubIssueStats([]models.SubIssueRef{{Number: 1, State: "CLOSED"}})

		assert.Equal(t, models.SubIssueStats{Total: 1, Completed: 0}, stats)
	})
}
