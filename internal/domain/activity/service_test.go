package activity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opsrate/fieldbill/internal/domain/activity"
	"github.com/opsrate/fieldbill/internal/repository/mocks"
)

func TestActivityService_LogActivity(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, "tenant1", mock.Anything).Return(nil)

	svc := activity.NewService(repo, nil)
	entry := &activity.ActivityEntry{
		ActivityType: activity.TypeTiersSeeded,
		Summary:      "seeded 4 rate tiers",
	}
	require.NoError(t, svc.LogActivity(ctx, "tenant1", entry))
	// The service stamps an entry that arrives without a timestamp.
	require.False(t, entry.CreatedAt.IsZero())

	repo.AssertExpectations(t)
}

func TestActivityService_LogActivity_KeepsTimestamp(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, "tenant1", mock.Anything).Return(nil)

	at := time.Date(2026, 8, 3, 13, 0, 0, 0, time.UTC)
	entry := &activity.ActivityEntry{
		ActivityType: activity.TypeInvoiceIssued,
		Summary:      "invoice INV-20260803-0001 issued",
		CreatedAt:    at,
	}
	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, "tenant1", entry))
	require.True(t, at.Equal(entry.CreatedAt))
}

func TestActivityService_LogActivity_NilEntry(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	err := svc.LogActivity(context.Background(), "tenant1", nil)
	require.ErrorIs(t, err, activity.ErrInvalidInput)
}

func TestActivityService_GetRecentActivity(t *testing.T) {
	ctx := context.Background()

	ticketID := "tick1"
	repo := &mocks.ActivityRepository{}
	opts := activity.ListActivityOptions{TicketID: &ticketID, Limit: 10}
	repo.On("List", ctx, "tenant1", opts).Return([]activity.ActivityEntry{
		{ID: 2, ActivityType: activity.TypeEntryStopped},
		{ID: 1, ActivityType: activity.TypeEntryStarted},
	}, nil)

	svc := activity.NewService(repo, nil)
	entries, err := svc.GetRecentActivity(ctx, "tenant1", opts)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, int64(2), entries[0].ID)
}
