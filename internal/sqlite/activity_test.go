package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opsrate/fieldbill/internal/domain/activity"
)

func TestActivityRepository_LogAndList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	ticketID := "t1"
	entry := &activity.ActivityEntry{
		TicketID:     &ticketID,
		ActivityType: activity.TypeEntryStarted,
		Summary:      "Timer started on ticket t1",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.Log(ctx, "tenant1", entry))
	require.NotZero(t, entry.ID)
	require.Equal(t, "tenant1", entry.TenantID)

	entries, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.TypeEntryStarted, entries[0].ActivityType)
	require.NotNil(t, entries[0].TicketID)
	require.Equal(t, "t1", *entries[0].TicketID)
}

func TestActivityRepository_ListFilters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	ticket1 := "t1"
	ticket2 := "t2"
	invoiceID := "inv1"
	now := time.Now().UTC()

	require.NoError(t, repo.Log(ctx, "tenant1", &activity.ActivityEntry{
		TicketID: &ticket1, ActivityType: activity.TypeEntryStarted, Summary: "start t1", CreatedAt: now,
	}))
	require.NoError(t, repo.Log(ctx, "tenant1", &activity.ActivityEntry{
		TicketID: &ticket2, ActivityType: activity.TypeEntryStopped, Summary: "stop t2", CreatedAt: now.Add(time.Second),
	}))
	require.NoError(t, repo.Log(ctx, "tenant1", &activity.ActivityEntry{
		TicketID: &ticket1, InvoiceID: &invoiceID, ActivityType: activity.TypeInvoiceIssued, Summary: "invoice t1", CreatedAt: now.Add(2 * time.Second),
	}))

	byTicket, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{TicketID: &ticket1})
	require.NoError(t, err)
	require.Len(t, byTicket, 2)

	byInvoice, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{InvoiceID: &invoiceID})
	require.NoError(t, err)
	require.Len(t, byInvoice, 1)
	require.Equal(t, activity.TypeInvoiceIssued, byInvoice[0].ActivityType)

	issued := activity.TypeInvoiceIssued
	byType, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{ActivityType: &issued})
	require.NoError(t, err)
	require.Len(t, byType, 1)

	limited, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	// Newest first.
	require.Equal(t, "invoice t1", limited[0].Summary)

	other, err := repo.List(ctx, "tenant2", activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Empty(t, other)
}
