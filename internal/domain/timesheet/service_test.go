package timesheet_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opsrate/fieldbill/internal/domain/ticket"
	"github.com/opsrate/fieldbill/internal/domain/timesheet"
	"github.com/opsrate/fieldbill/internal/repository"
	"github.com/opsrate/fieldbill/internal/repository/mocks"
)

func TestTimesheetService_Start(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	entries := &mocks.TimeEntryRepository{}
	tickets := &mocks.TicketRepository{}

	tickets.On("Get", ctx, tenantID, "tick1").Return(&ticket.Ticket{
		ID:       "tick1",
		ClientID: "cli1",
		Status:   ticket.StatusInProgress,
	}, nil)
	entries.On("GetOpen", ctx, tenantID, "tick1", "tech1").Return(nil, repository.ErrNotFound)
	entries.On("Create", ctx, tenantID, mock.Anything).Return(nil)

	svc := timesheet.NewService(entries, tickets, nil, nil)
	entry, err := svc.Start(ctx, tenantID, timesheet.StartRequest{
		TicketID:     "tick1",
		TechnicianID: "tech1",
	})
	require.NoError(t, err)
	require.Equal(t, "tick1", entry.TicketID)
	require.True(t, entry.Open())
}

func TestTimesheetService_Start_RejectsSecondOpenEntry(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	entries := &mocks.TimeEntryRepository{}
	tickets := &mocks.TicketRepository{}

	tickets.On("Get", ctx, tenantID, "tick1").Return(&ticket.Ticket{
		ID:     "tick1",
		Status: ticket.StatusInProgress,
	}, nil)
	entries.On("GetOpen", ctx, tenantID, "tick1", "tech1").Return(&timesheet.Entry{ID: "e1"}, nil)

	svc := timesheet.NewService(entries, tickets, nil, nil)
	_, err := svc.Start(ctx, tenantID, timesheet.StartRequest{
		TicketID:     "tick1",
		TechnicianID: "tech1",
	})
	require.ErrorIs(t, err, timesheet.ErrEntryAlreadyOpen)
}

func TestTimesheetService_Start_RejectsClosedTicket(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	entries := &mocks.TimeEntryRepository{}
	tickets := &mocks.TicketRepository{}

	tickets.On("Get", ctx, tenantID, "tick1").Return(&ticket.Ticket{
		ID:     "tick1",
		Status: ticket.StatusCompleted,
	}, nil)

	svc := timesheet.NewService(entries, tickets, nil, nil)
	_, err := svc.Start(ctx, tenantID, timesheet.StartRequest{
		TicketID:     "tick1",
		TechnicianID: "tech1",
	})
	require.ErrorIs(t, err, timesheet.ErrInvalidInput)
}

func TestTimesheetService_Stop(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"
	now := time.Date(2026, 8, 3, 15, 0, 0, 0, time.UTC)

	entries := &mocks.TimeEntryRepository{}
	entries.On("Get", ctx, tenantID, "e1").Return(&timesheet.Entry{
		ID:        "e1",
		TicketID:  "tick1",
		StartedAt: now.Add(-time.Hour),
	}, nil)
	entries.On("CloseEntry", ctx, tenantID, "e1", now).Return(nil)

	svc := timesheet.NewService(entries, &mocks.TicketRepository{}, nil, nil).
		WithClock(func() time.Time { return now })
	entry, err := svc.Stop(ctx, tenantID, "e1")
	require.NoError(t, err)
	require.NotNil(t, entry.EndedAt)
	require.Equal(t, now, *entry.EndedAt)
}

func TestTimesheetService_Stop_AlreadyClosed(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"
	endedAt := time.Date(2026, 8, 3, 14, 0, 0, 0, time.UTC)

	entries := &mocks.TimeEntryRepository{}
	entries.On("Get", ctx, tenantID, "e1").Return(&timesheet.Entry{
		ID:      "e1",
		EndedAt: &endedAt,
	}, nil)

	svc := timesheet.NewService(entries, &mocks.TicketRepository{}, nil, nil)
	_, err := svc.Stop(ctx, tenantID, "e1")
	require.ErrorIs(t, err, timesheet.ErrEntryAlreadyClosed)
}
