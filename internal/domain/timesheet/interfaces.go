package timesheet

import (
	"context"
	"time"

	"github.com/opsrate/fieldbill/internal/domain/activity"
	"github.com/opsrate/fieldbill/internal/domain/ticket"
)

// EntryRepository provides persistence for time entries.
type EntryRepository interface {
	Create(ctx context.Context, tenantID string, entry *Entry) error
	Get(ctx context.Context, tenantID, id string) (*Entry, error)
	GetOpen(ctx context.Context, tenantID, ticketID, technicianID string) (*Entry, error)
	ListByTicket(ctx context.Context, tenantID, ticketID string) ([]Entry, error)
	CloseEntry(ctx context.Context, tenantID, id string, endedAt time.Time) error
}

// TicketRepository provides ticket lookups for entry preconditions.
type TicketRepository interface {
	Get(ctx context.Context, tenantID, id string) (*ticket.Ticket, error)
}

// ActivityRepository records audit events for entry lifecycle actions.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
}
