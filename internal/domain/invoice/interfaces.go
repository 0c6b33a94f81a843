package invoice

import (
	"context"
	"time"

	"github.com/opsrate/fieldbill/internal/domain/activity"
	"github.com/opsrate/fieldbill/internal/domain/rate"
	"github.com/opsrate/fieldbill/internal/domain/ticket"
	"github.com/opsrate/fieldbill/internal/domain/timesheet"
)

// RateTierRepository provides the tier configuration snapshot.
type RateTierRepository interface {
	ListActive(ctx context.Context, tenantID string) ([]rate.Tier, error)
}

// EntryRepository provides a ticket's recorded work.
type EntryRepository interface {
	ListByTicket(ctx context.Context, tenantID, ticketID string) ([]timesheet.Entry, error)
}

// TicketRepository provides ticket data and client billing history.
type TicketRepository interface {
	Get(ctx context.Context, tenantID, id string) (*ticket.Ticket, error)
	// HasCompletedBefore reports whether the client has any completed
	// (not merely cancelled) ticket created before the given instant.
	HasCompletedBefore(ctx context.Context, tenantID, clientID string, before time.Time) (bool, error)
	GetEstimateSnapshot(ctx context.Context, tenantID, ticketID string) ([]byte, error)
	SaveEstimateSnapshot(ctx context.Context, tenantID, ticketID string, snapshot []byte) error
}

// ClientRepository provides client rate lookups.
type ClientRepository interface {
	Get(ctx context.Context, tenantID, id string) (*ticket.Client, error)
}

// Repository provides invoice persistence.
type Repository interface {
	// CreateWithClosure persists the invoice, closes the listed open time
	// entries, and marks the ticket completed in a single transaction. It
	// allocates the invoice's day-scoped sequence number.
	CreateWithClosure(ctx context.Context, tenantID string, inv *Invoice, closeEntryIDs []string, closedAt time.Time) error
	Get(ctx context.Context, tenantID, id string) (*Invoice, error)
	GetByNumber(ctx context.Context, tenantID, number string) (*Invoice, error)
	GetByTicket(ctx context.Context, tenantID, ticketID string) (*Invoice, error)
	ListByClient(ctx context.Context, tenantID, clientID string) ([]Invoice, error)
	UpdatePayment(ctx context.Context, tenantID, id string, status PaymentStatus, paidAt *time.Time) error
}

// ActivityRepository records audit events for invoicing actions.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
}
