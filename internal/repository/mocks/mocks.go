package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/opsrate/fieldbill/internal/domain/activity"
	"github.com/opsrate/fieldbill/internal/domain/invoice"
	"github.com/opsrate/fieldbill/internal/domain/rate"
	"github.com/opsrate/fieldbill/internal/domain/ticket"
	"github.com/opsrate/fieldbill/internal/domain/timesheet"
)

// RateTierRepository is a mock satisfying invoice.RateTierRepository.
type RateTierRepository struct {
	mock.Mock
}

func (m *RateTierRepository) ListActive(ctx context.Context, tenantID string) ([]rate.Tier, error) {
	args := m.Called(ctx, tenantID)
	if tiers, ok := args.Get(0).([]rate.Tier); ok {
		return tiers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RateTierRepository) Seed(ctx context.Context, tenantID string, tiers []rate.Tier) error {
	args := m.Called(ctx, tenantID, tiers)
	return args.Error(0)
}

// TimeEntryRepository is a mock satisfying the timesheet and invoice entry interfaces.
type TimeEntryRepository struct {
	mock.Mock
}

func (m *TimeEntryRepository) Create(ctx context.Context, tenantID string, entry *timesheet.Entry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *TimeEntryRepository) Get(ctx context.Context, tenantID, id string) (*timesheet.Entry, error) {
	args := m.Called(ctx, tenantID, id)
	if entry, ok := args.Get(0).(*timesheet.Entry); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeEntryRepository) GetOpen(ctx context.Context, tenantID, ticketID, technicianID string) (*timesheet.Entry, error) {
	args := m.Called(ctx, tenantID, ticketID, technicianID)
	if entry, ok := args.Get(0).(*timesheet.Entry); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeEntryRepository) ListByTicket(ctx context.Context, tenantID, ticketID string) ([]timesheet.Entry, error) {
	args := m.Called(ctx, tenantID, ticketID)
	if entries, ok := args.Get(0).([]timesheet.Entry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeEntryRepository) CloseEntry(ctx context.Context, tenantID, id string, endedAt time.Time) error {
	args := m.Called(ctx, tenantID, id, endedAt)
	return args.Error(0)
}

// TicketRepository is a mock satisfying the timesheet and invoice ticket interfaces.
type TicketRepository struct {
	mock.Mock
}

func (m *TicketRepository) Create(ctx context.Context, tenantID string, tkt *ticket.Ticket) error {
	args := m.Called(ctx, tenantID, tkt)
	return args.Error(0)
}

func (m *TicketRepository) Get(ctx context.Context, tenantID, id string) (*ticket.Ticket, error) {
	args := m.Called(ctx, tenantID, id)
	if tkt, ok := args.Get(0).(*ticket.Ticket); ok {
		return tkt, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) HasCompletedBefore(ctx context.Context, tenantID, clientID string, before time.Time) (bool, error) {
	args := m.Called(ctx, tenantID, clientID, before)
	return args.Bool(0), args.Error(1)
}

func (m *TicketRepository) GetEstimateSnapshot(ctx context.Context, tenantID, ticketID string) ([]byte, error) {
	args := m.Called(ctx, tenantID, ticketID)
	if blob, ok := args.Get(0).([]byte); ok {
		return blob, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) SaveEstimateSnapshot(ctx context.Context, tenantID, ticketID string, snapshot []byte) error {
	args := m.Called(ctx, tenantID, ticketID, snapshot)
	return args.Error(0)
}

// ClientRepository is a mock satisfying invoice.ClientRepository.
type ClientRepository struct {
	mock.Mock
}

func (m *ClientRepository) Create(ctx context.Context, tenantID string, cli *ticket.Client) error {
	args := m.Called(ctx, tenantID, cli)
	return args.Error(0)
}

func (m *ClientRepository) Get(ctx context.Context, tenantID, id string) (*ticket.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if cli, ok := args.Get(0).(*ticket.Client); ok {
		return cli, args.Error(1)
	}
	return nil, args.Error(1)
}

// InvoiceRepository is a mock satisfying invoice.Repository.
type InvoiceRepository struct {
	mock.Mock
}

func (m *InvoiceRepository) CreateWithClosure(ctx context.Context, tenantID string, inv *invoice.Invoice, closeEntryIDs []string, closedAt time.Time) error {
	args := m.Called(ctx, tenantID, inv, closeEntryIDs, closedAt)
	return args.Error(0)
}

func (m *InvoiceRepository) Get(ctx context.Context, tenantID, id string) (*invoice.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if inv, ok := args.Get(0).(*invoice.Invoice); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InvoiceRepository) GetByNumber(ctx context.Context, tenantID, number string) (*invoice.Invoice, error) {
	args := m.Called(ctx, tenantID, number)
	if inv, ok := args.Get(0).(*invoice.Invoice); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InvoiceRepository) GetByTicket(ctx context.Context, tenantID, ticketID string) (*invoice.Invoice, error) {
	args := m.Called(ctx, tenantID, ticketID)
	if inv, ok := args.Get(0).(*invoice.Invoice); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InvoiceRepository) ListByClient(ctx context.Context, tenantID, clientID string) ([]invoice.Invoice, error) {
	args := m.Called(ctx, tenantID, clientID)
	if invoices, ok := args.Get(0).([]invoice.Invoice); ok {
		return invoices, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InvoiceRepository) UpdatePayment(ctx context.Context, tenantID, id string, status invoice.PaymentStatus, paidAt *time.Time) error {
	args := m.Called(ctx, tenantID, id, status, paidAt)
	return args.Error(0)
}

// ActivityRepository is a mock satisfying activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, tenantID, opts)
	if entries, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}
