package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opsrate/fieldbill/internal/domain/activity"
	"github.com/opsrate/fieldbill/internal/domain/billing"
	"github.com/opsrate/fieldbill/internal/domain/rate"
	"github.com/opsrate/fieldbill/internal/domain/ticket"
	"github.com/opsrate/fieldbill/internal/domain/timesheet"
	"github.com/opsrate/fieldbill/internal/repository"
)

// Config carries the billing defaults the invoicing workflow applies.
type Config struct {
	DefaultHourlyRate decimal.Decimal
	TaxRate           decimal.Decimal
	DueDays           int
	DiscountMinutes   int
}

// Service runs the estimate and closure workflows.
type Service struct {
	tiers    RateTierRepository
	entries  EntryRepository
	tickets  TicketRepository
	clients  ClientRepository
	invoices Repository
	activity ActivityRepository
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new invoice service.
func NewService(
	tiers RateTierRepository,
	entries EntryRepository,
	tickets TicketRepository,
	clients ClientRepository,
	invoices Repository,
	activityRepo ActivityRepository,
	cfg Config,
	logger *slog.Logger,
) *Service {
	return &Service{
		tiers:    tiers,
		entries:  entries,
		tickets:  tickets,
		clients:  clients,
		invoices: invoices,
		activity: activityRepo,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// EstimateRequest describes a pre-work price preview.
type EstimateRequest struct {
	ClientID      string
	TicketID      string // optional; when set the estimate is kept on the ticket
	Start         time.Time
	DurationHours float64
}

// EstimateTicket prices a hypothetical interval for a client. When a ticket
// is named, the estimate snapshot is retained on it for later comparison
// display on the invoice.
func (s *Service) EstimateTicket(ctx context.Context, tenantID string, req EstimateRequest) (*billing.CostEstimate, error) {
	if req.ClientID == "" {
		return nil, ErrInvalidInput
	}

	cli, err := s.clients.Get(ctx, tenantID, req.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("loading client: %w", err)
	}

	table, err := s.loadRateTable(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	asOf := s.now().UTC()
	firstEngagement, err := s.firstEngagement(ctx, tenantID, cli.ID, asOf)
	if err != nil {
		return nil, err
	}

	est, err := billing.Estimate(billing.EstimateParams{
		Start:           req.Start,
		Duration:        time.Duration(req.DurationHours * float64(time.Hour)),
		BaseRate:        s.resolveBaseRate(cli),
		FirstEngagement: firstEngagement,
		DiscountMinutes: s.cfg.DiscountMinutes,
	}, table)
	if err != nil {
		return nil, err
	}

	if req.TicketID != "" {
		blob, err := json.Marshal(est)
		if err != nil {
			return nil, fmt.Errorf("encoding estimate: %w", err)
		}
		if err := s.tickets.SaveEstimateSnapshot(ctx, tenantID, req.TicketID, blob); err != nil {
			return nil, fmt.Errorf("saving estimate snapshot: %w", err)
		}
	}

	return est, nil
}

// CloseTicket finalizes a ticket: it normalizes the recorded work against a
// snapshot of the current rate table, applies the first-engagement waiver
// and flat tax, and writes the invoice while closing any open entries and
// completing the ticket in one transaction. The resulting invoice embeds
// everything needed to re-read it without recomputation.
//
// Computation errors mean the ticket's entries need correcting and are
// returned as-is; only a failed write is worth retrying, by re-running the
// whole method.
func (s *Service) CloseTicket(ctx context.Context, tenantID, ticketID string) (*Invoice, error) {
	if ticketID == "" {
		return nil, ErrInvalidInput
	}

	tkt, err := s.tickets.Get(ctx, tenantID, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("loading ticket: %w", err)
	}
	switch tkt.Status {
	case ticket.StatusCompleted:
		return nil, ErrTicketAlreadyClosed
	case ticket.StatusCancelled:
		return nil, ErrTicketNotBillable
	}

	cli, err := s.clients.Get(ctx, tenantID, tkt.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("loading client: %w", err)
	}
	baseRate := s.resolveBaseRate(cli)
	if !baseRate.IsPositive() {
		return nil, fmt.Errorf("%w: client %s", billing.ErrInvalidBaseRate, cli.ID)
	}

	table, err := s.loadRateTable(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.ListByTicket(ctx, tenantID, ticketID)
	if err != nil {
		return nil, fmt.Errorf("loading time entries: %w", err)
	}

	now := s.now().UTC()
	timeline, err := timesheet.Normalize(entries, table, now)
	if err != nil {
		return nil, err
	}

	firstEngagement, err := s.firstEngagement(ctx, tenantID, tkt.ClientID, tkt.CreatedAt)
	if err != nil {
		return nil, err
	}

	breakdown, err := billing.BreakdownActual(timeline, baseRate, firstEngagement, s.cfg.DiscountMinutes)
	if err != nil {
		return nil, err
	}

	estimateBlob, err := s.tickets.GetEstimateSnapshot(ctx, tenantID, ticketID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("loading estimate snapshot: %w", err)
	}

	breakdownBlob, err := json.Marshal(breakdown)
	if err != nil {
		return nil, fmt.Errorf("encoding breakdown: %w", err)
	}
	tiersBlob, err := json.Marshal(table.Tiers())
	if err != nil {
		return nil, fmt.Errorf("encoding rate table: %w", err)
	}

	lines := make([]Line, 0, len(breakdown.Lines))
	for _, l := range breakdown.Lines {
		lines = append(lines, Line{
			Tier:  l.Tier,
			Hours: l.Hours,
			Rate:  l.Rate,
			Cost:  l.Cost,
		})
	}

	subtotal := breakdown.Subtotal
	taxAmount := subtotal.Mul(s.cfg.TaxRate).Round(2)
	inv := &Invoice{
		ID:                  uuid.NewString(),
		TenantID:            tenantID,
		TicketID:            ticketID,
		ClientID:            tkt.ClientID,
		BaseHourlyRate:      baseRate,
		Lines:               lines,
		WaivedHours:         breakdown.WaivedHours,
		FirstServiceRequest: firstEngagement,
		Subtotal:            subtotal,
		TaxRate:             s.cfg.TaxRate,
		TaxAmount:           taxAmount,
		TotalAmount:         subtotal.Add(taxAmount),
		IssueDate:           now,
		DueDate:             now.AddDate(0, 0, s.cfg.DueDays),
		PaymentStatus:       PaymentDue,
		EstimateSnapshot:    estimateBlob,
		BreakdownSnapshot:   breakdownBlob,
		RateTableSnapshot:   tiersBlob,
		CreatedAt:           now,
	}

	var openEntryIDs []string
	for _, entry := range entries {
		if entry.Open() {
			openEntryIDs = append(openEntryIDs, entry.ID)
		}
	}

	if err := s.invoices.CreateWithClosure(ctx, tenantID, inv, openEntryIDs, now); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrTicketAlreadyClosed
		}
		return nil, fmt.Errorf("persisting invoice: %w", err)
	}

	s.logActivity(ctx, tenantID, &activity.ActivityEntry{
		TenantID:     tenantID,
		TicketID:     &inv.TicketID,
		InvoiceID:    &inv.ID,
		ActivityType: activity.TypeInvoiceIssued,
		Summary:      fmt.Sprintf("invoice %s issued for %s", inv.InvoiceNumber, inv.TotalAmount),
		CreatedAt:    now,
	})

	return inv, nil
}

// Get returns an invoice by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Invoice, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	inv, err := s.invoices.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("loading invoice: %w", err)
	}
	return inv, nil
}

// GetByNumber returns an invoice by its invoice number.
func (s *Service) GetByNumber(ctx context.Context, tenantID, number string) (*Invoice, error) {
	if number == "" {
		return nil, ErrInvalidInput
	}
	inv, err := s.invoices.GetByNumber(ctx, tenantID, number)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("loading invoice: %w", err)
	}
	return inv, nil
}

// GetByTicket returns the invoice issued for a ticket, if any.
func (s *Service) GetByTicket(ctx context.Context, tenantID, ticketID string) (*Invoice, error) {
	if ticketID == "" {
		return nil, ErrInvalidInput
	}
	inv, err := s.invoices.GetByTicket(ctx, tenantID, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("loading invoice: %w", err)
	}
	return inv, nil
}

// ListByClient returns a client's invoices, newest first.
func (s *Service) ListByClient(ctx context.Context, tenantID, clientID string) ([]Invoice, error) {
	if clientID == "" {
		return nil, ErrInvalidInput
	}
	return s.invoices.ListByClient(ctx, tenantID, clientID)
}

// SetPaymentStatus transitions an invoice's payment status, the only
// mutation an issued invoice permits.
func (s *Service) SetPaymentStatus(ctx context.Context, tenantID, id string, status PaymentStatus, paidAt *time.Time) (*Invoice, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, status)
	}
	if status == PaymentPaid && paidAt == nil {
		now := s.now().UTC()
		paidAt = &now
	}
	if status != PaymentPaid {
		paidAt = nil
	}

	if err := s.invoices.UpdatePayment(ctx, tenantID, id, status, paidAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("updating payment: %w", err)
	}

	inv, err := s.invoices.Get(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("reloading invoice: %w", err)
	}

	s.logActivity(ctx, tenantID, &activity.ActivityEntry{
		TenantID:     tenantID,
		TicketID:     &inv.TicketID,
		InvoiceID:    &inv.ID,
		ActivityType: activity.TypePaymentUpdated,
		Summary:      fmt.Sprintf("invoice %s marked %s", inv.InvoiceNumber, status),
		CreatedAt:    s.now().UTC(),
	})

	return inv, nil
}

func (s *Service) loadRateTable(ctx context.Context, tenantID string) (rate.Table, error) {
	tiers, err := s.tiers.ListActive(ctx, tenantID)
	if err != nil {
		return rate.Table{}, fmt.Errorf("loading rate tiers: %w", err)
	}
	return rate.NewTable(tiers), nil
}

// firstEngagement is computed once per invoice and frozen into the
// snapshot; eligibility means no completed ticket exists for the client
// before the given instant.
func (s *Service) firstEngagement(ctx context.Context, tenantID, clientID string, before time.Time) (bool, error) {
	completed, err := s.tickets.HasCompletedBefore(ctx, tenantID, clientID, before)
	if err != nil {
		return false, fmt.Errorf("loading billing history: %w", err)
	}
	return !completed, nil
}

func (s *Service) resolveBaseRate(cli *ticket.Client) decimal.Decimal {
	if cli.HourlyRate != nil {
		return *cli.HourlyRate
	}
	return s.cfg.DefaultHourlyRate
}

func (s *Service) logActivity(ctx context.Context, tenantID string, entry *activity.ActivityEntry) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Log(ctx, tenantID, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to log activity", "type", entry.ActivityType, "error", err)
	}
}
