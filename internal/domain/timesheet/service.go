package timesheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opsrate/fieldbill/internal/domain/activity"
	"github.com/opsrate/fieldbill/internal/domain/ticket"
	"github.com/opsrate/fieldbill/internal/repository"
)

// Service handles time entry lifecycle operations.
type Service struct {
	entries  EntryRepository
	tickets  TicketRepository
	activity ActivityRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new timesheet service.
func NewService(entries EntryRepository, tickets TicketRepository, activityRepo ActivityRepository, logger *slog.Logger) *Service {
	return &Service{
		entries:  entries,
		tickets:  tickets,
		activity: activityRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// StartRequest describes a clock-in request.
type StartRequest struct {
	TicketID     string
	TechnicianID string
}

// Start opens a new time entry. At most one entry may be open per ticket
// and technician; a second start is rejected instead of locked around.
func (s *Service) Start(ctx context.Context, tenantID string, req StartRequest) (*Entry, error) {
	if req.TicketID == "" || req.TechnicianID == "" {
		return nil, ErrInvalidInput
	}

	tkt, err := s.tickets.Get(ctx, tenantID, req.TicketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("loading ticket: %w", err)
	}
	if tkt.Status == ticket.StatusCompleted || tkt.Status == ticket.StatusCancelled {
		return nil, fmt.Errorf("%w: ticket %s is %s", ErrInvalidInput, tkt.ID, tkt.Status)
	}

	if _, err := s.entries.GetOpen(ctx, tenantID, req.TicketID, req.TechnicianID); err == nil {
		return nil, ErrEntryAlreadyOpen
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking open entry: %w", err)
	}

	now := s.now().UTC()
	entry := &Entry{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		TicketID:     req.TicketID,
		TechnicianID: req.TechnicianID,
		StartedAt:    now,
		CreatedAt:    now,
	}
	if err := s.entries.Create(ctx, tenantID, entry); err != nil {
		return nil, fmt.Errorf("creating entry: %w", err)
	}

	s.logActivity(ctx, tenantID, activity.TypeEntryStarted, req.TicketID,
		fmt.Sprintf("technician %s started work", req.TechnicianID))

	return entry, nil
}

// Stop closes a running entry at the current time.
func (s *Service) Stop(ctx context.Context, tenantID, entryID string) (*Entry, error) {
	if entryID == "" {
		return nil, ErrInvalidInput
	}

	entry, err := s.entries.Get(ctx, tenantID, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("loading entry: %w", err)
	}
	if !entry.Open() {
		return nil, ErrEntryAlreadyClosed
	}

	endedAt := s.now().UTC()
	if err := s.entries.CloseEntry(ctx, tenantID, entryID, endedAt); err != nil {
		return nil, fmt.Errorf("closing entry: %w", err)
	}
	entry.EndedAt = &endedAt

	s.logActivity(ctx, tenantID, activity.TypeEntryStopped, entry.TicketID,
		fmt.Sprintf("technician %s stopped work", entry.TechnicianID))

	return entry, nil
}

// ListByTicket returns a ticket's entries in chronological order.
func (s *Service) ListByTicket(ctx context.Context, tenantID, ticketID string) ([]Entry, error) {
	if ticketID == "" {
		return nil, ErrInvalidInput
	}
	return s.entries.ListByTicket(ctx, tenantID, ticketID)
}

func (s *Service) logActivity(ctx context.Context, tenantID string, activityType activity.ActivityType, ticketID, summary string) {
	if s.activity == nil {
		return
	}
	err := s.activity.Log(ctx, tenantID, &activity.ActivityEntry{
		TenantID:     tenantID,
		TicketID:     &ticketID,
		ActivityType: activityType,
		Summary:      summary,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("failed to log activity", "type", activityType, "error", err)
	}
}
