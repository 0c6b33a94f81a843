package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/opsrate/fieldbill/internal/domain/ticket"
	"github.com/opsrate/fieldbill/internal/repository"
)

// TicketRepository implements the timesheet and invoice ticket interfaces for SQLite
type TicketRepository struct {
	db *DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create creates a new ticket
func (r *TicketRepository) Create(ctx context.Context, tenantID string, tkt *ticket.Ticket) error {
	query := `
		INSERT INTO tickets (id, tenant_id, client_id, title, status, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		tkt.ID,
		tenantID,
		tkt.ClientID,
		tkt.Title,
		tkt.Status,
		tkt.CreatedAt,
		tkt.CompletedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

// Get retrieves a ticket by ID
func (r *TicketRepository) Get(ctx context.Context, tenantID, id string) (*ticket.Ticket, error) {
	query := `
		SELECT id, tenant_id, client_id, title, status, created_at, completed_at
		FROM tickets
		WHERE id = ? AND tenant_id = ?
	`

	var tkt ticket.Ticket
	var completedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(
		&tkt.ID,
		&tkt.TenantID,
		&tkt.ClientID,
		&tkt.Title,
		&tkt.Status,
		&tkt.CreatedAt,
		&completedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	if completedAt.Valid {
		tkt.CompletedAt = &completedAt.Time
	}
	return &tkt, nil
}

// HasCompletedBefore reports whether the client has any completed ticket
// created before the given instant. Cancelled tickets don't count; only
// completed engagements consume the first-engagement discount.
func (r *TicketRepository) HasCompletedBefore(ctx context.Context, tenantID, clientID string, before time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM tickets
			WHERE tenant_id = ? AND client_id = ? AND status = 'completed'
			  AND created_at < ?
		)
	`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, tenantID, clientID, before).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query billing history: %w", err)
	}
	return exists, nil
}

// GetEstimateSnapshot returns the estimate previously shown for the ticket.
func (r *TicketRepository) GetEstimateSnapshot(ctx context.Context, tenantID, ticketID string) ([]byte, error) {
	query := `
		SELECT estimate_snapshot FROM tickets
		WHERE id = ? AND tenant_id = ?
	`

	var snapshot sql.NullString
	err := r.db.QueryRowContext(ctx, query, ticketID, tenantID).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get estimate snapshot: %w", err)
	}
	if !snapshot.Valid {
		return nil, repository.ErrNotFound
	}
	return []byte(snapshot.String), nil
}

// SaveEstimateSnapshot retains the latest estimate on the ticket.
func (r *TicketRepository) SaveEstimateSnapshot(ctx context.Context, tenantID, ticketID string, snapshot []byte) error {
	query := `
		UPDATE tickets SET estimate_snapshot = ?
		WHERE id = ? AND tenant_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, string(snapshot), ticketID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to save estimate snapshot: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
