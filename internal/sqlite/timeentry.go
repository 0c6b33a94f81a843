package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/opsrate/fieldbill/internal/domain/timesheet"
	"github.com/opsrate/fieldbill/internal/repository"
)

// TimeEntryRepository implements the timesheet and invoice entry interfaces for SQLite
type TimeEntryRepository struct {
	db *DB
}

// NewTimeEntryRepository creates a new TimeEntryRepository
func NewTimeEntryRepository(db *DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

// Create creates a new time entry
func (r *TimeEntryRepository) Create(ctx context.Context, tenantID string, entry *timesheet.Entry) error {
	query := `
		INSERT INTO time_entries (
			id, tenant_id, ticket_id, technician_id, started_at, ended_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		tenantID,
		entry.TicketID,
		entry.TechnicianID,
		entry.StartedAt,
		entry.EndedAt,
		entry.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create time entry: %w", err)
	}
	return nil
}

// Get retrieves a time entry by ID
func (r *TimeEntryRepository) Get(ctx context.Context, tenantID, id string) (*timesheet.Entry, error) {
	query := `
		SELECT id, tenant_id, ticket_id, technician_id, started_at, ended_at, created_at
		FROM time_entries
		WHERE id = ? AND tenant_id = ?
	`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, id, tenantID))
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetOpen returns the running entry for a ticket and technician, if any.
func (r *TimeEntryRepository) GetOpen(ctx context.Context, tenantID, ticketID, technicianID string) (*timesheet.Entry, error) {
	query := `
		SELECT id, tenant_id, ticket_id, technician_id, started_at, ended_at, created_at
		FROM time_entries
		WHERE tenant_id = ? AND ticket_id = ? AND technician_id = ? AND ended_at IS NULL
	`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, tenantID, ticketID, technicianID))
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListByTicket returns a ticket's entries in chronological order.
func (r *TimeEntryRepository) ListByTicket(ctx context.Context, tenantID, ticketID string) ([]timesheet.Entry, error) {
	query := `
		SELECT id, tenant_id, ticket_id, technician_id, started_at, ended_at, created_at
		FROM time_entries
		WHERE tenant_id = ? AND ticket_id = ?
		ORDER BY started_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	var entries []timesheet.Entry
	for rows.Next() {
		var entry timesheet.Entry
		var endedAt sql.NullTime
		if err := rows.Scan(
			&entry.ID,
			&entry.TenantID,
			&entry.TicketID,
			&entry.TechnicianID,
			&entry.StartedAt,
			&endedAt,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		if endedAt.Valid {
			entry.EndedAt = &endedAt.Time
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time entries: %w", err)
	}

	return entries, nil
}

// CloseEntry sets an entry's end time. Already-closed entries are left
// untouched and reported as a conflict.
func (r *TimeEntryRepository) CloseEntry(ctx context.Context, tenantID, id string, endedAt time.Time) error {
	query := `
		UPDATE time_entries SET ended_at = ?
		WHERE id = ? AND tenant_id = ? AND ended_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, endedAt, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to close time entry: %w", err)
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

func scanEntry(row *sql.Row) (*timesheet.Entry, error) {
	var entry timesheet.Entry
	var endedAt sql.NullTime
	err := row.Scan(
		&entry.ID,
		&entry.TenantID,
		&entry.TicketID,
		&entry.TechnicianID,
		&entry.StartedAt,
		&endedAt,
		&entry.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time entry: %w", err)
	}
	if endedAt.Valid {
		entry.EndedAt = &endedAt.Time
	}
	return &entry, nil
}
