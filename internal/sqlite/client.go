package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/opsrate/fieldbill/internal/domain/ticket"
	"github.com/opsrate/fieldbill/internal/repository"
)

// ClientRepository implements invoice.ClientRepository for SQLite
type ClientRepository struct {
	db *DB
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create creates a new client
func (r *ClientRepository) Create(ctx context.Context, tenantID string, cli *ticket.Client) error {
	query := `
		INSERT INTO clients (id, tenant_id, name, hourly_rate, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	var hourlyRate any
	if cli.HourlyRate != nil {
		hourlyRate = cli.HourlyRate.String()
	}

	_, err := r.db.ExecContext(ctx, query,
		cli.ID,
		tenantID,
		cli.Name,
		hourlyRate,
		cli.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// Get retrieves a client by ID
func (r *ClientRepository) Get(ctx context.Context, tenantID, id string) (*ticket.Client, error) {
	query := `
		SELECT id, tenant_id, name, hourly_rate, created_at
		FROM clients
		WHERE id = ? AND tenant_id = ?
	`

	var cli ticket.Client
	var hourlyRate sql.NullString
	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(
		&cli.ID,
		&cli.TenantID,
		&cli.Name,
		&hourlyRate,
		&cli.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	if hourlyRate.Valid {
		rate, err := parseDecimal(hourlyRate.String)
		if err != nil {
			return nil, err
		}
		cli.HourlyRate = &rate
	}

	return &cli, nil
}
