package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opsrate/fieldbill/internal/domain/rate"
)

// RateTierRepository implements invoice.RateTierRepository for SQLite
type RateTierRepository struct {
	db *DB
}

// NewRateTierRepository creates a new RateTierRepository
func NewRateTierRepository(db *DB) *RateTierRepository {
	return &RateTierRepository{db: db}
}

// ListActive returns the tenant's active tiers in configuration order.
func (r *RateTierRepository) ListActive(ctx context.Context, tenantID string) ([]rate.Tier, error) {
	query := `
		SELECT id, tenant_id, name, level, day_of_week, start_minute,
		       end_minute, multiplier, active, created_at
		FROM rate_tiers
		WHERE tenant_id = ? AND active = 1
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate tiers: %w", err)
	}
	defer rows.Close()

	var tiers []rate.Tier
	for rows.Next() {
		var tier rate.Tier
		var day int
		var multiplier string
		if err := rows.Scan(
			&tier.ID,
			&tier.TenantID,
			&tier.Name,
			&tier.Level,
			&day,
			&tier.StartMinute,
			&tier.EndMinute,
			&multiplier,
			&tier.Active,
			&tier.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rate tier: %w", err)
		}
		tier.DayOfWeek = time.Weekday(day)
		if tier.Multiplier, err = parseDecimal(multiplier); err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rate tiers: %w", err)
	}

	return tiers, nil
}

// Seed replaces the tenant's tier configuration atomically. The slice order
// becomes the stored position, so level ties keep resolving deterministically.
func (r *RateTierRepository) Seed(ctx context.Context, tenantID string, tiers []rate.Tier) error {
	for _, tier := range tiers {
		if err := rate.Validate(tier); err != nil {
			return err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rate_tiers WHERE tenant_id = ?`, tenantID); err != nil {
		return fmt.Errorf("failed to clear rate tiers: %w", err)
	}

	query := `
		INSERT INTO rate_tiers (
			id, tenant_id, name, level, day_of_week, start_minute,
			end_minute, multiplier, active, position, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	for position, tier := range tiers {
		id := tier.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, query,
			id,
			tenantID,
			tier.Name,
			tier.Level,
			int(tier.DayOfWeek),
			tier.StartMinute,
			tier.EndMinute,
			tier.Multiplier.String(),
			true,
			position,
			now,
		); err != nil {
			return fmt.Errorf("failed to insert rate tier: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rate tiers: %w", err)
	}
	return nil
}
