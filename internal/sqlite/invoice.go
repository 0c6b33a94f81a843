package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opsrate/fieldbill/internal/domain/invoice"
	"github.com/opsrate/fieldbill/internal/repository"
)

// InvoiceRepository implements invoice.Repository for SQLite
type InvoiceRepository struct {
	db *DB
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(db *DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// CreateWithClosure persists the invoice, closes the listed open entries,
// and marks the ticket completed in one transaction. A half-applied closure
// would leave billable time uncounted or double-counted on retry, so the
// three writes commit together or not at all. The day-scoped sequence for
// the invoice number is allocated inside the same transaction.
func (r *InvoiceRepository) CreateWithClosure(ctx context.Context, tenantID string, inv *invoice.Invoice, closeEntryIDs []string, closedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	dayStart := inv.IssueDate.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	var issuedToday int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invoices WHERE tenant_id = ? AND issue_date >= ? AND issue_date < ?`,
		tenantID, dayStart, dayEnd,
	).Scan(&issuedToday)
	if err != nil {
		return fmt.Errorf("failed to allocate invoice sequence: %w", err)
	}
	inv.InvoiceNumber = invoice.FormatNumber(inv.IssueDate, issuedToday+1)

	lines, err := json.Marshal(inv.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode invoice lines: %w", err)
	}

	var estimateSnapshot any
	if inv.EstimateSnapshot != nil {
		estimateSnapshot = string(inv.EstimateSnapshot)
	}

	insert := `
		INSERT INTO invoices (
			id, tenant_id, invoice_number, ticket_id, client_id,
			base_hourly_rate, lines, waived_hours, is_first_service_request,
			subtotal, tax_rate, tax_amount, total_amount,
			issue_date, due_date, payment_status, payment_date,
			estimate_snapshot, breakdown_snapshot, rate_table_snapshot, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, insert,
		inv.ID,
		tenantID,
		inv.InvoiceNumber,
		inv.TicketID,
		inv.ClientID,
		inv.BaseHourlyRate.String(),
		string(lines),
		inv.WaivedHours,
		inv.FirstServiceRequest,
		inv.Subtotal.String(),
		inv.TaxRate.String(),
		inv.TaxAmount.String(),
		inv.TotalAmount.String(),
		inv.IssueDate,
		inv.DueDate,
		inv.PaymentStatus,
		inv.PaymentDate,
		estimateSnapshot,
		string(inv.BreakdownSnapshot),
		string(inv.RateTableSnapshot),
		inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "invoices.ticket_id") {
				// The ticket already has an invoice.
				return repository.ErrConflict
			}
			// Concurrent closure grabbed the same sequence number.
			return fmt.Errorf("invoice number collision: %w", err)
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	for _, entryID := range closeEntryIDs {
		result, err := tx.ExecContext(ctx,
			`UPDATE time_entries SET ended_at = ? WHERE id = ? AND tenant_id = ? AND ended_at IS NULL`,
			closedAt, entryID, tenantID,
		)
		if err != nil {
			return fmt.Errorf("failed to close time entry: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return repository.ErrConflict
		}
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE tickets SET status = 'completed', completed_at = ?
		 WHERE id = ? AND tenant_id = ? AND status NOT IN ('completed', 'cancelled')`,
		closedAt, inv.TicketID, tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete ticket: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrConflict
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit invoice: %w", err)
	}
	return nil
}

// Get retrieves an invoice by ID
func (r *InvoiceRepository) Get(ctx context.Context, tenantID, id string) (*invoice.Invoice, error) {
	return r.getWhere(ctx, `id = ? AND tenant_id = ?`, id, tenantID)
}

// GetByNumber retrieves an invoice by its invoice number
func (r *InvoiceRepository) GetByNumber(ctx context.Context, tenantID, number string) (*invoice.Invoice, error) {
	return r.getWhere(ctx, `invoice_number = ? AND tenant_id = ?`, number, tenantID)
}

// GetByTicket retrieves the invoice issued for a ticket
func (r *InvoiceRepository) GetByTicket(ctx context.Context, tenantID, ticketID string) (*invoice.Invoice, error) {
	return r.getWhere(ctx, `ticket_id = ? AND tenant_id = ?`, ticketID, tenantID)
}

// ListByClient returns a client's invoices, newest first
func (r *InvoiceRepository) ListByClient(ctx context.Context, tenantID, clientID string) ([]invoice.Invoice, error) {
	query := selectInvoice + `
		WHERE tenant_id = ? AND client_id = ?
		ORDER BY issue_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []invoice.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}

	return invoices, nil
}

// UpdatePayment transitions an invoice's payment status, the only column an
// issued invoice permits changing.
func (r *InvoiceRepository) UpdatePayment(ctx context.Context, tenantID, id string, status invoice.PaymentStatus, paidAt *time.Time) error {
	query := `
		UPDATE invoices SET payment_status = ?, payment_date = ?
		WHERE id = ? AND tenant_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, status, paidAt, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
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

const selectInvoice = `
	SELECT
		id, tenant_id, invoice_number, ticket_id, client_id,
		base_hourly_rate, lines, waived_hours, is_first_service_request,
		subtotal, tax_rate, tax_amount, total_amount,
		issue_date, due_date, payment_status, payment_date,
		estimate_snapshot, breakdown_snapshot, rate_table_snapshot, created_at
	FROM invoices
`

func (r *InvoiceRepository) getWhere(ctx context.Context, where string, args ...any) (*invoice.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, selectInvoice+" WHERE "+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get invoice: %w", err)
		}
		return nil, repository.ErrNotFound
	}
	return scanInvoice(rows)
}

func scanInvoice(rows *sql.Rows) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	var baseRate, lines, subtotal, taxRate, taxAmount, totalAmount string
	var paymentDate sql.NullTime
	var estimateSnapshot sql.NullString
	var breakdownSnapshot, rateTableSnapshot string

	err := rows.Scan(
		&inv.ID,
		&inv.TenantID,
		&inv.InvoiceNumber,
		&inv.TicketID,
		&inv.ClientID,
		&baseRate,
		&lines,
		&inv.WaivedHours,
		&inv.FirstServiceRequest,
		&subtotal,
		&taxRate,
		&taxAmount,
		&totalAmount,
		&inv.IssueDate,
		&inv.DueDate,
		&inv.PaymentStatus,
		&paymentDate,
		&estimateSnapshot,
		&breakdownSnapshot,
		&rateTableSnapshot,
		&inv.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}

	if inv.BaseHourlyRate, err = parseDecimal(baseRate); err != nil {
		return nil, err
	}
	if inv.Subtotal, err = parseDecimal(subtotal); err != nil {
		return nil, err
	}
	if inv.TaxRate, err = parseDecimal(taxRate); err != nil {
		return nil, err
	}
	if inv.TaxAmount, err = parseDecimal(taxAmount); err != nil {
		return nil, err
	}
	if inv.TotalAmount, err = parseDecimal(totalAmount); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(lines), &inv.Lines); err != nil {
		return nil, fmt.Errorf("failed to decode invoice lines: %w", err)
	}

	if paymentDate.Valid {
		inv.PaymentDate = &paymentDate.Time
	}
	if estimateSnapshot.Valid {
		inv.EstimateSnapshot = []byte(estimateSnapshot.String)
	}
	inv.BreakdownSnapshot = []byte(breakdownSnapshot)
	inv.RateTableSnapshot = []byte(rateTableSnapshot)

	return &inv, nil
}
