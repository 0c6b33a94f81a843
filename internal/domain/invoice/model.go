package invoice

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the only field of an issued invoice that ever changes.
type PaymentStatus string

const (
	PaymentDue     PaymentStatus = "due"
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
	PaymentOverdue PaymentStatus = "overdue"
	PaymentComped  PaymentStatus = "comped"
)

// Valid reports whether the status is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentDue, PaymentPending, PaymentPaid, PaymentFailed, PaymentOverdue, PaymentComped:
		return true
	}
	return false
}

// Line is one per-tier hours/rate/cost triple on an invoice.
type Line struct {
	Tier  string          `json:"tier"`
	Hours float64         `json:"hours"`
	Rate  decimal.Decimal `json:"rate"`
	Cost  decimal.Decimal `json:"cost"`
}

// Invoice is the persisted billing record for one closed ticket. Everything
// except PaymentStatus and PaymentDate is frozen at creation: the computed
// breakdown, the estimate shown to the client beforehand, and the exact rate
// tiers used are embedded as serialized snapshots so later rate-table edits
// cannot retroactively change a finalized invoice.
type Invoice struct {
	ID                  string          `json:"id"`
	TenantID            string          `json:"tenant_id"`
	InvoiceNumber       string          `json:"invoice_number"`
	TicketID            string          `json:"ticket_id"`
	ClientID            string          `json:"client_id"`
	BaseHourlyRate      decimal.Decimal `json:"base_hourly_rate"`
	Lines               []Line          `json:"lines"`
	WaivedHours         float64         `json:"waived_hours"`
	FirstServiceRequest bool            `json:"is_first_service_request"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	TaxRate             decimal.Decimal `json:"tax_rate"`
	TaxAmount           decimal.Decimal `json:"tax_amount"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	IssueDate           time.Time       `json:"issue_date"`
	DueDate             time.Time       `json:"due_date"`
	PaymentStatus       PaymentStatus   `json:"payment_status"`
	PaymentDate         *time.Time      `json:"payment_date,omitempty"`
	EstimateSnapshot    json.RawMessage `json:"estimate_snapshot,omitempty"`
	BreakdownSnapshot   json.RawMessage `json:"breakdown_snapshot"`
	RateTableSnapshot   json.RawMessage `json:"rate_table_snapshot"`
	CreatedAt           time.Time       `json:"created_at"`
}

// FormatNumber renders a date-scoped invoice number, sequential per day.
func FormatNumber(issueDate time.Time, sequence int) string {
	return fmt.Sprintf("INV-%s-%04d", issueDate.UTC().Format("20060102"), sequence)
}
