package activity

import "time"

// ActivityType represents the type of billing event
type ActivityType string

const (
	TypeEntryStarted   ActivityType = "entry_started"
	TypeEntryStopped   ActivityType = "entry_stopped"
	TypeInvoiceIssued  ActivityType = "invoice_issued"
	TypePaymentUpdated ActivityType = "payment_updated"
	TypeTiersSeeded    ActivityType = "tiers_seeded"
)

// ActivityEntry represents an event in the billing audit log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	TenantID     string       `json:"tenant_id"`
	TicketID     *string      `json:"ticket_id,omitempty"`
	InvoiceID    *string      `json:"invoice_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
