package ticket

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of a service ticket. The ticket
// workflow itself lives outside the billing engine; billing only needs to
// distinguish completed work from cancelled or in-flight work.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Ticket is a service request being billed.
type Ticket struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	ClientID    string     `json:"client_id"`
	Title       string     `json:"title"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Client is the customer a ticket belongs to. HourlyRate is nil when the
// client has no assigned rate category; the configured default applies.
type Client struct {
	ID         string           `json:"id"`
	TenantID   string           `json:"tenant_id"`
	Name       string           `json:"name"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}
