package timesheet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one contiguous span of recorded work on a ticket. EndedAt is nil
// while the technician is still on the clock; entries are closed, never
// deleted.
type Entry struct {
	ID           string     `json:"id"`
	TenantID     string     `json:"tenant_id"`
	TicketID     string     `json:"ticket_id"`
	TechnicianID string     `json:"technician_id"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Open reports whether the entry is still running.
func (e Entry) Open() bool {
	return e.EndedAt == nil
}

// Slot is one billable minute tagged with the tier in effect at that minute.
type Slot struct {
	At         time.Time       `json:"at"`
	Tier       string          `json:"tier"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// Timeline is the ordered minute-resolution billing timeline of one ticket.
// It is derived on demand and never persisted.
type Timeline []Slot

// Minutes returns the total minute count of the timeline.
func (t Timeline) Minutes() int {
	return len(t)
}
