package billing

import (
	"github.com/shopspring/decimal"
)

// EstimateBlock is a contiguous run of same-tier increments in an estimate,
// reported for display.
type EstimateBlock struct {
	Tier          string          `json:"tier"`
	Multiplier    decimal.Decimal `json:"multiplier"`
	OffsetMinutes int             `json:"offset_minutes"`
	Minutes       int             `json:"minutes"`
	Cost          decimal.Decimal `json:"cost"`
}

// CostEstimate is a pre-work price preview, computed from a hypothetical
// single contiguous interval. It is transient and never authoritative;
// the actual breakdown at closure governs the invoice.
type CostEstimate struct {
	BaseRate          decimal.Decimal `json:"base_rate"`
	DurationHours     float64         `json:"duration_hours"`
	Blocks            []EstimateBlock `json:"blocks"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	FirstHourDiscount decimal.Decimal `json:"first_hour_discount"`
	Total             decimal.Decimal `json:"total"`
}

// TierLine is the billable tally for a single tier in an actual breakdown,
// ordered by the tier's first appearance on the timeline.
type TierLine struct {
	Tier       string          `json:"tier"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Minutes    int             `json:"minutes"`
	Hours      float64         `json:"hours"`
	Rate       decimal.Decimal `json:"rate"`
	Cost       decimal.Decimal `json:"cost"`
}

// ActualCostBreakdown is the post-work billable summary computed from a
// ticket's real timeline.
type ActualCostBreakdown struct {
	WaivedMinutes        int             `json:"waived_minutes"`
	WaivedHours          float64         `json:"waived_hours"`
	Lines                []TierLine      `json:"lines"`
	TotalBillableMinutes int             `json:"total_billable_minutes"`
	TotalBillableHours   float64         `json:"total_billable_hours"`
	Subtotal             decimal.Decimal `json:"subtotal"`
}

// PerTierMinutes returns the minute tally keyed by tier name.
func (b ActualCostBreakdown) PerTierMinutes() map[string]int {
	out := make(map[string]int, len(b.Lines))
	for _, line := range b.Lines {
		out[line.Tier] = line.Minutes
	}
	return out
}

// PerTierHours returns the hour tally keyed by tier name.
func (b ActualCostBreakdown) PerTierHours() map[string]float64 {
	out := make(map[string]float64, len(b.Lines))
	for _, line := range b.Lines {
		out[line.Tier] = line.Hours
	}
	return out
}
