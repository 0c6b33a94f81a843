package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/opsrate/fieldbill/internal/domain/timesheet"
)

// BreakdownActual tallies a ticket's real timeline into billable cost per
// tier. When the client's first engagement is being billed, the first
// discountMinutes slots are waived by position in the chronological
// timeline, regardless of tier: the first clock-hour of work is free, not
// the first hour of Standard-tier work. Waived minutes are excluded from
// the tallies, so no further discount subtraction happens downstream.
func BreakdownActual(timeline timesheet.Timeline, baseRate decimal.Decimal, firstEngagement bool, discountMinutes int) (*ActualCostBreakdown, error) {
	if !baseRate.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBaseRate, baseRate)
	}
	if discountMinutes <= 0 {
		discountMinutes = DefaultDiscountMinutes
	}

	waived := 0
	if firstEngagement {
		waived = discountMinutes
		if waived > len(timeline) {
			waived = len(timeline)
		}
	}

	var lines []TierLine
	index := make(map[string]int)
	for _, slot := range timeline[waived:] {
		i, ok := index[slot.Tier]
		if !ok {
			i = len(lines)
			index[slot.Tier] = i
			lines = append(lines, TierLine{
				Tier:       slot.Tier,
				Multiplier: slot.Multiplier,
			})
		}
		lines[i].Minutes++
	}

	subtotal := decimal.Zero
	totalMinutes := 0
	for i := range lines {
		minutes := decimal.NewFromInt(int64(lines[i].Minutes))
		lines[i].Hours = float64(lines[i].Minutes) / 60.0
		lines[i].Rate = baseRate.Mul(lines[i].Multiplier).Round(2)
		lines[i].Cost = baseRate.Mul(lines[i].Multiplier).Mul(minutes).Div(sixty).Round(2)
		subtotal = subtotal.Add(lines[i].Cost)
		totalMinutes += lines[i].Minutes
	}
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}

	return &ActualCostBreakdown{
		WaivedMinutes:        waived,
		WaivedHours:          float64(waived) / 60.0,
		Lines:                lines,
		TotalBillableMinutes: totalMinutes,
		TotalBillableHours:   float64(totalMinutes) / 60.0,
		Subtotal:             subtotal,
	}, nil
}
