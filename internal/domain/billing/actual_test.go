package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/opsrate/fieldbill/internal/domain/billing"
	"github.com/opsrate/fieldbill/internal/domain/rate"
	"github.com/opsrate/fieldbill/internal/domain/timesheet"
)

func slots(start time.Time, table rate.Table, minutes int) timesheet.Timeline {
	var tl timesheet.Timeline
	for i := 0; i < minutes; i++ {
		at := start.Add(time.Duration(i) * time.Minute)
		res := table.ResolveAt(at)
		tl = append(tl, timesheet.Slot{At: at, Tier: res.Name, Multiplier: res.Multiplier})
	}
	return tl
}

func TestBreakdownActual_StandardTwoHoursFirstEngagement(t *testing.T) {
	// 2h Standard, first engagement. One clock-hour is
	// waived outright; the remaining 60 minutes bill at 75.
	start := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	tl := slots(start, rate.NewTable(nil), 120)

	bd, err := billing.BreakdownActual(tl, money(75), true, 60)
	require.NoError(t, err)

	require.Equal(t, 60, bd.WaivedMinutes)
	require.InDelta(t, 1.0, bd.WaivedHours, 1e-9)
	require.Equal(t, 60, bd.TotalBillableMinutes)
	require.InDelta(t, 1.0, bd.TotalBillableHours, 1e-9)
	requireMoney(t, 75, bd.Subtotal)

	require.Len(t, bd.Lines, 1)
	require.Equal(t, rate.StandardTierName, bd.Lines[0].Tier)
	requireMoney(t, 75, bd.Lines[0].Rate)
}

func TestBreakdownActual_WaiverIsPositionalNotTierBased(t *testing.T) {
	// Work starting 16:30 with Premium evenings: the waiver removes the
	// first 60 clock minutes (30 Standard + 30 Premium), not the first 60
	// Standard minutes.
	start := time.Date(2026, 8, 3, 16, 30, 0, 0, time.UTC)
	tl := slots(start, premiumEvenings(1.5), 120)

	bd, err := billing.BreakdownActual(tl, money(80), true, 60)
	require.NoError(t, err)

	require.Equal(t, 60, bd.WaivedMinutes)
	perTier := bd.PerTierMinutes()
	// Remaining minutes 17:30-18:30 are all Premium.
	require.Equal(t, 60, perTier["Premium"])
	require.Zero(t, perTier[rate.StandardTierName])
	require.InDelta(t, 1.0, bd.PerTierHours()["Premium"], 1e-9)
	// 60 Premium minutes at 80 x 1.5.
	requireMoney(t, 120, bd.Subtotal)
}

func TestBreakdownActual_MinuteConservation(t *testing.T) {
	start := time.Date(2026, 8, 3, 16, 0, 0, 0, time.UTC)
	tl := slots(start, premiumEvenings(2.0), 150)

	bd, err := billing.BreakdownActual(tl, money(75), true, 60)
	require.NoError(t, err)

	sum := 0
	for _, line := range bd.Lines {
		sum += line.Minutes
	}
	require.Equal(t, tl.Minutes()-bd.WaivedMinutes, sum,
		"waived plus billable must account for every slot")
	require.Equal(t, bd.TotalBillableMinutes, sum)
}

func TestBreakdownActual_LinesOrderedByFirstAppearance(t *testing.T) {
	start := time.Date(2026, 8, 3, 16, 0, 0, 0, time.UTC)
	tl := slots(start, premiumEvenings(1.5), 180)

	bd, err := billing.BreakdownActual(tl, money(75), false, 60)
	require.NoError(t, err)

	require.Len(t, bd.Lines, 2)
	require.Equal(t, rate.StandardTierName, bd.Lines[0].Tier)
	require.Equal(t, "Premium", bd.Lines[1].Tier)
	require.Equal(t, 60, bd.Lines[0].Minutes)
	require.Equal(t, 120, bd.Lines[1].Minutes)
}

func TestBreakdownActual_ShortSessionFullyWaived(t *testing.T) {
	start := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	tl := slots(start, rate.NewTable(nil), 45)

	bd, err := billing.BreakdownActual(tl, money(75), true, 60)
	require.NoError(t, err)

	require.Equal(t, 45, bd.WaivedMinutes)
	require.Empty(t, bd.Lines)
	require.Zero(t, bd.TotalBillableMinutes)
	requireMoney(t, 0, bd.Subtotal)
	require.False(t, bd.Subtotal.IsNegative())
}

func TestBreakdownActual_NoDiscountForReturningClient(t *testing.T) {
	start := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	tl := slots(start, rate.NewTable(nil), 120)

	bd, err := billing.BreakdownActual(tl, money(75), false, 60)
	require.NoError(t, err)

	require.Zero(t, bd.WaivedMinutes)
	require.Equal(t, 120, bd.TotalBillableMinutes)
	requireMoney(t, 150, bd.Subtotal)
}

func TestBreakdownActual_InvalidBaseRate(t *testing.T) {
	_, err := billing.BreakdownActual(nil, decimal.Zero, false, 60)
	require.ErrorIs(t, err, billing.ErrInvalidBaseRate)

	_, err = billing.BreakdownActual(nil, money(-10), false, 60)
	require.ErrorIs(t, err, billing.ErrInvalidBaseRate)
}
