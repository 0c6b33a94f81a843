package billing

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/opsrate/fieldbill/internal/domain/rate"
)

// Estimates work in half-hour increments; real billing works per minute.
const estimateIncrement = 30 * time.Minute

// DefaultDiscountMinutes is the first-engagement waiver length.
const DefaultDiscountMinutes = 60

var sixty = decimal.NewFromInt(60)

// EstimateParams describes a hypothetical contiguous work interval to price
// before any work exists.
type EstimateParams struct {
	Start           time.Time
	Duration        time.Duration
	BaseRate        decimal.Decimal
	FirstEngagement bool
	DiscountMinutes int
}

// Estimate prices a hypothetical interval. The interval is quantized up to
// whole 30-minute increments, each costed at baseRate x multiplier / 2 using
// the tier in effect at the increment's start. Contiguous same-tier
// increments are grouped into blocks for display.
//
// The first-engagement discount waives the chronologically first hour of the
// interval, valued at whichever tier rates fall inside it, and is reported
// as a subtracted line. The total never goes below zero.
func Estimate(params EstimateParams, table rate.Table) (*CostEstimate, error) {
	if !params.BaseRate.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBaseRate, params.BaseRate)
	}
	if params.Duration <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDuration, params.Duration)
	}

	discountMinutes := params.DiscountMinutes
	if discountMinutes <= 0 {
		discountMinutes = DefaultDiscountMinutes
	}

	increments := int(math.Ceil(params.Duration.Minutes() / estimateIncrement.Minutes()))
	start := params.Start.UTC()

	var blocks []EstimateBlock
	for i := 0; i < increments; i++ {
		offset := i * int(estimateIncrement.Minutes())
		res := table.ResolveAt(start.Add(time.Duration(offset) * time.Minute))

		if n := len(blocks); n > 0 && blocks[n-1].Tier == res.Name && blocks[n-1].Multiplier.Equal(res.Multiplier) {
			blocks[n-1].Minutes += int(estimateIncrement.Minutes())
			continue
		}
		blocks = append(blocks, EstimateBlock{
			Tier:          res.Name,
			Multiplier:    res.Multiplier,
			OffsetMinutes: offset,
			Minutes:       int(estimateIncrement.Minutes()),
		})
	}

	subtotal := decimal.Zero
	for i := range blocks {
		cost := params.BaseRate.
			Mul(blocks[i].Multiplier).
			Mul(decimal.NewFromInt(int64(blocks[i].Minutes))).
			Div(sixty)
		blocks[i].Cost = cost.Round(2)
		subtotal = subtotal.Add(cost)
	}

	discount := decimal.Zero
	if params.FirstEngagement {
		remaining := discountMinutes
		for _, block := range blocks {
			if remaining <= 0 {
				break
			}
			use := block.Minutes
			if use > remaining {
				use = remaining
			}
			discount = discount.Add(
				params.BaseRate.
					Mul(block.Multiplier).
					Mul(decimal.NewFromInt(int64(use))).
					Div(sixty))
			remaining -= use
		}
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return &CostEstimate{
		BaseRate:          params.BaseRate,
		DurationHours:     params.Duration.Hours(),
		Blocks:            blocks,
		Subtotal:          subtotal.Round(2),
		FirstHourDiscount: discount.Round(2),
		Total:             total.Round(2),
	}, nil
}
