package rate_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/opsrate/fieldbill/internal/domain/rate"
)

func tier(name string, level int, day time.Weekday, start, end string, mult float64) rate.Tier {
	startMin, err := rate.ParseClock(start)
	if err != nil {
		panic(err)
	}
	endMin, err := rate.ParseClock(end)
	if err != nil {
		panic(err)
	}
	return rate.Tier{
		Name:        name,
		Level:       level,
		DayOfWeek:   day,
		StartMinute: startMin,
		EndMinute:   endMin,
		Multiplier:  decimal.NewFromFloat(mult),
		Active:      true,
	}
}

func TestResolve_NoMatchFallsBackToStandard(t *testing.T) {
	table := rate.NewTable(nil)

	res := table.Resolve(time.Monday, 10*60)
	require.Equal(t, rate.StandardTierName, res.Name)
	require.True(t, res.Multiplier.Equal(decimal.NewFromInt(1)))
}

func TestResolve_HalfOpenWindow(t *testing.T) {
	table := rate.NewTable([]rate.Tier{
		tier("Premium", 1, time.Monday, "17:00", "21:00", 1.5),
	})

	require.Equal(t, "Premium", table.Resolve(time.Monday, 17*60).Name)
	require.Equal(t, "Premium", table.Resolve(time.Monday, 21*60-1).Name)
	// Exclusive end: 21:00 itself is outside the window.
	require.Equal(t, rate.StandardTierName, table.Resolve(time.Monday, 21*60).Name)
	require.Equal(t, rate.StandardTierName, table.Resolve(time.Monday, 17*60-1).Name)
}

func TestResolve_HigherLevelWinsOnOverlap(t *testing.T) {
	table := rate.NewTable([]rate.Tier{
		tier("Premium", 1, time.Saturday, "00:00", "24:00", 1.5),
		tier("Emergency", 2, time.Saturday, "22:00", "24:00", 2.0),
	})

	require.Equal(t, "Premium", table.Resolve(time.Saturday, 12*60).Name)
	require.Equal(t, "Emergency", table.Resolve(time.Saturday, 23*60).Name)
}

func TestResolve_LevelTieBreaksByConfigOrder(t *testing.T) {
	table := rate.NewTable([]rate.Tier{
		tier("First", 1, time.Monday, "08:00", "12:00", 1.2),
		tier("Second", 1, time.Monday, "08:00", "12:00", 1.4),
	})

	// Same level and window: the tier listed first in configuration wins.
	res := table.Resolve(time.Monday, 9*60)
	require.Equal(t, "First", res.Name)
	require.True(t, res.Multiplier.Equal(decimal.NewFromFloat(1.2)))
}

func TestResolve_ExactlyOneTierPerMinute(t *testing.T) {
	table := rate.NewTable([]rate.Tier{
		tier("Premium", 1, time.Monday, "06:00", "09:00", 1.5),
		tier("Emergency", 2, time.Monday, "08:00", "10:00", 2.0),
	})

	for minute := 0; minute < rate.MinutesPerDay; minute++ {
		res := table.Resolve(time.Monday, minute)
		require.NotEmpty(t, res.Name, "minute %d resolved to nothing", minute)
	}
}

func TestResolveAt_UsesInstantWeekday(t *testing.T) {
	table := rate.NewTable([]rate.Tier{
		tier("WeekendPremium", 1, time.Saturday, "00:00", "24:00", 1.5),
	})

	// 2026-08-21 is a Friday, 2026-08-22 a Saturday.
	friday := time.Date(2026, 8, 21, 23, 59, 0, 0, time.UTC)
	saturday := time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)

	require.Equal(t, rate.StandardTierName, table.ResolveAt(friday).Name)
	require.Equal(t, "WeekendPremium", table.ResolveAt(saturday).Name)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"25:00", 0, true},
		{"10:75", 0, true},
		{"garbage", 0, true},
	}
	for _, tt := range tests {
		got, err := rate.ParseClock(tt.in)
		if tt.wantErr {
			require.ErrorIs(t, err, rate.ErrInvalidTier, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		require.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestValidate(t *testing.T) {
	good := tier("Premium", 1, time.Monday, "17:00", "21:00", 1.5)
	require.NoError(t, rate.Validate(good))

	noName := good
	noName.Name = ""
	require.ErrorIs(t, rate.Validate(noName), rate.ErrInvalidTier)

	inverted := good
	inverted.StartMinute, inverted.EndMinute = inverted.EndMinute, inverted.StartMinute
	require.ErrorIs(t, rate.Validate(inverted), rate.ErrInvalidTier)

	negative := good
	negative.Multiplier = decimal.NewFromFloat(-0.5)
	require.ErrorIs(t, rate.Validate(negative), rate.ErrInvalidTier)
}
