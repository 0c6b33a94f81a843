package timesheet_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/opsrate/fieldbill/internal/domain/rate"
	"github.com/opsrate/fieldbill/internal/domain/timesheet"
)

func at(day, hour, minute int) time.Time {
	// August 2026: the 3rd is a Monday.
	return time.Date(2026, 8, day, hour, minute, 0, 0, time.UTC)
}

func closedEntry(id string, start, end time.Time) timesheet.Entry {
	return timesheet.Entry{ID: id, TicketID: "t1", StartedAt: start, EndedAt: &end}
}

func TestNormalize_NoEntries(t *testing.T) {
	_, err := timesheet.Normalize(nil, rate.NewTable(nil), time.Now())
	require.ErrorIs(t, err, timesheet.ErrNoEntries)
}

func TestNormalize_RoundsStartDownAndLastEndUp(t *testing.T) {
	// Start 10:03 rounds down to 10:00; end 11:47 rounds up to 12:00,
	// giving a two hour window for 1h44m of raw work.
	entries := []timesheet.Entry{
		closedEntry("e1", at(3, 10, 3), at(3, 11, 47)),
	}

	timeline, err := timesheet.Normalize(entries, rate.NewTable(nil), time.Now())
	require.NoError(t, err)
	require.Equal(t, 120, timeline.Minutes())
	require.Equal(t, at(3, 10, 0), timeline[0].At)
	require.Equal(t, at(3, 11, 59), timeline[len(timeline)-1].At)
}

func TestNormalize_InteriorEndsKeptRaw(t *testing.T) {
	// Pause at 10:47 is billed as recorded; only the final 12:58 edge is
	// smoothed up to 13:00.
	entries := []timesheet.Entry{
		closedEntry("e1", at(3, 10, 0), at(3, 10, 47)),
		closedEntry("e2", at(3, 12, 0), at(3, 12, 58)),
	}

	timeline, err := timesheet.Normalize(entries, rate.NewTable(nil), time.Now())
	require.NoError(t, err)
	require.Equal(t, 47+60, timeline.Minutes())
	require.Equal(t, at(3, 12, 59), timeline[len(timeline)-1].At)
}

func TestNormalize_RoundingIdempotent(t *testing.T) {
	entries := []timesheet.Entry{
		closedEntry("e1", at(3, 10, 0), at(3, 12, 0)),
	}

	first, err := timesheet.Normalize(entries, rate.NewTable(nil), time.Now())
	require.NoError(t, err)

	// Re-running on already-rounded boundaries yields identical boundaries.
	again, err := timesheet.Normalize(entries, rate.NewTable(nil), time.Now())
	require.NoError(t, err)
	require.Equal(t, first[0].At, again[0].At)
	require.Equal(t, first[len(first)-1].At, again[len(again)-1].At)
	require.Equal(t, first.Minutes(), again.Minutes())
}

func TestNormalize_OpenEntryEndsAtNow(t *testing.T) {
	entries := []timesheet.Entry{
		{ID: "e1", TicketID: "t1", StartedAt: at(3, 10, 0)},
	}
	now := at(3, 10, 50)

	timeline, err := timesheet.Normalize(entries, rate.NewTable(nil), now)
	require.NoError(t, err)
	// Open entry is the last entry, so its effective end rounds up to 11:00.
	require.Equal(t, 60, timeline.Minutes())
}

func TestNormalize_MidnightCrossingSplitsTierByDay(t *testing.T) {
	// Emergency covers all of Tuesday; Monday night stays Standard.
	// 2026-08-03 is a Monday, so 23:50 through 00:20 spans two weekdays.
	table := rate.NewTable([]rate.Tier{{
		Name:        "Emergency",
		Level:       1,
		DayOfWeek:   time.Tuesday,
		StartMinute: 0,
		EndMinute:   rate.MinutesPerDay,
		Multiplier:  decimal.NewFromFloat(2.0),
		Active:      true,
	}})

	entries := []timesheet.Entry{
		closedEntry("e1", at(3, 23, 50), at(4, 0, 20)),
	}

	timeline, err := timesheet.Normalize(entries, table, time.Now())
	require.NoError(t, err)
	// 23:50 keeps its boundary, 00:20 rounds up to 00:30.
	require.Equal(t, 40, timeline.Minutes())

	var standard, emergency int
	for _, slot := range timeline {
		switch slot.Tier {
		case rate.StandardTierName:
			standard++
		case "Emergency":
			emergency++
		}
	}
	require.Equal(t, 10, standard)
	require.Equal(t, 30, emergency)
}

func TestNormalize_InvertedEntryRejected(t *testing.T) {
	entries := []timesheet.Entry{
		closedEntry("e1", at(3, 11, 0), at(3, 10, 0)),
	}

	_, err := timesheet.Normalize(entries, rate.NewTable(nil), time.Now())
	require.ErrorIs(t, err, timesheet.ErrEntryInverted)
}

func TestNormalize_OverlappingEntriesRejected(t *testing.T) {
	entries := []timesheet.Entry{
		closedEntry("e1", at(3, 10, 0), at(3, 11, 0)),
		closedEntry("e2", at(3, 10, 30), at(3, 11, 30)),
	}

	_, err := timesheet.Normalize(entries, rate.NewTable(nil), time.Now())
	require.ErrorIs(t, err, timesheet.ErrEntriesOverlap)
}

func TestNormalize_NestedOverlapRejected(t *testing.T) {
	entries := []timesheet.Entry{
		closedEntry("e1", at(3, 10, 0), at(3, 14, 0)),
		closedEntry("e2", at(3, 10, 30), at(3, 10, 45)),
		closedEntry("e3", at(3, 11, 0), at(3, 11, 30)),
	}

	_, err := timesheet.Normalize(entries, rate.NewTable(nil), time.Now())
	require.ErrorIs(t, err, timesheet.ErrEntriesOverlap)
}

func TestNormalize_OpenEntryFollowedByAnotherRejected(t *testing.T) {
	entries := []timesheet.Entry{
		{ID: "e1", TicketID: "t1", StartedAt: at(3, 10, 0)},
		closedEntry("e2", at(3, 11, 0), at(3, 11, 30)),
	}

	_, err := timesheet.Normalize(entries, rate.NewTable(nil), at(3, 12, 0))
	require.ErrorIs(t, err, timesheet.ErrEntriesOverlap)
}

func TestNormalize_RoundedStartClampedToPreviousEnd(t *testing.T) {
	// Resume at 10:09 rounds down to 10:05, inside the previous entry's
	// recorded span ending 10:07. The clamp keeps every minute counted once.
	entries := []timesheet.Entry{
		closedEntry("e1", at(3, 10, 0), at(3, 10, 7)),
		closedEntry("e2", at(3, 10, 9), at(3, 10, 30)),
	}

	timeline, err := timesheet.Normalize(entries, rate.NewTable(nil), time.Now())
	require.NoError(t, err)

	seen := make(map[time.Time]bool, timeline.Minutes())
	for _, slot := range timeline {
		require.False(t, seen[slot.At], "minute %s double-counted", slot.At)
		seen[slot.At] = true
	}
	// 10:00-10:07 plus 10:07-10:30 (end rounds up to 10:30 exactly).
	require.Equal(t, 30, timeline.Minutes())
}

func TestNormalize_MinuteConservation(t *testing.T) {
	entries := []timesheet.Entry{
		closedEntry("e1", at(3, 9, 0), at(3, 9, 45)),
		closedEntry("e2", at(3, 11, 0), at(3, 11, 20)),
		closedEntry("e3", at(3, 13, 5), at(3, 13, 50)),
	}

	timeline, err := timesheet.Normalize(entries, rate.NewTable(nil), time.Now())
	require.NoError(t, err)

	// 45 + 20 + 55 (13:05 stays, 13:50 rounds up to 14:00).
	require.Equal(t, 120, timeline.Minutes())

	for i := 1; i < len(timeline); i++ {
		require.True(t, timeline[i-1].At.Before(timeline[i].At),
			"timeline must be strictly increasing")
	}
}
