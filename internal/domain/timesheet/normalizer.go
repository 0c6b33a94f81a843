package timesheet

import (
	"fmt"
	"sort"
	"time"

	"github.com/opsrate/fieldbill/internal/domain/rate"
)

const (
	startRounding = 5 * time.Minute
	endRounding   = 15 * time.Minute
)

// Normalize converts a ticket's time entries into a minute-resolution
// timeline tagged with the tier in effect at each minute.
//
// Rounding policy: every entry's start is rounded down to the nearest
// 5-minute boundary; only the end of the last entry in chronological order
// is rounded up to the nearest 15-minute boundary. Interior ends keep their
// raw value truncated to the minute, so pause/resume cycles inside one work
// session are billed as recorded and only the terminal edge of the session
// is smoothed. An open entry's end is taken as now for the computation; the
// entry itself stays open until an explicit stop or closure.
//
// Overlapping raw intervals are an inconsistency in the recorded data and
// surface as ErrEntriesOverlap rather than a silently wrong total.
func Normalize(entries []Entry, table rate.Table, now time.Time) (Timeline, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	ordered := make([]Entry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartedAt.Before(ordered[j].StartedAt)
	})

	now = now.UTC().Truncate(time.Minute)

	type span struct {
		start time.Time
		end   time.Time
	}
	spans := make([]span, len(ordered))

	var maxEnd time.Time
	var maxEndID string
	for i, entry := range ordered {
		rawStart := entry.StartedAt.UTC().Truncate(time.Minute)
		rawEnd := now
		if entry.EndedAt != nil {
			rawEnd = entry.EndedAt.UTC().Truncate(time.Minute)
		}
		if rawEnd.Before(rawStart) {
			return nil, fmt.Errorf("%w: entry %s", ErrEntryInverted, entry.ID)
		}
		if i > 0 {
			if ordered[i-1].EndedAt == nil {
				// An open entry followed by another entry means two
				// clocks ran at once.
				return nil, fmt.Errorf("%w: entry %s overlaps open entry %s",
					ErrEntriesOverlap, entry.ID, ordered[i-1].ID)
			}
			if rawStart.Before(maxEnd) {
				return nil, fmt.Errorf("%w: entry %s overlaps entry %s",
					ErrEntriesOverlap, entry.ID, maxEndID)
			}
		}
		if rawEnd.After(maxEnd) {
			maxEnd = rawEnd
			maxEndID = entry.ID
		}

		start := rawStart.Truncate(startRounding)
		end := rawEnd
		if i == len(ordered)-1 {
			end = roundUp(rawEnd, endRounding)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("%w: entry %s", ErrEntryInverted, entry.ID)
		}
		spans[i] = span{start: start, end: end}
	}

	// Rounding a start down by up to four minutes can push it into the
	// previous entry's recorded span; clamp so no minute is counted twice.
	for i := 1; i < len(spans); i++ {
		if spans[i].start.Before(spans[i-1].end) {
			spans[i].start = spans[i-1].end
		}
	}

	var timeline Timeline
	for _, sp := range spans {
		for at := sp.start; at.Before(sp.end); at = at.Add(time.Minute) {
			res := table.ResolveAt(at)
			timeline = append(timeline, Slot{
				At:         at,
				Tier:       res.Name,
				Multiplier: res.Multiplier,
			})
		}
	}
	return timeline, nil
}

func roundUp(t time.Time, d time.Duration) time.Time {
	rounded := t.Truncate(d)
	if rounded.Before(t) {
		rounded = rounded.Add(d)
	}
	return rounded
}
