package rate

import (
	"sort"
	"time"
)

// Table is an immutable per-computation snapshot of the configured tiers,
// grouped by day of week and ordered for resolution. Callers construct one
// table per billing computation so later tier edits cannot change results
// mid-walk. Resolution is pure and safe for concurrent use.
type Table struct {
	byDay [7][]Tier
	all   []Tier
}

// NewTable builds a resolution table from a tier snapshot. Within one day,
// tiers are ordered by descending level; ties keep their position in the
// input slice, which makes overlap resolution deterministic.
func NewTable(tiers []Tier) Table {
	var t Table
	t.all = make([]Tier, len(tiers))
	copy(t.all, tiers)

	for _, tier := range t.all {
		day := int(tier.DayOfWeek)
		t.byDay[day] = append(t.byDay[day], tier)
	}
	for day := range t.byDay {
		sort.SliceStable(t.byDay[day], func(i, j int) bool {
			return t.byDay[day][i].Level > t.byDay[day][j].Level
		})
	}
	return t
}

// Resolve returns the tier in effect for one wall-clock minute of one day.
// The first containing window in level order wins; no match resolves to
// the implicit Standard tier at multiplier 1.
func (t Table) Resolve(day time.Weekday, minuteOfDay int) Resolution {
	for _, tier := range t.byDay[int(day)] {
		if minuteOfDay >= tier.StartMinute && minuteOfDay < tier.EndMinute {
			return Resolution{Name: tier.Name, Multiplier: tier.Multiplier}
		}
	}
	return Resolution{Name: StandardTierName, Multiplier: StandardMultiplier}
}

// ResolveAt resolves the tier for an absolute instant, using the instant's
// own weekday and time of day in UTC. Crossing midnight changes the day.
func (t Table) ResolveAt(at time.Time) Resolution {
	at = at.UTC()
	return t.Resolve(at.Weekday(), at.Hour()*60+at.Minute())
}

// Tiers returns a copy of the snapshot, for freezing into invoices.
func (t Table) Tiers() []Tier {
	out := make([]Tier, len(t.all))
	copy(out, t.all)
	return out
}
