package rate

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MinutesPerDay is the exclusive upper bound for a tier window edge.
const MinutesPerDay = 24 * 60

const (
	// StandardTierName is the implicit tier covering any minute no
	// configured window matches.
	StandardTierName = "Standard"
)

// StandardMultiplier is the implicit Standard tier multiplier.
var StandardMultiplier = decimal.NewFromInt(1)

// Tier is one configured rate multiplier window. Windows are half-open:
// a minute m belongs to the window when StartMinute <= m < EndMinute.
type Tier struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"tenant_id"`
	Name        string          `json:"name"`
	Level       int             `json:"level"`
	DayOfWeek   time.Weekday    `json:"day_of_week"`
	StartMinute int             `json:"start_minute"`
	EndMinute   int             `json:"end_minute"`
	Multiplier  decimal.Decimal `json:"multiplier"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Resolution is the outcome of resolving one minute against the table.
type Resolution struct {
	Name       string          `json:"name"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// ParseClock converts an "HH:MM" wall-clock string to minutes from
// midnight. "24:00" is accepted as the exclusive end-of-day bound.
func ParseClock(value string) (int, error) {
	var hours, minutes int
	if _, err := fmt.Sscanf(value, "%d:%d", &hours, &minutes); err != nil {
		return 0, fmt.Errorf("%w: clock value %q", ErrInvalidTier, value)
	}
	if minutes < 0 || minutes > 59 || hours < 0 || hours > 24 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("%w: clock value %q", ErrInvalidTier, value)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// Validate checks a tier's window and multiplier.
func Validate(t Tier) error {
	if t.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTier)
	}
	if t.DayOfWeek < time.Sunday || t.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: day of week %d", ErrInvalidTier, t.DayOfWeek)
	}
	if t.StartMinute < 0 || t.EndMinute > MinutesPerDay || t.StartMinute >= t.EndMinute {
		return fmt.Errorf("%w: window [%s, %s)", ErrInvalidTier,
			FormatClock(t.StartMinute), FormatClock(t.EndMinute))
	}
	if t.Multiplier.IsNegative() {
		return fmt.Errorf("%w: negative multiplier %s", ErrInvalidTier, t.Multiplier)
	}
	return nil
}
