package timeutil

import (
	"fmt"
	"time"
)

// Period names accepted by PeriodWindow.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

var Periods = []string{PeriodWeek, PeriodMonth, PeriodAll}

// LoadLocation resolves an IANA zone name, falling back to the configured
// default and finally to UTC.
func LoadLocation(name, fallback string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if fallback != "" {
		if loc, err := time.LoadLocation(fallback); err == nil {
			return loc
		}
	}
	return time.UTC
}

// CombineDateTime combines a "2006-01-02" date and a "15:04" clock reading
// in loc into a single absolute instant.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	c, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, loc), nil
}

// PeriodWindow returns the half-open [from, to) window for a period name
// relative to now in loc. Weeks start on Monday. ok is false for "all"
// (and unknown names), meaning the caller should not constrain the query.
func PeriodWindow(period string, now time.Time, loc *time.Location) (from, to time.Time, ok bool) {
	local := now.In(loc)
	switch period {
	case PeriodWeek:
		daysSinceMonday := (int(local.Weekday()) + 6) % 7
		start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).
			AddDate(0, 0, -daysSinceMonday)
		return start, start.AddDate(0, 0, 7), true
	case PeriodMonth:
		start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0), true
	default:
		return time.Time{}, time.Time{}, false
	}
}
