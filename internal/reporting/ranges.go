package reporting

import (
	"fmt"
	"time"
)

// DayRange returns the first and last instant of t's calendar day in t's location.
func DayRange(t time.Time) (from, to time.Time) {
	from = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	to = from.AddDate(0, 0, 1).Add(-time.Millisecond)
	return from, to
}

// MonthRange returns the first and last instant of t's calendar month in t's location.
func MonthRange(t time.Time) (from, to time.Time) {
	from = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	to = from.AddDate(0, 1, 0).Add(-time.Millisecond)
	return from, to
}

// Named ranges of the daily and monthly reports.
const (
	RangeDaily   = "daily"
	RangeMonthly = "monthly"
)

// NamedRange resolves a named range around now.
func NamedRange(name string, now time.Time) (from, to time.Time, err error) {
	switch name {
	case RangeDaily:
		from, to = DayRange(now)
	case RangeMonthly:
		from, to = MonthRange(now)
	default:
		err = fmt.Errorf("unknown report range %q (want %s or %s)", name, RangeDaily, RangeMonthly)
	}
	return from, to, err
}
