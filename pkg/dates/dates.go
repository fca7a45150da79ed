// Package dates is the calendar leaf used by every core component.
// All date bucketing goes through here so that "today" and "this week"
// mean the same thing in the ledger, the streak tracker and the boost
// rate limiter.
package dates

import (
	"fmt"
	"time"
)

// DateLayout is the canonical calendar-date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Clock supplies the current instant. Services take a Clock so tests can
// pin the calendar.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock. All core dates are UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always reports the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// DateOf formats t as a calendar date.
func DateOf(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Today returns the current calendar date.
func Today(c Clock) string {
	return DateOf(c.Now())
}

// Yesterday returns the calendar date one day before today.
func Yesterday(c Clock) string {
	return DateOf(c.Now().AddDate(0, 0, -1))
}

// WeekKey returns the ISO 8601 year-week key for t, e.g. "2026-W09".
// ISOWeek handles the year-boundary weeks that a naive Jan-1 based
// computation gets wrong.
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// CurrentWeek returns the ISO week key for the clock's today.
func CurrentWeek(c Clock) string {
	return WeekKey(c.Now())
}

// Parse parses a calendar date in the canonical layout.
func Parse(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// DaysBetween returns the number of calendar days from date a to date b.
// Positive when b is after a.
func DaysBetween(a, b string) (int, error) {
	ta, err := Parse(a)
	if err != nil {
		return 0, err
	}
	tb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}
