// Package contrib aggregates per-repository commit activity and public events
// into a one-year daily contribution calendar with week buckets and intensity levels.
package contrib

import (
	"fmt"
	"time"
)

// DateLayout is the ISO 8601 calendar-date layout used for every Date.
const DateLayout = time.DateOnly

// secondsPerDay is the length of a calendar day in the commit-activity epoch arithmetic.
const secondsPerDay = 24 * 60 * 60

// Date is a calendar date without a time component, formatted as YYYY-MM-DD.
// Lexicographic order of Date values equals chronological order.
type Date string

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// DateOfUnix returns the UTC calendar date of a unix timestamp in seconds.
func DateOfUnix(sec int64) Date {
	return DateOf(time.Unix(sec, 0).UTC())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", s, err)
	}

	return DateOf(t), nil
}

// Time returns midnight UTC of the date. Invalid dates yield the zero time.
func (d Date) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}
	}

	return t
}

// AddDays returns the date n calendar days after d (before d when n is negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Weekday returns the day of the week of the date.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// IsWeekend reports whether the date is a Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()

	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string {
	return string(d)
}
