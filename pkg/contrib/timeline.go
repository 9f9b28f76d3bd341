package contrib

import (
	"slices"
	"time"
)

// Timeline is the canonical one-year accumulator: every calendar date from one year
// before "now" through "now", inclusive, mapped to an activity count.
// The key set is fixed at construction; updates outside the range are dropped.
type Timeline struct {
	counts map[Date]int
	start  Date
	end    Date
}

// NewTimeline builds the zeroed timeline for the year ending on now's calendar date.
// The start is computed with calendar arithmetic (year - 1), so the range holds
// 366 dates, or 367 when it spans a February 29.
func NewTimeline(now time.Time) *Timeline {
	end := DateOf(now)
	start := DateOf(now.AddDate(-1, 0, 0))

	tl := &Timeline{
		counts: make(map[Date]int, daysPerLeapYear+1),
		start:  start,
		end:    end,
	}

	for d := start; d <= end; d = d.AddDays(1) {
		tl.counts[d] = 0
	}

	return tl
}

// Start returns the earliest date of the range.
func (tl *Timeline) Start() Date { return tl.start }

// End returns the latest date of the range.
func (tl *Timeline) End() Date { return tl.end }

// Len returns the number of dates in the range.
func (tl *Timeline) Len() int { return len(tl.counts) }

// Contains reports whether d lies inside the range.
func (tl *Timeline) Contains(d Date) bool {
	_, ok := tl.counts[d]

	return ok
}

// Count returns the accumulated count for d, or 0 outside the range.
func (tl *Timeline) Count(d Date) int {
	return tl.counts[d]
}

// Add accumulates n onto d. It reports false and leaves the timeline unchanged
// when d is outside the range.
func (tl *Timeline) Add(d Date, n int) bool {
	current, ok := tl.counts[d]
	if !ok {
		return false
	}

	tl.counts[d] = current + n

	return true
}

// set replaces the count of an in-range date.
func (tl *Timeline) set(d Date, n int) {
	if _, ok := tl.counts[d]; ok {
		tl.counts[d] = n
	}
}

// Dates returns all dates of the range in ascending order.
func (tl *Timeline) Dates() []Date {
	dates := make([]Date, 0, len(tl.counts))

	for d := range tl.counts {
		dates = append(dates, d)
	}

	slices.Sort(dates)

	return dates
}

// Total returns the sum of all counts.
func (tl *Timeline) Total() int {
	total := 0

	for _, n := range tl.counts {
		total += n
	}

	return total
}

// IsZero reports whether every date has a count of exactly zero.
func (tl *Timeline) IsZero() bool {
	for _, n := range tl.counts {
		if n != 0 {
			return false
		}
	}

	return true
}

// Snapshot returns a copy of the date-to-count mapping.
func (tl *Timeline) Snapshot() map[Date]int {
	out := make(map[Date]int, len(tl.counts))

	for d, n := range tl.counts {
		out[d] = n
	}

	return out
}
