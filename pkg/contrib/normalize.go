package contrib

import (
	"slices"
	"strings"
	"time"
)

// CommitActivityWeek is one week of per-day commit counts for a single repository,
// as reported by the hosting service. Days is Sunday-first.
type CommitActivityWeek struct {
	Week int64 `json:"week" yaml:"week"`
	Days []int `json:"days" yaml:"days"`
}

// DailyCount is the activity count of a single calendar date.
type DailyCount struct {
	Date  Date `json:"date"  yaml:"date"`
	Count int  `json:"count" yaml:"count"`
}

// NormalizeDaily flattens week-indexed commit counts into date-keyed counts sorted
// ascending by date. Day i of a week falls on the UTC date of Week + i days.
// Zero-count days are kept. Nil or empty input yields an empty slice.
func NormalizeDaily(weeks []CommitActivityWeek) []DailyCount {
	if len(weeks) == 0 {
		return []DailyCount{}
	}

	daily := make([]DailyCount, 0, len(weeks)*daysPerWeek)

	for _, week := range weeks {
		for dayIndex, count := range week.Days {
			daily = append(daily, DailyCount{
				Date:  DateOfUnix(week.Week + int64(dayIndex)*secondsPerDay),
				Count: count,
			})
		}
	}

	slices.SortStableFunc(daily, func(a, b DailyCount) int {
		return strings.Compare(string(a.Date), string(b.Date))
	})

	return daily
}

// CountByDate buckets timestamps by their UTC calendar date.
func CountByDate(times []time.Time) map[Date]int {
	counts := make(map[Date]int, len(times))

	for _, t := range times {
		if t.IsZero() {
			continue
		}

		counts[DateOf(t.UTC())]++
	}

	return counts
}
