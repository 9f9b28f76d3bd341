package contrib

import "time"

// SeriesSummary holds the headline numbers of a daily series.
type SeriesSummary struct {
	Total   int     `json:"total"   yaml:"total"`
	Max     int     `json:"max"     yaml:"max"`
	Average float64 `json:"average" yaml:"average"`
}

// RecentDaily returns the normalized daily counts of the last n dates up to and
// including now's date. The days of the current week that are still ahead are
// dropped. Fewer are returned when the series is shorter.
func RecentDaily(weeks []CommitActivityWeek, now time.Time, n int) []DailyCount {
	daily := NormalizeDaily(weeks)

	today := DateOf(now.UTC())
	for len(daily) > 0 && daily[len(daily)-1].Date > today {
		daily = daily[:len(daily)-1]
	}

	if n <= 0 || len(daily) <= n {
		return daily
	}

	return daily[len(daily)-n:]
}

// SummarizeSeries computes total, maximum and per-day average of a daily series.
func SummarizeSeries(daily []DailyCount) SeriesSummary {
	var s SeriesSummary

	if len(daily) == 0 {
		return s
	}

	for _, dc := range daily {
		s.Total += dc.Count
		s.Max = max(s.Max, dc.Count)
	}

	s.Average = float64(s.Total) / float64(len(daily))

	return s
}
