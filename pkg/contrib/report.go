package contrib

import "time"

// Inputs are the already-fetched activity sources of one account.
type Inputs struct {
	// Commits holds one weekly commit-activity series per repository.
	// Empty series stand for repositories whose data was unavailable.
	Commits [][]CommitActivityWeek

	// Events maps calendar dates to the number of public events on that date.
	Events map[Date]int
}

// Options tune the aggregation.
type Options struct {
	// Rand drives the synthetic fallback. Nil disables it.
	Rand Rand
}

// Report is the contribution calendar of one account.
type Report struct {
	Weeks              []Week `json:"weeks"              yaml:"weeks"`
	TotalContributions int    `json:"totalContributions" yaml:"totalContributions"`
	Start              Date   `json:"start"              yaml:"start"`
	End                Date   `json:"end"                yaml:"end"`
	Synthetic          bool   `json:"synthetic"          yaml:"synthetic"`
	MaxDaily           int    `json:"maxDaily"           yaml:"maxDaily"`
	ActiveDays         int    `json:"activeDays"         yaml:"activeDays"`
	ActiveWeeks        int    `json:"activeWeeks"        yaml:"activeWeeks"`
	LongestStreak      int    `json:"longestStreak"      yaml:"longestStreak"`
}

// Build runs the aggregation pipeline: normalize each repository series, merge it and
// the event counts into the one-year timeline ending at now, apply the synthetic
// fallback when everything is zero, then bucketize, classify and total.
func Build(now time.Time, in Inputs, opts Options) Report {
	tl := NewTimeline(now)

	for _, series := range in.Commits {
		MergeDaily(tl, NormalizeDaily(series))
	}

	MergeCounts(tl, in.Events)

	synthetic := ApplyFallback(tl, opts.Rand)

	return FromTimeline(tl, synthetic)
}

// FromTimeline bucketizes a merged timeline into a Report.
func FromTimeline(tl *Timeline, synthetic bool) Report {
	weeks := Bucketize(tl)

	report := Report{
		Weeks:              weeks,
		TotalContributions: Total(weeks),
		Start:              tl.Start(),
		End:                tl.End(),
		Synthetic:          synthetic,
	}

	report.fillStats()

	return report
}

func (r *Report) fillStats() {
	streak := 0

	for _, w := range r.Weeks {
		weekActive := false

		for _, d := range w.Days {
			if d.Date > r.End {
				continue
			}

			if d.Count == 0 {
				streak = 0

				continue
			}

			weekActive = true
			r.ActiveDays++
			r.MaxDaily = max(r.MaxDaily, d.Count)
			streak++
			r.LongestStreak = max(r.LongestStreak, streak)
		}

		if weekActive {
			r.ActiveWeeks++
		}
	}
}

// Days returns every non-padding day of the report in date order.
func (r *Report) Days() []Day {
	days := make([]Day, 0, len(r.Weeks)*daysPerWeek)

	for _, w := range r.Weeks {
		for _, d := range w.Days {
			if d.Date >= r.Start && d.Date <= r.End {
				days = append(days, d)
			}
		}
	}

	return days
}
