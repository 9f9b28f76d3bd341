package contrib

const (
	daysPerWeek     = 7
	daysPerLeapYear = 366
)

// Level thresholds. A count is raised to the highest level whose threshold it reaches.
const (
	levelOneMin   = 1
	levelTwoMin   = 3
	levelThreeMin = 6
	levelFourMin  = 10
)

// MaxLevel is the highest intensity level.
const MaxLevel = 4

// Day is one classified calendar date.
type Day struct {
	Date  Date `json:"date"  yaml:"date"`
	Count int  `json:"count" yaml:"count"`
	Level int  `json:"level" yaml:"level"`
}

// Week is a run of exactly seven consecutive days. It starts on the earliest date
// not yet assigned at bucketization time, not on a calendar-week boundary.
type Week struct {
	Days []Day `json:"days" yaml:"days"`
}

// Level maps a daily count to an intensity level in [0, MaxLevel]:
// 0 for 0, 1 for 1-2, 2 for 3-5, 3 for 6-9 and 4 for 10 or more.
func Level(count int) int {
	level := 0

	if count >= levelOneMin {
		level = 1
	}

	if count >= levelTwoMin {
		level = 2
	}

	if count >= levelThreeMin {
		level = 3
	}

	if count >= levelFourMin {
		level = MaxLevel
	}

	return level
}

// Bucketize splits the timeline into consecutive weeks of seven classified days,
// starting from its earliest date. The last week is padded with the following
// calendar dates at count 0 and level 0.
func Bucketize(tl *Timeline) []Week {
	dates := tl.Dates()
	weeks := make([]Week, 0, (len(dates)+daysPerWeek-1)/daysPerWeek)

	for i := 0; i < len(dates); i += daysPerWeek {
		end := min(i+daysPerWeek, len(dates))
		days := make([]Day, 0, daysPerWeek)

		for _, d := range dates[i:end] {
			count := tl.Count(d)
			days = append(days, Day{Date: d, Count: count, Level: Level(count)})
		}

		for len(days) < daysPerWeek {
			next := days[len(days)-1].Date.AddDays(1)
			days = append(days, Day{Date: next})
		}

		weeks = append(weeks, Week{Days: days})
	}

	return weeks
}

// Total sums the counts of every day of every week.
func Total(weeks []Week) int {
	total := 0

	for _, w := range weeks {
		for _, d := range w.Days {
			total += d.Count
		}
	}

	return total
}
