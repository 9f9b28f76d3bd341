package contrib

// MergeDaily adds every in-range daily count onto the timeline and returns how many
// entries were dropped for falling outside the range.
func MergeDaily(tl *Timeline, daily []DailyCount) int {
	dropped := 0

	for _, dc := range daily {
		if !tl.Add(dc.Date, dc.Count) {
			dropped++
		}
	}

	return dropped
}

// MergeCounts adds a date-to-count mapping onto the timeline and returns how many
// dates were dropped for falling outside the range.
func MergeCounts(tl *Timeline, counts map[Date]int) int {
	dropped := 0

	for d, n := range counts {
		if !tl.Add(d, n) {
			dropped++
		}
	}

	return dropped
}

// Merge folds normalized commit counts and per-day event counts into the timeline.
// Addition is commutative, so the order of sources does not affect the result.
func Merge(tl *Timeline, daily []DailyCount, events map[Date]int) {
	MergeDaily(tl, daily)
	MergeCounts(tl, events)
}
