package contrib

// Synthetic fallback parameters.
const (
	// FallbackWindowDays is the number of most recent dates eligible for synthetic activity.
	FallbackWindowDays = 90

	// WeekdayActivation is the probability that a Monday-Friday date gets activity.
	WeekdayActivation = 0.4

	// WeekendActivation is the probability that a Saturday or Sunday gets activity.
	WeekendActivation = 0.2

	// MaxSyntheticCount is the inclusive upper bound of a synthetic daily count.
	MaxSyntheticCount = 12
)

// Rand is the randomness the synthetic fallback draws from.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// ApplyFallback fills an all-zero timeline with placeholder activity over its most
// recent FallbackWindowDays dates and reports whether any date was filled. Timelines
// with any real signal, and calls with a nil rng, are left untouched.
func ApplyFallback(tl *Timeline, rng Rand) bool {
	if rng == nil || !tl.IsZero() {
		return false
	}

	dates := tl.Dates()
	if len(dates) > FallbackWindowDays {
		dates = dates[len(dates)-FallbackWindowDays:]
	}

	filled := false

	for _, d := range dates {
		threshold := WeekdayActivation
		if d.IsWeekend() {
			threshold = WeekendActivation
		}

		if rng.Float64() < threshold {
			tl.set(d, 1+rng.IntN(MaxSyntheticCount))

			filled = true
		}
	}

	return filled
}
