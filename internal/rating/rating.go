// Package rating computes the aggregate rating a movie displays, derived
// from the ratings of its reviews.
package rating

import "math"

// Aggregate returns the arithmetic mean of the given review ratings, rounded
// to one decimal place with half-up semantics, and true. For an empty input
// it returns 0 and false: a movie with no reviews has no aggregate.
//
// The result is clamped to [0.0, 10.0] so that rounding can never push an
// adversarial floating-point input out of the displayed range. Pure function,
// no I/O.
func Aggregate(ratings []float64) (float64, bool) {
	if len(ratings) == 0 {
		return 0, false
	}

	var sum float64
	for _, r := range ratings {
		sum += r
	}
	mean := sum / float64(len(ratings))

	// math.Round ties away from zero; ratings are non-negative, so this is
	// exactly round-half-up at one decimal.
	rounded := math.Round(mean*10) / 10

	if rounded < 0 {
		return 0, true
	}
	if rounded > 10 {
		return 10, true
	}
	return rounded, true
}
