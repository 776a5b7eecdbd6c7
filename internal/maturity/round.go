package maturity

import "math"

//
// all score aggregation rounds half-up to one decimal place.
//
// means of integer scores go through meanOf, which rounds from the
// integer sum so that a tie such as 49/20 lands exactly on x.x5 and is
// not pushed either way by binary representation error.
//

// tieEpsilon absorbs representation error on values that sit on a tie,
// e.g. (3.2+3.5)/2.
const tieEpsilon = 1e-9

// Round1 rounds v half-up to one decimal place.
func Round1(v float64) float64 {
	return math.Floor(v*10+0.5+tieEpsilon) / 10
}

// meanOf returns the rounded mean of scores; scores must be non-empty.
func meanOf(scores []int) float64 {
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return math.Floor(float64(sum*10)/float64(len(scores))+0.5) / 10
}

//
// ScoreKey clamps score into [1,5] and rounds it half-up to the
// integer used as a recommendation key, so 2.5 -> 3.
//
func ScoreKey(score float64) int {
	if math.IsNaN(score) {
		return 1
	}
	clamped := math.Max(1, math.Min(5, score))
	return int(math.Floor(clamped + 0.5))
}
