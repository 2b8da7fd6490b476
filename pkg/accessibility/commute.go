package accessibility

import (
	"math"
	"sort"
)

// CommuteCurve converts a commute time into the relative frequency with which
// commutes of that length are observed. It is the work-distance term of the
// region choice.
type CommuteCurve struct {
	minutes []float64
	shares  []float64
	decay   float64
}

// NewCommuteCurve builds a curve from observed (minutes, share) points. With
// no points it falls back to exp(-t/decayMinutes).
func NewCommuteCurve(points map[int]float64, decayMinutes float64) CommuteCurve {
	c := CommuteCurve{decay: decayMinutes}
	keys := make([]int, 0, len(points))
	for k := range points {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		c.minutes = append(c.minutes, float64(k))
		c.shares = append(c.shares, points[k])
	}
	return c
}

// Frequency returns the relative frequency of a commute of t minutes.
// Observed curves are linearly interpolated and clamped at both ends.
func (c CommuteCurve) Frequency(t float64) float64 {
	if len(c.minutes) == 0 {
		if c.decay <= 0 {
			return 1
		}
		return math.Exp(-t / c.decay)
	}
	if t <= c.minutes[0] {
		return c.shares[0]
	}
	last := len(c.minutes) - 1
	if t >= c.minutes[last] {
		return c.shares[last]
	}
	i := sort.SearchFloat64s(c.minutes, t)
	if c.minutes[i] == t {
		return c.shares[i]
	}
	lo, hi := i-1, i
	frac := (t - c.minutes[lo]) / (c.minutes[hi] - c.minutes[lo])
	return c.shares[lo] + frac*(c.shares[hi]-c.shares[lo])
}
