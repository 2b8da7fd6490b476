package utility

import "math"

// PriceCurve is the empirical rent-payment curve of one income bracket: for
// each rent category the cumulative share of households paying at most that
// much. The price utility is the share paying more, so cheaper dwellings
// score higher.
type PriceCurve struct {
	width float64
	cdf   []float64
}

// NewPriceCurve wraps an observed cumulative curve with rent categories of
// the given width.
func NewPriceCurve(width float64, cdf []float64) PriceCurve {
	c := make([]float64, len(cdf))
	copy(c, cdf)
	return PriceCurve{width: width, cdf: c}
}

// DerivePriceCurve builds a curve for a bracket without observations,
// assuming rents spread exponentially around rentShare of monthly income.
func DerivePriceCurve(width float64, categories int, monthlyIncome, rentShare float64) PriceCurve {
	scale := rentShare * monthlyIncome
	cdf := make([]float64, categories)
	for k := range cdf {
		if scale <= 0 {
			cdf[k] = 1
			continue
		}
		upper := float64(k+1) * width
		cdf[k] = 1 - math.Exp(-upper/scale)
	}
	return PriceCurve{width: width, cdf: cdf}
}

// Category returns the rent category of a monthly price.
func (c PriceCurve) Category(price float64) int {
	if c.width <= 0 || price <= 0 {
		return 0
	}
	k := int(price / c.width)
	if k >= len(c.cdf) {
		return len(c.cdf) - 1
	}
	return k
}

// Utility converts a monthly price into a utility in [0, 1].
func (c PriceCurve) Utility(price float64) float64 {
	if len(c.cdf) == 0 {
		return 0
	}
	return clamp01(1 - c.cdf[c.Category(price)])
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
