// Package affordability decides who may rent income-restricted dwellings and
// what a subsidized household effectively pays.
package affordability

import (
	"math"

	"github.com/msmobility/silo-sub013/pkg/market"
)

// MedianIncomes maps an MSA to its median annual household income.
type MedianIncomes map[market.MSAID]float64

// Lookup returns the median income of an MSA.
func (m MedianIncomes) Lookup(msa market.MSAID) (float64, bool) {
	v, ok := m[msa]
	return v, ok && v > 0
}

// Eligible reports whether a household with the given annual income may live
// in d. Unrestricted dwellings admit everyone; a restricted dwelling admits
// incomes up to Restriction x median. A restricted dwelling in an MSA without
// a median admits nobody.
func Eligible(d *market.Dwelling, income float64, medians MedianIncomes, msa market.MSAID) bool {
	if !d.Restricted() {
		return true
	}
	median, ok := medians.Lookup(msa)
	if !ok {
		return false
	}
	return income <= d.Restriction*median
}

// Subsidy is the rent subsidy rule.
type Subsidy struct {
	IncomeLimit  float64
	MaxRentShare float64
}

// DefaultSubsidy returns the baseline rule.
func DefaultSubsidy() Subsidy {
	return Subsidy{IncomeLimit: DefaultSubsidyIncomeLimit, MaxRentShare: DefaultMaxRentShare}
}

// Qualifies reports whether a household with the given annual income in an
// MSA with the given median receives a subsidy.
func (s Subsidy) Qualifies(income, median float64) bool {
	if s.IncomeLimit <= 0 || median <= 0 {
		return false
	}
	return income <= s.IncomeLimit*median
}

// EffectivePrice returns the monthly rent a subsidized household pays for a
// dwelling listed at price: at most MaxRentShare of its monthly income.
func (s Subsidy) EffectivePrice(price, income float64) float64 {
	if s.MaxRentShare <= 0 {
		return price
	}
	ceiling := s.MaxRentShare * income / MonthsPerYear
	return math.Max(0, math.Min(price, ceiling))
}
