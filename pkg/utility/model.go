package utility

import (
	"fmt"

	"github.com/msmobility/silo-sub013/pkg/accessibility"
	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/msmobility/silo-sub013/pkg/scenario"
)

// Evaluators bundles the two evaluators built from one model.
type Evaluators struct {
	Set      CoefficientSet
	Dwelling *DwellingEvaluator
	Regional *RegionalEvaluator
}

// FromModel compiles the coefficient tables of a scenario model, starting
// from its preset and applying its overrides.
func FromModel(m scenario.Model, types market.TypeScheme, access accessibility.Provider, geography market.GeographyStore) (*Evaluators, error) {
	set, err := Preset(m.CoefficientSet)
	if err != nil {
		return nil, err
	}
	if set.Dwelling, err = set.Dwelling.WithOverrides(m.Dwelling.Coefficients); err != nil {
		return nil, fmt.Errorf("dwelling coefficients: %w", err)
	}
	if set.Region, err = set.Region.WithOverrides(m.Region.Coefficients); err != nil {
		return nil, fmt.Errorf("region coefficients: %w", err)
	}
	for size, overrides := range m.Dwelling.SizeCoefficients {
		base, ok := set.DwellingBySize[size]
		if !ok {
			base = set.Dwelling
		}
		if set.DwellingBySize[size], err = base.WithOverrides(overrides); err != nil {
			return nil, fmt.Errorf("dwelling coefficients of size bracket %d: %w", size, err)
		}
	}

	curves := PriceCurves(m.Dwelling, types)

	functions := make([]UtilityFunction, types.MaxSize)
	for size := range functions {
		c, ok := set.DwellingBySize[size]
		if !ok {
			c = set.Dwelling
		}
		fn, err := Compile(c)
		if err != nil {
			return nil, fmt.Errorf("dwelling coefficients of size bracket %d: %w", size, err)
		}
		functions[size] = fn
	}
	regionFn, err := Compile(set.Region)
	if err != nil {
		return nil, fmt.Errorf("region coefficients: %w", err)
	}

	dwelling := NewDwellingEvaluator(DwellingConfig{
		Types:               types,
		Curves:              curves,
		Functions:           functions,
		QualityLevels:       m.Dwelling.QualityLevels,
		LargestBedroomCount: m.Dwelling.LargestBedroomCount,
	}, access, geography)

	return &Evaluators{
		Set:      set,
		Dwelling: dwelling,
		Regional: NewRegionalEvaluator(curves, regionFn, access),
	}, nil
}

// PriceCurves returns one curve per income bracket: observed where the model
// lists one, derived from the bracket's representative income otherwise.
func PriceCurves(d scenario.DwellingModel, types market.TypeScheme) []PriceCurve {
	curves := make([]PriceCurve, types.NumIncomeBrackets())
	for b := range curves {
		if cdf, ok := d.PriceCurves[b]; ok && len(cdf) > 0 {
			curves[b] = NewPriceCurve(d.RentCategoryWidth, cdf)
			continue
		}
		monthly := types.BracketMidIncome(b) / 12
		curves[b] = DerivePriceCurve(d.RentCategoryWidth, d.RentCategories, monthly, d.RentIncomeShare)
	}
	return curves
}
