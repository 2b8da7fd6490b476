package utility

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/msmobility/silo-sub013/pkg/accessibility"
	"github.com/msmobility/silo-sub013/pkg/market"
	"golang.org/x/sync/errgroup"
)

// DwellingUtilityStrategy scores a dwelling for a household type at a given
// monthly price. The price is an argument so subsidized households can be
// scored at what they actually pay.
type DwellingUtilityStrategy interface {
	Utility(t market.HouseholdType, d *market.Dwelling, price float64) float64
}

// DwellingEvaluator is the coefficient-table DwellingUtilityStrategy.
type DwellingEvaluator struct {
	types         market.TypeScheme
	curves        []PriceCurve      // by income bracket
	functions     []UtilityFunction // by size bracket
	qualityLevels int
	largestRooms  int
	access        accessibility.Provider
	geography     market.GeographyStore

	missing atomic.Int64
}

// DwellingConfig carries the parameters of a DwellingEvaluator.
type DwellingConfig struct {
	Types               market.TypeScheme
	Curves              []PriceCurve
	Functions           []UtilityFunction
	QualityLevels       int
	LargestBedroomCount int
}

// NewDwellingEvaluator wires the evaluator to its lookups.
func NewDwellingEvaluator(cfg DwellingConfig, access accessibility.Provider, geography market.GeographyStore) *DwellingEvaluator {
	return &DwellingEvaluator{
		types:         cfg.Types,
		curves:        cfg.Curves,
		functions:     cfg.Functions,
		qualityLevels: cfg.QualityLevels,
		largestRooms:  cfg.LargestBedroomCount,
		access:        access,
		geography:     geography,
	}
}

var _ DwellingUtilityStrategy = (*DwellingEvaluator)(nil)

// Types returns the household type scheme the evaluator scores for.
func (e *DwellingEvaluator) Types() market.TypeScheme { return e.types }

// Utility scores d for household type t at the given monthly price.
func (e *DwellingEvaluator) Utility(t market.HouseholdType, d *market.Dwelling, price float64) float64 {
	sizeBracket, incomeBracket := e.types.Brackets(t)
	var in Inputs
	in[TermPrice] = e.curves[incomeBracket].Utility(price)
	e.fillPhysical(&in, d)
	return e.functions[sizeBracket](&in)
}

// fillPhysical sets every term that depends only on the dwelling and its zone.
func (e *DwellingEvaluator) fillPhysical(in *Inputs, d *market.Dwelling) {
	if e.qualityLevels > 0 {
		in[TermQuality] = clamp01(float64(d.Quality) / float64(e.qualityLevels))
	}
	if e.largestRooms > 0 {
		in[TermSize] = clamp01(float64(d.Bedrooms) / float64(e.largestRooms))
	}
	if v, ok := e.access.AutoAccessibility(d.Zone); ok {
		in[TermAutoAccess] = clamp01(v / 100)
	} else {
		e.missing.Add(1)
	}
	if v, ok := e.access.TransitAccessibility(d.Zone); ok {
		in[TermTransitAccess] = clamp01(v / 100)
	} else {
		e.missing.Add(1)
	}
	if z, ok := e.geography.Zone(d.Zone); ok {
		in[TermSchool] = clamp01(z.SchoolQuality)
		in[TermCrime] = clamp01(1 - z.CrimeRate)
	} else {
		e.missing.Add(1)
	}
}

// VacantUtilities scores d once per household type at its listed price.
func (e *DwellingEvaluator) VacantUtilities(d *market.Dwelling) []float64 {
	n := e.types.NumTypes()
	out := make([]float64, n)
	var in Inputs
	e.fillPhysical(&in, d)
	for t := 0; t < n; t++ {
		sizeBracket, incomeBracket := e.types.Brackets(market.HouseholdType(t))
		in[TermPrice] = e.curves[incomeBracket].Utility(d.Price)
		out[t] = e.functions[sizeBracket](&in)
	}
	return out
}

// MissingLookups returns and resets the number of accessibility or zone
// lookups that found no value since the last call.
func (e *DwellingEvaluator) MissingLookups() int64 {
	return e.missing.Swap(0)
}

// Resident resolves the household type of a dwelling's resident and the
// monthly price that household pays for it.
type Resident func(id market.HouseholdID, d *market.Dwelling) (t market.HouseholdType, price float64, ok bool)

type vacantScorer interface {
	VacantUtilities(d *market.Dwelling) []float64
}

// VacantUtilities scores d for every household type at its listed price,
// using the strategy's own batch method when it has one.
func VacantUtilities(s DwellingUtilityStrategy, types market.TypeScheme, d *market.Dwelling) []float64 {
	if vs, ok := s.(vacantScorer); ok {
		return vs.VacantUtilities(d)
	}
	out := make([]float64, types.NumTypes())
	for t := range out {
		out[t] = s.Utility(market.HouseholdType(t), d, d.Price)
	}
	return out
}

// Refresh recomputes the cached utilities of every dwelling: occupied
// dwellings for their resident's type, vacant dwellings for every type.
// Dwellings are split into contiguous chunks, one goroutine per chunk, so
// every cache cell has exactly one writer. It returns the number of occupied
// dwellings whose resident could not be typed.
func Refresh(ctx context.Context, s DwellingUtilityStrategy, types market.TypeScheme,
	dwellings []*market.Dwelling, resident Resident, workers int) (int64, error) {

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := (len(dwellings) + workers - 1) / workers
	if chunk == 0 {
		return 0, nil
	}

	var untyped atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(dwellings); start += chunk {
		part := dwellings[start:min(start+chunk, len(dwellings))]
		g.Go(func() error {
			for i, d := range part {
				if i%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if d.IsVacant() {
					d.VacantUtilities = VacantUtilities(s, types, d)
					d.UtilOfResident = 0
					continue
				}
				d.VacantUtilities = nil
				t, price, ok := resident(d.Resident, d)
				if !ok {
					untyped.Add(1)
					d.UtilOfResident = 0
					continue
				}
				d.UtilOfResident = s.Utility(t, d, price)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return untyped.Load(), fmt.Errorf("refreshing dwelling utilities: %w", err)
	}
	return untyped.Load(), nil
}
