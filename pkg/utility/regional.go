package utility

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/msmobility/silo-sub013/pkg/accessibility"
	"github.com/msmobility/silo-sub013/pkg/analytics"
	"github.com/msmobility/silo-sub013/pkg/market"
	"golang.org/x/sync/errgroup"
)

// ErrStaleTable is returned when a yearly table is read for another year.
var ErrStaleTable = errors.New("utility table was built for another year")

// ErrNoRow is returned for an income bracket or demographic group the table
// was not built for.
var ErrNoRow = errors.New("no regional utilities")

// RegionInputs is what a regional strategy may look at for one cell of the
// table. Aggregates that could not be resolved are flagged as missing.
type RegionInputs struct {
	IncomeBracket int
	Group         market.DemographicGroup
	Region        *market.Region

	AvgPrice float64
	HasPrice bool
	Share    float64
	HasShare bool
}

// RegionalUtilityStrategy scores a region for an income bracket and
// demographic group.
type RegionalUtilityStrategy interface {
	Utility(in RegionInputs) float64
}

// RegionalEvaluator is the coefficient-table RegionalUtilityStrategy.
type RegionalEvaluator struct {
	curves []PriceCurve // by income bracket
	fn     UtilityFunction
	access accessibility.Provider

	missing atomic.Int64
}

// NewRegionalEvaluator wires the evaluator to its lookups.
func NewRegionalEvaluator(curves []PriceCurve, fn UtilityFunction, access accessibility.Provider) *RegionalEvaluator {
	return &RegionalEvaluator{curves: curves, fn: fn, access: access}
}

var _ RegionalUtilityStrategy = (*RegionalEvaluator)(nil)

// Utility scores a region. Missing inputs contribute zero.
func (e *RegionalEvaluator) Utility(ri RegionInputs) float64 {
	var in Inputs
	if ri.HasPrice {
		in[TermPrice] = e.curves[ri.IncomeBracket].Utility(ri.AvgPrice)
	} else {
		e.missing.Add(1)
	}
	if v, ok := e.access.RegionalAccessibility(ri.Region.ID); ok {
		in[TermAccess] = clamp01(v / 100)
	} else {
		e.missing.Add(1)
	}
	in[TermSchool] = clamp01(ri.Region.SchoolQuality)
	in[TermCrime] = clamp01(1 - ri.Region.CrimeRate)
	if ri.HasShare {
		in[TermShare] = clamp01(ri.Share)
	} else {
		e.missing.Add(1)
	}
	return e.fn(&in)
}

// MissingLookups returns and resets the count of missing inputs.
func (e *RegionalEvaluator) MissingLookups() int64 {
	return e.missing.Swap(0)
}

// RegionalTable is the dense yearly table of regional utilities indexed by
// [incomeBracket][group][region].
type RegionalTable struct {
	Year    int
	Scheme  market.DemographicScheme
	Regions []market.RegionID

	index  map[market.RegionID]int
	values [][][]float64
}

// BuildRegionalTable evaluates strategy for every income bracket, group and
// region of one year's aggregates. Income brackets are filled concurrently;
// each bracket's rows have a single writer.
func BuildRegionalTable(ctx context.Context, brackets int, regions []*market.Region,
	summary *analytics.MarketSummary, composition *analytics.Composition,
	strategy RegionalUtilityStrategy) (*RegionalTable, error) {

	if summary.Year != composition.Year {
		return nil, fmt.Errorf("market summary of %d paired with composition of %d: %w",
			summary.Year, composition.Year, ErrStaleTable)
	}

	t := &RegionalTable{
		Year:    summary.Year,
		Scheme:  composition.Scheme,
		Regions: make([]market.RegionID, len(regions)),
		index:   make(map[market.RegionID]int, len(regions)),
		values:  make([][][]float64, brackets),
	}
	for i, r := range regions {
		t.Regions[i] = r.ID
		t.index[r.ID] = i
	}

	groups := composition.Scheme.Groups()
	g, ctx := errgroup.WithContext(ctx)
	for b := 0; b < brackets; b++ {
		g.Go(func() error {
			rows := make([][]float64, len(groups))
			for gi, group := range groups {
				if err := ctx.Err(); err != nil {
					return err
				}
				row := make([]float64, len(regions))
				for ri, r := range regions {
					in := RegionInputs{IncomeBracket: b, Group: group, Region: r}
					if rs, ok := summary.Region(r.ID); ok && rs.Dwellings > 0 {
						in.AvgPrice, in.HasPrice = rs.AvgPrice, true
					}
					in.Share, in.HasShare = composition.RegionShare(r.ID, group)
					row[ri] = strategy.Utility(in)
				}
				rows[gi] = row
			}
			t.values[b] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building regional utilities: %w", err)
	}
	return t, nil
}

// Row returns the utilities of all regions, in Regions order, for an income
// bracket and group. The slice is shared; callers must not modify it.
func (t *RegionalTable) Row(year, incomeBracket int, group market.DemographicGroup) ([]float64, error) {
	if t == nil || t.Year != year {
		return nil, ErrStaleTable
	}
	gi := t.Scheme.Index(group)
	if incomeBracket < 0 || incomeBracket >= len(t.values) || gi < 0 {
		return nil, fmt.Errorf("%w for bracket %d group %s", ErrNoRow, incomeBracket, group)
	}
	return t.values[incomeBracket][gi], nil
}

// Utility returns a single cell.
func (t *RegionalTable) Utility(year, incomeBracket int, group market.DemographicGroup, region market.RegionID) (float64, error) {
	row, err := t.Row(year, incomeBracket, group)
	if err != nil {
		return 0, err
	}
	i, ok := t.index[region]
	if !ok {
		return 0, fmt.Errorf("region %d is not in the regional utility table", region)
	}
	return row[i], nil
}
