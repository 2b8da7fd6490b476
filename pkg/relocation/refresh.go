package relocation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/msmobility/silo-sub013/pkg/analytics"
	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/msmobility/silo-sub013/pkg/utility"
	"github.com/msmobility/silo-sub013/pkg/validation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Satisfaction is the average utility-of-resident per household type.
type Satisfaction struct {
	Year       int       `json:"year"`
	Average    []float64 `json:"average"`
	Households []int     `json:"households"`
}

// Of returns the average satisfaction of type t. It reports false when no
// household of that type lives in a dwelling.
func (s *Satisfaction) Of(year int, t market.HouseholdType) (float64, bool, error) {
	if s == nil || s.Year != year {
		return 0, false, ErrStaleTable
	}
	if t < 0 || int(t) >= len(s.Average) || s.Households[t] == 0 {
		return 0, false, nil
	}
	return s.Average[t], true, nil
}

// PrepareYear rebuilds every yearly table: the market aggregates and
// regional utilities, the dwelling utility caches and the average
// satisfaction per type. It must run before any household of the year is
// processed.
func (e *Engine) PrepareYear(ctx context.Context, year int) error {
	ctx, span := e.tracer.Start(ctx, "relocation.refresh",
		trace.WithAttributes(attribute.Int("relocation.year", year)))
	defer span.End()

	if err := e.prepareYear(ctx, year); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (e *Engine) prepareYear(ctx context.Context, year int) error {
	if e.cfg.Strict {
		if err := e.market.CheckVacancyInvariant(); err != nil {
			return fmt.Errorf("before year %d: %w", year, err)
		}
	}

	e.prepared = false
	e.year = year
	e.events = e.events[:0]
	clear(e.missingTrips)
	clear(e.missingRows)

	if err := e.CalculateRegionalUtilities(ctx); err != nil {
		return err
	}
	if err := e.CalculateDwellingUtilities(ctx); err != nil {
		return err
	}
	e.CalculateAverageHousingSatisfaction()
	e.prepared = true

	e.missing = e.drainMissing()
	if e.missing > 0 {
		e.logger.Warn("missing accessibility or aggregate inputs counted as zero",
			"year", year, "lookups", e.missing)
	}
	return nil
}

// CalculateRegionalUtilities aggregates the market of the current year
// (composition shares, prices, vacancy, median incomes) and rebuilds the
// regional utility table from it.
func (e *Engine) CalculateRegionalUtilities(ctx context.Context) error {
	summary, report := analytics.Resolve(e.year, e.market, e.cfg.FixedMedians)
	composition, compReport := analytics.ResolveComposition(e.year, e.cfg.Scheme, e.market)
	report.Merge(compReport)
	e.logFindings(report)

	regions := e.market.Regions()
	table, err := utility.BuildRegionalTable(ctx, e.cfg.Types.NumIncomeBrackets(), regions,
		summary, composition, e.regional)
	if err != nil {
		return fmt.Errorf("year %d: %w", e.year, err)
	}

	e.summary = summary
	e.composition = composition
	e.table = table
	e.regionIndex = make(map[market.RegionID]int, len(regions))
	e.loads = make([]regionLoad, len(regions))
	for i, id := range table.Regions {
		e.regionIndex[id] = i
		if rs, ok := summary.Region(id); ok {
			e.loads[i] = regionLoad{households: rs.Households, dwellings: rs.Dwellings, vacant: rs.Vacant}
		}
	}
	return nil
}

// CalculateDwellingUtilities refreshes the utility caches of all dwellings:
// occupied ones for their resident, vacant ones for every household type.
func (e *Engine) CalculateDwellingUtilities(ctx context.Context) error {
	if e.summary == nil || e.summary.Year != e.year {
		return fmt.Errorf("dwelling utilities need the market summary of %d: %w", e.year, ErrStaleTable)
	}
	resident := func(id market.HouseholdID, d *market.Dwelling) (market.HouseholdType, float64, bool) {
		h, ok := e.market.Household(id)
		if !ok {
			return 0, 0, false
		}
		return e.cfg.Types.TypeOf(h), e.effectivePrice(h, d), true
	}
	untyped, err := utility.Refresh(ctx, e.dwelling, e.cfg.Types, e.market.Dwellings(), resident, e.cfg.Workers)
	if err != nil {
		return fmt.Errorf("year %d: %w", e.year, err)
	}
	if untyped > 0 {
		e.logger.Warn("occupied dwellings with unknown residents", "year", e.year, "count", untyped)
	}
	return nil
}

// CalculateAverageHousingSatisfaction averages the cached utility-of-resident
// over the households of each type.
func (e *Engine) CalculateAverageHousingSatisfaction() *Satisfaction {
	n := e.cfg.Types.NumTypes()
	s := &Satisfaction{
		Year:       e.year,
		Average:    make([]float64, n),
		Households: make([]int, n),
	}
	for _, h := range e.market.Households() {
		d, ok := e.market.Dwelling(h.Dwelling)
		if !ok {
			continue
		}
		t := e.cfg.Types.TypeOf(h)
		s.Average[t] += d.UtilOfResident
		s.Households[t]++
	}
	for t, count := range s.Households {
		if count > 0 {
			s.Average[t] /= float64(count)
		}
	}
	e.satisfaction = s
	return s
}

func (e *Engine) logFindings(r *validation.Report) {
	for _, f := range r.Errors {
		e.logger.Error(f.Message, "year", e.year, "level", string(f.Level))
	}
	for _, f := range r.Warnings {
		e.logger.Warn(f.Message, "year", e.year)
	}
	if e.logger.Enabled(context.Background(), slog.LevelDebug) {
		for _, f := range r.Info {
			e.logger.Debug(f.Message, "year", e.year)
		}
	}
}
