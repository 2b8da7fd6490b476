package relocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// YearReport summarizes one relocation pass.
type YearReport struct {
	Year             int           `json:"year"`
	Households       int           `json:"households"`
	Stayed           int           `json:"stayed"`
	Moved            int           `json:"moved"`
	Forced           int           `json:"forced"`
	FailedNoRegion   int           `json:"failed_no_region"`
	FailedNoDwelling int           `json:"failed_no_dwelling"`
	MissingLookups   int64         `json:"missing_lookups"`
	Satisfaction     *Satisfaction `json:"satisfaction"`
	Moves            []MoveEvent   `json:"moves"`
	Elapsed          time.Duration `json:"elapsed"`
}

func (r *YearReport) count(o MoveOutcome) {
	switch o.Kind {
	case Stayed:
		r.Stayed++
	case MovedTo:
		r.Moved++
	case FailedNoRegion:
		r.FailedNoRegion++
	case FailedNoDwelling:
		r.FailedNoDwelling++
	}
	if o.Forced {
		r.Forced++
	}
}

// RunYear prepares the tables of year and processes every household present
// at the start of the year once, in ascending id order. Household-level
// failures are counted in the report; an error means the market is no longer
// trustworthy.
func (e *Engine) RunYear(ctx context.Context, year int) (*YearReport, error) {
	ctx, span := e.tracer.Start(ctx, "relocation.year",
		trace.WithAttributes(attribute.Int("relocation.year", year)))
	defer span.End()

	report, err := e.runYear(ctx, year)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}
	span.SetAttributes(
		attribute.Int("relocation.households", report.Households),
		attribute.Int("relocation.moved", report.Moved),
	)
	return report, nil
}

func (e *Engine) runYear(ctx context.Context, year int) (*YearReport, error) {
	start := time.Now()
	if err := e.PrepareYear(ctx, year); err != nil {
		return nil, err
	}

	households := e.market.Households()
	report := &YearReport{
		Year:         year,
		Households:   len(households),
		Satisfaction: e.satisfaction,
	}
	for _, h := range households {
		out, err := e.ChooseMove(ctx, h.ID)
		if err != nil {
			return report, fmt.Errorf("year %d, household %d: %w", year, h.ID, err)
		}
		report.count(out)
	}

	if e.cfg.Strict {
		if err := e.market.CheckVacancyInvariant(); err != nil {
			return report, fmt.Errorf("after year %d: %w", year, err)
		}
	}

	report.MissingLookups = e.missing + e.drainMissing()
	report.Moves = append([]MoveEvent(nil), e.events...)
	report.Elapsed = time.Since(start)

	e.logger.Info("relocation year complete",
		"year", year,
		"households", report.Households,
		"moved", report.Moved,
		"stayed", report.Stayed,
		"forced", report.Forced,
		"no_region", report.FailedNoRegion,
		"no_dwelling", report.FailedNoDwelling,
		"elapsed", report.Elapsed,
	)

	if e.sink != nil {
		if err := e.sink.RecordYear(ctx, report); err != nil {
			return report, fmt.Errorf("recording year %d: %w", year, err)
		}
	}
	return report, nil
}

// IsFatal reports whether err from RunYear means the market state is
// inconsistent, as opposed to an I/O failure of the event sink.
func IsFatal(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie) || errors.Is(err, ErrStaleTable)
}
