// Package relocation runs the yearly household relocation pass: refresh of
// the utility tables, the move-or-stay decision, the two-stage region and
// dwelling search, and the move executor that keeps occupancy and vacancy
// lists consistent.
package relocation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/msmobility/silo-sub013/pkg/accessibility"
	"github.com/msmobility/silo-sub013/pkg/affordability"
	"github.com/msmobility/silo-sub013/pkg/analytics"
	"github.com/msmobility/silo-sub013/pkg/choice"
	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/msmobility/silo-sub013/pkg/utility"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/msmobility/silo-sub013/pkg/relocation"

// Market is everything the engine reads and mutates.
type Market interface {
	market.Reader
	AddHousehold(h *market.Household) error
	CheckDwelling(d *market.Dwelling) error
	CheckVacancyInvariant() error
}

// EventSink receives the moves and summary of every completed year.
type EventSink interface {
	RecordYear(ctx context.Context, report *YearReport) error
}

// Config holds the choice model parameters.
type Config struct {
	Types  market.TypeScheme
	Scheme market.DemographicScheme

	StayShift     float64
	StaySlope     float64
	DwellingScale float64
	RaceWeight    float64
	MaxCandidates int
	Normalization Normalization

	Subsidy      affordability.Subsidy
	Commute      accessibility.CommuteCurve
	FixedMedians map[market.MSAID]float64

	Seed    uint64
	Workers int
	// Strict checks the vacancy invariant around every move and at both ends
	// of a year.
	Strict bool
}

// Deps are the collaborators of an engine. Logger and Sink are optional.
type Deps struct {
	Market   Market
	Access   accessibility.Provider
	Dwelling utility.DwellingUtilityStrategy
	Regional utility.RegionalUtilityStrategy
	Logger   *slog.Logger
	Sink     EventSink
}

// Engine owns the relocation state of one simulation. It is a single writer:
// its methods must not be called concurrently.
type Engine struct {
	cfg      Config
	market   Market
	access   accessibility.Provider
	dwelling utility.DwellingUtilityStrategy
	regional utility.RegionalUtilityStrategy
	sampler  *choice.Sampler
	logger   *slog.Logger
	tracer   trace.Tracer
	sink     EventSink

	year         int
	prepared     bool
	summary      *analytics.MarketSummary
	composition  *analytics.Composition
	table        *utility.RegionalTable
	satisfaction *Satisfaction
	loads        []regionLoad // in table region order
	regionIndex  map[market.RegionID]int

	moves        atomic.Int64
	events       []MoveEvent
	missingTrips map[tripKey]struct{}
	missingRows  map[rowKey]struct{}
	missing      int64
}

type tripKey struct {
	zone   market.ZoneID
	region market.RegionID
}

type rowKey struct {
	incomeBracket int
	group         market.DemographicGroup
}

// New validates the configuration and returns an engine. No year is prepared
// yet.
func New(cfg Config, deps Deps) (*Engine, error) {
	if deps.Market == nil || deps.Access == nil || deps.Dwelling == nil || deps.Regional == nil {
		return nil, fmt.Errorf("relocation engine needs a market, accessibility and both utility strategies")
	}
	if !cfg.Scheme.Valid() {
		return nil, fmt.Errorf("unknown demographic scheme %q", cfg.Scheme)
	}
	if cfg.Types.NumTypes() == 0 {
		return nil, fmt.Errorf("household type scheme is empty")
	}
	if cfg.RaceWeight < 0 || cfg.RaceWeight > 1 {
		return nil, fmt.Errorf("race weight must be within [0, 1], got %.3f", cfg.RaceWeight)
	}
	if cfg.MaxCandidates < 1 {
		return nil, fmt.Errorf("max dwelling candidates must be >= 1, got %d", cfg.MaxCandidates)
	}
	n, err := ParseNormalization(string(cfg.Normalization))
	if err != nil {
		return nil, err
	}
	cfg.Normalization = n

	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Engine{
		cfg:          cfg,
		market:       deps.Market,
		access:       deps.Access,
		dwelling:     deps.Dwelling,
		regional:     deps.Regional,
		sampler:      choice.NewSampler(cfg.Seed),
		logger:       logger,
		tracer:       otel.Tracer(tracerName),
		sink:         deps.Sink,
		missingTrips: make(map[tripKey]struct{}),
		missingRows:  make(map[rowKey]struct{}),
	}, nil
}

// Year returns the year the engine's tables were built for.
func (e *Engine) Year() int { return e.year }

// MoveCount returns the number of moves executed since the engine was created.
func (e *Engine) MoveCount() int64 { return e.moves.Load() }

// Summary returns the market summary of the prepared year, or nil.
func (e *Engine) Summary() *analytics.MarketSummary { return e.summary }

// Composition returns the demographic composition of the prepared year, or nil.
func (e *Engine) Composition() *analytics.Composition { return e.composition }

// RegionalUtilities returns the regional utility table of the prepared year,
// or nil.
func (e *Engine) RegionalUtilities() *utility.RegionalTable { return e.table }

// AverageSatisfaction returns the satisfaction table of the prepared year, or
// nil.
func (e *Engine) AverageSatisfaction() *Satisfaction { return e.satisfaction }

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) median(zone market.ZoneID) (market.MSAID, float64, bool) {
	z, ok := e.market.Zone(zone)
	if !ok || e.summary == nil {
		return 0, 0, false
	}
	m, ok := e.summary.MedianIncome.Lookup(z.MSA)
	return z.MSA, m, ok
}

// effectivePrice is what h pays per month for d, after any rent subsidy.
func (e *Engine) effectivePrice(h *market.Household, d *market.Dwelling) float64 {
	_, median, ok := e.median(d.Zone)
	if !ok || !e.cfg.Subsidy.Qualifies(h.Income, median) {
		return d.Price
	}
	return e.cfg.Subsidy.EffectivePrice(d.Price, h.Income)
}

func (e *Engine) subsidized(h *market.Household, d *market.Dwelling) bool {
	_, median, ok := e.median(d.Zone)
	return ok && e.cfg.Subsidy.Qualifies(h.Income, median)
}

// eligible applies the dwelling's income restriction to h.
func (e *Engine) eligible(h *market.Household, d *market.Dwelling) bool {
	if !d.Restricted() {
		return true
	}
	msa, _, _ := e.median(d.Zone)
	if e.summary == nil {
		return false
	}
	return affordability.Eligible(d, h.Income, e.summary.MedianIncome, msa)
}

type missingCounter interface {
	MissingLookups() int64
}

// drainMissing collects the strategies' missing-lookup counters.
func (e *Engine) drainMissing() int64 {
	n := int64(0)
	if mc, ok := e.dwelling.(missingCounter); ok {
		n += mc.MissingLookups()
	}
	if mc, ok := e.regional.(missingCounter); ok {
		n += mc.MissingLookups()
	}
	return n
}
