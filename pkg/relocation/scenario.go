package relocation

import (
	"fmt"
	"log/slog"

	"github.com/msmobility/silo-sub013/pkg/affordability"
	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/msmobility/silo-sub013/pkg/scenario"
	"github.com/msmobility/silo-sub013/pkg/utility"
)

// ConfigFromModel converts the model section of a scenario into an engine
// configuration.
func ConfigFromModel(m scenario.Model, medians map[int]float64) (Config, error) {
	types, err := m.TypeScheme()
	if err != nil {
		return Config{}, err
	}
	norm, err := ParseNormalization(m.Region.Normalization)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Types:         types,
		Scheme:        market.DemographicScheme(m.DemographicScheme),
		StayShift:     m.Moves.StayShift,
		StaySlope:     m.Moves.StaySlope,
		DwellingScale: m.Moves.DwellingScale,
		RaceWeight:    m.Moves.RaceWeight,
		MaxCandidates: m.Moves.MaxCandidates,
		Normalization: norm,
		Subsidy: affordability.Subsidy{
			IncomeLimit:  m.Subsidy.IncomeLimit,
			MaxRentShare: m.Subsidy.MaxRentShare,
		},
		Commute: m.CommuteCurve(),
	}
	if len(medians) > 0 {
		cfg.FixedMedians = make(map[market.MSAID]float64, len(medians))
		for msa, v := range medians {
			cfg.FixedMedians[market.MSAID(msa)] = v
		}
	}
	return cfg, nil
}

// FromScenario builds the market, accessibility and evaluators of a scenario
// and returns an engine over them.
func FromScenario(s *scenario.Scenario, run scenario.RunConfig, logger *slog.Logger, sink EventSink) (*Engine, *market.Store, error) {
	cfg, err := ConfigFromModel(s.Model, s.Market.MedianIncome)
	if err != nil {
		return nil, nil, fmt.Errorf("model: %w", err)
	}
	cfg.Seed = run.Seed
	cfg.Workers = run.Workers
	cfg.Strict = run.Strict

	store, err := scenario.BuildMarket(s)
	if err != nil {
		return nil, nil, fmt.Errorf("market: %w", err)
	}
	access, err := scenario.BuildAccessibility(s, store)
	if err != nil {
		return nil, nil, fmt.Errorf("accessibility: %w", err)
	}
	evaluators, err := utility.FromModel(s.Model, cfg.Types, access, store)
	if err != nil {
		return nil, nil, fmt.Errorf("utility: %w", err)
	}

	engine, err := New(cfg, Deps{
		Market:   store,
		Access:   access,
		Dwelling: evaluators.Dwelling,
		Regional: evaluators.Regional,
		Logger:   logger,
		Sink:     sink,
	})
	if err != nil {
		return nil, nil, err
	}
	return engine, store, nil
}
