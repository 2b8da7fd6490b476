package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/msmobility/silo-sub013/internal/logging"
	"github.com/msmobility/silo-sub013/internal/server"
	"github.com/msmobility/silo-sub013/internal/telemetry"
	"github.com/msmobility/silo-sub013/pkg/analytics"
	"github.com/msmobility/silo-sub013/pkg/eventlog"
	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/msmobility/silo-sub013/pkg/relocation"
	"github.com/msmobility/silo-sub013/pkg/scenario"
	"github.com/msmobility/silo-sub013/pkg/validation"
)

// loadAndValidate loads the scenario and runs schema validation.
func loadAndValidate(projectPath string) (*scenario.Scenario, *validation.Report, error) {
	s, err := scenario.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading scenario: %w", err)
	}
	return s, validation.ValidateScenario(s), nil
}

func runValidate(projectPath string) error {
	s, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}

	// Market-level findings need a consistent market to be built at all.
	if report.Valid {
		store, err := scenario.BuildMarket(s)
		if err != nil {
			report.AddError(validation.Result{Level: validation.LevelMarket, Message: err.Error()})
		} else {
			_, marketReport := analytics.Resolve(s.StartYear, store, fixedMedians(s))
			report.Merge(marketReport)
			_, compReport := analytics.ResolveComposition(s.StartYear, market.DemographicScheme(s.Model.DemographicScheme), store)
			report.Merge(compReport)
		}
	}

	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runSummary(projectPath string, run scenario.RunConfig) error {
	s, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("scenario has validation errors; fix before summarizing")
	}
	store, err := scenario.BuildMarket(s)
	if err != nil {
		return err
	}
	year := run.StartYear
	if year == 0 {
		year = s.StartYear
	}
	summary, marketReport := analytics.Resolve(year, store, fixedMedians(s))
	printMarketSummary(s.Name, summary)
	if len(marketReport.Warnings) > 0 {
		fmt.Println()
		printValidationReport(marketReport)
	}
	return nil
}

func runSimulate(ctx context.Context, projectPath string, run scenario.RunConfig, jsonOut bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.NewLogger(run.LogLevel, os.Stderr)

	s, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("scenario has validation errors")
	}

	shutdown, err := telemetry.Setup(ctx, "relocate")
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	sink, closeSinks, err := openSinks(run)
	if err != nil {
		return err
	}
	defer closeSinks()

	engine, _, err := relocation.FromScenario(s, run, logger, sink)
	if err != nil {
		return err
	}

	start := run.StartYear
	if start == 0 {
		start = s.StartYear
	}
	var reports []*relocation.YearReport
	for year := start; year < start+run.Years; year++ {
		r, err := engine.RunYear(ctx, year)
		if err != nil {
			return err
		}
		reports = append(reports, r)
		if !jsonOut {
			printYearReport(r, engine.Config().Types)
		}
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"scenario": s.Name,
			"seed":     run.Seed,
			"moves":    engine.MoveCount(),
			"years":    reports,
		})
	}
	fmt.Printf("Total moves: %d\n", engine.MoveCount())
	return nil
}

func runServe(ctx context.Context, projectPath string, port int, run scenario.RunConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.NewLogger(run.LogLevel, os.Stderr)

	shutdown, err := telemetry.Setup(ctx, "relocate-server")
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	sink, closeSinks, err := openSinks(run)
	if err != nil {
		return err
	}
	defer closeSinks()

	srv, err := server.New(projectPath, port, run, logger, sink)
	if err != nil {
		return err
	}
	return srv.Start()
}

// openSinks opens the event outputs the run asks for. The returned func
// closes them all.
func openSinks(run scenario.RunConfig) (relocation.EventSink, func(), error) {
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	var db, journal relocation.EventSink
	if run.EventDB != "" {
		l, err := eventlog.OpenSQLite(run.EventDB)
		if err != nil {
			return nil, closeAll, fmt.Errorf("opening event log: %w", err)
		}
		closers = append(closers, l.Close)
		db = l
	}
	if run.Journal != "" {
		j, err := eventlog.CreateJournal(run.Journal)
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("creating journal: %w", err)
		}
		closers = append(closers, j.Close)
		journal = j
	}
	return eventlog.Multi(db, journal), closeAll, nil
}

func fixedMedians(s *scenario.Scenario) map[market.MSAID]float64 {
	out := make(map[market.MSAID]float64, len(s.Market.MedianIncome))
	for msa, v := range s.Market.MedianIncome {
		out[market.MSAID(msa)] = v
	}
	return out
}
