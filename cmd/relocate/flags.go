package main

import (
	"github.com/msmobility/silo-sub013/pkg/scenario"
	"github.com/spf13/cobra"
)

// runFlags override the RELOCATE_* environment settings when set.
type runFlags struct {
	seed      uint64
	years     int
	startYear int
	logLevel  string
	eventDB   string
	journal   string
	workers   int
	lenient   bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.Uint64Var(&f.seed, "seed", 42, "random seed")
	pf.IntVar(&f.years, "years", 1, "number of years to simulate")
	pf.IntVar(&f.startYear, "start-year", 0, "first simulated year (default: scenario start_year)")
	pf.StringVar(&f.logLevel, "log-level", "info", "log level: error, warn, info, debug, trace")
	pf.StringVar(&f.eventDB, "event-db", "", "SQLite file to index moves and year summaries")
	pf.StringVar(&f.journal, "journal", "", "zstd-compressed JSONL file receiving every move and year summary")
	pf.IntVar(&f.workers, "workers", 0, "goroutines for the yearly utility refresh (0 = GOMAXPROCS)")
	pf.BoolVar(&f.lenient, "lenient", false, "skip vacancy invariant checks around every move")
}

// runConfig reads the environment, then applies the flags the user set.
func (f *runFlags) runConfig(cmd *cobra.Command) (scenario.RunConfig, error) {
	cfg, err := scenario.ParseRunConfig()
	if err != nil {
		return cfg, err
	}
	changed := cmd.Flags().Changed
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("years") {
		cfg.Years = f.years
	}
	if changed("start-year") {
		cfg.StartYear = f.startYear
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("event-db") {
		cfg.EventDB = f.eventDB
	}
	if changed("journal") {
		cfg.Journal = f.journal
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("lenient") {
		cfg.Strict = !f.lenient
	}
	return cfg, nil
}
