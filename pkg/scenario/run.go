package scenario

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// RunConfig holds the settings of one simulation run that do not belong to
// the model: seed, horizon, logging and outputs.
type RunConfig struct {
	Seed      uint64 `env:"RELOCATE_SEED"       envDefault:"42"`
	Years     int    `env:"RELOCATE_YEARS"      envDefault:"1"`
	StartYear int    `env:"RELOCATE_START_YEAR"`
	LogLevel  string `env:"RELOCATE_LOG_LEVEL"  envDefault:"info"`
	EventDB   string `env:"RELOCATE_EVENT_DB"`
	Journal   string `env:"RELOCATE_JOURNAL"`
	Strict    bool   `env:"RELOCATE_STRICT"     envDefault:"true"`
	Workers   int    `env:"RELOCATE_WORKERS"    envDefault:"0"`
}

// ParseRunConfig loads run settings from environment variables.
func ParseRunConfig() (RunConfig, error) {
	var cfg RunConfig
	if err := env.Parse(&cfg); err != nil {
		return RunConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
