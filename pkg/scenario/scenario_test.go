package scenario

import (
	"os"
	"path/filepath"
	"testing"
)

const smallTown = "../../examples/small-town"

func TestLoadProject(t *testing.T) {
	s, err := LoadProject(smallTown)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}

	if s.StartYear != 2030 {
		t.Errorf("start_year = %d, want 2030", s.StartYear)
	}
	if s.Model.DemographicScheme != "race" {
		t.Errorf("demographic_scheme = %q, want race", s.Model.DemographicScheme)
	}
	if s.Model.Dwelling.Coefficients["price"] != 0.4 {
		t.Errorf("price coefficient = %v, want 0.4", s.Model.Dwelling.Coefficients["price"])
	}
	if len(s.Model.Commute.Frequencies) != 6 {
		t.Errorf("commute frequencies = %d points, want 6", len(s.Model.Commute.Frequencies))
	}
	if len(s.Market.Regions) != 3 || len(s.Market.Zones) != 6 {
		t.Errorf("geography = %d regions, %d zones; want 3, 6", len(s.Market.Regions), len(s.Market.Zones))
	}
	if len(s.Market.Dwellings) != 36 || len(s.Market.Households) != 26 {
		t.Errorf("market = %d dwellings, %d households; want 36, 26", len(s.Market.Dwellings), len(s.Market.Households))
	}
}

func TestLoadProjectMissing(t *testing.T) {
	if _, err := LoadProject(t.TempDir()); err == nil {
		t.Error("expected error for a directory without scenario.yaml")
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte("model: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestWithDefaults(t *testing.T) {
	m := Model{DemographicScheme: "nationality", Moves: MovesModel{StayShift: 3}}.WithDefaults()

	if m.CoefficientSet != "de-nationality-v1" {
		t.Errorf("coefficient_set = %q, want de-nationality-v1", m.CoefficientSet)
	}
	if m.Moves.StayShift != 3 {
		t.Errorf("explicit stay_shift overwritten: %v", m.Moves.StayShift)
	}
	if m.Moves.StaySlope != -10 || m.Moves.MaxCandidates != 20 {
		t.Errorf("moves defaults = %+v", m.Moves)
	}
	if m.Region.Normalization != "population" {
		t.Errorf("normalization = %q, want population", m.Region.Normalization)
	}
	if m.Commute.DecayMinutes != 25 {
		t.Errorf("decay_minutes = %v, want 25", m.Commute.DecayMinutes)
	}

	observed := Model{Commute: Commute{Frequencies: map[int]float64{0: 1}}}.WithDefaults()
	if observed.Commute.DecayMinutes != 0 {
		t.Error("decay default applied although frequencies are given")
	}
	if observed.CoefficientSet != "us-race-v1" {
		t.Errorf("coefficient_set = %q, want us-race-v1", observed.CoefficientSet)
	}
}

func TestBuildMarket(t *testing.T) {
	s, err := LoadProject(smallTown)
	if err != nil {
		t.Fatal(err)
	}
	store, err := BuildMarket(s)
	if err != nil {
		t.Fatalf("BuildMarket: %v", err)
	}

	if got := len(store.Households()); got != 26 {
		t.Errorf("households = %d, want 26", got)
	}
	if got := store.OccupiedCount(); got != 26 {
		t.Errorf("occupied dwellings = %d, want 26", got)
	}
	vacant := 0
	for _, r := range store.Regions() {
		vacant += store.VacancyCount(r.ID)
	}
	if vacant != 10 {
		t.Errorf("vacant dwellings = %d, want 10", vacant)
	}
	z, ok := store.Zone(101)
	if !ok || !z.Located {
		t.Errorf("zone 101 not located")
	}
}

func TestBuildMarketErrors(t *testing.T) {
	one := 1
	base := func() *Scenario {
		return &Scenario{
			Model: Defaults(),
			Market: Market{
				Regions:    []RegionDef{{ID: 1}},
				Zones:      []ZoneDef{{ID: 10, Region: 1, MSA: 1}},
				Dwellings:  []DwellingDef{{ID: 1, Zone: 10, Price: 900}},
				Households: []HouseholdDef{{ID: 1, Group: "white", Dwelling: &one, Persons: []PersonDef{{ID: 1}}}},
			},
		}
	}
	if _, err := BuildMarket(base()); err != nil {
		t.Fatalf("base scenario: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Scenario)
	}{
		{"unknown scheme", func(s *Scenario) { s.Model.DemographicScheme = "caste" }},
		{"zone of unknown region", func(s *Scenario) { s.Market.Zones[0].Region = 2 }},
		{"dwelling of unknown zone", func(s *Scenario) { s.Market.Dwellings[0].Zone = 11 }},
		{"group outside scheme", func(s *Scenario) { s.Market.Households[0].Group = "foreign" }},
		{"unknown dwelling", func(s *Scenario) { two := 2; s.Market.Households[0].Dwelling = &two }},
		{"shared dwelling", func(s *Scenario) {
			s.Market.Households = append(s.Market.Households,
				HouseholdDef{ID: 2, Group: "black", Dwelling: &one, Persons: []PersonDef{{ID: 2}}})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.modify(s)
			if _, err := BuildMarket(s); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBuildAccessibility(t *testing.T) {
	s, err := LoadProject(smallTown)
	if err != nil {
		t.Fatal(err)
	}
	store, err := BuildMarket(s)
	if err != nil {
		t.Fatal(err)
	}
	m, err := BuildAccessibility(s, store)
	if err != nil {
		t.Fatalf("BuildAccessibility: %v", err)
	}

	if v, ok := m.RegionalAccessibility(1); !ok || v != 80 {
		t.Errorf("region 1 accessibility = (%v, %v), want (80, true)", v, ok)
	}
	// Riverside has no explicit value and gets the mean of its zones.
	if v, ok := m.RegionalAccessibility(2); !ok || v != 57.5 {
		t.Errorf("region 2 accessibility = (%v, %v), want (57.5, true)", v, ok)
	}
	if v, ok := m.MinTravelTimeToRegion(101, 2); !ok || v != 14 {
		t.Errorf("101 -> region 2 = (%v, %v), want (14, true)", v, ok)
	}
	if v, ok := m.MinTravelTimeToRegion(101, 1); !ok || v != 4 {
		t.Errorf("101 -> own region = (%v, %v), want (4, true)", v, ok)
	}
}

func TestParseRunConfig(t *testing.T) {
	t.Setenv("RELOCATE_SEED", "7")
	t.Setenv("RELOCATE_YEARS", "3")
	t.Setenv("RELOCATE_STRICT", "false")

	cfg, err := ParseRunConfig()
	if err != nil {
		t.Fatalf("ParseRunConfig: %v", err)
	}
	if cfg.Seed != 7 || cfg.Years != 3 || cfg.Strict {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}

	t.Setenv("RELOCATE_YEARS", "many")
	if _, err := ParseRunConfig(); err == nil {
		t.Error("expected error for a non-numeric year count")
	}
}
