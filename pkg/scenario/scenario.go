package scenario

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a scenario from a YAML file. Zero-valued model parameters are
// filled from Defaults.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	s.Model = s.Model.WithDefaults()

	if s.Market.ZoneShapefile != "" {
		shapes := s.Market.ZoneShapefile
		if !filepath.IsAbs(shapes) {
			shapes = filepath.Join(filepath.Dir(path), shapes)
		}
		if _, err := ApplyZoneShapes(&s, shapes); err != nil {
			return nil, err
		}
	}

	return &s, nil
}

// LoadProject loads a scenario from a project directory.
// It looks for scenario.yaml in the given directory.
func LoadProject(projectDir string) (*Scenario, error) {
	return Load(filepath.Join(projectDir, "scenario.yaml"))
}

// Defaults returns the model parameters used when a scenario leaves them out.
func Defaults() Model {
	return Model{
		DemographicScheme: "race",
		HouseholdTypes: HouseholdTypes{
			IncomeBounds: []float64{20000, 40000, 60000, 100000},
			MaxSize:      4,
		},
		Dwelling: DwellingModel{
			QualityLevels:       4,
			LargestBedroomCount: 4,
			RentCategoryWidth:   200,
			RentCategories:      25,
			RentIncomeShare:     0.3,
		},
		Region: RegionModel{
			Normalization: "population",
		},
		Moves: MovesModel{
			StayShift:     9,
			StaySlope:     -10,
			DwellingScale: 5,
			RaceWeight:    0.2,
			MaxCandidates: 20,
		},
		Subsidy: Subsidy{
			IncomeLimit:  0.5,
			MaxRentShare: 0.3,
		},
		Commute: Commute{
			DecayMinutes:     25,
			FallbackSpeedKmh: 30,
		},
	}
}

// WithDefaults returns m with every zero-valued scalar parameter replaced by
// its default. Coefficient maps are left alone; the utility presets fill them.
func (m Model) WithDefaults() Model {
	d := Defaults()
	if m.DemographicScheme == "" {
		m.DemographicScheme = d.DemographicScheme
	}
	if m.CoefficientSet == "" {
		if m.DemographicScheme == "nationality" {
			m.CoefficientSet = "de-nationality-v1"
		} else {
			m.CoefficientSet = "us-race-v1"
		}
	}
	if len(m.HouseholdTypes.IncomeBounds) == 0 {
		m.HouseholdTypes.IncomeBounds = d.HouseholdTypes.IncomeBounds
	}
	if m.HouseholdTypes.MaxSize == 0 {
		m.HouseholdTypes.MaxSize = d.HouseholdTypes.MaxSize
	}
	if m.Dwelling.QualityLevels == 0 {
		m.Dwelling.QualityLevels = d.Dwelling.QualityLevels
	}
	if m.Dwelling.LargestBedroomCount == 0 {
		m.Dwelling.LargestBedroomCount = d.Dwelling.LargestBedroomCount
	}
	if m.Dwelling.RentCategoryWidth == 0 {
		m.Dwelling.RentCategoryWidth = d.Dwelling.RentCategoryWidth
	}
	if m.Dwelling.RentCategories == 0 {
		m.Dwelling.RentCategories = d.Dwelling.RentCategories
	}
	if m.Dwelling.RentIncomeShare == 0 {
		m.Dwelling.RentIncomeShare = d.Dwelling.RentIncomeShare
	}
	if m.Region.Normalization == "" {
		m.Region.Normalization = d.Region.Normalization
	}
	if m.Moves.StayShift == 0 {
		m.Moves.StayShift = d.Moves.StayShift
	}
	if m.Moves.StaySlope == 0 {
		m.Moves.StaySlope = d.Moves.StaySlope
	}
	if m.Moves.DwellingScale == 0 {
		m.Moves.DwellingScale = d.Moves.DwellingScale
	}
	if m.Moves.MaxCandidates == 0 {
		m.Moves.MaxCandidates = d.Moves.MaxCandidates
	}
	if m.Subsidy.MaxRentShare == 0 {
		m.Subsidy.MaxRentShare = d.Subsidy.MaxRentShare
	}
	if m.Commute.DecayMinutes == 0 && len(m.Commute.Frequencies) == 0 {
		m.Commute.DecayMinutes = d.Commute.DecayMinutes
	}
	return m
}
