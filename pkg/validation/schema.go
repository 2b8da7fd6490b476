package validation

import (
	"fmt"

	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/msmobility/silo-sub013/pkg/scenario"
)

var normalizations = map[string]bool{
	"none":                   true,
	"population":             true,
	"vacant_dwellings":       true,
	"vacancy_share":          true,
	"population_and_vacancy": true,
}

// ValidateScenario performs schema validation on a parsed scenario.
// It checks parameter ranges and referential integrity of the market data
// before any computation.
func ValidateScenario(s *scenario.Scenario) *Report {
	r := NewReport()

	validateModel(&s.Model, r)
	validateGeography(&s.Market, r)
	validateDwellings(&s.Market, r)
	validateHouseholds(s, r)

	return r
}

func validateModel(m *scenario.Model, r *Report) {
	if m.DemographicScheme != "race" && m.DemographicScheme != "nationality" {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown demographic scheme %q", m.DemographicScheme),
			Path:        "model.demographic_scheme",
			ActualValue: m.DemographicScheme,
			Expected:    "race | nationality",
		})
	}

	bounds := m.HouseholdTypes.IncomeBounds
	for i := 1; i < len(bounds); i++ {
		if bounds[i] <= bounds[i-1] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("income bounds must be strictly ascending (%.0f after %.0f)", bounds[i], bounds[i-1]),
				Path:        fmt.Sprintf("model.household_types.income_bounds[%d]", i),
				ActualValue: bounds[i],
			})
		}
	}
	if m.HouseholdTypes.MaxSize < 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "max household size bracket must be >= 1",
			Path:        "model.household_types.max_size",
			ActualValue: m.HouseholdTypes.MaxSize,
			Expected:    ">= 1",
		})
	}

	if m.Dwelling.QualityLevels < 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "quality_levels must be >= 1",
			Path:        "model.dwelling.quality_levels",
			ActualValue: m.Dwelling.QualityLevels,
			Expected:    ">= 1",
		})
	}
	if m.Dwelling.LargestBedroomCount < 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "largest_bedroom_count must be >= 1",
			Path:        "model.dwelling.largest_bedroom_count",
			ActualValue: m.Dwelling.LargestBedroomCount,
			Expected:    ">= 1",
		})
	}
	if m.Dwelling.RentCategoryWidth <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "rent_category_width must be > 0",
			Path:        "model.dwelling.rent_category_width",
			ActualValue: m.Dwelling.RentCategoryWidth,
			Expected:    "> 0",
		})
	}
	for bracket, curve := range m.Dwelling.PriceCurves {
		for i := 1; i < len(curve); i++ {
			if curve[i] < curve[i-1] {
				r.AddError(Result{
					Level:       LevelSchema,
					Message:     fmt.Sprintf("price curve of income bracket %d must be non-decreasing", bracket),
					Path:        fmt.Sprintf("model.dwelling.price_curves.%d[%d]", bracket, i),
					ActualValue: curve[i],
				})
				break
			}
		}
	}

	if !normalizations[m.Region.Normalization] {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown region normalization %q", m.Region.Normalization),
			Path:        "model.region.normalization",
			ActualValue: m.Region.Normalization,
			Expected:    "none | population | vacant_dwellings | vacancy_share | population_and_vacancy",
		})
	}

	if m.Moves.RaceWeight < 0 || m.Moves.RaceWeight > 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("race_weight %.3f is outside [0, 1]", m.Moves.RaceWeight),
			Path:        "model.moves.race_weight",
			ActualValue: m.Moves.RaceWeight,
			Expected:    "0-1",
		})
	}
	if m.Moves.StayShift <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "stay_shift must be > 0",
			Path:        "model.moves.stay_shift",
			ActualValue: m.Moves.StayShift,
			Expected:    "> 0",
		})
	}
	if m.Moves.StaySlope > 0 {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     "stay_slope is positive: households less satisfied than average become more likely to stay",
			Path:        "model.moves.stay_slope",
			ActualValue: m.Moves.StaySlope,
			Suggestions: []string{"Use a negative slope so dissatisfaction raises the move probability"},
		})
	}
	if m.Moves.MaxCandidates < 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "max_candidates must be >= 1",
			Path:        "model.moves.max_candidates",
			ActualValue: m.Moves.MaxCandidates,
			Expected:    ">= 1",
		})
	}
	if m.Subsidy.IncomeLimit < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "subsidy income_limit must be >= 0",
			Path:        "model.subsidy.income_limit",
			ActualValue: m.Subsidy.IncomeLimit,
		})
	}
}

func validateGeography(mk *scenario.Market, r *Report) {
	if len(mk.Regions) == 0 {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "market must define at least one region",
			Path:     "market.regions",
			Expected: "at least 1 region",
		})
	}
	regions := make(map[int]bool, len(mk.Regions))
	for i, reg := range mk.Regions {
		if regions[reg.ID] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("duplicate region id %d", reg.ID),
				Path:        fmt.Sprintf("market.regions[%d].id", i),
				ActualValue: reg.ID,
			})
		}
		regions[reg.ID] = true
		if reg.CrimeRate < 0 || reg.CrimeRate > 1 {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("region %d crime_rate %.3f is outside [0, 1]; the crime term is clamped", reg.ID, reg.CrimeRate),
				Path:        fmt.Sprintf("market.regions[%d].crime_rate", i),
				ActualValue: reg.CrimeRate,
			})
		}
	}

	zones := make(map[int]bool, len(mk.Zones))
	for i, z := range mk.Zones {
		if zones[z.ID] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("duplicate zone id %d", z.ID),
				Path:        fmt.Sprintf("market.zones[%d].id", i),
				ActualValue: z.ID,
			})
		}
		zones[z.ID] = true
		if !regions[z.Region] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("zone %d references unknown region %d", z.ID, z.Region),
				Path:        fmt.Sprintf("market.zones[%d].region", i),
				ActualValue: z.Region,
			})
		}
		if (z.Lon == nil) != (z.Lat == nil) {
			r.AddError(Result{
				Level:   LevelSchema,
				Message: fmt.Sprintf("zone %d must set both lon and lat or neither", z.ID),
				Path:    fmt.Sprintf("market.zones[%d]", i),
			})
		}
		if z.Lon != nil && z.Lat != nil && (*z.Lon < -180 || *z.Lon > 180 || *z.Lat < -90 || *z.Lat > 90) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("zone %d centroid is not a lon/lat position", z.ID),
				Path:        fmt.Sprintf("market.zones[%d]", i),
				ActualValue: [2]float64{*z.Lon, *z.Lat},
			})
		}
	}

	for i, tt := range mk.TravelTimes {
		if !zones[tt.From] || !zones[tt.To] {
			r.AddWarning(Result{
				Level:   LevelSchema,
				Message: fmt.Sprintf("travel time %d -> %d references an unknown zone and is ignored", tt.From, tt.To),
				Path:    fmt.Sprintf("market.travel_times[%d]", i),
			})
		}
		if tt.Minutes < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("travel time %d -> %d is negative", tt.From, tt.To),
				Path:        fmt.Sprintf("market.travel_times[%d].minutes", i),
				ActualValue: tt.Minutes,
			})
		}
	}
}

func validateDwellings(mk *scenario.Market, r *Report) {
	zones := make(map[int]bool, len(mk.Zones))
	for _, z := range mk.Zones {
		zones[z.ID] = true
	}
	seen := make(map[int]bool, len(mk.Dwellings))
	for i, d := range mk.Dwellings {
		if seen[d.ID] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("duplicate dwelling id %d", d.ID),
				Path:        fmt.Sprintf("market.dwellings[%d].id", i),
				ActualValue: d.ID,
			})
		}
		seen[d.ID] = true
		if !zones[d.Zone] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("dwelling %d references unknown zone %d", d.ID, d.Zone),
				Path:        fmt.Sprintf("market.dwellings[%d].zone", i),
				ActualValue: d.Zone,
			})
		}
		if d.Price < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("dwelling %d has a negative price", d.ID),
				Path:        fmt.Sprintf("market.dwellings[%d].price", i),
				ActualValue: d.Price,
				Expected:    ">= 0",
			})
		}
		if d.Restriction < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("dwelling %d has a negative restriction", d.ID),
				Path:        fmt.Sprintf("market.dwellings[%d].restriction", i),
				ActualValue: d.Restriction,
				Expected:    "0 (unrestricted) or > 0",
			})
		}
	}
}

func validateHouseholds(s *scenario.Scenario, r *Report) {
	dwellings := make(map[int]bool, len(s.Market.Dwellings))
	for _, d := range s.Market.Dwellings {
		dwellings[d.ID] = true
	}
	scheme := market.DemographicScheme(s.Model.DemographicScheme)
	occupied := make(map[int]int)
	seen := make(map[int]bool, len(s.Market.Households))
	for i, h := range s.Market.Households {
		if seen[h.ID] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("duplicate household id %d", h.ID),
				Path:        fmt.Sprintf("market.households[%d].id", i),
				ActualValue: h.ID,
			})
		}
		seen[h.ID] = true
		if len(h.Persons) == 0 {
			r.AddError(Result{
				Level:   LevelSchema,
				Message: fmt.Sprintf("household %d has no persons", h.ID),
				Path:    fmt.Sprintf("market.households[%d].persons", i),
			})
		}
		if scheme.Valid() {
			if _, err := scheme.ParseGroup(h.Group); err != nil {
				r.AddError(Result{
					Level:       LevelSchema,
					Message:     fmt.Sprintf("household %d: %v", h.ID, err),
					Path:        fmt.Sprintf("market.households[%d].group", i),
					ActualValue: h.Group,
				})
			}
		}
		if h.Income < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("household %d has a negative income", h.ID),
				Path:        fmt.Sprintf("market.households[%d].income", i),
				ActualValue: h.Income,
				Expected:    ">= 0",
			})
		}
		if h.Dwelling == nil {
			continue
		}
		if !dwellings[*h.Dwelling] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("household %d references unknown dwelling %d", h.ID, *h.Dwelling),
				Path:        fmt.Sprintf("market.households[%d].dwelling", i),
				ActualValue: *h.Dwelling,
			})
			continue
		}
		if other, taken := occupied[*h.Dwelling]; taken {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("dwelling %d is claimed by households %d and %d", *h.Dwelling, other, h.ID),
				Path:        fmt.Sprintf("market.households[%d].dwelling", i),
				ActualValue: *h.Dwelling,
			})
			continue
		}
		occupied[*h.Dwelling] = h.ID
	}
}
