package relocation

import (
	"context"
	"testing"

	"github.com/msmobility/silo-sub013/pkg/accessibility"
	"github.com/msmobility/silo-sub013/pkg/affordability"
	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/msmobility/silo-sub013/pkg/scenario"
	"github.com/msmobility/silo-sub013/pkg/utility"
)

const testYear = 2030

// testMarket has three regions (1, 2, 3), each with one zone numbered
// region*10, all in MSA 1.
func testMarket(t *testing.T) *market.Store {
	t.Helper()
	var regions []*market.Region
	var zones []*market.Zone
	for r := 1; r <= 3; r++ {
		regions = append(regions, &market.Region{ID: market.RegionID(r), SchoolQuality: 0.6, CrimeRate: 0.2})
		zones = append(zones, &market.Zone{
			ID: market.ZoneID(r * 10), Region: market.RegionID(r), MSA: 1,
			SchoolQuality: 0.6, CrimeRate: 0.2,
		})
	}
	store, err := market.NewStore(regions, zones)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func addDwelling(t *testing.T, store *market.Store, id int, zone int, price float64) *market.Dwelling {
	t.Helper()
	d := &market.Dwelling{
		ID:       market.DwellingID(id),
		Zone:     market.ZoneID(zone),
		Quality:  3,
		Bedrooms: 2,
		Price:    price,
		Resident: market.Vacant,
	}
	if err := store.AddDwelling(d); err != nil {
		t.Fatalf("AddDwelling: %v", err)
	}
	return d
}

// addHousehold places a one-person household into an existing vacant
// dwelling, or leaves it unhoused when dwelling is market.NoDwelling.
func addHousehold(t *testing.T, store *market.Store, id int, income float64, dwelling market.DwellingID) *market.Household {
	t.Helper()
	h := newHousehold(id, income)
	if dwelling != market.NoDwelling {
		d, ok := store.Dwelling(dwelling)
		if !ok {
			t.Fatalf("unknown dwelling %d", dwelling)
		}
		if err := store.RemoveFromVacancyList(d.ID); err != nil {
			t.Fatalf("RemoveFromVacancyList: %v", err)
		}
		d.Resident = h.ID
		h.Dwelling = dwelling
	}
	if err := store.AddHousehold(h); err != nil {
		t.Fatalf("AddHousehold: %v", err)
	}
	return h
}

func newHousehold(id int, income float64) *market.Household {
	return &market.Household{
		ID:       market.HouseholdID(id),
		Income:   income,
		Group:    market.GroupWhite,
		Dwelling: market.NoDwelling,
		Persons:  []*market.Person{{ID: market.PersonID(id * 10), Age: 40, JobZone: market.NoZone}},
	}
}

func testConfig(t *testing.T) Config {
	t.Helper()
	types, err := market.NewTypeScheme([]float64{20000, 40000, 60000, 100000}, 4)
	if err != nil {
		t.Fatalf("NewTypeScheme: %v", err)
	}
	return Config{
		Types:         types,
		Scheme:        market.SchemeRace,
		StayShift:     9,
		StaySlope:     -10,
		DwellingScale: 5,
		RaceWeight:    0.2,
		MaxCandidates: 20,
		Normalization: NormalizePopulation,
		Subsidy:       affordability.Subsidy{},
		Commute:       accessibility.NewCommuteCurve(nil, 25),
		FixedMedians:  map[market.MSAID]float64{1: 50000},
		Seed:          1,
		Strict:        true,
	}
}

func testAccess(t *testing.T, store *market.Store) *accessibility.Matrix {
	t.Helper()
	m, err := accessibility.NewMatrix(store, 0)
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}
	for _, z := range store.Zones() {
		m.SetZoneAccessibility(z.ID, 50, 50)
	}
	m.DeriveRegionalAccessibility()
	return m
}

// newEngine wires the default coefficient set. regional overrides the
// regional strategy when non-nil.
func newEngine(t *testing.T, cfg Config, store *market.Store, regional utility.RegionalUtilityStrategy) *Engine {
	t.Helper()
	access := testAccess(t, store)
	model := scenario.Defaults().WithDefaults()
	ev, err := utility.FromModel(model, cfg.Types, access, store)
	if err != nil {
		t.Fatalf("FromModel: %v", err)
	}
	deps := Deps{Market: store, Access: access, Dwelling: ev.Dwelling, Regional: ev.Regional}
	if regional != nil {
		deps.Regional = regional
	}
	e, err := New(cfg, deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func prepare(t *testing.T, e *Engine) {
	t.Helper()
	if err := e.PrepareYear(context.Background(), testYear); err != nil {
		t.Fatalf("PrepareYear: %v", err)
	}
}

// fixedRegional scores regions from a fixed table regardless of household.
type fixedRegional map[market.RegionID]float64

func (f fixedRegional) Utility(in utility.RegionInputs) float64 {
	return f[in.Region.ID]
}

type recordingSink struct {
	reports []*YearReport
}

func (s *recordingSink) RecordYear(_ context.Context, r *YearReport) error {
	s.reports = append(s.reports, r)
	return nil
}
