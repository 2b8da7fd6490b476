package utility

import (
	"testing"

	"github.com/msmobility/silo-sub013/pkg/market"
)

type stubAccess struct {
	auto     map[market.ZoneID]float64
	transit  map[market.ZoneID]float64
	regional map[market.RegionID]float64
}

func (s stubAccess) AutoAccessibility(z market.ZoneID) (float64, bool) {
	v, ok := s.auto[z]
	return v, ok
}

func (s stubAccess) TransitAccessibility(z market.ZoneID) (float64, bool) {
	v, ok := s.transit[z]
	return v, ok
}

func (s stubAccess) RegionalAccessibility(r market.RegionID) (float64, bool) {
	v, ok := s.regional[r]
	return v, ok
}

func (s stubAccess) MinTravelTimeToRegion(market.ZoneID, market.RegionID) (float64, bool) {
	return 0, false
}

func testAccess() stubAccess {
	return stubAccess{
		auto:     map[market.ZoneID]float64{10: 80},
		transit:  map[market.ZoneID]float64{10: 20},
		regional: map[market.RegionID]float64{1: 60},
	}
}

// testStore has regions 1 to 3 with one zone each (10, 20, 30). Region 1
// holds one white household, region 2 two black households and region 3 no
// dwellings.
func testStore(t *testing.T) *market.Store {
	t.Helper()
	s, err := market.NewStore(
		[]*market.Region{{ID: 1}, {ID: 2}, {ID: 3}},
		[]*market.Zone{
			{ID: 10, Region: 1, MSA: 1, SchoolQuality: 0.6, CrimeRate: 0.1},
			{ID: 20, Region: 2, MSA: 1},
			{ID: 30, Region: 3, MSA: 1},
		},
	)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	for _, d := range []*market.Dwelling{
		{ID: 1, Zone: 10, Price: 600, Resident: 1},
		{ID: 2, Zone: 20, Price: 900, Resident: 2},
		{ID: 3, Zone: 20, Price: 700, Resident: 3},
	} {
		if err := s.AddDwelling(d); err != nil {
			t.Fatalf("AddDwelling: %v", err)
		}
	}
	for _, h := range []*market.Household{
		{ID: 1, Income: 40000, Group: market.GroupWhite, Dwelling: 1},
		{ID: 2, Income: 40000, Group: market.GroupBlack, Dwelling: 2},
		{ID: 3, Income: 40000, Group: market.GroupBlack, Dwelling: 3},
	} {
		if err := s.AddHousehold(h); err != nil {
			t.Fatalf("AddHousehold: %v", err)
		}
	}
	return s
}
