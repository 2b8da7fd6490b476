package analytics

import (
	"math"
	"testing"

	"github.com/msmobility/silo-sub013/pkg/market"
)

// testStore builds three regions. Region 1 has one occupied and one vacant
// dwelling, region 2 two occupied dwellings and region 3 none at all. Zone
// 30 is the only zone of MSA 2.
func testStore(t *testing.T) *market.Store {
	t.Helper()
	s, err := market.NewStore(
		[]*market.Region{{ID: 1, Name: "north"}, {ID: 2, Name: "south"}, {ID: 3, Name: "east"}},
		[]*market.Zone{
			{ID: 10, Region: 1, MSA: 1},
			{ID: 20, Region: 2, MSA: 1},
			{ID: 30, Region: 3, MSA: 2},
		},
	)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	dwellings := []*market.Dwelling{
		{ID: 1, Zone: 10, Price: 1000, Resident: 1},
		{ID: 2, Zone: 10, Price: 500, Resident: market.Vacant},
		{ID: 3, Zone: 20, Price: 800, Resident: 2},
		{ID: 4, Zone: 20, Price: 1200, Resident: 4},
	}
	for _, d := range dwellings {
		if err := s.AddDwelling(d); err != nil {
			t.Fatalf("AddDwelling: %v", err)
		}
	}
	households := []*market.Household{
		{ID: 1, Income: 30000, Group: market.GroupWhite, Dwelling: 1},
		{ID: 2, Income: 50000, Group: market.GroupBlack, Dwelling: 3},
		{ID: 3, Income: 90000, Group: market.GroupWhite, Dwelling: market.NoDwelling},
		{ID: 4, Income: 70000, Group: market.GroupHispanic, Dwelling: 4},
	}
	for _, h := range households {
		if err := s.AddHousehold(h); err != nil {
			t.Fatalf("AddHousehold: %v", err)
		}
	}
	return s
}

func TestResolveSummary(t *testing.T) {
	summary, report := Resolve(2030, testStore(t), nil)

	if summary.Year != 2030 || summary.Households != 3 || summary.Dwellings != 4 || summary.Vacant != 1 {
		t.Errorf("totals = year %d, %d households, %d dwellings, %d vacant",
			summary.Year, summary.Households, summary.Dwellings, summary.Vacant)
	}

	r1, ok := summary.Region(1)
	if !ok {
		t.Fatal("region 1 missing from summary")
	}
	if r1.AvgPrice != 750 || r1.VacancyRate != 0.5 || r1.Households != 1 {
		t.Errorf("region 1 = %+v", r1)
	}
	r2, _ := summary.Region(2)
	if r2.AvgPrice != 1000 || r2.Vacant != 0 || r2.Households != 2 {
		t.Errorf("region 2 = %+v", r2)
	}
	r3, _ := summary.Region(3)
	if r3.Dwellings != 0 || r3.AvgPrice != 0 {
		t.Errorf("region 3 = %+v", r3)
	}
	if _, ok := summary.Region(9); ok {
		t.Error("unknown region resolved")
	}

	// The unhoused household does not count toward the median.
	if got, ok := summary.MedianIncome.Lookup(1); !ok || got != 50000 {
		t.Errorf("MSA 1 median = (%v, %v), want (50000, true)", got, ok)
	}
	if _, ok := summary.MedianIncome.Lookup(2); ok {
		t.Error("MSA 2 has no households and should have no median")
	}

	// One warning for the empty region, one for the MSA without a median.
	if len(report.Warnings) != 2 {
		t.Errorf("got %d warnings, want 2: %+v", len(report.Warnings), report.Warnings)
	}
	if !report.Valid {
		t.Error("warnings must not invalidate the report")
	}
}

func TestResolveFixedMedians(t *testing.T) {
	summary, report := Resolve(2030, testStore(t), map[market.MSAID]float64{1: 42000, 2: 40000})

	if got, _ := summary.MedianIncome.Lookup(1); got != 42000 {
		t.Errorf("fixed median overridden: %v", got)
	}
	if got, ok := summary.MedianIncome.Lookup(2); !ok || got != 40000 {
		t.Errorf("MSA 2 median = (%v, %v)", got, ok)
	}
	if len(report.Warnings) != 1 {
		t.Errorf("got %d warnings, want 1", len(report.Warnings))
	}
}

func TestResolveComposition(t *testing.T) {
	c, report := ResolveComposition(2030, market.SchemeRace, testStore(t))

	if c.Year != 2030 || c.Scheme != market.SchemeRace {
		t.Errorf("composition tagged %d/%s", c.Year, c.Scheme)
	}

	want := []float64{0, 0.5, 0.5, 0}
	got := c.RegionShares[2]
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("region 2 shares = %v, want %v", got, want)
		}
	}
	if c.RegionHouseholds[2] != 2 {
		t.Errorf("region 2 households = %d, want 2", c.RegionHouseholds[2])
	}

	if s, ok := c.ZoneShare(10, market.GroupWhite); !ok || s != 1 {
		t.Errorf("zone 10 white share = (%v, %v), want (1, true)", s, ok)
	}
	if s, ok := c.RegionShare(3, market.GroupWhite); !ok || s != 0 {
		t.Errorf("empty region share = (%v, %v), want (0, true)", s, ok)
	}
	if _, ok := c.RegionShare(1, market.GroupForeign); ok {
		t.Error("nationality group resolved under the race scheme")
	}

	if len(report.Info) != 1 {
		t.Errorf("got %d info results, want 1 for the empty region", len(report.Info))
	}
}

func TestResolveCompositionSkipsForeignGroups(t *testing.T) {
	s := testStore(t)
	_ = s.AddDwelling(&market.Dwelling{ID: 5, Zone: 30, Resident: 5})
	_ = s.AddHousehold(&market.Household{ID: 5, Group: market.GroupNative, Dwelling: 5})

	c, report := ResolveComposition(2030, market.SchemeRace, s)
	if len(report.Warnings) != 1 {
		t.Errorf("got %d warnings, want 1", len(report.Warnings))
	}
	if c.RegionHouseholds[3] != 0 {
		t.Errorf("household outside the scheme was counted")
	}
}

func TestResolveCompositionSharesSumToOne(t *testing.T) {
	c, _ := ResolveComposition(2030, market.SchemeRace, testStore(t))
	for id, shares := range c.RegionShares {
		if c.RegionHouseholds[id] == 0 {
			continue
		}
		sum := 0.0
		for _, v := range shares {
			sum += v
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("region %d shares sum to %v", id, sum)
		}
	}
}
