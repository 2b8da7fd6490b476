package market

import (
	"errors"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(
		[]*Region{{ID: 1, Name: "north"}, {ID: 2, Name: "south"}},
		[]*Zone{{ID: 10, Region: 1, MSA: 1}, {ID: 11, Region: 1, MSA: 1}, {ID: 20, Region: 2, MSA: 1}},
	)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestNewStoreRejectsBadGeography(t *testing.T) {
	if _, err := NewStore([]*Region{{ID: 1}, {ID: 1}}, nil); err == nil {
		t.Error("expected error for duplicate region")
	}
	if _, err := NewStore([]*Region{{ID: 1}}, []*Zone{{ID: 5, Region: 2}}); err == nil {
		t.Error("expected error for zone of unknown region")
	}
}

func TestNewStoreRebuildsRegionZones(t *testing.T) {
	s := testStore(t)
	r, _ := s.Region(1)
	if len(r.Zones) != 2 {
		t.Errorf("region 1 has %d zones, want 2", len(r.Zones))
	}
	if region, ok := s.RegionOfZone(20); !ok || region != 2 {
		t.Errorf("RegionOfZone(20) = (%d, %v)", region, ok)
	}
}

func TestAddDwellingListsVacant(t *testing.T) {
	s := testStore(t)
	if err := s.AddDwelling(&Dwelling{ID: 2, Zone: 10, Resident: Vacant}); err != nil {
		t.Fatalf("AddDwelling: %v", err)
	}
	if err := s.AddDwelling(&Dwelling{ID: 1, Zone: 20, Resident: 7}); err != nil {
		t.Fatalf("AddDwelling: %v", err)
	}
	if got := s.VacantDwellings(1); len(got) != 1 || got[0] != 2 {
		t.Errorf("region 1 vacancies = %v, want [2]", got)
	}
	if s.VacancyCount(2) != 0 {
		t.Errorf("occupied dwelling listed vacant")
	}
	ds := s.Dwellings()
	if ds[0].ID != 1 || ds[1].ID != 2 {
		t.Errorf("Dwellings not in ascending order: %d, %d", ds[0].ID, ds[1].ID)
	}
	if err := s.AddDwelling(&Dwelling{ID: 2, Zone: 10, Resident: Vacant}); err == nil {
		t.Error("expected error for duplicate dwelling")
	}
	if err := s.AddDwelling(&Dwelling{ID: 3, Zone: 99, Resident: Vacant}); err == nil {
		t.Error("expected error for unknown zone")
	}
}

func TestAddHouseholdChecksResident(t *testing.T) {
	s := testStore(t)
	_ = s.AddDwelling(&Dwelling{ID: 1, Zone: 10, Resident: 5})
	if err := s.AddHousehold(&Household{ID: 6, Dwelling: 1}); err == nil {
		t.Error("expected error when dwelling has another resident")
	}
	if err := s.AddHousehold(&Household{ID: 5, Dwelling: 1}); err != nil {
		t.Errorf("AddHousehold: %v", err)
	}
	if err := s.AddHousehold(&Household{ID: 9, Dwelling: NoDwelling}); err != nil {
		t.Errorf("AddHousehold unhoused: %v", err)
	}
}

func TestVacancyInvariantDetectsMismatch(t *testing.T) {
	s := testStore(t)
	d := &Dwelling{ID: 1, Zone: 10, Resident: Vacant}
	_ = s.AddDwelling(d)
	if err := s.CheckVacancyInvariant(); err != nil {
		t.Fatalf("fresh store: %v", err)
	}

	d.Resident = 3 // occupied but still listed
	err := s.CheckVacancyInvariant()
	var ie *InvariantError
	if !errors.As(err, &ie) || len(ie.Violations) != 1 {
		t.Fatalf("CheckVacancyInvariant = %v, want one violation", err)
	}
	if err := s.CheckDwelling(d); err == nil {
		t.Error("CheckDwelling missed the mismatch")
	}

	if err := s.RemoveFromVacancyList(1); err != nil {
		t.Fatalf("RemoveFromVacancyList: %v", err)
	}
	if err := s.CheckVacancyInvariant(); err != nil {
		t.Errorf("after unlisting: %v", err)
	}
	if err := s.RemoveFromVacancyList(1); err == nil {
		t.Error("expected error removing an unlisted dwelling")
	}
	if s.OccupiedCount() != 1 {
		t.Errorf("OccupiedCount = %d, want 1", s.OccupiedCount())
	}
}

func TestVacancyListSwapRemove(t *testing.T) {
	v := NewVacancyList()
	for _, id := range []DwellingID{1, 2, 3, 4} {
		if !v.Add(id) {
			t.Fatalf("Add(%d) reported duplicate", id)
		}
	}
	if v.Add(2) {
		t.Error("Add accepted a duplicate")
	}
	if !v.Remove(2) || v.Contains(2) {
		t.Error("Remove(2) failed")
	}
	if v.Remove(2) {
		t.Error("Remove(2) succeeded twice")
	}
	if v.Len() != 3 {
		t.Errorf("Len = %d, want 3", v.Len())
	}
	for _, id := range []DwellingID{1, 3, 4} {
		if !v.Contains(id) {
			t.Errorf("lost dwelling %d", id)
		}
	}
	ids := v.IDs()
	ids[0] = 99
	if v.Contains(99) {
		t.Error("IDs returned the internal slice")
	}
}

func TestTypeScheme(t *testing.T) {
	s, err := NewTypeScheme([]float64{20000, 40000, 60000, 100000}, 4)
	if err != nil {
		t.Fatalf("NewTypeScheme: %v", err)
	}
	if s.NumTypes() != 20 {
		t.Errorf("NumTypes = %d, want 20", s.NumTypes())
	}

	tests := []struct {
		size        int
		income      float64
		sizeBracket int
		incBracket  int
	}{
		{1, 10000, 0, 0},
		{1, 20000, 0, 1},
		{2, 40000, 1, 2},
		{4, 99999, 3, 3},
		{7, 250000, 3, 4},
		{0, 0, 0, 0},
	}
	for _, tt := range tests {
		ht := s.Type(tt.size, tt.income)
		sb, ib := s.Brackets(ht)
		if sb != tt.sizeBracket || ib != tt.incBracket {
			t.Errorf("Type(%d, %.0f) -> brackets (%d, %d), want (%d, %d)",
				tt.size, tt.income, sb, ib, tt.sizeBracket, tt.incBracket)
		}
	}

	if got := s.BracketMidIncome(2); got != 50000 {
		t.Errorf("BracketMidIncome(2) = %v, want 50000", got)
	}
	if got := s.BracketMidIncome(4); got != 150000 {
		t.Errorf("BracketMidIncome(4) = %v, want 150000", got)
	}

	if _, err := NewTypeScheme([]float64{5, 5}, 4); err == nil {
		t.Error("expected error for non-ascending bounds")
	}
	if _, err := NewTypeScheme(nil, 0); err == nil {
		t.Error("expected error for zero max size")
	}
}

func TestDemographicScheme(t *testing.T) {
	if !SchemeRace.Valid() || DemographicScheme("caste").Valid() {
		t.Error("Valid misclassified a scheme")
	}
	g, err := SchemeNationality.ParseGroup("foreign")
	if err != nil || g != GroupForeign {
		t.Errorf("ParseGroup(foreign) = (%v, %v)", g, err)
	}
	if _, err := SchemeNationality.ParseGroup("white"); err == nil {
		t.Error("race group accepted by the nationality scheme")
	}
	if SchemeRace.Index(GroupHispanic) != 2 || SchemeRace.Index(GroupNative) != -1 {
		t.Error("Index returned the wrong position")
	}
}

func TestHouseholdJobZones(t *testing.T) {
	h := &Household{Income: 36000, Persons: []*Person{
		{ID: 1, Employed: true, JobZone: 10},
		{ID: 2, Employed: true, JobZone: NoZone},
		{ID: 3, Employed: false, JobZone: 11},
	}}
	zones := h.JobZones()
	if len(zones) != 1 || zones[0] != 10 {
		t.Errorf("JobZones = %v, want [10]", zones)
	}
	if h.MonthlyIncome() != 3000 {
		t.Errorf("MonthlyIncome = %v, want 3000", h.MonthlyIncome())
	}
}
