package market

import (
	"fmt"
	"sort"
)

// HouseholdStore is the demographic side of the market.
type HouseholdStore interface {
	Households() []*Household
	Household(id HouseholdID) (*Household, bool)
}

// DwellingStore is the real-estate side of the market, including the
// per-region vacancy lists.
type DwellingStore interface {
	Dwellings() []*Dwelling
	Dwelling(id DwellingID) (*Dwelling, bool)
	VacantDwellings(region RegionID) []DwellingID
	AddToVacancyList(d *Dwelling) error
	RemoveFromVacancyList(id DwellingID) error
}

// GeographyStore resolves zones, regions and MSAs.
type GeographyStore interface {
	Regions() []*Region
	Region(id RegionID) (*Region, bool)
	Zones() []*Zone
	Zone(id ZoneID) (*Zone, bool)
	RegionOfZone(zone ZoneID) (RegionID, bool)
}

// Reader is the read side of a whole market.
type Reader interface {
	HouseholdStore
	DwellingStore
	GeographyStore
}

// Store is the in-memory market. It is not safe for concurrent mutation;
// relocation mutates it from a single goroutine.
type Store struct {
	households map[HouseholdID]*Household
	dwellings  map[DwellingID]*Dwelling
	zones      map[ZoneID]*Zone
	regions    map[RegionID]*Region

	householdOrder []HouseholdID
	dwellingOrder  []DwellingID
	zoneOrder      []ZoneID
	regionOrder    []RegionID

	vacancies map[RegionID]*VacancyList
}

var (
	_ HouseholdStore = (*Store)(nil)
	_ DwellingStore  = (*Store)(nil)
	_ GeographyStore = (*Store)(nil)
	_ Reader         = (*Store)(nil)
)

// NewStore creates a store over the given geography. Every zone must
// reference a listed region; region zone lists are rebuilt from the zones.
func NewStore(regions []*Region, zones []*Zone) (*Store, error) {
	s := &Store{
		households: make(map[HouseholdID]*Household),
		dwellings:  make(map[DwellingID]*Dwelling),
		zones:      make(map[ZoneID]*Zone, len(zones)),
		regions:    make(map[RegionID]*Region, len(regions)),
		vacancies:  make(map[RegionID]*VacancyList, len(regions)),
	}
	for _, r := range regions {
		if _, dup := s.regions[r.ID]; dup {
			return nil, fmt.Errorf("duplicate region %d", r.ID)
		}
		r.Zones = nil
		s.regions[r.ID] = r
		s.regionOrder = append(s.regionOrder, r.ID)
		s.vacancies[r.ID] = NewVacancyList()
	}
	for _, z := range zones {
		if _, dup := s.zones[z.ID]; dup {
			return nil, fmt.Errorf("duplicate zone %d", z.ID)
		}
		r, ok := s.regions[z.Region]
		if !ok {
			return nil, fmt.Errorf("zone %d references unknown region %d", z.ID, z.Region)
		}
		r.Zones = append(r.Zones, z.ID)
		s.zones[z.ID] = z
		s.zoneOrder = append(s.zoneOrder, z.ID)
	}
	sortIDs(s.regionOrder)
	sortIDs(s.zoneOrder)
	return s, nil
}

// AddDwelling registers a dwelling. Vacant dwellings join their region's
// vacancy list.
func (s *Store) AddDwelling(d *Dwelling) error {
	if _, dup := s.dwellings[d.ID]; dup {
		return fmt.Errorf("duplicate dwelling %d", d.ID)
	}
	if _, ok := s.zones[d.Zone]; !ok {
		return fmt.Errorf("dwelling %d references unknown zone %d", d.ID, d.Zone)
	}
	s.dwellings[d.ID] = d
	s.dwellingOrder = insertSorted(s.dwellingOrder, d.ID)
	if d.IsVacant() {
		return s.AddToVacancyList(d)
	}
	return nil
}

// AddHousehold registers a household. A household that references a
// dwelling must match that dwelling's resident.
func (s *Store) AddHousehold(h *Household) error {
	if _, dup := s.households[h.ID]; dup {
		return fmt.Errorf("duplicate household %d", h.ID)
	}
	if h.Dwelling != NoDwelling {
		d, ok := s.dwellings[h.Dwelling]
		if !ok {
			return fmt.Errorf("household %d references unknown dwelling %d", h.ID, h.Dwelling)
		}
		if d.Resident != h.ID {
			return fmt.Errorf("household %d claims dwelling %d occupied by %d", h.ID, d.ID, d.Resident)
		}
	}
	s.households[h.ID] = h
	s.householdOrder = insertSorted(s.householdOrder, h.ID)
	return nil
}

// Households returns all households in ascending id order.
func (s *Store) Households() []*Household {
	out := make([]*Household, 0, len(s.householdOrder))
	for _, id := range s.householdOrder {
		out = append(out, s.households[id])
	}
	return out
}

// Household looks up a household.
func (s *Store) Household(id HouseholdID) (*Household, bool) {
	h, ok := s.households[id]
	return h, ok
}

// Dwellings returns all dwellings in ascending id order.
func (s *Store) Dwellings() []*Dwelling {
	out := make([]*Dwelling, 0, len(s.dwellingOrder))
	for _, id := range s.dwellingOrder {
		out = append(out, s.dwellings[id])
	}
	return out
}

// Dwelling looks up a dwelling.
func (s *Store) Dwelling(id DwellingID) (*Dwelling, bool) {
	d, ok := s.dwellings[id]
	return d, ok
}

// VacantDwellings returns a copy of the region's vacancy list.
func (s *Store) VacantDwellings(region RegionID) []DwellingID {
	v, ok := s.vacancies[region]
	if !ok {
		return nil
	}
	return v.IDs()
}

// VacancyCount returns the length of the region's vacancy list.
func (s *Store) VacancyCount(region RegionID) int {
	if v, ok := s.vacancies[region]; ok {
		return v.Len()
	}
	return 0
}

// IsListedVacant reports whether the dwelling is on its region's vacancy list.
func (s *Store) IsListedVacant(d *Dwelling) bool {
	region, ok := s.RegionOfZone(d.Zone)
	if !ok {
		return false
	}
	return s.vacancies[region].Contains(d.ID)
}

// AddToVacancyList lists d in its region.
func (s *Store) AddToVacancyList(d *Dwelling) error {
	region, ok := s.RegionOfZone(d.Zone)
	if !ok {
		return fmt.Errorf("dwelling %d: zone %d has no region", d.ID, d.Zone)
	}
	if !s.vacancies[region].Add(d.ID) {
		return fmt.Errorf("dwelling %d already listed vacant in region %d", d.ID, region)
	}
	return nil
}

// RemoveFromVacancyList unlists the dwelling.
func (s *Store) RemoveFromVacancyList(id DwellingID) error {
	d, ok := s.dwellings[id]
	if !ok {
		return fmt.Errorf("unknown dwelling %d", id)
	}
	region, ok := s.RegionOfZone(d.Zone)
	if !ok {
		return fmt.Errorf("dwelling %d: zone %d has no region", d.ID, d.Zone)
	}
	if !s.vacancies[region].Remove(id) {
		return fmt.Errorf("dwelling %d is not listed vacant in region %d", id, region)
	}
	return nil
}

// Regions returns all regions in ascending id order.
func (s *Store) Regions() []*Region {
	out := make([]*Region, 0, len(s.regionOrder))
	for _, id := range s.regionOrder {
		out = append(out, s.regions[id])
	}
	return out
}

// Region looks up a region.
func (s *Store) Region(id RegionID) (*Region, bool) {
	r, ok := s.regions[id]
	return r, ok
}

// Zones returns all zones in ascending id order.
func (s *Store) Zones() []*Zone {
	out := make([]*Zone, 0, len(s.zoneOrder))
	for _, id := range s.zoneOrder {
		out = append(out, s.zones[id])
	}
	return out
}

// Zone looks up a zone.
func (s *Store) Zone(id ZoneID) (*Zone, bool) {
	z, ok := s.zones[id]
	return z, ok
}

// RegionOfZone resolves the region a zone belongs to.
func (s *Store) RegionOfZone(zone ZoneID) (RegionID, bool) {
	z, ok := s.zones[zone]
	if !ok {
		return 0, false
	}
	return z.Region, true
}

// RegionOfDwelling resolves the region a dwelling belongs to.
func (s *Store) RegionOfDwelling(d *Dwelling) (RegionID, bool) {
	return s.RegionOfZone(d.Zone)
}

type ordered interface {
	~int
}

func sortIDs[T ordered](ids []T) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func insertSorted[T ordered](ids []T, id T) []T {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	ids = append(ids, id)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}
