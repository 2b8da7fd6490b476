package scenario

import (
	"fmt"

	"github.com/msmobility/silo-sub013/pkg/accessibility"
	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/paulmach/orb"
)

// BuildMarket turns the market section into an in-memory store. Dwellings
// referenced by a household become occupied; all others start vacant.
func BuildMarket(s *Scenario) (*market.Store, error) {
	scheme := market.DemographicScheme(s.Model.DemographicScheme)
	if !scheme.Valid() {
		return nil, fmt.Errorf("unknown demographic scheme %q", s.Model.DemographicScheme)
	}

	regions := make([]*market.Region, 0, len(s.Market.Regions))
	for _, r := range s.Market.Regions {
		regions = append(regions, &market.Region{
			ID:            market.RegionID(r.ID),
			Name:          r.Name,
			SchoolQuality: r.SchoolQuality,
			CrimeRate:     r.CrimeRate,
		})
	}
	zones := make([]*market.Zone, 0, len(s.Market.Zones))
	for _, z := range s.Market.Zones {
		zone := &market.Zone{
			ID:            market.ZoneID(z.ID),
			Region:        market.RegionID(z.Region),
			MSA:           market.MSAID(z.MSA),
			SchoolQuality: z.SchoolQuality,
			CrimeRate:     z.CrimeRate,
		}
		if z.Lon != nil && z.Lat != nil {
			zone.Centroid = orb.Point{*z.Lon, *z.Lat}
			zone.Located = true
		}
		zones = append(zones, zone)
	}

	store, err := market.NewStore(regions, zones)
	if err != nil {
		return nil, fmt.Errorf("building geography: %w", err)
	}

	residents := make(map[int]int, len(s.Market.Households))
	for _, h := range s.Market.Households {
		if h.Dwelling != nil {
			residents[*h.Dwelling] = h.ID
		}
	}

	for _, d := range s.Market.Dwellings {
		resident := market.Vacant
		if id, ok := residents[d.ID]; ok {
			resident = market.HouseholdID(id)
		}
		err := store.AddDwelling(&market.Dwelling{
			ID:          market.DwellingID(d.ID),
			Zone:        market.ZoneID(d.Zone),
			Quality:     d.Quality,
			Bedrooms:    d.Bedrooms,
			YearBuilt:   d.YearBuilt,
			Price:       d.Price,
			Restriction: d.Restriction,
			Resident:    resident,
		})
		if err != nil {
			return nil, fmt.Errorf("building dwellings: %w", err)
		}
	}

	for _, h := range s.Market.Households {
		group, err := scheme.ParseGroup(h.Group)
		if err != nil {
			return nil, fmt.Errorf("household %d: %w", h.ID, err)
		}
		hh := &market.Household{
			ID:       market.HouseholdID(h.ID),
			Income:   h.Income,
			Group:    group,
			Dwelling: market.NoDwelling,
		}
		if h.Dwelling != nil {
			hh.Dwelling = market.DwellingID(*h.Dwelling)
		}
		for _, p := range h.Persons {
			person := &market.Person{
				ID:       market.PersonID(p.ID),
				Age:      p.Age,
				Employed: p.Employed,
				JobZone:  market.NoZone,
			}
			if p.JobZone != nil {
				person.JobZone = market.ZoneID(*p.JobZone)
			}
			hh.Persons = append(hh.Persons, person)
		}
		if err := store.AddHousehold(hh); err != nil {
			return nil, fmt.Errorf("building households: %w", err)
		}
	}

	if err := store.CheckVacancyInvariant(); err != nil {
		return nil, err
	}
	return store, nil
}

// BuildAccessibility builds the accessibility matrix of a scenario over an
// already built store.
func BuildAccessibility(s *Scenario, store *market.Store) (*accessibility.Matrix, error) {
	m, err := accessibility.NewMatrix(store, s.Model.Commute.FallbackSpeedKmh)
	if err != nil {
		return nil, err
	}
	for _, z := range s.Market.Zones {
		m.SetZoneAccessibility(market.ZoneID(z.ID), z.AutoAccess, z.TransitAccess)
	}
	for _, r := range s.Market.Regions {
		if r.Accessibility > 0 {
			m.SetRegionalAccessibility(market.RegionID(r.ID), r.Accessibility)
		}
	}
	m.DeriveRegionalAccessibility()
	for _, tt := range s.Market.TravelTimes {
		m.SetTravelTime(market.ZoneID(tt.From), market.ZoneID(tt.To), tt.Minutes)
	}
	return m, nil
}

// TypeScheme returns the household type scheme of the model.
func (m Model) TypeScheme() (market.TypeScheme, error) {
	return market.NewTypeScheme(m.HouseholdTypes.IncomeBounds, m.HouseholdTypes.MaxSize)
}

// CommuteCurve returns the work-distance frequency curve of the model.
func (m Model) CommuteCurve() accessibility.CommuteCurve {
	return accessibility.NewCommuteCurve(m.Commute.Frequencies, m.Commute.DecayMinutes)
}
