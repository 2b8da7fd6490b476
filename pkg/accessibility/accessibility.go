// Package accessibility supplies the zonal and regional accessibility scores
// and zone-to-region travel times the relocation model consumes.
package accessibility

import (
	"fmt"
	"sync"

	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/quadtree"
)

// Provider is the read interface of the transport subsystem. Every lookup
// reports whether the value exists; callers treat missing values as a
// zero-contribution term.
type Provider interface {
	AutoAccessibility(zone market.ZoneID) (float64, bool)
	TransitAccessibility(zone market.ZoneID) (float64, bool)
	RegionalAccessibility(region market.RegionID) (float64, bool)
	MinTravelTimeToRegion(zone market.ZoneID, region market.RegionID) (float64, bool)
}

type zonePair struct {
	from, to market.ZoneID
}

type zoneRegion struct {
	zone   market.ZoneID
	region market.RegionID
}

// Matrix is an in-memory Provider backed by a zone-to-zone travel time skim.
// Zone pairs missing from the skim fall back to great-circle distance between
// centroids at FallbackSpeedKmh when both zones are located.
type Matrix struct {
	geography market.GeographyStore

	auto     map[market.ZoneID]float64
	transit  map[market.ZoneID]float64
	regional map[market.RegionID]float64
	skim     map[zonePair]float64

	fallbackSpeedKmh float64
	located          *quadtree.Quadtree

	mu          sync.Mutex
	minToRegion map[zoneRegion]travelTime
}

type travelTime struct {
	minutes float64
	ok      bool
}

// NewMatrix returns an empty matrix over the given geography. Located zones
// must have a lon/lat centroid.
func NewMatrix(geography market.GeographyStore, fallbackSpeedKmh float64) (*Matrix, error) {
	m := &Matrix{
		geography:        geography,
		auto:             make(map[market.ZoneID]float64),
		transit:          make(map[market.ZoneID]float64),
		regional:         make(map[market.RegionID]float64),
		skim:             make(map[zonePair]float64),
		fallbackSpeedKmh: fallbackSpeedKmh,
		minToRegion:      make(map[zoneRegion]travelTime),
	}

	bound := orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}
	m.located = quadtree.New(bound)
	for _, z := range geography.Zones() {
		if !z.Located {
			continue
		}
		if err := m.located.Add(z); err != nil {
			return nil, fmt.Errorf("zone %d centroid %v: %w", z.ID, z.Centroid, err)
		}
	}
	return m, nil
}

// SetZoneAccessibility stores auto and transit accessibility (0-100) of a zone.
func (m *Matrix) SetZoneAccessibility(zone market.ZoneID, auto, transit float64) {
	m.auto[zone] = auto
	m.transit[zone] = transit
}

// SetRegionalAccessibility stores the accessibility (0-100) of a region.
func (m *Matrix) SetRegionalAccessibility(region market.RegionID, value float64) {
	m.regional[region] = value
}

// SetTravelTime stores the travel time in minutes between two zones.
func (m *Matrix) SetTravelTime(from, to market.ZoneID, minutes float64) {
	m.skim[zonePair{from, to}] = minutes
	m.mu.Lock()
	clear(m.minToRegion)
	m.mu.Unlock()
}

// DeriveRegionalAccessibility fills regions without an explicit value with
// the mean auto accessibility of their zones.
func (m *Matrix) DeriveRegionalAccessibility() {
	for _, r := range m.geography.Regions() {
		if _, ok := m.regional[r.ID]; ok {
			continue
		}
		sum, n := 0.0, 0
		for _, zone := range r.Zones {
			if v, ok := m.auto[zone]; ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			m.regional[r.ID] = sum / float64(n)
		}
	}
}

func (m *Matrix) AutoAccessibility(zone market.ZoneID) (float64, bool) {
	v, ok := m.auto[zone]
	return v, ok
}

func (m *Matrix) TransitAccessibility(zone market.ZoneID) (float64, bool) {
	v, ok := m.transit[zone]
	return v, ok
}

func (m *Matrix) RegionalAccessibility(region market.RegionID) (float64, bool) {
	v, ok := m.regional[region]
	return v, ok
}

// MinTravelTimeToRegion returns the shortest travel time from zone to any
// zone of region. Results are memoized.
func (m *Matrix) MinTravelTimeToRegion(zone market.ZoneID, region market.RegionID) (float64, bool) {
	key := zoneRegion{zone, region}
	m.mu.Lock()
	cached, hit := m.minToRegion[key]
	m.mu.Unlock()
	if hit {
		return cached.minutes, cached.ok
	}

	tt := m.computeMinTravelTime(zone, region)
	m.mu.Lock()
	m.minToRegion[key] = tt
	m.mu.Unlock()
	return tt.minutes, tt.ok
}

func (m *Matrix) computeMinTravelTime(zone market.ZoneID, region market.RegionID) travelTime {
	r, ok := m.geography.Region(region)
	if !ok {
		return travelTime{}
	}

	best := travelTime{}
	for _, to := range r.Zones {
		minutes, ok := m.skim[zonePair{zone, to}]
		if !ok {
			continue
		}
		if !best.ok || minutes < best.minutes {
			best = travelTime{minutes: minutes, ok: true}
		}
	}
	if best.ok {
		return best
	}
	return m.estimateTravelTime(zone, region)
}

// estimateTravelTime converts the distance from the zone centroid to the
// nearest located zone of the region into minutes.
func (m *Matrix) estimateTravelTime(zone market.ZoneID, region market.RegionID) travelTime {
	if m.fallbackSpeedKmh <= 0 {
		return travelTime{}
	}
	from, ok := m.geography.Zone(zone)
	if !ok || !from.Located {
		return travelTime{}
	}
	if from.Region == region {
		return travelTime{minutes: 0, ok: true}
	}

	nearest := m.located.Matching(from.Centroid, func(p orb.Pointer) bool {
		return p.(*market.Zone).Region == region
	})
	if nearest == nil {
		return travelTime{}
	}
	meters := geo.Distance(from.Centroid, nearest.Point())
	return travelTime{minutes: meters / 1000 / m.fallbackSpeedKmh * 60, ok: true}
}
