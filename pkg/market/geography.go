package market

import "github.com/paulmach/orb"

// Zone is the finest spatial unit. Dwellings and workplaces sit in zones.
type Zone struct {
	ID            ZoneID    `json:"id"`
	Region        RegionID  `json:"region"`
	MSA           MSAID     `json:"msa"`
	Centroid      orb.Point `json:"centroid"`
	Located       bool      `json:"located"` // Centroid is meaningful
	SchoolQuality float64   `json:"school_quality"`
	CrimeRate     float64   `json:"crime_rate"`
}

// Point lets zones live in an orb quadtree.
func (z *Zone) Point() orb.Point {
	return z.Centroid
}

// Region is a group of zones; the first stage of the dwelling search draws a
// region.
type Region struct {
	ID            RegionID `json:"id"`
	Name          string   `json:"name"`
	SchoolQuality float64  `json:"school_quality"`
	CrimeRate     float64  `json:"crime_rate"`
	Zones         []ZoneID `json:"zones"`
}
