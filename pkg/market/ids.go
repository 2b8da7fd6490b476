// Package market holds the in-memory housing market a relocation pass runs
// against: households and their persons, dwellings, the zone/region/MSA
// geography and the per-region vacancy lists.
package market

// HouseholdID identifies a household.
type HouseholdID int

// PersonID identifies a household member.
type PersonID int

// DwellingID identifies a dwelling.
type DwellingID int

// ZoneID identifies a traffic analysis zone.
type ZoneID int

// RegionID identifies a region, the unit of the first search stage.
type RegionID int

// MSAID identifies a metropolitan statistical area.
type MSAID int

// Sentinels for absent references.
const (
	Vacant     HouseholdID = -1 // resident of an empty dwelling
	NoDwelling DwellingID  = -1 // dwelling of an in-migrating household
	NoZone     ZoneID      = -1 // job zone of a person without a workplace
)
