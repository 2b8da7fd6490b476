package market

import "fmt"

// DemographicScheme selects how households are grouped for composition
// shares: by race (US geographies) or by nationality (German geographies).
type DemographicScheme string

const (
	SchemeRace        DemographicScheme = "race"
	SchemeNationality DemographicScheme = "nationality"
)

// DemographicGroup is a household's group within its scheme.
type DemographicGroup uint8

const (
	GroupWhite DemographicGroup = iota
	GroupBlack
	GroupHispanic
	GroupOther
	GroupNative
	GroupForeign
)

var groupNames = map[DemographicGroup]string{
	GroupWhite:    "white",
	GroupBlack:    "black",
	GroupHispanic: "hispanic",
	GroupOther:    "other",
	GroupNative:   "native",
	GroupForeign:  "foreign",
}

func (g DemographicGroup) String() string {
	if n, ok := groupNames[g]; ok {
		return n
	}
	return fmt.Sprintf("group(%d)", uint8(g))
}

var schemeGroups = map[DemographicScheme][]DemographicGroup{
	SchemeRace:        {GroupWhite, GroupBlack, GroupHispanic, GroupOther},
	SchemeNationality: {GroupNative, GroupForeign},
}

// Valid reports whether s is a known scheme.
func (s DemographicScheme) Valid() bool {
	_, ok := schemeGroups[s]
	return ok
}

// Groups returns the groups of the scheme in table order.
func (s DemographicScheme) Groups() []DemographicGroup {
	return schemeGroups[s]
}

// Index returns the table position of g within the scheme, or -1 when g does
// not belong to it.
func (s DemographicScheme) Index(g DemographicGroup) int {
	for i, candidate := range schemeGroups[s] {
		if candidate == g {
			return i
		}
	}
	return -1
}

// ParseGroup resolves a group name within the scheme.
func (s DemographicScheme) ParseGroup(name string) (DemographicGroup, error) {
	for _, g := range schemeGroups[s] {
		if groupNames[g] == name {
			return g, nil
		}
	}
	return 0, fmt.Errorf("group %q is not part of the %s scheme", name, s)
}
