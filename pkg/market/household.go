package market

// Person is a household member. Only employment matters to relocation.
type Person struct {
	ID       PersonID `json:"id"`
	Age      int      `json:"age"`
	Employed bool     `json:"employed"`
	JobZone  ZoneID   `json:"job_zone"`
}

// Worker reports whether the person commutes to a known workplace zone.
func (p *Person) Worker() bool {
	return p.Employed && p.JobZone != NoZone
}

// Household is a relocation agent.
type Household struct {
	ID       HouseholdID      `json:"id"`
	Income   float64          `json:"income"` // annual
	Group    DemographicGroup `json:"group"`
	Dwelling DwellingID       `json:"dwelling"`
	Persons  []*Person        `json:"persons"`
}

// Size returns the number of household members.
func (h *Household) Size() int {
	return len(h.Persons)
}

// JobZones returns the workplace zones of all working members.
func (h *Household) JobZones() []ZoneID {
	var zones []ZoneID
	for _, p := range h.Persons {
		if p.Worker() {
			zones = append(zones, p.JobZone)
		}
	}
	return zones
}

// MonthlyIncome returns income / 12.
func (h *Household) MonthlyIncome() float64 {
	return h.Income / 12
}
