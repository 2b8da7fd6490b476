package market

// Dwelling is a housing unit.
type Dwelling struct {
	ID          DwellingID  `json:"id"`
	Zone        ZoneID      `json:"zone"`
	Quality     int         `json:"quality"`
	Bedrooms    int         `json:"bedrooms"`
	YearBuilt   int         `json:"year_built"`
	Price       float64     `json:"price"`       // monthly
	Restriction float64     `json:"restriction"` // share of MSA median income; 0 = unrestricted
	Resident    HouseholdID `json:"resident"`

	// UtilOfResident caches the dwelling's utility for its current resident.
	UtilOfResident float64 `json:"util_of_resident"`
	// VacantUtilities caches the utility per HouseholdType; valid only while
	// the dwelling is vacant.
	VacantUtilities []float64 `json:"-"`
}

// IsVacant reports whether nobody lives in the dwelling.
func (d *Dwelling) IsVacant() bool {
	return d.Resident == Vacant
}

// Restricted reports whether the dwelling carries an income ceiling.
func (d *Dwelling) Restricted() bool {
	return d.Restriction > 0
}
