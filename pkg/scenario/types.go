package scenario

// Scenario is the top-level description of one relocation run: the choice
// model parameters and the market the model runs against.
type Scenario struct {
	ScenarioVersion string `yaml:"scenario_version" json:"scenario_version"`
	Name            string `yaml:"name" json:"name"`
	StartYear       int    `yaml:"start_year" json:"start_year"`
	Model           Model  `yaml:"model" json:"model"`
	Market          Market `yaml:"market" json:"market"`
}

type Model struct {
	// DemographicScheme is "race" or "nationality".
	DemographicScheme string `yaml:"demographic_scheme" json:"demographic_scheme"`
	// CoefficientSet names the versioned preset the coefficient tables start
	// from, e.g. "us-race-v1" or "de-nationality-v1".
	CoefficientSet string         `yaml:"coefficient_set" json:"coefficient_set"`
	HouseholdTypes HouseholdTypes `yaml:"household_types" json:"household_types"`
	Dwelling       DwellingModel  `yaml:"dwelling" json:"dwelling"`
	Region         RegionModel    `yaml:"region" json:"region"`
	Moves          MovesModel     `yaml:"moves" json:"moves"`
	Subsidy        Subsidy        `yaml:"subsidy" json:"subsidy"`
	Commute        Commute        `yaml:"commute" json:"commute"`
}

type HouseholdTypes struct {
	IncomeBounds []float64 `yaml:"income_bounds" json:"income_bounds"`
	MaxSize      int       `yaml:"max_size" json:"max_size"`
}

type DwellingModel struct {
	QualityLevels       int     `yaml:"quality_levels" json:"quality_levels"`
	LargestBedroomCount int     `yaml:"largest_bedroom_count" json:"largest_bedroom_count"`
	RentCategoryWidth   float64 `yaml:"rent_category_width" json:"rent_category_width"`
	RentCategories      int     `yaml:"rent_categories" json:"rent_categories"`
	// RentIncomeShare is the typical share of income spent on rent used to
	// derive price curves for brackets without an explicit curve.
	RentIncomeShare float64 `yaml:"rent_income_share" json:"rent_income_share"`
	// PriceCurves optionally lists, per income bracket, the cumulative share
	// of households paying up to each rent category.
	PriceCurves map[int][]float64 `yaml:"price_curves" json:"price_curves,omitempty"`
	// Coefficients override the preset weights, keyed by term name.
	Coefficients map[string]float64 `yaml:"coefficients" json:"coefficients,omitempty"`
	// SizeCoefficients override weights for a single size bracket.
	SizeCoefficients map[int]map[string]float64 `yaml:"size_coefficients" json:"size_coefficients,omitempty"`
}

type RegionModel struct {
	Coefficients map[string]float64 `yaml:"coefficients" json:"coefficients,omitempty"`
	// Normalization is one of none, population, vacant_dwellings,
	// vacancy_share, population_and_vacancy. Empty means population.
	Normalization string `yaml:"normalization" json:"normalization"`
}

type MovesModel struct {
	StayShift     float64 `yaml:"stay_shift" json:"stay_shift"`
	StaySlope     float64 `yaml:"stay_slope" json:"stay_slope"`
	DwellingScale float64 `yaml:"dwelling_scale" json:"dwelling_scale"`
	RaceWeight    float64 `yaml:"race_weight" json:"race_weight"`
	MaxCandidates int     `yaml:"max_candidates" json:"max_candidates"`
}

type Subsidy struct {
	// IncomeLimit is the share of MSA median income under which a household
	// qualifies for rent subsidy. 0 disables subsidies.
	IncomeLimit float64 `yaml:"income_limit" json:"income_limit"`
	// MaxRentShare caps the share of monthly income a subsidized household pays.
	MaxRentShare float64 `yaml:"max_rent_share" json:"max_rent_share"`
}

type Commute struct {
	// Frequencies maps commute minutes to the observed share of commutes;
	// travel times between listed minutes are interpolated.
	Frequencies map[int]float64 `yaml:"frequencies" json:"frequencies,omitempty"`
	// DecayMinutes parameterizes exp(-t/decay) when Frequencies is empty.
	DecayMinutes float64 `yaml:"decay_minutes" json:"decay_minutes"`
	// FallbackSpeedKmh converts centroid distance into minutes when a zone
	// pair has no skim entry. 0 disables the fallback.
	FallbackSpeedKmh float64 `yaml:"fallback_speed_kmh" json:"fallback_speed_kmh"`
}

type Market struct {
	Regions     []RegionDef     `yaml:"regions" json:"regions"`
	Zones       []ZoneDef       `yaml:"zones" json:"zones"`
	TravelTimes []TravelTimeDef `yaml:"travel_times" json:"travel_times"`
	Dwellings   []DwellingDef   `yaml:"dwellings" json:"dwellings"`
	Households  []HouseholdDef  `yaml:"households" json:"households"`
	// MedianIncome optionally fixes MSA median incomes instead of deriving
	// them from the household list.
	MedianIncome map[int]float64 `yaml:"median_income" json:"median_income,omitempty"`
	// ZoneShapefile optionally locates zones without lon/lat by the centroid
	// of their polygon. Relative paths resolve against the scenario file.
	ZoneShapefile string `yaml:"zone_shapefile" json:"zone_shapefile,omitempty"`
	// ZoneIDField names the attribute holding the zone id; default "ZONE".
	ZoneIDField string `yaml:"zone_id_field" json:"zone_id_field,omitempty"`
}

type RegionDef struct {
	ID            int     `yaml:"id" json:"id"`
	Name          string  `yaml:"name" json:"name"`
	Accessibility float64 `yaml:"accessibility" json:"accessibility"`
	SchoolQuality float64 `yaml:"school_quality" json:"school_quality"`
	CrimeRate     float64 `yaml:"crime_rate" json:"crime_rate"`
}

type ZoneDef struct {
	ID            int      `yaml:"id" json:"id"`
	Region        int      `yaml:"region" json:"region"`
	MSA           int      `yaml:"msa" json:"msa"`
	Lon           *float64 `yaml:"lon" json:"lon,omitempty"`
	Lat           *float64 `yaml:"lat" json:"lat,omitempty"`
	AutoAccess    float64  `yaml:"auto_access" json:"auto_access"`
	TransitAccess float64  `yaml:"transit_access" json:"transit_access"`
	SchoolQuality float64  `yaml:"school_quality" json:"school_quality"`
	CrimeRate     float64  `yaml:"crime_rate" json:"crime_rate"`
}

type TravelTimeDef struct {
	From    int     `yaml:"from" json:"from"`
	To      int     `yaml:"to" json:"to"`
	Minutes float64 `yaml:"minutes" json:"minutes"`
}

type DwellingDef struct {
	ID          int     `yaml:"id" json:"id"`
	Zone        int     `yaml:"zone" json:"zone"`
	Quality     int     `yaml:"quality" json:"quality"`
	Bedrooms    int     `yaml:"bedrooms" json:"bedrooms"`
	YearBuilt   int     `yaml:"year_built" json:"year_built"`
	Price       float64 `yaml:"price" json:"price"`
	Restriction float64 `yaml:"restriction" json:"restriction"`
}

type HouseholdDef struct {
	ID       int         `yaml:"id" json:"id"`
	Income   float64     `yaml:"income" json:"income"`
	Group    string      `yaml:"group" json:"group"`
	Dwelling *int        `yaml:"dwelling" json:"dwelling,omitempty"`
	Persons  []PersonDef `yaml:"persons" json:"persons"`
}

type PersonDef struct {
	ID       int  `yaml:"id" json:"id"`
	Age      int  `yaml:"age" json:"age"`
	Employed bool `yaml:"employed" json:"employed"`
	JobZone  *int `yaml:"job_zone" json:"job_zone,omitempty"`
}
