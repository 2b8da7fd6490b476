package affordability

// Baseline affordability parameters. Scenarios may override them.
const (
	DefaultSubsidyIncomeLimit = 0.5 // share of MSA median income
	DefaultMaxRentShare       = 0.3 // share of monthly income a subsidized household pays
	MonthsPerYear             = 12.0
)
