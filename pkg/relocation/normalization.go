package relocation

import "fmt"

// Normalization selects how region utilities are weighted before the region
// draw. Exactly one strategy applies.
type Normalization string

const (
	NormalizeNone                 Normalization = "none"
	NormalizePopulation           Normalization = "population"
	NormalizeVacantDwellings      Normalization = "vacant_dwellings"
	NormalizeVacancyShare         Normalization = "vacancy_share"
	NormalizePopulationAndVacancy Normalization = "population_and_vacancy"
)

// ParseNormalization resolves a strategy name. Empty means population.
func ParseNormalization(s string) (Normalization, error) {
	switch n := Normalization(s); n {
	case "":
		return NormalizePopulation, nil
	case NormalizeNone, NormalizePopulation, NormalizeVacantDwellings,
		NormalizeVacancyShare, NormalizePopulationAndVacancy:
		return n, nil
	}
	return "", fmt.Errorf("unknown region normalization %q", s)
}

// regionLoad is the live occupancy of one region.
type regionLoad struct {
	households int
	dwellings  int
	vacant     int
}

func (n Normalization) weight(l regionLoad) float64 {
	switch n {
	case NormalizeNone:
		return 1
	case NormalizeVacantDwellings:
		return float64(l.vacant)
	case NormalizeVacancyShare:
		if l.dwellings == 0 {
			return 0
		}
		return float64(l.vacant) / float64(l.dwellings)
	case NormalizePopulationAndVacancy:
		if l.dwellings == 0 {
			return 0
		}
		return float64(l.households) * float64(l.vacant) / float64(l.dwellings)
	default:
		return float64(l.households)
	}
}
