package market

import (
	"fmt"
	"strings"
)

// InvariantError lists dwellings whose occupancy disagrees with the vacancy
// lists. It indicates a bookkeeping bug, never a household-level outcome.
type InvariantError struct {
	Violations []string
}

func (e *InvariantError) Error() string {
	if len(e.Violations) == 1 {
		return "vacancy invariant violated: " + e.Violations[0]
	}
	return fmt.Sprintf("vacancy invariant violated (%d dwellings): %s",
		len(e.Violations), strings.Join(e.Violations, "; "))
}

// CheckDwelling verifies resident == Vacant iff the dwelling is listed vacant
// in its own region, and that no other region lists it.
func (s *Store) CheckDwelling(d *Dwelling) error {
	if v := s.dwellingViolation(d); v != "" {
		return &InvariantError{Violations: []string{v}}
	}
	return nil
}

// CheckVacancyInvariant verifies every dwelling and every listed id.
func (s *Store) CheckVacancyInvariant() error {
	var violations []string
	for _, id := range s.dwellingOrder {
		if v := s.dwellingViolation(s.dwellings[id]); v != "" {
			violations = append(violations, v)
		}
	}
	for _, region := range s.regionOrder {
		for _, id := range s.vacancies[region].ids {
			if _, ok := s.dwellings[id]; !ok {
				violations = append(violations, fmt.Sprintf("region %d lists unknown dwelling %d", region, id))
			}
		}
	}
	if len(violations) > 0 {
		return &InvariantError{Violations: violations}
	}
	return nil
}

func (s *Store) dwellingViolation(d *Dwelling) string {
	home, ok := s.RegionOfZone(d.Zone)
	if !ok {
		return fmt.Sprintf("dwelling %d sits in unknown zone %d", d.ID, d.Zone)
	}
	listed := s.vacancies[home].Contains(d.ID)
	switch {
	case d.IsVacant() && !listed:
		return fmt.Sprintf("dwelling %d is vacant but not listed in region %d", d.ID, home)
	case !d.IsVacant() && listed:
		return fmt.Sprintf("dwelling %d is occupied by %d but listed vacant in region %d", d.ID, d.Resident, home)
	}
	for _, region := range s.regionOrder {
		if region != home && s.vacancies[region].Contains(d.ID) {
			return fmt.Sprintf("dwelling %d of region %d is listed in region %d", d.ID, home, region)
		}
	}
	return ""
}

// OccupiedCount returns the number of dwellings with a resident.
func (s *Store) OccupiedCount() int {
	n := 0
	for _, d := range s.dwellings {
		if !d.IsVacant() {
			n++
		}
	}
	return n
}
