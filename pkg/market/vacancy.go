package market

// VacancyList is the authoritative set of vacant dwellings of one region.
// Iteration order is deterministic for a given sequence of operations.
type VacancyList struct {
	ids   []DwellingID
	index map[DwellingID]int
}

// NewVacancyList returns an empty list.
func NewVacancyList() *VacancyList {
	return &VacancyList{index: make(map[DwellingID]int)}
}

// Add inserts id; it returns false if id was already listed.
func (v *VacancyList) Add(id DwellingID) bool {
	if _, ok := v.index[id]; ok {
		return false
	}
	v.index[id] = len(v.ids)
	v.ids = append(v.ids, id)
	return true
}

// Remove deletes id; it returns false if id was not listed.
func (v *VacancyList) Remove(id DwellingID) bool {
	i, ok := v.index[id]
	if !ok {
		return false
	}
	last := len(v.ids) - 1
	moved := v.ids[last]
	v.ids[i] = moved
	v.index[moved] = i
	v.ids = v.ids[:last]
	delete(v.index, id)
	return true
}

// Contains reports membership.
func (v *VacancyList) Contains(id DwellingID) bool {
	_, ok := v.index[id]
	return ok
}

// Len returns the number of vacant dwellings.
func (v *VacancyList) Len() int { return len(v.ids) }

// IDs returns a copy of the listed ids.
func (v *VacancyList) IDs() []DwellingID {
	out := make([]DwellingID, len(v.ids))
	copy(out, v.ids)
	return out
}
