package market

import "fmt"

// HouseholdType is the dense key of all utility tables: a household size
// bracket crossed with an income bracket.
type HouseholdType int

// TypeScheme buckets households into HouseholdTypes.
type TypeScheme struct {
	// IncomeBounds are ascending annual income upper bounds; incomes at or
	// above the last bound fall into the top bracket.
	IncomeBounds []float64
	// MaxSize is the size of the open-ended top size bracket (4 means 1, 2, 3, 4+).
	MaxSize int
}

// NewTypeScheme validates bounds and size and returns a scheme.
func NewTypeScheme(incomeBounds []float64, maxSize int) (TypeScheme, error) {
	if maxSize < 1 {
		return TypeScheme{}, fmt.Errorf("max household size bracket must be >= 1, got %d", maxSize)
	}
	for i := 1; i < len(incomeBounds); i++ {
		if incomeBounds[i] <= incomeBounds[i-1] {
			return TypeScheme{}, fmt.Errorf("income bounds must be strictly ascending (%.0f after %.0f)", incomeBounds[i], incomeBounds[i-1])
		}
	}
	bounds := make([]float64, len(incomeBounds))
	copy(bounds, incomeBounds)
	return TypeScheme{IncomeBounds: bounds, MaxSize: maxSize}, nil
}

// NumIncomeBrackets returns the number of income brackets.
func (s TypeScheme) NumIncomeBrackets() int { return len(s.IncomeBounds) + 1 }

// NumTypes returns the number of household types.
func (s TypeScheme) NumTypes() int { return s.MaxSize * s.NumIncomeBrackets() }

// IncomeBracket returns the bracket index of an annual income.
func (s TypeScheme) IncomeBracket(income float64) int {
	for i, bound := range s.IncomeBounds {
		if income < bound {
			return i
		}
	}
	return len(s.IncomeBounds)
}

// SizeBracket returns the bracket index of a household size.
func (s TypeScheme) SizeBracket(size int) int {
	if size < 1 {
		return 0
	}
	if size > s.MaxSize {
		return s.MaxSize - 1
	}
	return size - 1
}

// Type returns the household type for a size and income.
func (s TypeScheme) Type(size int, income float64) HouseholdType {
	return HouseholdType(s.SizeBracket(size)*s.NumIncomeBrackets() + s.IncomeBracket(income))
}

// TypeOf returns the household type of h.
func (s TypeScheme) TypeOf(h *Household) HouseholdType {
	return s.Type(h.Size(), h.Income)
}

// Brackets splits a type back into its size and income bracket.
func (s TypeScheme) Brackets(t HouseholdType) (sizeBracket, incomeBracket int) {
	n := s.NumIncomeBrackets()
	return int(t) / n, int(t) % n
}

// BracketMidIncome returns a representative annual income of an income
// bracket: the midpoint of its bounds, or 1.5x the last bound for the top one.
func (s TypeScheme) BracketMidIncome(bracket int) float64 {
	switch {
	case len(s.IncomeBounds) == 0:
		return 0
	case bracket <= 0:
		return s.IncomeBounds[0] / 2
	case bracket >= len(s.IncomeBounds):
		return s.IncomeBounds[len(s.IncomeBounds)-1] * 1.5
	default:
		return (s.IncomeBounds[bracket-1] + s.IncomeBounds[bracket]) / 2
	}
}
