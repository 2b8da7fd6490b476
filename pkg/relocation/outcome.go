package relocation

import (
	"fmt"

	"github.com/msmobility/silo-sub013/pkg/market"
)

// OutcomeKind classifies what happened to a household in ChooseMove.
type OutcomeKind int

const (
	Stayed OutcomeKind = iota
	MovedTo
	FailedNoRegion
	FailedNoDwelling
)

func (k OutcomeKind) String() string {
	switch k {
	case Stayed:
		return "stayed"
	case MovedTo:
		return "moved"
	case FailedNoRegion:
		return "failed_no_region"
	case FailedNoDwelling:
		return "failed_no_dwelling"
	}
	return fmt.Sprintf("outcome(%d)", int(k))
}

// MoveOutcome is the result of one household's decision. Dwelling is set only
// for MovedTo.
type MoveOutcome struct {
	Kind     OutcomeKind
	Dwelling market.DwellingID
	// Forced is set when an income restriction the household no longer meets
	// skipped the stay decision.
	Forced bool
}

// Err returns the sentinel matching a failed outcome, or nil.
func (o MoveOutcome) Err() error {
	switch o.Kind {
	case FailedNoRegion:
		return ErrNoEligibleRegion
	case FailedNoDwelling:
		return ErrNoEligibleDwelling
	}
	return nil
}

func (o MoveOutcome) String() string {
	if o.Kind == MovedTo {
		return fmt.Sprintf("moved to dwelling %d", o.Dwelling)
	}
	return o.Kind.String()
}
