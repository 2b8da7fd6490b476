package relocation

import (
	"errors"

	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/msmobility/silo-sub013/pkg/utility"
)

var (
	// ErrNoEligibleRegion means every region weighed zero for a household.
	ErrNoEligibleRegion = errors.New("no eligible region")
	// ErrNoEligibleDwelling means no sampled vacant dwelling could be chosen.
	ErrNoEligibleDwelling = errors.New("no eligible dwelling")
	// ErrStaleTable means a yearly table was read outside the year it was
	// built for, or before any year was prepared.
	ErrStaleTable = utility.ErrStaleTable
)

// InvariantError reports a vacancy list that disagrees with occupancy. It
// aborts the pass.
type InvariantError = market.InvariantError

func invariantf(err error) error {
	var ie *InvariantError
	if errors.As(err, &ie) {
		return err
	}
	return &InvariantError{Violations: []string{err.Error()}}
}
