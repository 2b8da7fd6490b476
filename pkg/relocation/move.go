package relocation

import (
	"context"
	"fmt"

	"github.com/msmobility/silo-sub013/pkg/market"
)

// MoveEvent records one executed move. From is market.NoDwelling for
// in-migration.
type MoveEvent struct {
	Year       int                `json:"year"`
	Seq        int                `json:"seq"`
	Household  market.HouseholdID `json:"household"`
	From       market.DwellingID  `json:"from"`
	To         market.DwellingID  `json:"to"`
	FromRegion market.RegionID    `json:"from_region"`
	ToRegion   market.RegionID    `json:"to_region"`
	Forced     bool               `json:"forced"`
}

// ChooseMove runs the full decision for one household: move-or-stay, then
// the region and dwelling search, then the move itself. Search failures are
// outcomes, not errors; an error means the pass cannot continue.
func (e *Engine) ChooseMove(ctx context.Context, id market.HouseholdID) (MoveOutcome, error) {
	if !e.prepared {
		return MoveOutcome{}, fmt.Errorf("choose move for household %d: %w", id, ErrStaleTable)
	}
	h, ok := e.market.Household(id)
	if !ok {
		return MoveOutcome{}, fmt.Errorf("unknown household %d", id)
	}
	t := e.cfg.Types.TypeOf(h)

	forced := false
	if d, housed := e.market.Dwelling(h.Dwelling); housed {
		if !e.eligible(h, d) {
			forced = true
		} else {
			stay, err := e.stays(t, d)
			if err != nil {
				return MoveOutcome{}, err
			}
			if stay {
				return MoveOutcome{Kind: Stayed}, nil
			}
		}
	}

	out, err := e.search(h, t)
	out.Forced = forced
	if err != nil || out.Kind != MovedTo {
		return out, err
	}
	if err := e.moveHousehold(h, h.Dwelling, out.Dwelling, forced); err != nil {
		return MoveOutcome{}, err
	}
	return out, nil
}

// search runs the region then dwelling selectors.
func (e *Engine) search(h *market.Household, t market.HouseholdType) (MoveOutcome, error) {
	region, ok, err := e.selectRegion(h, t)
	if err != nil {
		return MoveOutcome{}, err
	}
	if !ok {
		e.logger.Debug("household found no region", "year", e.year, "household", h.ID, "err", ErrNoEligibleRegion)
		return MoveOutcome{Kind: FailedNoRegion}, nil
	}
	target, ok := e.selectDwelling(h, t, region)
	if !ok {
		e.logger.Debug("household found no dwelling", "year", e.year, "household", h.ID,
			"region", region, "err", ErrNoEligibleDwelling)
		return MoveOutcome{Kind: FailedNoDwelling}, nil
	}
	return MoveOutcome{Kind: MovedTo, Dwelling: target}, nil
}

// MoveIn places a household that is new to the market. On success it is
// added to the market in its new dwelling; on failure the market is left
// untouched.
func (e *Engine) MoveIn(ctx context.Context, h *market.Household) (MoveOutcome, error) {
	if !e.prepared {
		return MoveOutcome{}, fmt.Errorf("move in household %d: %w", h.ID, ErrStaleTable)
	}
	if _, exists := e.market.Household(h.ID); exists {
		return MoveOutcome{}, fmt.Errorf("household %d already lives in the market", h.ID)
	}
	if h.Dwelling != market.NoDwelling {
		return MoveOutcome{}, fmt.Errorf("in-migrating household %d already has dwelling %d", h.ID, h.Dwelling)
	}
	if h.Size() == 0 {
		return MoveOutcome{}, fmt.Errorf("in-migrating household %d has no persons", h.ID)
	}

	out, err := e.search(h, e.cfg.Types.TypeOf(h))
	if err != nil || out.Kind != MovedTo {
		return out, err
	}
	if err := e.moveHousehold(h, market.NoDwelling, out.Dwelling, false); err != nil {
		return MoveOutcome{}, err
	}
	if err := e.market.AddHousehold(h); err != nil {
		return MoveOutcome{}, fmt.Errorf("adding household %d: %w", h.ID, err)
	}
	return out, nil
}

// MoveHousehold moves h from old (market.NoDwelling for in-migrants) into
// the vacant dwelling next, updating occupancy, vacancy lists and utility
// caches as one step. The caller guarantees next is vacant; a violation is
// an InvariantError.
func (e *Engine) MoveHousehold(h *market.Household, old, next market.DwellingID) error {
	return e.moveHousehold(h, old, next, false)
}

func (e *Engine) moveHousehold(h *market.Household, old, next market.DwellingID, forced bool) error {
	if h.Dwelling != old {
		return fmt.Errorf("household %d lives in dwelling %d, not %d", h.ID, h.Dwelling, old)
	}
	nd, ok := e.market.Dwelling(next)
	if !ok {
		return fmt.Errorf("move household %d: unknown dwelling %d", h.ID, next)
	}
	if !nd.IsVacant() {
		return &InvariantError{Violations: []string{
			fmt.Sprintf("household %d cannot move into dwelling %d occupied by %d", h.ID, next, nd.Resident),
		}}
	}
	var od *market.Dwelling
	if old != market.NoDwelling {
		if od, ok = e.market.Dwelling(old); !ok {
			return fmt.Errorf("move household %d: unknown dwelling %d", h.ID, old)
		}
	}
	if err := e.checkDwellings(od, nd); err != nil {
		return err
	}

	event := MoveEvent{
		Year:       e.year,
		Seq:        len(e.events),
		Household:  h.ID,
		From:       old,
		To:         next,
		FromRegion: -1,
		Forced:     forced,
	}

	if od != nil {
		od.Resident = market.Vacant
		od.UtilOfResident = 0
		od.VacantUtilities = e.vacantUtilities(od)
		if err := e.market.AddToVacancyList(od); err != nil {
			return invariantf(err)
		}
		region, _ := e.market.RegionOfZone(od.Zone)
		event.FromRegion = region
		e.adjustLoad(region, -1, +1)
	}

	if err := e.market.RemoveFromVacancyList(next); err != nil {
		return invariantf(err)
	}
	t := e.cfg.Types.TypeOf(h)
	nd.Resident = h.ID
	nd.UtilOfResident = e.dwelling.Utility(t, nd, e.effectivePrice(h, nd))
	nd.VacantUtilities = nil
	h.Dwelling = next
	region, _ := e.market.RegionOfZone(nd.Zone)
	event.ToRegion = region
	e.adjustLoad(region, +1, -1)

	if err := e.checkDwellings(od, nd); err != nil {
		return err
	}

	e.moves.Add(1)
	e.events = append(e.events, event)
	return nil
}

func (e *Engine) checkDwellings(ds ...*market.Dwelling) error {
	if !e.cfg.Strict {
		return nil
	}
	for _, d := range ds {
		if d == nil {
			continue
		}
		if err := e.market.CheckDwelling(d); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) adjustLoad(region market.RegionID, households, vacant int) {
	i, ok := e.regionIndex[region]
	if !ok {
		return
	}
	e.loads[i].households += households
	e.loads[i].vacant += vacant
}
