package relocation

import (
	"errors"
	"math"

	"github.com/msmobility/silo-sub013/pkg/choice"
	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/msmobility/silo-sub013/pkg/utility"
)

// stays runs the move-or-stay decision for a household living in d.
func (e *Engine) stays(t market.HouseholdType, d *market.Dwelling) (bool, error) {
	u := d.UtilOfResident
	avg, ok, err := e.satisfaction.Of(e.year, t)
	if err != nil {
		return false, err
	}
	if !ok {
		avg = u
	}
	p := choice.StayProbability(e.cfg.StayShift, e.cfg.StaySlope, avg, u)
	return e.sampler.Bernoulli(p), nil
}

// regionWeights returns the normalized attraction of every region of the
// table for h. A household whose group or bracket has no row gets no
// weights, so its search fails without touching the rest of the pass.
func (e *Engine) regionWeights(h *market.Household, t market.HouseholdType) ([]float64, error) {
	_, incomeBracket := e.cfg.Types.Brackets(t)
	row, err := e.table.Row(e.year, incomeBracket, h.Group)
	if errors.Is(err, utility.ErrNoRow) {
		e.noteMissingRow(h, incomeBracket)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	jobs := h.JobZones()
	weights := make([]float64, len(row))
	for i, region := range e.table.Regions {
		u := row[i]
		if u <= 0 {
			continue
		}
		if len(jobs) > 0 {
			u *= e.workDistanceFactor(jobs, region)
		}
		weights[i] = u * e.cfg.Normalization.weight(e.loads[i])
	}
	return weights, nil
}

// selectRegion draws a region for h. It reports false when every region
// weighs zero.
func (e *Engine) selectRegion(h *market.Household, t market.HouseholdType) (market.RegionID, bool, error) {
	weights, err := e.regionWeights(h, t)
	if err != nil {
		return 0, false, err
	}
	i, ok := e.sampler.Draw(weights)
	if !ok {
		return 0, false, nil
	}
	return e.table.Regions[i], true, nil
}

// workDistanceFactor multiplies, over all workers, the observed frequency of
// their commute from region to workplace. Workers without a known travel
// time do not constrain the choice.
func (e *Engine) workDistanceFactor(jobs []market.ZoneID, region market.RegionID) float64 {
	factor := 1.0
	for _, zone := range jobs {
		minutes, ok := e.access.MinTravelTimeToRegion(zone, region)
		if !ok {
			e.noteMissingTrip(zone, region)
			continue
		}
		factor *= e.cfg.Commute.Frequency(minutes)
	}
	return factor
}

func (e *Engine) noteMissingTrip(zone market.ZoneID, region market.RegionID) {
	key := tripKey{zone, region}
	if _, seen := e.missingTrips[key]; seen {
		return
	}
	e.missingTrips[key] = struct{}{}
	e.missing++
	e.logger.Warn("no travel time from workplace to region; commute term skipped",
		"year", e.year, "zone", zone, "region", region)
}

func (e *Engine) noteMissingRow(h *market.Household, incomeBracket int) {
	e.missing++
	key := rowKey{incomeBracket, h.Group}
	if _, seen := e.missingRows[key]; seen {
		return
	}
	e.missingRows[key] = struct{}{}
	e.logger.Warn("no regional utilities for household; search skipped",
		"year", e.year, "household", h.ID, "bracket", incomeBracket, "group", h.Group)
}

// selectDwelling samples the region's vacancy list and draws one dwelling
// from the eligible candidates by multinomial logit.
func (e *Engine) selectDwelling(h *market.Household, t market.HouseholdType, region market.RegionID) (market.DwellingID, bool) {
	candidates := e.sampleCandidates(h, region)
	if len(candidates) == 0 {
		return 0, false
	}
	scores := make([]float64, len(candidates))
	for i, d := range candidates {
		scores[i] = e.dwellingScore(h, t, d)
	}
	i, ok := e.sampler.Draw(choice.LogitWeights(scores, e.cfg.DwellingScale))
	if !ok {
		return 0, false
	}
	return candidates[i].ID, true
}

// sampleCandidates keeps each vacant dwelling of region with probability
// min(MaxCandidates, n)/n and drops those h is not eligible for. The
// expected sample size is min(MaxCandidates, n) before eligibility.
func (e *Engine) sampleCandidates(h *market.Household, region market.RegionID) []*market.Dwelling {
	vacant := e.market.VacantDwellings(region)
	if len(vacant) == 0 {
		return nil
	}
	keep := float64(min(e.cfg.MaxCandidates, len(vacant))) / float64(len(vacant))

	out := make([]*market.Dwelling, 0, min(e.cfg.MaxCandidates, len(vacant)))
	for _, id := range vacant {
		if !e.sampler.Bernoulli(keep) {
			continue
		}
		d, ok := e.market.Dwelling(id)
		if !ok || !e.eligible(h, d) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// dwellingScore blends the dwelling's utility with the share of the
// household's group among the zone's residents:
// utility^(1-w) * share^w.
func (e *Engine) dwellingScore(h *market.Household, t market.HouseholdType, d *market.Dwelling) float64 {
	u := e.candidateUtility(h, t, d)
	w := e.cfg.RaceWeight
	if w == 0 {
		return u
	}
	share, ok := e.composition.ZoneShare(d.Zone, h.Group)
	if !ok {
		share = 0
	}
	return math.Pow(u, 1-w) * math.Pow(share, w)
}

// candidateUtility is the cached per-type utility, or a fresh evaluation at
// the subsidized price for households that qualify.
func (e *Engine) candidateUtility(h *market.Household, t market.HouseholdType, d *market.Dwelling) float64 {
	if e.subsidized(h, d) {
		return e.dwelling.Utility(t, d, e.cfg.Subsidy.EffectivePrice(d.Price, h.Income))
	}
	if int(t) < len(d.VacantUtilities) {
		return d.VacantUtilities[t]
	}
	return e.dwelling.Utility(t, d, d.Price)
}

// vacantUtilities recomputes the per-type cache of a dwelling that just
// became vacant.
func (e *Engine) vacantUtilities(d *market.Dwelling) []float64 {
	return utility.VacantUtilities(e.dwelling, e.cfg.Types, d)
}
