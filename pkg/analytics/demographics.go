package analytics

import (
	"fmt"

	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/msmobility/silo-sub013/pkg/validation"
)

// Composition holds, for one year, the share of each demographic group among
// the resident households of every zone and region.
type Composition struct {
	Year   int                      `json:"year"`
	Scheme market.DemographicScheme `json:"scheme"`

	RegionShares     map[market.RegionID][]float64 `json:"region_shares"`
	RegionHouseholds map[market.RegionID]int       `json:"region_households"`
	ZoneShares       map[market.ZoneID][]float64   `json:"zone_shares"`
	ZoneHouseholds   map[market.ZoneID]int         `json:"zone_households"`
}

// ResolveComposition counts resident households by group per zone and region
// and normalizes by each area's household count. Areas without households get
// all-zero shares.
func ResolveComposition(year int, scheme market.DemographicScheme, store market.Reader) (*Composition, *validation.Report) {
	report := validation.NewReport()
	groups := len(scheme.Groups())

	zoneCounts := make(map[market.ZoneID][]int)
	regionCounts := make(map[market.RegionID][]int)
	for _, z := range store.Zones() {
		zoneCounts[z.ID] = make([]int, groups)
	}
	for _, r := range store.Regions() {
		regionCounts[r.ID] = make([]int, groups)
	}

	for _, h := range store.Households() {
		if h.Dwelling == market.NoDwelling {
			continue
		}
		d, ok := store.Dwelling(h.Dwelling)
		if !ok {
			report.AddWarning(validation.Result{
				Level:   validation.LevelMarket,
				Message: fmt.Sprintf("household %d lives in unknown dwelling %d; left out of composition", h.ID, h.Dwelling),
			})
			continue
		}
		g := scheme.Index(h.Group)
		if g < 0 {
			report.AddWarning(validation.Result{
				Level:   validation.LevelMarket,
				Message: fmt.Sprintf("household %d has group %s outside the %s scheme", h.ID, h.Group, scheme),
			})
			continue
		}
		region, _ := store.RegionOfZone(d.Zone)
		zoneCounts[d.Zone][g]++
		regionCounts[region][g]++
	}

	c := &Composition{
		Year:             year,
		Scheme:           scheme,
		RegionShares:     make(map[market.RegionID][]float64, len(regionCounts)),
		RegionHouseholds: make(map[market.RegionID]int, len(regionCounts)),
		ZoneShares:       make(map[market.ZoneID][]float64, len(zoneCounts)),
		ZoneHouseholds:   make(map[market.ZoneID]int, len(zoneCounts)),
	}
	empty := 0
	for id, counts := range regionCounts {
		shares, total := normalizeCounts(counts)
		c.RegionShares[id] = shares
		c.RegionHouseholds[id] = total
		if total == 0 {
			empty++
		}
	}
	for id, counts := range zoneCounts {
		shares, total := normalizeCounts(counts)
		c.ZoneShares[id] = shares
		c.ZoneHouseholds[id] = total
	}

	if empty > 0 {
		report.AddInfo(validation.Result{
			Level:   validation.LevelMarket,
			Message: fmt.Sprintf("%d regions have no resident households; their shares are zero", empty),
		})
	}
	return c, report
}

func normalizeCounts(counts []int) ([]float64, int) {
	total := 0
	for _, n := range counts {
		total += n
	}
	shares := make([]float64, len(counts))
	if total == 0 {
		return shares, 0
	}
	for i, n := range counts {
		shares[i] = float64(n) / float64(total)
	}
	return shares, total
}

// RegionShare returns the share of group g among the region's households.
func (c *Composition) RegionShare(region market.RegionID, g market.DemographicGroup) (float64, bool) {
	return share(c.RegionShares[region], c.Scheme.Index(g))
}

// ZoneShare returns the share of group g among the zone's households.
func (c *Composition) ZoneShare(zone market.ZoneID, g market.DemographicGroup) (float64, bool) {
	return share(c.ZoneShares[zone], c.Scheme.Index(g))
}

func share(shares []float64, i int) (float64, bool) {
	if i < 0 || i >= len(shares) {
		return 0, false
	}
	return shares[i], true
}
