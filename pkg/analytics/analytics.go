// Package analytics derives the yearly aggregates the relocation model reads:
// demographic composition of zones and regions, and a market summary with
// regional prices, vacancy and MSA median incomes.
package analytics

import (
	"fmt"
	"sort"

	"github.com/msmobility/silo-sub013/pkg/affordability"
	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/msmobility/silo-sub013/pkg/validation"
	"gonum.org/v1/gonum/stat"
)

// RegionSummary aggregates one region's housing market.
type RegionSummary struct {
	ID          market.RegionID `json:"id"`
	Name        string          `json:"name"`
	Households  int             `json:"households"`
	Dwellings   int             `json:"dwellings"`
	Vacant      int             `json:"vacant"`
	VacancyRate float64         `json:"vacancy_rate"`
	AvgPrice    float64         `json:"avg_price"`
}

// MarketSummary is the yearly snapshot of the housing market.
type MarketSummary struct {
	Year         int                         `json:"year"`
	Households   int                         `json:"households"`
	Dwellings    int                         `json:"dwellings"`
	Vacant       int                         `json:"vacant"`
	MedianIncome affordability.MedianIncomes `json:"median_income"`
	Regions      []RegionSummary             `json:"regions"`
	regionByID   map[market.RegionID]int
}

// Region returns the summary of a region.
func (m *MarketSummary) Region(id market.RegionID) (RegionSummary, bool) {
	i, ok := m.regionByID[id]
	if !ok {
		return RegionSummary{}, false
	}
	return m.Regions[i], true
}

// Resolve summarizes the market at the start of a year. Fixed medians take
// precedence over medians derived from the household list.
func Resolve(year int, store market.Reader, fixedMedians map[market.MSAID]float64) (*MarketSummary, *validation.Report) {
	report := validation.NewReport()

	summary := &MarketSummary{
		Year:         year,
		MedianIncome: resolveMedianIncomes(store, fixedMedians, report),
		regionByID:   make(map[market.RegionID]int),
	}

	prices := make(map[market.RegionID][]float64)
	vacant := make(map[market.RegionID]int)
	for _, d := range store.Dwellings() {
		region, ok := store.RegionOfZone(d.Zone)
		if !ok {
			continue
		}
		prices[region] = append(prices[region], d.Price)
		if d.IsVacant() {
			vacant[region]++
		}
	}
	households := make(map[market.RegionID]int)
	for _, h := range store.Households() {
		if d, ok := store.Dwelling(h.Dwelling); ok {
			region, _ := store.RegionOfZone(d.Zone)
			households[region]++
		}
	}

	for _, r := range store.Regions() {
		rs := RegionSummary{
			ID:         r.ID,
			Name:       r.Name,
			Households: households[r.ID],
			Dwellings:  len(prices[r.ID]),
			Vacant:     vacant[r.ID],
		}
		if rs.Dwellings > 0 {
			rs.AvgPrice = stat.Mean(prices[r.ID], nil)
			rs.VacancyRate = float64(rs.Vacant) / float64(rs.Dwellings)
		} else {
			report.AddWarning(validation.Result{
				Level:   validation.LevelMarket,
				Message: fmt.Sprintf("region %d has no dwellings; its average price is zero", r.ID),
			})
		}
		summary.regionByID[r.ID] = len(summary.Regions)
		summary.Regions = append(summary.Regions, rs)
		summary.Households += rs.Households
		summary.Dwellings += rs.Dwellings
		summary.Vacant += rs.Vacant
	}

	return summary, report
}

// resolveMedianIncomes computes the median household income of every MSA
// that has zones with resident households.
func resolveMedianIncomes(store market.Reader, fixed map[market.MSAID]float64, report *validation.Report) affordability.MedianIncomes {
	incomes := make(map[market.MSAID][]float64)
	for _, h := range store.Households() {
		d, ok := store.Dwelling(h.Dwelling)
		if !ok {
			continue
		}
		z, ok := store.Zone(d.Zone)
		if !ok {
			continue
		}
		incomes[z.MSA] = append(incomes[z.MSA], h.Income)
	}

	medians := make(affordability.MedianIncomes, len(incomes)+len(fixed))
	for msa, values := range incomes {
		sort.Float64s(values)
		medians[msa] = stat.Quantile(0.5, stat.Empirical, values, nil)
	}
	for msa, v := range fixed {
		medians[msa] = v
	}

	for _, z := range store.Zones() {
		if _, ok := medians[z.MSA]; !ok {
			report.AddWarning(validation.Result{
				Level:   validation.LevelMarket,
				Message: fmt.Sprintf("MSA %d has no median income; restricted dwellings there admit nobody", z.MSA),
			})
			medians[z.MSA] = 0
		}
	}
	return medians
}
