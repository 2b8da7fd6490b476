package main

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/msmobility/silo-sub013/pkg/analytics"
	"github.com/msmobility/silo-sub013/pkg/market"
	"github.com/msmobility/silo-sub013/pkg/relocation"
	"github.com/msmobility/silo-sub013/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.Path != "" {
				fmt.Printf("    -> %s = %v\n", e.Path, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
			for _, s := range e.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Printf("  [%s] %s\n", w.Level, w.Message)
			if w.Path != "" {
				fmt.Printf("    -> %s = %v\n", w.Path, w.ActualValue)
			}
			for _, s := range w.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printMarketSummary(name string, s *analytics.MarketSummary) {
	fmt.Printf("%s: market at the start of %d\n", name, s.Year)
	fmt.Println("==========================================")
	fmt.Printf("  Households: %d   Dwellings: %d   Vacant: %d\n", s.Households, s.Dwellings, s.Vacant)
	fmt.Println()

	fmt.Printf("%-6s %-16s %10s %10s %8s %9s %10s\n",
		"Region", "Name", "Households", "Dwellings", "Vacant", "Vac.rate", "Avg.price")
	fmt.Printf("%-6s %-16s %10s %10s %8s %9s %10s\n",
		"------", "----------------", "----------", "----------", "--------", "---------", "----------")
	for _, r := range s.Regions {
		fmt.Printf("%-6d %-16s %10d %10d %8d %8.1f%% %10s\n",
			r.ID, r.Name, r.Households, r.Dwellings, r.Vacant, r.VacancyRate*100, formatMoney(r.AvgPrice))
	}

	if len(s.MedianIncome) > 0 {
		fmt.Println()
		fmt.Println("Median household income by MSA")
		for _, msa := range slices.Sorted(maps.Keys(s.MedianIncome)) {
			fmt.Printf("  MSA %-4d $%s\n", msa, formatMoney(s.MedianIncome[msa]))
		}
	}
}

func printYearReport(r *relocation.YearReport, types market.TypeScheme) {
	fmt.Printf("Year %d (%s)\n", r.Year, r.Elapsed.Round(time.Millisecond))
	fmt.Printf("  households %d  stayed %d  moved %d  forced %d  no region %d  no dwelling %d\n",
		r.Households, r.Stayed, r.Moved, r.Forced, r.FailedNoRegion, r.FailedNoDwelling)
	if r.MissingLookups > 0 {
		fmt.Printf("  missing lookups counted as zero: %d\n", r.MissingLookups)
	}
	if r.Satisfaction == nil {
		return
	}
	fmt.Printf("  %-8s %-8s %10s %6s\n", "Size", "Income", "Satisfied", "Count")
	for t, avg := range r.Satisfaction.Average {
		n := r.Satisfaction.Households[t]
		if n == 0 {
			continue
		}
		size, income := types.Brackets(market.HouseholdType(t))
		sizeLabel := fmt.Sprintf("%d", size+1)
		if size+1 == types.MaxSize {
			sizeLabel += "+"
		}
		fmt.Printf("  %-8s %-8s %10.3f %6d\n", sizeLabel, incomeLabel(types, income), avg, n)
	}
}

func incomeLabel(types market.TypeScheme, bracket int) string {
	b := types.IncomeBounds
	switch {
	case len(b) == 0:
		return "all"
	case bracket == 0:
		return "<" + formatMoney(b[0])
	case bracket >= len(b):
		return formatMoney(b[len(b)-1]) + "+"
	default:
		return formatMoney(b[bracket-1]) + "-" + formatMoney(b[bracket])
	}
}

func formatMoney(v float64) string {
	if v >= 1_000_000_000 {
		return fmt.Sprintf("%.2fB", v/1_000_000_000)
	}
	if v >= 1_000_000 {
		return fmt.Sprintf("%.2fM", v/1_000_000)
	}
	if v >= 1_000 {
		return fmt.Sprintf("%.0fK", v/1_000)
	}
	return fmt.Sprintf("%.0f", v)
}
