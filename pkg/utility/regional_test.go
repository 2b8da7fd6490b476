package utility

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/msmobility/silo-sub013/pkg/analytics"
	"github.com/msmobility/silo-sub013/pkg/market"
)

// bracketPlusShare scores a region as its group share plus the income bracket,
// and adds 100 when a price is known.
type bracketPlusShare struct{}

func (bracketPlusShare) Utility(in RegionInputs) float64 {
	u := float64(in.IncomeBracket) + in.Share
	if in.HasPrice {
		u += 100
	}
	return u
}

func TestBuildRegionalTable(t *testing.T) {
	store := testStore(t)
	summary, _ := analytics.Resolve(2030, store, nil)
	composition, _ := analytics.ResolveComposition(2030, market.SchemeRace, store)

	table, err := BuildRegionalTable(context.Background(), 3, store.Regions(), summary, composition, bracketPlusShare{})
	if err != nil {
		t.Fatalf("BuildRegionalTable: %v", err)
	}
	if table.Year != 2030 || len(table.Regions) != 3 {
		t.Fatalf("table year %d with %d regions", table.Year, len(table.Regions))
	}

	row, err := table.Row(2030, 1, market.GroupBlack)
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	// Region 3 has no dwellings and so no price.
	want := []float64{101, 102, 1}
	for i := range want {
		if math.Abs(row[i]-want[i]) > 1e-12 {
			t.Fatalf("row = %v, want %v", row, want)
		}
	}

	u, err := table.Utility(2030, 2, market.GroupWhite, 1)
	if err != nil || math.Abs(u-103) > 1e-12 {
		t.Errorf("Utility = (%v, %v), want 103", u, err)
	}
	if _, err := table.Utility(2030, 2, market.GroupWhite, 9); err == nil {
		t.Error("expected error for a region outside the table")
	}
	if _, err := table.Row(2030, 1, market.GroupForeign); !errors.Is(err, ErrNoRow) {
		t.Errorf("foreign group: got %v, want ErrNoRow", err)
	}
	if _, err := table.Row(2030, 5, market.GroupWhite); !errors.Is(err, ErrNoRow) {
		t.Errorf("out of range bracket: got %v, want ErrNoRow", err)
	}
}

func TestRegionalTableRejectsOtherYears(t *testing.T) {
	store := testStore(t)
	summary, _ := analytics.Resolve(2030, store, nil)
	composition, _ := analytics.ResolveComposition(2031, market.SchemeRace, store)

	if _, err := BuildRegionalTable(context.Background(), 1, store.Regions(), summary, composition, bracketPlusShare{}); !errors.Is(err, ErrStaleTable) {
		t.Errorf("mismatched years: got %v, want ErrStaleTable", err)
	}

	composition.Year = 2030
	table, err := BuildRegionalTable(context.Background(), 1, store.Regions(), summary, composition, bracketPlusShare{})
	if err != nil {
		t.Fatalf("BuildRegionalTable: %v", err)
	}
	if _, err := table.Row(2031, 0, market.GroupWhite); !errors.Is(err, ErrStaleTable) {
		t.Errorf("Row of next year: got %v, want ErrStaleTable", err)
	}
	var nilTable *RegionalTable
	if _, err := nilTable.Row(2030, 0, market.GroupWhite); !errors.Is(err, ErrStaleTable) {
		t.Errorf("nil table: got %v, want ErrStaleTable", err)
	}
}

func TestRegionalEvaluator(t *testing.T) {
	fn, err := Compile(Coefficients{TermPrice: 1, TermAccess: 1, TermShare: 1, TermCrime: 1})
	if err != nil {
		t.Fatal(err)
	}
	curves := []PriceCurve{NewPriceCurve(500, []float64{0.5, 1.0})}
	e := NewRegionalEvaluator(curves, fn, testAccess())

	full := RegionInputs{
		Region:   &market.Region{ID: 1, CrimeRate: 0.2},
		AvgPrice: 300, HasPrice: true,
		Share: 0.4, HasShare: true,
	}
	// (0.5 + 0.6 + 0.4 + 0.8) / 4
	if got := e.Utility(full); math.Abs(got-0.575) > 1e-12 {
		t.Errorf("Utility = %v, want 0.575", got)
	}
	if n := e.MissingLookups(); n != 0 {
		t.Errorf("MissingLookups = %d, want 0", n)
	}

	bare := RegionInputs{Region: &market.Region{ID: 2}}
	if got := e.Utility(bare); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("Utility with missing inputs = %v, want 0.25", got)
	}
	if n := e.MissingLookups(); n != 3 {
		t.Errorf("MissingLookups = %d, want 3", n)
	}
}
