package utility

import (
	"math"
	"testing"
)

func TestCompileWeightedMean(t *testing.T) {
	fn, err := Compile(Coefficients{TermPrice: 3, TermQuality: 1, TermCrime: 0})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	var in Inputs
	in[TermPrice] = 1
	in[TermQuality] = 0.5
	in[TermCrime] = 1 // zero weight, ignored
	if got := fn(&in); math.Abs(got-0.875) > 1e-12 {
		t.Errorf("utility = %v, want 0.875", got)
	}

	var ones Inputs
	for i := range ones {
		ones[i] = 1
	}
	if got := fn(&ones); math.Abs(got-1) > 1e-12 {
		t.Errorf("all-one inputs = %v, want 1", got)
	}
}

func TestCompileRejectsBadTables(t *testing.T) {
	tests := []struct {
		name string
		c    Coefficients
	}{
		{"empty", Coefficients{}},
		{"all zero", Coefficients{TermPrice: 0}},
		{"negative", Coefficients{TermPrice: 1, TermSize: -0.1}},
		{"unknown term", Coefficients{Term(99): 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(tt.c); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWithOverrides(t *testing.T) {
	base := Coefficients{TermPrice: 0.5, TermQuality: 0.5}
	out, err := base.WithOverrides(map[string]float64{"price": 0.9, "school": 0.1})
	if err != nil {
		t.Fatalf("WithOverrides: %v", err)
	}
	if out[TermPrice] != 0.9 || out[TermSchool] != 0.1 || out[TermQuality] != 0.5 {
		t.Errorf("overrides = %v", out)
	}
	if base[TermPrice] != 0.5 {
		t.Error("WithOverrides modified its receiver")
	}
	if _, err := base.WithOverrides(map[string]float64{"view": 1}); err == nil {
		t.Error("expected error for unknown term name")
	}
}

func TestParseTerm(t *testing.T) {
	for term := TermPrice; term < numTerms; term++ {
		got, err := ParseTerm(term.String())
		if err != nil || got != term {
			t.Errorf("ParseTerm(%q) = (%v, %v)", term.String(), got, err)
		}
	}
}

func TestPresets(t *testing.T) {
	for _, name := range []string{"us-race-v1", "de-nationality-v1"} {
		set, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%s): %v", name, err)
		}
		if _, err := Compile(set.Dwelling); err != nil {
			t.Errorf("%s dwelling table: %v", name, err)
		}
		if _, err := Compile(set.Region); err != nil {
			t.Errorf("%s region table: %v", name, err)
		}
	}

	a, _ := Preset("us-race-v1")
	a.Dwelling[TermPrice] = 99
	b, _ := Preset("us-race-v1")
	if b.Dwelling[TermPrice] == 99 {
		t.Error("Preset returned a shared table")
	}

	if _, err := Preset("fr-v0"); err == nil {
		t.Error("expected error for unknown preset")
	}
}
