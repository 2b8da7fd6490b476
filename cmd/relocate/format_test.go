package main

import (
	"testing"

	"github.com/msmobility/silo-sub013/pkg/market"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{950, "950"},
		{45_000, "45K"},
		{2_500_000, "2.50M"},
		{1_200_000_000, "1.20B"},
	}
	for _, tt := range tests {
		if got := formatMoney(tt.v); got != tt.want {
			t.Errorf("formatMoney(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestIncomeLabel(t *testing.T) {
	types := market.TypeScheme{IncomeBounds: []float64{20_000, 60_000}, MaxSize: 4}
	tests := []struct {
		bracket int
		want    string
	}{
		{0, "<20K"},
		{1, "20K-60K"},
		{2, "60K+"},
	}
	for _, tt := range tests {
		if got := incomeLabel(types, tt.bracket); got != tt.want {
			t.Errorf("incomeLabel(%d) = %q, want %q", tt.bracket, got, tt.want)
		}
	}
	if got := incomeLabel(market.TypeScheme{MaxSize: 4}, 0); got != "all" {
		t.Errorf("incomeLabel without bounds = %q, want all", got)
	}
}
