package model

import (
	"math"
	"testing"
)

func TestCostArithmetic(t *testing.T) {
	a := Cost{100, 50, 2, 1}
	b := Cost{25, 75, 1, 0}

	if got, want := a.Add(b), (Cost{125, 125, 3, 1}); got != want {
		t.Errorf("Add = %v, want %v", got, want)
	}
	if got, want := a.Sub(b), (Cost{75, -25, 1, 1}); got != want {
		t.Errorf("Sub = %v, want %v", got, want)
	}
	if got, want := a.Scale(2), (Cost{200, 100, 4, 2}); got != want {
		t.Errorf("Scale = %v, want %v", got, want)
	}
	if got, want := a.Max(b), (Cost{100, 75, 2, 1}); got != want {
		t.Errorf("Max = %v, want %v", got, want)
	}
}

func TestCostDiv(t *testing.T) {
	got := Cost{100, 0, 2, -1}.Div(Cost{10, 0, 0, 0})
	if got.Minerals != 10 {
		t.Errorf("Div minerals = %v, want 10", got.Minerals)
	}
	if got.Vespene != 0 {
		t.Errorf("Div vespene = %v, want 0", got.Vespene)
	}
	if !math.IsInf(got.Supply, 1) {
		t.Errorf("Div supply = %v, want +Inf", got.Supply)
	}
	if got.Larva != 0 {
		t.Errorf("Div larva = %v, want 0", got.Larva)
	}
}

func TestETA(t *testing.T) {
	tests := []struct {
		name                        string
		bank, income, reserve, cost Cost
		want                        float64
	}{
		{"affordable", Cost{300, 100, 10, 3}, Cost{10, 1, 0, 0.1}, Cost{}, Cost{50, 0, 1, 1}, 0},
		{"mineral deficit", Cost{0, 0, 10, 3}, Cost{10, 0, 0, 0}, Cost{}, Cost{50, 0, 1, 1}, 5},
		{"reserve pushes out", Cost{50, 0, 10, 3}, Cost{10, 0, 0, 0}, Cost{100, 0, 0, 0}, Cost{50, 0, 1, 1}, 10},
		{"max over components", Cost{0, 0, 10, 0}, Cost{10, 1, 0, 0.5}, Cost{}, Cost{50, 25, 2, 1}, 25},
		{"zero income needed", Cost{0, 0, 10, 1}, Cost{10, 0, 0, 0}, Cost{}, Cost{50, 25, 0, 0}, math.Inf(1)},
		{"deficit ignored when cost zero", Cost{100, 0, 0, 1}, Cost{}, Cost{0, 50, 0, 0}, Cost{50, 0, 0, 0}, 0},
	}
	for _, tc := range tests {
		got := ETA(tc.bank, tc.income, tc.reserve, tc.cost)
		if got != tc.want {
			t.Errorf("%s: ETA = %v, want %v", tc.name, got, tc.want)
		}
	}
}
