package pricing

import (
	"errors"
	"math"
	"testing"
)

func TestAggregateComboCost_SumsItemsAndPackaging(t *testing.T) {
	got := AggregateComboCost([]ComboItem{
		{UnitCost: 10, Quantity: 2},
		{UnitCost: 5, Quantity: 1},
	}, 3)

	nearlyEqual(t, "itemsCost", got.ItemsCost, 25)
	nearlyEqual(t, "packagingCost", got.PackagingCost, 3)
	nearlyEqual(t, "totalCost", got.TotalCost, 28)
}

func TestAggregateComboCost_DecimalCentsDoNotDrift(t *testing.T) {
	items := make([]ComboItem, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, ComboItem{UnitCost: 0.1, Quantity: 3})
	}

	got := AggregateComboCost(items, 0.2)

	if got.ItemsCost != 3 {
		t.Fatalf("itemsCost = %v, want exactly 3", got.ItemsCost)
	}
	if got.TotalCost != 3.2 {
		t.Fatalf("totalCost = %v, want exactly 3.2", got.TotalCost)
	}
}

func TestAggregateComboCost_InvalidValuesCountAsZero(t *testing.T) {
	got := AggregateComboCost([]ComboItem{
		{UnitCost: math.NaN(), Quantity: 4},
		{UnitCost: math.Inf(1), Quantity: 1},
		{UnitCost: -3, Quantity: 2},
		{UnitCost: 7, Quantity: -1},
		{UnitCost: 12.5, Quantity: 2},
	}, math.NaN())

	nearlyEqual(t, "itemsCost", got.ItemsCost, 25)
	nearlyEqual(t, "packagingCost", got.PackagingCost, 0)
	nearlyEqual(t, "totalCost", got.TotalCost, 25)
}

func TestAggregateComboCost_Empty(t *testing.T) {
	got := AggregateComboCost(nil, 4.5)

	nearlyEqual(t, "itemsCost", got.ItemsCost, 0)
	nearlyEqual(t, "totalCost", got.TotalCost, 4.5)
}

func TestParseComboItem_Lenient(t *testing.T) {
	cases := []struct {
		cost, qty string
		want      ComboItem
	}{
		{"10.5", "2", ComboItem{UnitCost: 10.5, Quantity: 2}},
		{" 8 ", " 3 ", ComboItem{UnitCost: 8, Quantity: 3}},
		{"", "2", ComboItem{Quantity: 2}},
		{"abc", "x", ComboItem{}},
		{"4", "-2", ComboItem{UnitCost: 4}},
	}
	for _, tc := range cases {
		if got := ParseComboItem(tc.cost, tc.qty); got != tc.want {
			t.Fatalf("ParseComboItem(%q, %q) = %+v, want %+v", tc.cost, tc.qty, got, tc.want)
		}
	}
}

func TestRecommendCombo_UsesTotalCost(t *testing.T) {
	engine := NewEngine(DefaultEngineConfig())

	breakdown, rec, err := engine.RecommendCombo([]ComboItem{
		{UnitCost: 40, Quantity: 2},
		{UnitCost: 15, Quantity: 1},
	}, 5, Options{})
	if err != nil {
		t.Fatalf("RecommendCombo: %v", err)
	}

	nearlyEqual(t, "totalCost", breakdown.TotalCost, 100)
	nearlyEqual(t, "suggested", rec.Suggested, 150)
}

func TestRecommendCombo_ZeroTotalIsValidationError(t *testing.T) {
	engine := NewEngine(DefaultEngineConfig())

	breakdown, _, err := engine.RecommendCombo(nil, 0, Options{})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	nearlyEqual(t, "totalCost", breakdown.TotalCost, 0)
}
