package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ComboItem is one line of a bundle: a unit cost bought quantity times.
type ComboItem struct {
	UnitCost float64 `json:"unit_cost"`
	Quantity int     `json:"quantity"`
}

// ComboCostBreakdown is the rolled-up cost of a bundle.
type ComboCostBreakdown struct {
	ItemsCost     float64 `json:"items_cost"`
	PackagingCost float64 `json:"packaging_cost"`
	TotalCost     float64 `json:"total_cost"`
}

// AggregateComboCost sums unit cost times quantity over items and adds packaging.
// Unknown or invalid costs and quantities count as zero; it never fails.
func AggregateComboCost(items []ComboItem, packaging float64) ComboCostBreakdown {
	itemsCost := decimal.Zero
	for _, item := range items {
		cost := sanitizeCost(item.UnitCost)
		if item.Quantity <= 0 || cost.IsZero() {
			continue
		}
		itemsCost = itemsCost.Add(cost.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	packagingCost := sanitizeCost(packaging)

	return ComboCostBreakdown{
		ItemsCost:     itemsCost.InexactFloat64(),
		PackagingCost: packagingCost.InexactFloat64(),
		TotalCost:     itemsCost.Add(packagingCost).InexactFloat64(),
	}
}

// ParseComboItem builds a ComboItem from raw form values. Blank or malformed fields become 0.
func ParseComboItem(unitCostRaw, quantityRaw string) ComboItem {
	var item ComboItem
	if v, err := strconv.ParseFloat(strings.TrimSpace(unitCostRaw), 64); err == nil {
		item.UnitCost = v
	}
	if q, err := strconv.Atoi(strings.TrimSpace(quantityRaw)); err == nil && q > 0 {
		item.Quantity = q
	}
	return item
}

// RecommendCombo rolls up the bundle cost and prices the total with e.
func (e *Engine) RecommendCombo(items []ComboItem, packaging float64, opts Options) (ComboCostBreakdown, Recommendation, error) {
	breakdown := AggregateComboCost(items, packaging)
	rec, err := e.Recommend(breakdown.TotalCost, opts)
	if err != nil {
		return breakdown, Recommendation{}, err
	}
	return breakdown, rec, nil
}

func sanitizeCost(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
