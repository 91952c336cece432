package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// DefaultEndings are the digit endings used when a rule does not set its own.
var DefaultEndings = []string{"9", "0"}

// candidate is one rounded value together with its distance from the raw price.
type candidate struct {
	value    decimal.Decimal
	distance decimal.Decimal
}

// PrettyPrice rounds raw to the nearest non-negative integer whose final digits match one of
// endings. Endings tie on distance in the order given; within one ending the lower value wins.
// When endings holds no valid entry, or raw is negative or not finite, raw is returned as is.
func PrettyPrice(raw float64, endings []string) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw < 0 {
		return raw
	}

	rounded, ok := prettyDecimal(decimal.NewFromFloat(raw), endings)
	if !ok {
		return raw
	}
	return rounded.InexactFloat64()
}

// ValidEnding reports whether ending is a non-empty run of ASCII digits.
func ValidEnding(ending string) bool {
	if ending == "" {
		return false
	}
	for i := 0; i < len(ending); i++ {
		if ending[i] < '0' || ending[i] > '9' {
			return false
		}
	}
	return true
}

func prettyDecimal(raw decimal.Decimal, endings []string) (decimal.Decimal, bool) {
	var best candidate
	found := false
	for _, ending := range endings {
		c, ok := nearestWithEnding(raw, ending)
		if !ok {
			continue
		}
		// Strict comparison keeps the earlier ending on a tie.
		if !found || c.distance.LessThan(best.distance) {
			best = c
			found = true
		}
	}
	if !found {
		return raw, false
	}
	return best.value, true
}

// nearestWithEnding looks one step above and one step below raw for an integer ending in
// ending and returns the closer of the two.
func nearestWithEnding(raw decimal.Decimal, ending string) (candidate, bool) {
	if !ValidEnding(ending) {
		return candidate{}, false
	}

	suffix, err := decimal.NewFromString(ending)
	if err != nil {
		return candidate{}, false
	}
	step := decimal.New(1, int32(len(ending)))
	anchor := raw.Sub(raw.Mod(step)).Add(suffix)

	above := anchor
	if above.LessThan(raw) {
		above = above.Add(step)
	}
	below := anchor
	if below.GreaterThan(raw) {
		below = below.Sub(step)
	}

	best := candidate{value: above, distance: above.Sub(raw)}
	if below.IsNegative() {
		return best, true
	}
	if d := raw.Sub(below); d.LessThanOrEqual(best.distance) {
		best = candidate{value: below, distance: d}
	}
	return best, true
}
