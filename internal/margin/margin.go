// Package margin computes the marketplace commission charged on top of a
// purchase amount.
package margin

import "math"

type tier struct {
	upTo float64
	rate float64
}

// Upper bounds are inclusive. The matching rate applies to the whole amount.
var tiers = []tier{
	{upTo: 500, rate: 0.05},
	{upTo: 5000, rate: 0.10},
	{upTo: 10000, rate: 0.12},
	{upTo: math.Inf(1), rate: 0.15},
}

// Calculate returns the unrounded commission for amount.
func Calculate(amount float64) float64 {
	return amount * Rate(amount)
}

// Rate returns the commission rate of the tier amount falls into.
func Rate(amount float64) float64 {
	for _, t := range tiers {
		if amount <= t.upTo {
			return t.rate
		}
	}
	return tiers[len(tiers)-1].rate
}

// Round rounds v half away from zero to the smallest currency unit.
func Round(v float64) float64 {
	return float64(MinorUnits(v)) / 100
}

// MinorUnits converts a currency amount into minor units (paise, cents).
func MinorUnits(v float64) int64 {
	// 1e-9 absorbs binary representation error such as 1.005*100 = 100.49999.
	if v < 0 {
		return -int64(math.Floor(-v*100 + 0.5 + 1e-9))
	}
	return int64(math.Floor(v*100 + 0.5 + 1e-9))
}
