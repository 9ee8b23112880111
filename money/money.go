package money

import (
	"fmt"
	"math"
)

// All amounts in this codebase are integer minor units (cents). Floats only
// appear transiently inside rounding.

// PercentageOf returns rate (e.g. 0.015 for 1.5%) of amountCents, rounded to
// the nearest cent.
func PercentageOf(amountCents int64, rate float64) int64 {
	return int64(math.Round(float64(amountCents) * rate))
}

// FeeWithFloor computes a percentage fee with a fixed minimum. The fee is
// rounded before being subtracted from the gross, so net = gross - fee holds
// exactly.
func FeeWithFloor(grossCents int64, rate float64, floorCents int64) int64 {
	fee := PercentageOf(grossCents, rate)
	if fee < floorCents {
		fee = floorCents
	}
	return fee
}

// FormatUSD renders cents as a dollar string for emails and receipts.
func FormatUSD(amountCents int64) string {
	sign := ""
	if amountCents < 0 {
		sign = "-"
		amountCents = -amountCents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, amountCents/100, amountCents%100)
}
