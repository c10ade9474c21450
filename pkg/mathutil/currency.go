// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/finplan/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Halves round away from zero on the shortest decimal representation of val,
// so 1.005 becomes 1.01 rather than suffering binary drift.
func Round(val float64) float64 {
	return RoundTo(val, constants.DecimalPlaces)
}

// RoundTo rounds a value to the given number of decimal places.
func RoundTo(val float64, places int32) float64 {
	if !IsFinite(val) {
		return val
	}
	return decimal.NewFromFloat(val).Round(places).InexactFloat64()
}

// Sum adds currency amounts exactly and returns the two-decimal total.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(constants.DecimalPlaces).InexactFloat64()
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// PercentToFraction converts a percentage such as 5.5 into 0.055.
func PercentToFraction(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// FractionToPercent converts a fraction such as 0.055 into 5.5.
func FractionToPercent(fraction float64) float64 {
	return fraction * constants.PercentageMultiplier
}
