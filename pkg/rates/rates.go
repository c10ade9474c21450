// Package rates converts annual rates into per-period rates and owns the
// closed set of payment frequencies understood by the calculators.
package rates

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRateFrequency is returned when the number of compounding periods
// per year is not positive.
var ErrInvalidRateFrequency = errors.New("periods per year must be greater than zero")

// ToPeriodic converts an annual effective rate (as a fraction, 0.12 for 12%)
// into the equivalent effective rate for one of periodsPerYear sub-periods:
// (1 + annual)^(1/m) - 1.
func ToPeriodic(annualEffectiveRate float64, periodsPerYear int) (float64, error) {
	if periodsPerYear <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidRateFrequency, periodsPerYear)
	}
	return math.Pow(1+annualEffectiveRate, 1/float64(periodsPerYear)) - 1, nil
}

// SplitNominal divides a nominal annual rate evenly across periodsPerYear
// periods without compounding. Bond coupons are always sized this way.
func SplitNominal(annualNominalRate float64, periodsPerYear int) (float64, error) {
	if periodsPerYear <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidRateFrequency, periodsPerYear)
	}
	return annualNominalRate / float64(periodsPerYear), nil
}
