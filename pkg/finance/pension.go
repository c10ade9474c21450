package finance

import (
	"math"

	"github.com/iwvelando/finplan/pkg/constants"
	"github.com/iwvelando/finplan/pkg/mathutil"
	"github.com/iwvelando/finplan/pkg/rates"
)

// MonthlyPension returns the level end-of-month payment that depletes capital
// over retirementYears while the balance earns annualRatePct (effective).
//
// A non-positive horizon or a negative rate define no annuity and yield 0.
// A zero rate depletes the capital in equal instalments.
func MonthlyPension(capital, retirementYears, annualRatePct float64) float64 {
	if retirementYears <= 0 || annualRatePct < 0 {
		return 0
	}

	months := int(retirementYears * constants.MonthsPerYear)
	if months <= 0 {
		return 0
	}

	r, err := rates.ToPeriodic(mathutil.PercentToFraction(annualRatePct), constants.MonthsPerYear)
	if err != nil {
		return 0
	}
	if r == 0 {
		return capital / float64(months)
	}
	return capital * r / (1 - math.Pow(1+r, -float64(months)))
}
