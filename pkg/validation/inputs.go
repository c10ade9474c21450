// Package validation checks calculator inputs before any computation runs.
// Validators never fail: they return the ordered list of violated
// constraints, and an empty list means the inputs may be used.
package validation

import (
	"fmt"

	"github.com/iwvelando/finplan/pkg/constants"
	"github.com/iwvelando/finplan/pkg/mathutil"
)

// GrowthInputs are the fields checked before simulating portfolio growth.
type GrowthInputs struct {
	// InitialAmount is the amount invested at period zero.
	InitialAmount float64
	// PeriodicContribution is deposited at the end of every period.
	PeriodicContribution float64
	// AnnualRatePct is the annual effective rate in percent.
	AnnualRatePct float64
	// Years is the investment horizon.
	Years float64
}

// PensionInputs are the fields checked before sizing a retirement annuity.
type PensionInputs struct {
	// AnnualRatePct is the annual effective return during retirement, in percent.
	AnnualRatePct float64
	// RetirementYears is the payout horizon.
	RetirementYears float64
}

// BondInputs are the fields checked before pricing a bond.
type BondInputs struct {
	FaceValue        float64
	CouponRatePct    float64
	RequiredYieldPct float64
	YearsToMaturity  float64
}

// ValidateGrowth returns every violated growth constraint.
func ValidateGrowth(in GrowthInputs) []string {
	var errs []string
	errs = appendIf(errs, nonNegative("initial amount", in.InitialAmount))
	errs = appendIf(errs, nonNegative("periodic contribution", in.PeriodicContribution))
	errs = appendIf(errs, rateInRange("annual rate", in.AnnualRatePct))
	errs = appendIf(errs, positive("term in years", in.Years))
	return errs
}

// ValidatePension returns every violated retirement constraint.
func ValidatePension(in PensionInputs) []string {
	var errs []string
	errs = appendIf(errs, rateInRange("retirement annual rate", in.AnnualRatePct))
	errs = appendIf(errs, positive("retirement years", in.RetirementYears))
	return errs
}

// ValidateBond returns every violated bond constraint.
func ValidateBond(in BondInputs) []string {
	var errs []string
	errs = appendIf(errs, nonNegative("face value", in.FaceValue))
	errs = appendIf(errs, nonNegative("coupon rate", in.CouponRatePct))
	errs = appendIf(errs, nonNegative("required yield", in.RequiredYieldPct))
	errs = appendIf(errs, positive("years to maturity", in.YearsToMaturity))
	return errs
}

func appendIf(errs []string, msg string) []string {
	if msg == "" {
		return errs
	}
	return append(errs, msg)
}

func nonNegative(field string, v float64) string {
	if !mathutil.IsFinite(v) {
		return fmt.Sprintf("%s must be a finite number", field)
	}
	if v < 0 {
		return fmt.Sprintf("%s cannot be negative", field)
	}
	return ""
}

func positive(field string, v float64) string {
	if !mathutil.IsFinite(v) {
		return fmt.Sprintf("%s must be a finite number", field)
	}
	if v <= 0 {
		return fmt.Sprintf("%s must be greater than zero", field)
	}
	return ""
}

func rateInRange(field string, pct float64) string {
	if !mathutil.IsFinite(pct) {
		return fmt.Sprintf("%s must be a finite number", field)
	}
	if pct < 0 || pct > constants.MaxAnnualRatePct {
		return fmt.Sprintf("%s must be between 0%% and %.0f%%", field, constants.MaxAnnualRatePct)
	}
	return ""
}
