// Package bonds prices fixed-coupon bonds by discounting their cash flows.
package bonds

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/finplan/pkg/constants"
	"github.com/iwvelando/finplan/pkg/mathutil"
	"github.com/iwvelando/finplan/pkg/rates"
)

var (
	// ErrInvalidCouponRate is returned for a coupon rate outside [0, 100] percent.
	ErrInvalidCouponRate = errors.New("coupon rate must be between 0% and 100%")

	// ErrDegenerateBondTerm is returned when the term truncates to zero periods.
	ErrDegenerateBondTerm = errors.New("bond term yields no payment periods")
)

// Terms describes the bond to price.
type Terms struct {
	FaceValue        float64 `json:"faceValue" yaml:"faceValue"`
	CouponRatePct    float64 `json:"couponRatePct" yaml:"couponRatePct"`
	Frequency        string  `json:"frequency" yaml:"frequency"`
	YearsToMaturity  float64 `json:"yearsToMaturity" yaml:"yearsToMaturity"`
	RequiredYieldPct float64 `json:"requiredYieldPct" yaml:"requiredYieldPct"`
	// NominalYield splits the required yield evenly across periods like the
	// coupon. By default the yield is an annual effective rate.
	NominalYield bool `json:"nominalYield" yaml:"nominalYield"`
}

// CashFlow is one scheduled payment and its present value.
type CashFlow struct {
	Period         int     `json:"period" yaml:"period"`
	Coupon         float64 `json:"coupon" yaml:"coupon"`
	Principal      float64 `json:"principal" yaml:"principal"`
	TotalFlow      float64 `json:"totalFlow" yaml:"totalFlow"`
	DiscountFactor float64 `json:"discountFactor" yaml:"discountFactor"`
	PresentValue   float64 `json:"presentValue" yaml:"presentValue"`
}

// Summary holds the analytics derived from the discounted flows.
type Summary struct {
	TotalPeriods            int     `json:"totalPeriods" yaml:"totalPeriods"`
	CouponPayment           float64 `json:"couponPayment" yaml:"couponPayment"`
	TotalCoupons            float64 `json:"totalCoupons" yaml:"totalCoupons"`
	PresentValueOfCoupons   float64 `json:"presentValueOfCoupons" yaml:"presentValueOfCoupons"`
	PresentValueOfPrincipal float64 `json:"presentValueOfPrincipal" yaml:"presentValueOfPrincipal"`
	PeriodicDiscountRatePct float64 `json:"periodicDiscountRatePct" yaml:"periodicDiscountRatePct"`
	PremiumOrDiscount       float64 `json:"premiumOrDiscount" yaml:"premiumOrDiscount"`
	PremiumOrDiscountPct    float64 `json:"premiumOrDiscountPct" yaml:"premiumOrDiscountPct"`
}

// Valuation is the priced bond.
type Valuation struct {
	Terms             Terms           `json:"terms" yaml:"terms"`
	Frequency         rates.Frequency `json:"frequency" yaml:"frequency"`
	Flows             []CashFlow      `json:"flows" yaml:"flows"`
	PresentValueTotal float64         `json:"presentValueTotal" yaml:"presentValueTotal"`
	Summary           Summary         `json:"summary" yaml:"summary"`
}

// Classification says how a bond trades relative to its face value.
type Classification string

// Classifications.
const (
	Premium  Classification = "premium"
	Discount Classification = "discount"
	Par      Classification = "par"
)

// Price builds and discounts the cash-flow schedule of a fixed-coupon bond.
//
// Coupons are always the nominal split of the annual coupon rate. The
// discount rate is the effective periodic equivalent of the required yield
// unless Terms.NominalYield is set. Monetary figures are rounded to cents as
// each flow is recorded, and the total is the sum of the rounded present
// values.
func Price(terms Terms) (*Valuation, error) {
	freq, err := rates.ParseFrequencyIn(terms.Frequency, rates.BondFrequencies)
	if err != nil {
		return nil, fmt.Errorf("payment frequency: %w", err)
	}
	periodsPerYear := freq.PeriodsPerYear()

	if terms.CouponRatePct < 0 || terms.CouponRatePct > constants.MaxCouponRatePct || math.IsNaN(terms.CouponRatePct) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidCouponRate, terms.CouponRatePct)
	}

	totalPeriods := int(math.Floor(terms.YearsToMaturity * float64(periodsPerYear)))
	if totalPeriods < 1 {
		return nil, fmt.Errorf("%w: %v years at %s", ErrDegenerateBondTerm, terms.YearsToMaturity, freq)
	}

	couponRate, err := rates.SplitNominal(mathutil.PercentToFraction(terms.CouponRatePct), periodsPerYear)
	if err != nil {
		return nil, err
	}

	var discountRate float64
	if terms.NominalYield {
		discountRate, err = rates.SplitNominal(mathutil.PercentToFraction(terms.RequiredYieldPct), periodsPerYear)
	} else {
		discountRate, err = rates.ToPeriodic(mathutil.PercentToFraction(terms.RequiredYieldPct), periodsPerYear)
	}
	if err != nil {
		return nil, err
	}

	coupon := mathutil.Round(terms.FaceValue * couponRate)
	flows := make([]CashFlow, 0, totalPeriods)
	presentValues := make([]float64, 0, totalPeriods)

	for t := 1; t <= totalPeriods; t++ {
		principal := 0.0
		if t == totalPeriods {
			principal = mathutil.Round(terms.FaceValue)
		}
		total := mathutil.Round(coupon + principal)
		factor := math.Pow(1+discountRate, -float64(t))
		pv := mathutil.Round(total * factor)

		flows = append(flows, CashFlow{
			Period:         t,
			Coupon:         coupon,
			Principal:      principal,
			TotalFlow:      total,
			DiscountFactor: factor,
			PresentValue:   pv,
		})
		presentValues = append(presentValues, pv)
	}

	pvTotal := mathutil.Sum(presentValues...)
	pvPrincipal := flows[totalPeriods-1].PresentValue
	pvCoupons := 0.0
	if totalPeriods > 1 {
		pvCoupons = mathutil.Sum(presentValues[:totalPeriods-1]...)
	}

	premiumPct := 0.0
	if terms.FaceValue != 0 {
		premiumPct = (pvTotal/terms.FaceValue - 1) * constants.PercentageMultiplier
	}

	return &Valuation{
		Terms:             terms,
		Frequency:         freq,
		Flows:             flows,
		PresentValueTotal: pvTotal,
		Summary: Summary{
			TotalPeriods:            totalPeriods,
			CouponPayment:           coupon,
			TotalCoupons:            mathutil.Round(coupon * float64(totalPeriods)),
			PresentValueOfCoupons:   pvCoupons,
			PresentValueOfPrincipal: pvPrincipal,
			PeriodicDiscountRatePct: mathutil.FractionToPercent(discountRate),
			PremiumOrDiscount:       mathutil.Round(pvTotal - terms.FaceValue),
			PremiumOrDiscountPct:    premiumPct,
		},
	}, nil
}

// Classification compares the present value with the face value at cent
// precision.
func (v *Valuation) Classification() Classification {
	diff := mathutil.Round(v.PresentValueTotal - v.Terms.FaceValue)
	switch {
	case diff > 0:
		return Premium
	case diff < 0:
		return Discount
	default:
		return Par
	}
}
