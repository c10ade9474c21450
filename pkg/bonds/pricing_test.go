package bonds

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/finplan/pkg/mathutil"
	"github.com/iwvelando/finplan/pkg/rates"
)

func TestPriceDiscountExample(t *testing.T) {
	v, err := Price(Terms{FaceValue: 1000, CouponRatePct: 5, Frequency: "Anual", YearsToMaturity: 5, RequiredYieldPct: 6})
	if err != nil {
		t.Fatalf("Price() unexpected error: %v", err)
	}
	if len(v.Flows) != 5 {
		t.Fatalf("expected 5 flows, got %d", len(v.Flows))
	}
	if v.PresentValueTotal >= 1000 {
		t.Errorf("expected a discount price, got %.2f", v.PresentValueTotal)
	}
	if math.Abs(v.PresentValueTotal-957.87) > 0.001 {
		t.Errorf("expected present value 957.87, got %.4f", v.PresentValueTotal)
	}
	if v.Classification() != Discount {
		t.Errorf("expected discount classification, got %s", v.Classification())
	}
	if v.Summary.PremiumOrDiscount >= 0 || v.Summary.PremiumOrDiscountPct >= 0 {
		t.Errorf("expected negative premium figures, got %+v", v.Summary)
	}
	if v.Frequency != rates.Annual {
		t.Errorf("expected annual frequency, got %v", v.Frequency)
	}
}

func TestPriceRoundedFlows(t *testing.T) {
	v, err := Price(Terms{FaceValue: 1000, CouponRatePct: 5, Frequency: "annual", YearsToMaturity: 5, RequiredYieldPct: 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []float64{47.17, 44.50, 41.98, 39.60, 784.62}
	for i, pv := range expected {
		if v.Flows[i].PresentValue != pv {
			t.Errorf("flow %d present value = %v, expected %v", i+1, v.Flows[i].PresentValue, pv)
		}
	}
}

func TestPriceFlowInvariants(t *testing.T) {
	v, err := Price(Terms{FaceValue: 5000, CouponRatePct: 7.25, Frequency: "quarterly", YearsToMaturity: 8, RequiredYieldPct: 5.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n := len(v.Flows)
	if n != 32 || v.Summary.TotalPeriods != 32 {
		t.Fatalf("expected 32 periods, got %d flows and summary %d", n, v.Summary.TotalPeriods)
	}

	r := math.Pow(1.055, 0.25) - 1
	for i, f := range v.Flows {
		if f.Period != i+1 {
			t.Fatalf("flow %d has period %d", i, f.Period)
		}
		if i < n-1 && f.Principal != 0 {
			t.Errorf("period %d should carry no principal, got %.2f", f.Period, f.Principal)
		}
		if f.TotalFlow != mathutil.Round(f.Coupon+f.Principal) {
			t.Errorf("period %d total flow mismatch", f.Period)
		}
		if f.DiscountFactor <= 0 || f.DiscountFactor > 1 {
			t.Errorf("period %d discount factor %v out of (0, 1]", f.Period, f.DiscountFactor)
		}
		if math.Abs(f.DiscountFactor-math.Pow(1+r, -float64(f.Period))) > 1e-12 {
			t.Errorf("period %d discount factor %v", f.Period, f.DiscountFactor)
		}
		if math.Abs(f.PresentValue-f.TotalFlow*f.DiscountFactor) > 0.005+1e-9 {
			t.Errorf("period %d present value %v != %v x %v", f.Period, f.PresentValue, f.TotalFlow, f.DiscountFactor)
		}
	}
	if v.Flows[n-1].Principal != 5000 {
		t.Errorf("final period should repay face value, got %.2f", v.Flows[n-1].Principal)
	}

	s := v.Summary
	if s.PresentValueOfPrincipal != v.Flows[n-1].PresentValue {
		t.Errorf("principal PV %v should equal final flow PV %v", s.PresentValueOfPrincipal, v.Flows[n-1].PresentValue)
	}
	if mathutil.Round(s.PresentValueOfCoupons+s.PresentValueOfPrincipal) != v.PresentValueTotal {
		t.Errorf("coupon PV %v + principal PV %v != total %v", s.PresentValueOfCoupons, s.PresentValueOfPrincipal, v.PresentValueTotal)
	}
	if s.CouponPayment != 90.63 {
		t.Errorf("coupon payment = %v, expected 90.63", s.CouponPayment)
	}
	if s.TotalCoupons != mathutil.Round(90.63*32) {
		t.Errorf("total coupons = %v", s.TotalCoupons)
	}
	if s.PremiumOrDiscount != mathutil.Round(v.PresentValueTotal-5000) {
		t.Errorf("premium = %v", s.PremiumOrDiscount)
	}
	if math.Abs(s.PeriodicDiscountRatePct-r*100) > 1e-12 {
		t.Errorf("periodic discount rate = %v, expected %v", s.PeriodicDiscountRatePct, r*100)
	}
	if v.Classification() != Premium {
		t.Errorf("coupon above yield should price at a premium, got %s", v.Classification())
	}
}

func TestPriceParWhenCouponEqualsYield(t *testing.T) {
	tests := []struct {
		name  string
		terms Terms
	}{
		{"annual effective", Terms{FaceValue: 1000, CouponRatePct: 6, Frequency: "annual", YearsToMaturity: 10, RequiredYieldPct: 6}},
		{"semiannual nominal", Terms{FaceValue: 1000, CouponRatePct: 6, Frequency: "semiannual", YearsToMaturity: 10, RequiredYieldPct: 6, NominalYield: true}},
		{"monthly nominal", Terms{FaceValue: 2500, CouponRatePct: 4.5, Frequency: "monthly", YearsToMaturity: 3, RequiredYieldPct: 4.5, NominalYield: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Price(tt.terms)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tolerance := 0.005*float64(len(v.Flows)) + 0.01
			if math.Abs(v.PresentValueTotal-tt.terms.FaceValue) > tolerance {
				t.Errorf("expected about par %.2f, got %.2f", tt.terms.FaceValue, v.PresentValueTotal)
			}
		})
	}
}

func TestPriceCouponNeverCompounds(t *testing.T) {
	v, err := Price(Terms{FaceValue: 1000, CouponRatePct: 6, Frequency: "semestral", YearsToMaturity: 2, RequiredYieldPct: 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Summary.CouponPayment != 30 {
		t.Errorf("semiannual 6%% coupon on 1000 should be 30, got %v", v.Summary.CouponPayment)
	}
	// Effective discounting at 6% is gentler than the 3% nominal coupon split.
	if v.Classification() != Premium {
		t.Errorf("expected a slight premium, got %s at %.2f", v.Classification(), v.PresentValueTotal)
	}
}

func TestPriceNominalYieldDiscountsHarder(t *testing.T) {
	terms := Terms{FaceValue: 1000, CouponRatePct: 5, Frequency: "monthly", YearsToMaturity: 5, RequiredYieldPct: 8}
	effective, err := Price(terms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	terms.NominalYield = true
	nominal, err := Price(terms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nominal.PresentValueTotal >= effective.PresentValueTotal {
		t.Errorf("nominal split %.2f should price below effective %.2f", nominal.PresentValueTotal, effective.PresentValueTotal)
	}
	if math.Abs(nominal.Summary.PeriodicDiscountRatePct-8.0/12) > 1e-12 {
		t.Errorf("nominal periodic rate = %v", nominal.Summary.PeriodicDiscountRatePct)
	}
}

func TestPriceSinglePeriod(t *testing.T) {
	v, err := Price(Terms{FaceValue: 1000, CouponRatePct: 10, Frequency: "annual", YearsToMaturity: 1.7, RequiredYieldPct: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Flows) != 1 {
		t.Fatalf("expected a single flow, got %d", len(v.Flows))
	}
	if v.Summary.PresentValueOfCoupons != 0 {
		t.Errorf("single period bond should report no separate coupon PV, got %v", v.Summary.PresentValueOfCoupons)
	}
	if v.Summary.PresentValueOfPrincipal != v.PresentValueTotal {
		t.Errorf("principal PV should be the whole value")
	}
	if v.Classification() != Par {
		t.Errorf("expected par, got %s at %.2f", v.Classification(), v.PresentValueTotal)
	}
}

func TestPriceZeroFaceValue(t *testing.T) {
	v, err := Price(Terms{FaceValue: 0, CouponRatePct: 5, Frequency: "annual", YearsToMaturity: 3, RequiredYieldPct: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.PresentValueTotal != 0 || v.Summary.PremiumOrDiscountPct != 0 {
		t.Errorf("expected zero valuation, got %+v", v.Summary)
	}
}

func TestPriceErrors(t *testing.T) {
	tests := []struct {
		name     string
		terms    Terms
		expected error
	}{
		{"term under one period", Terms{FaceValue: 1000, CouponRatePct: 5, Frequency: "annual", YearsToMaturity: 0.4, RequiredYieldPct: 6}, ErrDegenerateBondTerm},
		{"half a month", Terms{FaceValue: 1000, CouponRatePct: 5, Frequency: "monthly", YearsToMaturity: 1.0 / 24, RequiredYieldPct: 6}, ErrDegenerateBondTerm},
		{"coupon above 100", Terms{FaceValue: 1000, CouponRatePct: 100.5, Frequency: "annual", YearsToMaturity: 5, RequiredYieldPct: 6}, ErrInvalidCouponRate},
		{"negative coupon", Terms{FaceValue: 1000, CouponRatePct: -1, Frequency: "annual", YearsToMaturity: 5, RequiredYieldPct: 6}, ErrInvalidCouponRate},
		{"unknown frequency", Terms{FaceValue: 1000, CouponRatePct: 5, Frequency: "weekly", YearsToMaturity: 5, RequiredYieldPct: 6}, rates.ErrUnknownFrequency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Price(tt.terms)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Price() error = %v, expected %v", err, tt.expected)
			}
			if v != nil {
				t.Errorf("expected no valuation on error")
			}
		})
	}
}

func TestPriceAcceptsBondOnlyFrequencies(t *testing.T) {
	for _, label := range []string{"Bimestral", "Cuatrimestral"} {
		v, err := Price(Terms{FaceValue: 1000, CouponRatePct: 5, Frequency: label, YearsToMaturity: 1, RequiredYieldPct: 5})
		if err != nil {
			t.Fatalf("Price(%s) unexpected error: %v", label, err)
		}
		expected := rates.Bimonthly.PeriodsPerYear()
		if label == "Cuatrimestral" {
			expected = rates.FourMonthly.PeriodsPerYear()
		}
		if len(v.Flows) != expected {
			t.Errorf("%s: expected %d flows, got %d", label, expected, len(v.Flows))
		}
	}
}
