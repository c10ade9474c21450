// Package testutil provides common fixtures for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/finplan/internal/config"
	"github.com/iwvelando/finplan/internal/planner"
)

// SamplePlan declares every section with small, hand-checkable inputs:
// 1000 growing at 10% a year with 100 added yearly reaches exactly 1420
// after two years, and the bond is the 5% coupon, 6% yield textbook case
// priced at 957.87.
func SamplePlan() config.Plan {
	return config.Plan{
		Growth: &config.GrowthPlan{
			InitialAmount:        1000,
			PeriodicContribution: 100,
			Frequency:            "annual",
			Years:                2,
			AnnualRatePct:        10,
		},
		Retirement: &config.RetirementPlan{
			Option:        "annuity",
			TaxRegime:     "foreign-source",
			Years:         10,
			AnnualRatePct: 4,
		},
		Bond: &config.BondPlan{
			FaceValue:        1000,
			CouponRatePct:    5,
			Frequency:        "annual",
			YearsToMaturity:  5,
			RequiredYieldPct: 6,
		},
	}
}

// SampleReport runs SamplePlan through a fresh planner.
func SampleReport(tb testing.TB) *planner.Report {
	tb.Helper()
	report, err := planner.New(nil).Run(SamplePlan())
	if err != nil {
		tb.Fatalf("failed to build sample report: %v", err)
	}
	return report
}
