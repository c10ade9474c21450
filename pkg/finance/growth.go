// Package finance implements the portfolio growth and retirement annuity
// calculators. Every function is a pure computation over its arguments.
package finance

import (
	"fmt"

	"github.com/iwvelando/finplan/pkg/mathutil"
	"github.com/iwvelando/finplan/pkg/rates"
)

// GrowthPeriod is one row of the growth ledger.
type GrowthPeriod struct {
	Period         int     `json:"period" yaml:"period"`
	Contribution   float64 `json:"contribution" yaml:"contribution"`
	OpeningBalance float64 `json:"openingBalance" yaml:"openingBalance"`
	Interest       float64 `json:"interest" yaml:"interest"`
	ClosingBalance float64 `json:"closingBalance" yaml:"closingBalance"`
}

// GrowthResult is the full ledger of a growth simulation.
type GrowthResult struct {
	Frequency          rates.Frequency `json:"frequency" yaml:"frequency"`
	PeriodicRate       float64         `json:"periodicRate" yaml:"periodicRate"`
	Periods            []GrowthPeriod  `json:"periods" yaml:"periods"`
	FinalBalance       float64         `json:"finalBalance" yaml:"finalBalance"`
	TotalContributions float64         `json:"totalContributions" yaml:"totalContributions"`
	TotalInterest      float64         `json:"totalInterest" yaml:"totalInterest"`
}

// SimulateGrowth compounds initialAmount at the periodic equivalent of
// annualRatePct, adding periodicContribution at the end of each period.
//
// Period 0 is a seed row holding the initial amount as its contribution.
// The ledger has floor(years * periodsPerYear) further rows. No rounding is
// applied; callers round for display.
func SimulateGrowth(initialAmount, periodicContribution float64, frequency string, years, annualRatePct float64) (*GrowthResult, error) {
	freq, err := rates.ParseFrequencyIn(frequency, rates.ContributionFrequencies)
	if err != nil {
		return nil, fmt.Errorf("contribution frequency: %w", err)
	}
	periodsPerYear := freq.PeriodsPerYear()

	r, err := rates.ToPeriodic(mathutil.PercentToFraction(annualRatePct), periodsPerYear)
	if err != nil {
		return nil, err
	}

	n := int(years * float64(periodsPerYear))
	if n < 0 {
		n = 0
	}

	contribution := 0.0
	if periodicContribution > 0 {
		contribution = periodicContribution
	}

	balance := initialAmount
	result := &GrowthResult{
		Frequency:          freq,
		PeriodicRate:       r,
		Periods:            make([]GrowthPeriod, 0, n+1),
		TotalContributions: initialAmount,
	}
	result.Periods = append(result.Periods, GrowthPeriod{
		Period:         0,
		Contribution:   initialAmount,
		OpeningBalance: initialAmount,
		ClosingBalance: initialAmount,
	})

	for i := 1; i <= n; i++ {
		opening := balance
		// Conversion keeps the product rounded so the ledger adds up exactly.
		interest := float64(balance * r)
		balance += interest
		balance += contribution

		result.TotalContributions += contribution
		result.TotalInterest += interest
		result.Periods = append(result.Periods, GrowthPeriod{
			Period:         i,
			Contribution:   contribution,
			OpeningBalance: opening,
			Interest:       interest,
			ClosingBalance: balance,
		})
	}

	result.FinalBalance = balance
	return result, nil
}

// CumulativeContributions returns the running total of contributions for
// each period, starting with the initial amount.
func (g *GrowthResult) CumulativeContributions() []float64 {
	out := make([]float64, len(g.Periods))
	total := 0.0
	for i, p := range g.Periods {
		total += p.Contribution
		out[i] = total
	}
	return out
}
