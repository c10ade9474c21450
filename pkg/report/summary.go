package report

import (
	"strconv"
	"strings"

	"github.com/iwvelando/finplan/internal/planner"
	"github.com/iwvelando/finplan/pkg/format"
)

// NoActiveSimulations is the summary of an empty report.
const NoActiveSimulations = "No active simulations."

// ContextSummary describes the active simulations in plain text, one block
// per result, for use as context by an external assistant.
func ContextSummary(r *planner.Report) string {
	if r.IsEmpty() {
		return NoActiveSimulations
	}

	var blocks []string

	if r.Growth != nil {
		var b strings.Builder
		b.WriteString("Active simulation: portfolio growth\n")
		if in := r.GrowthInputs; in != nil {
			b.WriteString("- Initial investment: " + format.Currency(in.InitialAmount) + "\n")
			b.WriteString("- Contribution: " + format.Currency(in.PeriodicContribution) + " " + r.Growth.Frequency.String() + "\n")
			b.WriteString("- Annual effective rate: " + format.Percent(in.AnnualRatePct, 2) + "\n")
			b.WriteString("- Term: " + trimFloat(in.Years) + " years\n")
		}
		b.WriteString("- Future value: " + format.Currency(r.Growth.FinalBalance) + "\n")
		blocks = append(blocks, b.String())
	}

	if rt := r.Retirement; rt != nil {
		var b strings.Builder
		b.WriteString("Active simulation: retirement (" + string(rt.Option) + ")\n")
		b.WriteString("- Capital: " + format.Currency(rt.Capital) + "\n")
		b.WriteString("- Tax regime: " + rt.Tax.Regime.String() + "\n")
		b.WriteString("- Tax: " + format.Currency(rt.Tax.Tax) + "\n")
		b.WriteString("- Net capital: " + format.Currency(rt.Tax.Net) + "\n")
		if rt.Option == planner.Annuity {
			b.WriteString("- Net monthly pension: " + format.Currency(rt.NetMonthlyPension) + " for " + trimFloat(rt.Years) + " years\n")
		}
		blocks = append(blocks, b.String())
	}

	if bond := r.Bond; bond != nil {
		var b strings.Builder
		b.WriteString("Active simulation: bond\n")
		b.WriteString("- Face value: " + format.Currency(bond.Terms.FaceValue) + "\n")
		b.WriteString("- Coupon rate: " + format.Percent(bond.Terms.CouponRatePct, 2) + " " + bond.Frequency.String() + "\n")
		b.WriteString("- Required yield: " + format.Percent(bond.Terms.RequiredYieldPct, 2) + "\n")
		b.WriteString("- Fair price: " + format.Currency(bond.PresentValueTotal) + " (" + string(bond.Classification()) + ")\n")
		blocks = append(blocks, b.String())
	}

	return strings.TrimRight(strings.Join(blocks, "\n"), "\n")
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
