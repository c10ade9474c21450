// Package output provides utilities for formatting and displaying plan results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/finplan/internal/planner"
	"github.com/iwvelando/finplan/pkg/constants"
	"github.com/iwvelando/finplan/pkg/format"
	"github.com/iwvelando/finplan/pkg/mathutil"
	"github.com/iwvelando/finplan/pkg/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Write renders report in the named format.
func Write(w io.Writer, outputFormat string, report *planner.Report) error {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	switch outputFormat {
	case constants.OutputFormatCSV:
		return CSVFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	case constants.OutputFormatYAML:
		return YAMLFormat(w, report)
	default:
		return PrettyFormat(w, report)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, report *planner.Report) error {
	if report.IsEmpty() {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}

	pw := &printer{w: w, p: message.NewPrinter(language.English)}

	if g := report.Growth; g != nil {
		pw.printf("--- Portfolio growth (%s) ---\n", g.Frequency)
		pw.printf("Period | Contribution   | Interest       | Balance\n")
		pw.printf("______ | ______________ | ______________ | ______________\n")
		for _, row := range g.Periods {
			pw.printf("%6d | $%13.2f | $%13.2f | $%13.2f\n", row.Period, row.Contribution, row.Interest, row.ClosingBalance)
		}
		pw.printf("Final balance: $%.2f\n", g.FinalBalance)
		pw.printf("Total contributions: $%.2f\n", g.TotalContributions)
		pw.printf("Total interest: $%.2f\n\n", g.TotalInterest)
	}

	if r := report.Retirement; r != nil {
		pw.printf("--- Retirement (%s) ---\n", r.Option)
		pw.printf("Capital: $%.2f\n", r.Capital)
		pw.printf("Tax regime: %s\n", r.Tax.Regime)
		pw.printf("Taxable gain: $%.2f\n", r.Tax.Gain)
		pw.printf("Tax: $%.2f\n", r.Tax.Tax)
		pw.printf("Net capital: $%.2f\n", r.Tax.Net)
		if r.Option == planner.Annuity {
			pw.printf("Gross monthly pension: $%.2f over %.1f years at %s\n", r.GrossMonthlyPension, r.Years, format.Percent(r.AnnualRatePct, 2))
			pw.printf("Net monthly pension: $%.2f\n", r.NetMonthlyPension)
		}
		pw.printf("\n")
	}

	if b := report.Bond; b != nil {
		pw.printf("--- Bond valuation (%s) ---\n", b.Frequency)
		pw.printf("Period | Coupon         | Principal      | Discount factor | Present value\n")
		pw.printf("______ | ______________ | ______________ | _______________ | ______________\n")
		for _, f := range b.Flows {
			pw.printf("%6d | $%13.2f | $%13.2f | %15.6f | $%13.2f\n", f.Period, f.Coupon, f.Principal, f.DiscountFactor, f.PresentValue)
		}
		pw.printf("Price: $%.2f (%s)\n", b.PresentValueTotal, b.Classification())
		pw.printf("Premium/discount: %s (%s)\n", format.SignedCurrency(b.Summary.PremiumOrDiscount), format.Percent(b.Summary.PremiumOrDiscountPct, 2))
		pw.printf("Present value of coupons: $%.2f\n", b.Summary.PresentValueOfCoupons)
		pw.printf("Present value of principal: $%.2f\n", b.Summary.PresentValueOfPrincipal)
		pw.printf("Periodic discount rate: %s\n", format.Percent(b.Summary.PeriodicDiscountRatePct, 4))
	}

	return pw.err
}

// printer keeps the first write error so the table code stays linear.
type printer struct {
	w   io.Writer
	p   *message.Printer
	err error
}

func (pw *printer) printf(f string, args ...interface{}) {
	if pw.err != nil {
		return
	}
	_, pw.err = pw.p.Fprintf(pw.w, f, args...)
}

// CSVFormat outputs in comma-separated value format. Each section is a header
// row followed by its rows; sections are separated by an empty line.
func CSVFormat(w io.Writer, report *planner.Report) error {
	cw := csv.NewWriter(w)
	var records [][]string

	if g := report.Growth; g != nil {
		records = append(records, []string{"period", "contribution", "opening balance", "interest", "closing balance"})
		for _, row := range g.Periods {
			records = append(records, []string{
				strconv.Itoa(row.Period),
				money(row.Contribution),
				money(row.OpeningBalance),
				money(row.Interest),
				money(row.ClosingBalance),
			})
		}
	}

	if r := report.Retirement; r != nil {
		if len(records) > 0 {
			records = append(records, nil)
		}
		records = append(records,
			[]string{"option", "tax regime", "capital", "cost basis", "gain", "tax", "net", "gross monthly pension", "net monthly pension"},
			[]string{
				string(r.Option),
				r.Tax.Regime.String(),
				money(r.Capital),
				money(r.Tax.CostBasis),
				money(r.Tax.Gain),
				money(r.Tax.Tax),
				money(r.Tax.Net),
				money(r.GrossMonthlyPension),
				money(r.NetMonthlyPension),
			},
		)
	}

	if b := report.Bond; b != nil {
		if len(records) > 0 {
			records = append(records, nil)
		}
		records = append(records, []string{"period", "coupon", "principal", "total flow", "discount factor", "present value"})
		for _, f := range b.Flows {
			records = append(records, []string{
				strconv.Itoa(f.Period),
				money(f.Coupon),
				money(f.Principal),
				money(f.TotalFlow),
				strconv.FormatFloat(f.DiscountFactor, 'f', 8, 64),
				money(f.PresentValue),
			})
		}
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// JSONFormat outputs the report as indented JSON.
func JSONFormat(w io.Writer, report *planner.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// YAMLFormat outputs the report as YAML.
func YAMLFormat(w io.Writer, report *planner.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

func money(v float64) string {
	return strconv.FormatFloat(mathutil.Round(v), 'f', constants.DecimalPlaces, 64)
}
