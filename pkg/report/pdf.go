// Package report renders plan results for people: a PDF document, a growth
// chart and a plain-text summary of the active simulations.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/iwvelando/finplan/internal/planner"
	"github.com/iwvelando/finplan/pkg/format"
)

// Page layout constants (A4 in mm)
const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
	chartImage   = "growth-chart"
)

type pdfReport struct {
	pdf    *fpdf.Fpdf
	report *planner.Report
}

// WritePDF writes a tabular PDF of every result in r. The growth section
// embeds the growth chart.
func WritePDF(w io.Writer, r *planner.Report) error {
	if r.IsEmpty() {
		return fmt.Errorf("report has no results to render")
	}

	doc := &pdfReport{
		pdf:    fpdf.New("P", "mm", "A4", ""),
		report: r,
	}
	doc.pdf.SetMargins(marginLeft, marginTop, marginRight)
	doc.pdf.SetAutoPageBreak(true, marginBottom)
	doc.pdf.SetTitle("Financial plan", true)

	if r.Growth != nil {
		if err := doc.addGrowth(); err != nil {
			return err
		}
	}
	if r.Retirement != nil {
		doc.addRetirement()
	}
	if r.Bond != nil {
		doc.addBond()
	}

	if err := doc.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (d *pdfReport) heading(title string) {
	d.pdf.AddPage()
	d.pdf.SetFont("Arial", "B", 18)
	d.pdf.SetTextColor(0, 51, 102)
	d.pdf.CellFormat(contentWidth, 12, title, "", 1, "L", false, 0, "")
	d.pdf.Ln(4)
}

func (d *pdfReport) keyValues(rows [][2]string) {
	d.pdf.SetFont("Arial", "", 11)
	d.pdf.SetTextColor(50, 50, 50)
	for _, row := range rows {
		d.pdf.CellFormat(contentWidth*0.5, 7, row[0], "", 0, "L", false, 0, "")
		d.pdf.CellFormat(contentWidth*0.5, 7, row[1], "", 1, "R", false, 0, "")
	}
	d.pdf.Ln(4)
}

func (d *pdfReport) table(header []string, rows [][]string) {
	colWidth := contentWidth / float64(len(header))

	d.pdf.SetFont("Arial", "B", 9)
	d.pdf.SetFillColor(245, 247, 250)
	d.pdf.SetTextColor(0, 51, 102)
	for _, h := range header {
		d.pdf.CellFormat(colWidth, 7, h, "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)

	d.pdf.SetFont("Arial", "", 9)
	d.pdf.SetTextColor(50, 50, 50)
	for _, row := range rows {
		for _, cell := range row {
			d.pdf.CellFormat(colWidth, 6, cell, "1", 0, "R", false, 0, "")
		}
		d.pdf.Ln(-1)
	}
}

func (d *pdfReport) addGrowth() error {
	g := d.report.Growth
	d.heading("Portfolio growth")

	var rows [][2]string
	if in := d.report.GrowthInputs; in != nil {
		rows = append(rows,
			[2]string{"Initial investment", format.Currency(in.InitialAmount)},
			[2]string{"Contribution (" + g.Frequency.String() + ")", format.Currency(in.PeriodicContribution)},
			[2]string{"Annual effective rate", format.Percent(in.AnnualRatePct, 2)},
			[2]string{"Term", strconv.FormatFloat(in.Years, 'f', -1, 64) + " years"},
		)
	}
	rows = append(rows,
		[2]string{"Final balance", format.Currency(g.FinalBalance)},
		[2]string{"Total contributions", format.Currency(g.TotalContributions)},
		[2]string{"Total interest", format.Currency(g.TotalInterest)},
	)
	d.keyValues(rows)

	if len(g.Periods) >= 2 {
		png, err := RenderGrowthChart(g)
		if err != nil {
			return err
		}
		d.pdf.RegisterImageOptionsReader(chartImage, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		if err := d.pdf.Error(); err != nil {
			return fmt.Errorf("failed to embed growth chart: %w", err)
		}
		d.pdf.ImageOptions(chartImage, marginLeft, d.pdf.GetY(), contentWidth, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		d.pdf.Ln(4)
	}

	tableRows := make([][]string, 0, len(g.Periods))
	for _, p := range g.Periods {
		tableRows = append(tableRows, []string{
			strconv.Itoa(p.Period),
			format.NumericCurrency(p.Contribution),
			format.NumericCurrency(p.OpeningBalance),
			format.NumericCurrency(p.Interest),
			format.NumericCurrency(p.ClosingBalance),
		})
	}
	d.table([]string{"Period", "Contribution", "Opening", "Interest", "Closing"}, tableRows)
	return nil
}

func (d *pdfReport) addRetirement() {
	r := d.report.Retirement
	d.heading("Retirement (" + string(r.Option) + ")")

	rows := [][2]string{
		{"Capital", format.Currency(r.Capital)},
		{"Cost basis", format.Currency(r.Tax.CostBasis)},
		{"Tax regime", r.Tax.Regime.String()},
		{"Taxable gain", format.Currency(r.Tax.Gain)},
		{"Tax", format.Currency(r.Tax.Tax)},
		{"Net capital", format.Currency(r.Tax.Net)},
	}
	if r.Option == planner.Annuity {
		rows = append(rows,
			[2]string{"Retirement term", strconv.FormatFloat(r.Years, 'f', -1, 64) + " years"},
			[2]string{"Annual effective rate", format.Percent(r.AnnualRatePct, 2)},
			[2]string{"Gross monthly pension", format.Currency(r.GrossMonthlyPension)},
			[2]string{"Net monthly pension", format.Currency(r.NetMonthlyPension)},
		)
	}
	d.keyValues(rows)
}

func (d *pdfReport) addBond() {
	b := d.report.Bond
	d.heading("Bond valuation")

	d.keyValues([][2]string{
		{"Face value", format.Currency(b.Terms.FaceValue)},
		{"Coupon rate (" + b.Frequency.String() + ")", format.Percent(b.Terms.CouponRatePct, 2)},
		{"Required yield", format.Percent(b.Terms.RequiredYieldPct, 2)},
		{"Periodic discount rate", format.Percent(b.Summary.PeriodicDiscountRatePct, 4)},
		{"Fair price", format.Currency(b.PresentValueTotal)},
		{"Classification", string(b.Classification())},
		{"Premium/discount", format.SignedCurrency(b.Summary.PremiumOrDiscount) + " (" + format.Percent(b.Summary.PremiumOrDiscountPct, 2) + ")"},
		{"PV of coupons", format.Currency(b.Summary.PresentValueOfCoupons)},
		{"PV of principal", format.Currency(b.Summary.PresentValueOfPrincipal)},
	})

	rows := make([][]string, 0, len(b.Flows))
	for _, f := range b.Flows {
		rows = append(rows, []string{
			strconv.Itoa(f.Period),
			format.NumericCurrency(f.Coupon),
			format.NumericCurrency(f.Principal),
			format.NumericCurrency(f.TotalFlow),
			strconv.FormatFloat(f.DiscountFactor, 'f', 6, 64),
			format.NumericCurrency(f.PresentValue),
		})
	}
	d.table([]string{"Period", "Coupon", "Principal", "Total flow", "Discount factor", "Present value"}, rows)
}
