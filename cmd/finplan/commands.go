package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/iwvelando/finplan/internal/planner"
	"github.com/iwvelando/finplan/pkg/bonds"
	"github.com/iwvelando/finplan/pkg/constants"
	"github.com/iwvelando/finplan/pkg/finance"
	"github.com/iwvelando/finplan/pkg/format"
	"github.com/iwvelando/finplan/pkg/output"
	"github.com/iwvelando/finplan/pkg/report"
	"github.com/iwvelando/finplan/pkg/tax"
	"github.com/iwvelando/finplan/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func newGrowthCmd(a *app) *cobra.Command {
	var req planner.GrowthRequest
	var chartPath string

	cmd := &cobra.Command{
		Use:   "growth",
		Short: "Simulate portfolio growth with periodic contributions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := planner.New(a.logger)
			result, err := p.RunGrowth(req)
			if err != nil {
				return err
			}
			if chartPath != "" {
				png, err := report.RenderGrowthChart(result)
				if err != nil {
					return err
				}
				if err := os.WriteFile(chartPath, png, 0644); err != nil {
					return fmt.Errorf("failed to write chart: %w", err)
				}
				a.logger.Info("growth chart written",
					zap.String("op", "main.growth"),
					zap.String("path", chartPath),
				)
			}
			return output.Write(a.out, a.conf.Output.Format, p.Report())
		},
	}
	cmd.Flags().Float64Var(&req.InitialAmount, "initial", 0, "initial investment")
	cmd.Flags().Float64Var(&req.PeriodicContribution, "contribution", 0, "contribution at the end of each period")
	cmd.Flags().StringVar(&req.Frequency, "frequency", "monthly", "contribution frequency: monthly, quarterly, semiannual, annual")
	cmd.Flags().Float64Var(&req.Years, "years", 0, "investment horizon in years")
	cmd.Flags().Float64Var(&req.AnnualRatePct, "rate", 0, "annual effective rate in percent")
	cmd.Flags().StringVar(&chartPath, "chart", "", "also write a PNG growth chart to this path")
	return cmd
}

type pensionResult struct {
	Capital         float64 `json:"capital" yaml:"capital"`
	RetirementYears float64 `json:"retirementYears" yaml:"retirementYears"`
	AnnualRatePct   float64 `json:"annualRatePct" yaml:"annualRatePct"`
	MonthlyPension  float64 `json:"monthlyPension" yaml:"monthlyPension"`
}

func newPensionCmd(a *app) *cobra.Command {
	var res pensionResult

	cmd := &cobra.Command{
		Use:   "pension",
		Short: "Size the monthly pension a capital sustains",
		RunE: func(cmd *cobra.Command, _ []string) error {
			msgs := validation.ValidatePension(validation.PensionInputs{
				AnnualRatePct:   res.AnnualRatePct,
				RetirementYears: res.RetirementYears,
			})
			if len(msgs) > 0 {
				return &planner.ValidationError{Step: "pension", Messages: msgs}
			}
			res.MonthlyPension = finance.MonthlyPension(res.Capital, res.RetirementYears, res.AnnualRatePct)

			return writeRecord(a.out, a.conf.Output.Format, res,
				[]string{"capital", "retirement years", "annual rate pct", "monthly pension"},
				[]string{money(res.Capital), num(res.RetirementYears), num(res.AnnualRatePct), money(res.MonthlyPension)},
				fmt.Sprintf("Monthly pension: %s for %s years\n", format.Currency(res.MonthlyPension), num(res.RetirementYears)),
			)
		},
	}
	cmd.Flags().Float64Var(&res.Capital, "capital", 0, "capital at retirement")
	cmd.Flags().Float64Var(&res.RetirementYears, "years", 0, "payout horizon in years")
	cmd.Flags().Float64Var(&res.AnnualRatePct, "rate", 0, "annual effective rate during retirement, in percent")
	return cmd
}

func newTaxCmd(a *app) *cobra.Command {
	var gross, costBasis float64
	var regimeLabel string

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Apply a capital-gains tax regime",
		RunE: func(cmd *cobra.Command, _ []string) error {
			regime, err := tax.ParseRegime(regimeLabel)
			if err != nil {
				return err
			}
			outcome, err := tax.Apply(gross, costBasis, regime)
			if err != nil {
				return err
			}

			return writeRecord(a.out, a.conf.Output.Format, outcome,
				[]string{"regime", "gross", "cost basis", "gain", "tax", "net"},
				[]string{regime.String(), money(outcome.Gross), money(outcome.CostBasis), money(outcome.Gain), money(outcome.Tax), money(outcome.Net)},
				fmt.Sprintf("Regime: %s\nGain: %s\nTax: %s\nNet: %s\n",
					regime, format.Currency(outcome.Gain), format.Currency(outcome.Tax), format.Currency(outcome.Net)),
			)
		},
	}
	cmd.Flags().Float64Var(&gross, "gross", 0, "gross amount realised")
	cmd.Flags().Float64Var(&costBasis, "cost-basis", 0, "amount originally invested")
	cmd.Flags().StringVar(&regimeLabel, "regime", "none", "tax regime: none, local-exchange, foreign-source")
	return cmd
}

func newBondCmd(a *app) *cobra.Command {
	var terms bonds.Terms

	cmd := &cobra.Command{
		Use:   "bond",
		Short: "Price a fixed-coupon bond",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := planner.New(a.logger)
			if _, err := p.RunBond(terms); err != nil {
				return err
			}
			return output.Write(a.out, a.conf.Output.Format, p.Report())
		},
	}
	cmd.Flags().Float64Var(&terms.FaceValue, "face", 0, "face value")
	cmd.Flags().Float64Var(&terms.CouponRatePct, "coupon", 0, "annual coupon rate in percent")
	cmd.Flags().StringVar(&terms.Frequency, "frequency", "annual", "payment frequency: monthly, bimonthly, quarterly, four-month, semiannual, annual")
	cmd.Flags().Float64Var(&terms.YearsToMaturity, "years", 0, "years to maturity")
	cmd.Flags().Float64Var(&terms.RequiredYieldPct, "yield", 0, "required annual yield in percent")
	cmd.Flags().BoolVar(&terms.NominalYield, "nominal-yield", false, "split the yield across periods like the coupon instead of compounding it")
	return cmd
}

func newPlanCmd(a *app) *cobra.Command {
	var pdfPath string
	var summary bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run every calculation declared in the configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, warning := range a.conf.ValidateConfiguration() {
				a.logger.Warn("Configuration warning: "+warning,
					zap.String("op", "main.plan"),
				)
			}

			rep, err := planner.New(a.logger).Run(a.conf.Plan)
			if err != nil {
				return err
			}

			if pdfPath != "" {
				var buf bytes.Buffer
				if err := report.WritePDF(&buf, rep); err != nil {
					return err
				}
				if err := os.WriteFile(pdfPath, buf.Bytes(), 0644); err != nil {
					return fmt.Errorf("failed to write PDF: %w", err)
				}
			}

			if summary {
				_, err := fmt.Fprintln(a.out, report.ContextSummary(rep))
				return err
			}
			return output.Write(a.out, a.conf.Output.Format, rep)
		},
	}
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "also write a PDF report to this path")
	cmd.Flags().BoolVar(&summary, "summary", false, "print a plain-text summary instead of the full report")
	return cmd
}

// writeRecord renders a single-row result in the chosen output format.
func writeRecord(w io.Writer, outputFormat string, v interface{}, header, row []string, pretty string) error {
	switch outputFormat {
	case constants.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case constants.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case constants.OutputFormatCSV:
		cw := csv.NewWriter(w)
		return cw.WriteAll([][]string{header, row})
	default:
		_, err := io.WriteString(w, pretty)
		return err
	}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', constants.DecimalPlaces, 64)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
