// Package planner runs the calculator pipeline: validate the inputs of each
// step, compute it, and keep the latest result of each kind so later steps
// and the presentation layer can read them.
package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/finplan/internal/config"
	"github.com/iwvelando/finplan/pkg/bonds"
	"github.com/iwvelando/finplan/pkg/finance"
	"github.com/iwvelando/finplan/pkg/tax"
	"github.com/iwvelando/finplan/pkg/validation"
	"go.uber.org/zap"
)

// ErrGrowthRequired is returned when a retirement step runs before any
// growth simulation has produced capital.
var ErrGrowthRequired = errors.New("retirement requires a completed growth simulation")

// ErrUnknownRetirementOption is returned for an option other than lump-sum or annuity.
var ErrUnknownRetirementOption = errors.New("unknown retirement option")

// ValidationError carries the soft validation messages of a rejected step.
type ValidationError struct {
	Step     string
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s inputs: %s", e.Step, strings.Join(e.Messages, "; "))
}

// RetirementOption selects how the grown capital is withdrawn.
type RetirementOption string

// Retirement options.
const (
	LumpSum RetirementOption = "lump-sum"
	Annuity RetirementOption = "annuity"
)

// ParseRetirementOption accepts the canonical names and the Spanish labels.
func ParseRetirementOption(label string) (RetirementOption, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "lump-sum", "lump sum", "lumpsum", "retiro total":
		return LumpSum, nil
	case "annuity", "pension", "pensión mensual", "pension mensual":
		return Annuity, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRetirementOption, label)
}

// GrowthRequest holds the growth simulation inputs.
type GrowthRequest struct {
	InitialAmount        float64 `json:"initialAmount" yaml:"initialAmount"`
	PeriodicContribution float64 `json:"periodicContribution" yaml:"periodicContribution"`
	Frequency            string  `json:"frequency" yaml:"frequency"`
	Years                float64 `json:"years" yaml:"years"`
	AnnualRatePct        float64 `json:"annualRatePct" yaml:"annualRatePct"`
}

// RetirementRequest holds the retirement inputs. Years and AnnualRatePct
// only matter for an annuity.
type RetirementRequest struct {
	Option        RetirementOption `json:"option" yaml:"option"`
	TaxRegime     tax.Regime       `json:"taxRegime" yaml:"taxRegime"`
	Years         float64          `json:"years" yaml:"years"`
	AnnualRatePct float64          `json:"annualRatePct" yaml:"annualRatePct"`
}

// RetirementResult is the taxed payout of the grown capital.
type RetirementResult struct {
	Option              RetirementOption `json:"option" yaml:"option"`
	Capital             float64          `json:"capital" yaml:"capital"`
	Tax                 tax.Outcome      `json:"tax" yaml:"tax"`
	Years               float64          `json:"years,omitempty" yaml:"years,omitempty"`
	AnnualRatePct       float64          `json:"annualRatePct,omitempty" yaml:"annualRatePct,omitempty"`
	GrossMonthlyPension float64          `json:"grossMonthlyPension,omitempty" yaml:"grossMonthlyPension,omitempty"`
	NetMonthlyPension   float64          `json:"netMonthlyPension,omitempty" yaml:"netMonthlyPension,omitempty"`
}

// Report is a snapshot of the latest results. Nil fields were never run.
type Report struct {
	GrowthInputs *GrowthRequest        `json:"growthInputs,omitempty" yaml:"growthInputs,omitempty"`
	Growth       *finance.GrowthResult `json:"growth,omitempty" yaml:"growth,omitempty"`
	Retirement   *RetirementResult     `json:"retirement,omitempty" yaml:"retirement,omitempty"`
	Bond         *bonds.Valuation      `json:"bond,omitempty" yaml:"bond,omitempty"`
}

// IsEmpty reports whether no calculation has completed.
func (r *Report) IsEmpty() bool {
	return r == nil || (r.Growth == nil && r.Retirement == nil && r.Bond == nil)
}

// Planner holds the latest result of each step. It is not safe for
// concurrent use; give each request its own Planner.
type Planner struct {
	logger *zap.Logger
	report Report
}

// New returns an empty Planner.
func New(logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{logger: logger}
}

// RunGrowth validates and simulates portfolio growth.
func (p *Planner) RunGrowth(req GrowthRequest) (*finance.GrowthResult, error) {
	msgs := validation.ValidateGrowth(validation.GrowthInputs{
		InitialAmount:        req.InitialAmount,
		PeriodicContribution: req.PeriodicContribution,
		AnnualRatePct:        req.AnnualRatePct,
		Years:                req.Years,
	})
	if len(msgs) > 0 {
		return nil, p.rejected("growth", "planner.RunGrowth", msgs)
	}

	result, err := finance.SimulateGrowth(req.InitialAmount, req.PeriodicContribution, req.Frequency, req.Years, req.AnnualRatePct)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate growth: %w", err)
	}

	p.logger.Debug("growth simulated",
		zap.String("op", "planner.RunGrowth"),
		zap.Stringer("frequency", result.Frequency),
		zap.Int("periods", len(result.Periods)-1),
		zap.Float64("finalBalance", result.FinalBalance),
	)

	inputs := req
	p.report.GrowthInputs = &inputs
	p.report.Growth = result
	return result, nil
}

// RunRetirement taxes the capital of the latest growth simulation and, for
// an annuity, sizes the gross and net monthly pensions. Tax is applied once
// to the capital; the net pension is the annuity of the net capital.
func (p *Planner) RunRetirement(req RetirementRequest) (*RetirementResult, error) {
	if p.report.Growth == nil || p.report.GrowthInputs == nil {
		return nil, ErrGrowthRequired
	}

	switch req.Option {
	case LumpSum, Annuity:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRetirementOption, req.Option)
	}

	if req.Option == Annuity {
		msgs := validation.ValidatePension(validation.PensionInputs{
			AnnualRatePct:   req.AnnualRatePct,
			RetirementYears: req.Years,
		})
		if len(msgs) > 0 {
			return nil, p.rejected("retirement", "planner.RunRetirement", msgs)
		}
	}

	capital := p.report.Growth.FinalBalance
	outcome, err := tax.Apply(capital, p.report.GrowthInputs.InitialAmount, req.TaxRegime)
	if err != nil {
		return nil, fmt.Errorf("failed to apply tax: %w", err)
	}

	result := &RetirementResult{
		Option:  req.Option,
		Capital: capital,
		Tax:     outcome,
	}
	if req.Option == Annuity {
		result.Years = req.Years
		result.AnnualRatePct = req.AnnualRatePct
		result.GrossMonthlyPension = finance.MonthlyPension(capital, req.Years, req.AnnualRatePct)
		result.NetMonthlyPension = finance.MonthlyPension(outcome.Net, req.Years, req.AnnualRatePct)
	}

	p.logger.Debug("retirement computed",
		zap.String("op", "planner.RunRetirement"),
		zap.String("option", string(req.Option)),
		zap.Stringer("regime", req.TaxRegime),
		zap.Float64("capital", capital),
		zap.Float64("tax", outcome.Tax),
	)

	p.report.Retirement = result
	return result, nil
}

// RunBond validates and prices a bond.
func (p *Planner) RunBond(terms bonds.Terms) (*bonds.Valuation, error) {
	msgs := validation.ValidateBond(validation.BondInputs{
		FaceValue:        terms.FaceValue,
		CouponRatePct:    terms.CouponRatePct,
		RequiredYieldPct: terms.RequiredYieldPct,
		YearsToMaturity:  terms.YearsToMaturity,
	})
	if len(msgs) > 0 {
		return nil, p.rejected("bond", "planner.RunBond", msgs)
	}

	valuation, err := bonds.Price(terms)
	if err != nil {
		return nil, fmt.Errorf("failed to price bond: %w", err)
	}

	p.logger.Debug("bond priced",
		zap.String("op", "planner.RunBond"),
		zap.Int("periods", valuation.Summary.TotalPeriods),
		zap.Float64("presentValue", valuation.PresentValueTotal),
		zap.String("classification", string(valuation.Classification())),
	)

	p.report.Bond = valuation
	return valuation, nil
}

// Report returns a snapshot of the latest results.
func (p *Planner) Report() *Report {
	snapshot := p.report
	return &snapshot
}

// Run executes every section the plan declares, in growth, retirement, bond
// order, and stops at the first failure.
func (p *Planner) Run(plan config.Plan) (*Report, error) {
	if g := plan.Growth; g != nil {
		if _, err := p.RunGrowth(GrowthRequest{
			InitialAmount:        g.InitialAmount,
			PeriodicContribution: g.PeriodicContribution,
			Frequency:            g.Frequency,
			Years:                g.Years,
			AnnualRatePct:        g.AnnualRatePct,
		}); err != nil {
			return nil, err
		}
	}

	if r := plan.Retirement; r != nil {
		option, err := ParseRetirementOption(r.Option)
		if err != nil {
			return nil, err
		}
		regime, err := tax.ParseRegime(r.TaxRegime)
		if err != nil {
			return nil, err
		}
		if _, err := p.RunRetirement(RetirementRequest{
			Option:        option,
			TaxRegime:     regime,
			Years:         r.Years,
			AnnualRatePct: r.AnnualRatePct,
		}); err != nil {
			return nil, err
		}
	}

	if b := plan.Bond; b != nil {
		if _, err := p.RunBond(bonds.Terms{
			FaceValue:        b.FaceValue,
			CouponRatePct:    b.CouponRatePct,
			Frequency:        b.Frequency,
			YearsToMaturity:  b.YearsToMaturity,
			RequiredYieldPct: b.RequiredYieldPct,
			NominalYield:     b.NominalYield,
		}); err != nil {
			return nil, err
		}
	}

	p.logger.Info("plan complete",
		zap.String("op", "planner.Run"),
		zap.Bool("growth", plan.Growth != nil),
		zap.Bool("retirement", plan.Retirement != nil),
		zap.Bool("bond", plan.Bond != nil),
	)
	return p.Report(), nil
}

func (p *Planner) rejected(step, op string, msgs []string) error {
	for _, msg := range msgs {
		p.logger.Warn("validation failed: "+msg,
			zap.String("op", op),
		)
	}
	return &ValidationError{Step: step, Messages: msgs}
}
