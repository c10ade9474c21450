// Package tax applies capital-gains tax regimes to realised amounts.
package tax

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/finplan/pkg/constants"
)

// ErrUnknownRegime is returned for a regime outside the supported set.
var ErrUnknownRegime = errors.New("unknown tax regime")

// Regime is a capital-gains tax policy.
type Regime int

// Supported regimes.
const (
	None Regime = iota
	LocalExchange
	ForeignSource
)

type regimeInfo struct {
	name    string
	rate    float64
	aliases []string
}

var regimeTable = map[Regime]regimeInfo{
	None:          {name: "none", rate: 0, aliases: []string{"ninguno"}},
	LocalExchange: {name: "local-exchange", rate: constants.LocalExchangeTaxRate, aliases: []string{"bolsa local (5%)", "bolsa local"}},
	ForeignSource: {name: "foreign-source", rate: constants.ForeignSourceTaxRate, aliases: []string{"fuente extranjera (29.5%)", "fuente extranjera"}},
}

// Outcome is the result of taxing a gross amount.
type Outcome struct {
	Regime    Regime  `json:"regime" yaml:"regime"`
	Gross     float64 `json:"gross" yaml:"gross"`
	CostBasis float64 `json:"costBasis" yaml:"costBasis"`
	Gain      float64 `json:"gain" yaml:"gain"`
	Tax       float64 `json:"tax" yaml:"tax"`
	Net       float64 `json:"net" yaml:"net"`
}

// String returns the canonical regime name.
func (r Regime) String() string {
	if info, ok := regimeTable[r]; ok {
		return info.name
	}
	return fmt.Sprintf("Regime(%d)", int(r))
}

// Rate returns the tax rate applied to the gain, as a fraction.
func (r Regime) Rate() (float64, error) {
	info, ok := regimeTable[r]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownRegime, int(r))
	}
	return info.rate, nil
}

// MarshalText encodes the canonical regime name.
func (r Regime) MarshalText() ([]byte, error) {
	if _, ok := regimeTable[r]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRegime, int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes any accepted regime label.
func (r *Regime) UnmarshalText(text []byte) error {
	parsed, err := ParseRegime(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRegime maps a label to a Regime. An empty label means None; anything
// else that is not recognised is an error rather than a silent zero tax.
func ParseRegime(label string) (Regime, error) {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return None, nil
	}
	for r, info := range regimeTable {
		if key == info.name {
			return r, nil
		}
		for _, alias := range info.aliases {
			if key == alias {
				return r, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRegime, label)
}

// Apply taxes the gain portion of gross. The gain is gross minus costBasis,
// floored at zero: losses are neither taxed nor refunded.
func Apply(gross, costBasis float64, regime Regime) (Outcome, error) {
	rate, err := regime.Rate()
	if err != nil {
		return Outcome{}, err
	}

	gain := gross - costBasis
	if gain < 0 {
		gain = 0
	}
	tax := gain * rate

	return Outcome{
		Regime:    regime,
		Gross:     gross,
		CostBasis: costBasis,
		Gain:      gain,
		Tax:       tax,
		Net:       gross - tax,
	}, nil
}
