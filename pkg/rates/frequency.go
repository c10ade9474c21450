package rates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFrequency is returned for a frequency label outside the supported set.
var ErrUnknownFrequency = errors.New("unknown frequency")

// Frequency is a payment or contribution frequency.
type Frequency int

// Supported frequencies.
const (
	Monthly Frequency = iota + 1
	Bimonthly
	Quarterly
	FourMonthly
	Semiannual
	Annual
)

type frequencyInfo struct {
	name           string
	periodsPerYear int
	aliases        []string
}

var frequencyTable = map[Frequency]frequencyInfo{
	Monthly:     {name: "monthly", periodsPerYear: 12, aliases: []string{"mensual"}},
	Bimonthly:   {name: "bimonthly", periodsPerYear: 6, aliases: []string{"bimestral"}},
	Quarterly:   {name: "quarterly", periodsPerYear: 4, aliases: []string{"trimestral"}},
	FourMonthly: {name: "four-month", periodsPerYear: 3, aliases: []string{"four-monthly", "cuatrimestral"}},
	Semiannual:  {name: "semiannual", periodsPerYear: 2, aliases: []string{"semi-annual", "semestral"}},
	Annual:      {name: "annual", periodsPerYear: 1, aliases: []string{"anual", "yearly"}},
}

// ContributionFrequencies are accepted for recurring portfolio contributions.
var ContributionFrequencies = []Frequency{Monthly, Quarterly, Semiannual, Annual}

// BondFrequencies are accepted for bond coupon payments.
var BondFrequencies = []Frequency{Monthly, Bimonthly, Quarterly, FourMonthly, Semiannual, Annual}

// String returns the canonical label.
func (f Frequency) String() string {
	if info, ok := frequencyTable[f]; ok {
		return info.name
	}
	return fmt.Sprintf("Frequency(%d)", int(f))
}

// PeriodsPerYear returns the number of periods in one year, or 0 for an
// unknown frequency.
func (f Frequency) PeriodsPerYear() int {
	return frequencyTable[f].periodsPerYear
}

// MarshalText encodes the canonical label.
func (f Frequency) MarshalText() ([]byte, error) {
	if _, ok := frequencyTable[f]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFrequency, int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText decodes any accepted label.
func (f *Frequency) UnmarshalText(text []byte) error {
	parsed, err := ParseFrequency(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFrequency maps a label to a Frequency. Labels are matched case
// insensitively against the canonical English names and the Spanish labels
// used by the original calculator screens ("Mensual", "Anual", ...).
func ParseFrequency(label string) (Frequency, error) {
	key := strings.ToLower(strings.TrimSpace(label))
	for f, info := range frequencyTable {
		if key == info.name {
			return f, nil
		}
		for _, alias := range info.aliases {
			if key == alias {
				return f, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFrequency, label)
}

// ParseFrequencyIn parses label and checks that the result is one of allowed.
func ParseFrequencyIn(label string, allowed []Frequency) (Frequency, error) {
	f, err := ParseFrequency(label)
	if err != nil {
		return 0, err
	}
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q is not supported here", ErrUnknownFrequency, label)
}
