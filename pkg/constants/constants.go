// Package constants provides shared constants for the finplan application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPlaces is the number of decimals kept for currency amounts
	DecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MaxAnnualRatePct is the upper bound accepted for growth and retirement rates
	MaxAnnualRatePct = 50.0

	// MaxCouponRatePct is the upper bound accepted for a bond coupon rate
	MaxCouponRatePct = 100.0
)

// Capital-gains tax rates, as fractions of the gain.
const (
	// LocalExchangeTaxRate applies to gains realised on the local stock exchange
	LocalExchangeTaxRate = 0.05

	// ForeignSourceTaxRate applies to foreign-source gains
	ForeignSourceTaxRate = 0.295
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// RateTolerance is the tolerance used when comparing compounded rates
	RateTolerance = 1e-10
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "finplan.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "FINPLAN"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultShutdownTimeoutSeconds bounds graceful shutdown
	DefaultShutdownTimeoutSeconds = 10

	// DefaultServiceName identifies the service in traces
	DefaultServiceName = "finplan"
)
