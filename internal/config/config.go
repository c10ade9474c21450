// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/finplan/pkg/constants"
	"github.com/iwvelando/finplan/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for finplan.
type Configuration struct {
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
	Output    OutputConfig    `yaml:"output,omitempty"`
	Server    ServerConfig    `yaml:"server,omitempty"`
	Telemetry TelemetryConfig `yaml:"telemetry,omitempty"`
	Plan      Plan            `yaml:"plan,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json, yaml
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Address                string `yaml:"address,omitempty"`
	MaxBodySize            string `yaml:"maxBodySize,omitempty"` // e.g. 256K, 1M
	ShutdownTimeoutSeconds int    `yaml:"shutdownTimeoutSeconds,omitempty"`
}

// TelemetryConfig holds tracing settings. Tracing is disabled when
// OTLPEndpoint is empty.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlpEndpoint,omitempty"`
	ServiceName  string `yaml:"serviceName,omitempty"`
	Insecure     bool   `yaml:"insecure,omitempty"`
}

// Plan declares the calculations to run. Any section may be omitted.
type Plan struct {
	Growth     *GrowthPlan     `yaml:"growth,omitempty"`
	Retirement *RetirementPlan `yaml:"retirement,omitempty"`
	Bond       *BondPlan       `yaml:"bond,omitempty"`
}

// GrowthPlan describes a portfolio growth simulation.
type GrowthPlan struct {
	InitialAmount        float64 `yaml:"initialAmount"`
	PeriodicContribution float64 `yaml:"periodicContribution"`
	Frequency            string  `yaml:"frequency"`
	Years                float64 `yaml:"years"`
	AnnualRatePct        float64 `yaml:"annualRatePct"`
}

// RetirementPlan describes how the grown capital is withdrawn.
type RetirementPlan struct {
	Option        string  `yaml:"option"` // lump-sum, annuity
	TaxRegime     string  `yaml:"taxRegime"`
	Years         float64 `yaml:"years"`
	AnnualRatePct float64 `yaml:"annualRatePct"`
}

// BondPlan describes a bond to price.
type BondPlan struct {
	FaceValue        float64 `yaml:"faceValue"`
	CouponRatePct    float64 `yaml:"couponRatePct"`
	Frequency        string  `yaml:"frequency"`
	YearsToMaturity  float64 `yaml:"yearsToMaturity"`
	RequiredYieldPct float64 `yaml:"requiredYieldPct"`
	NominalYield     bool    `yaml:"nominalYield"`
}

// IsEmpty reports whether the plan declares no calculation at all.
func (p Plan) IsEmpty() bool {
	return p.Growth == nil && p.Retirement == nil && p.Bond == nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A .env file beside the config is loaded into the
// environment first, and FINPLAN_ prefixed variables override file values.
// A missing config file yields the defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	if err := loadEnvFile(filepath.Join(filepath.Dir(configPath), ".env")); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yml")

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file, %s", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputfile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxbodysize", fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes))
	v.SetDefault("server.shutdowntimeoutseconds", constants.DefaultShutdownTimeoutSeconds)
	v.SetDefault("telemetry.otlpendpoint", "")
	v.SetDefault("telemetry.servicename", constants.DefaultServiceName)
	v.SetDefault("telemetry.insecure", false)
}

func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings that would make the application unusable.
func (c *Configuration) Validate() error {
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return err
		}
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	if c.Server.ShutdownTimeoutSeconds < 0 {
		return fmt.Errorf("server shutdown timeout cannot be negative, got %d", c.Server.ShutdownTimeoutSeconds)
	}
	return nil
}

// ValidateConfiguration performs general validation of the plan and returns
// warnings for sections that will be skipped or fail later.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	if c.Plan.IsEmpty() {
		warnings = append(warnings, "plan declares no growth, retirement or bond section")
	}
	if c.Plan.Retirement != nil && c.Plan.Growth == nil {
		warnings = append(warnings, "retirement section requires a growth section to provide capital")
	}
	if g := c.Plan.Growth; g != nil && g.Frequency == "" {
		warnings = append(warnings, "growth frequency is empty")
	}
	if b := c.Plan.Bond; b != nil && b.Frequency == "" {
		warnings = append(warnings, "bond frequency is empty")
	}
	return warnings
}
