package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/finplan/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlan = `logging:
  level: debug
  format: console
output:
  format: json
server:
  address: 127.0.0.1:9000
  maxBodySize: 1M
telemetry:
  otlpEndpoint: localhost:4318
  insecure: true
plan:
  growth:
    initialAmount: 10000
    periodicContribution: 500
    frequency: monthly
    years: 20
    annualRatePct: 7
  retirement:
    option: annuity
    taxRegime: foreign-source
    years: 25
    annualRatePct: 4
  bond:
    faceValue: 1000
    couponRatePct: 5
    frequency: Anual
    yearsToMaturity: 5
    requiredYieldPct: 6
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "finplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoadConfiguration(t *testing.T) {
	conf, err := LoadConfiguration(writeConfig(t, samplePlan))
	require.NoError(t, err)

	assert.Equal(t, "debug", conf.Logging.Level)
	assert.Equal(t, "console", conf.Logging.Format)
	assert.Equal(t, constants.OutputFormatJSON, conf.Output.Format)
	assert.Equal(t, "127.0.0.1:9000", conf.Server.Address)
	assert.Equal(t, "1M", conf.Server.MaxBodySize)
	assert.Equal(t, constants.DefaultShutdownTimeoutSeconds, conf.Server.ShutdownTimeoutSeconds)
	assert.Equal(t, "localhost:4318", conf.Telemetry.OTLPEndpoint)
	assert.Equal(t, constants.DefaultServiceName, conf.Telemetry.ServiceName)
	assert.True(t, conf.Telemetry.Insecure)

	require.NotNil(t, conf.Plan.Growth)
	assert.Equal(t, 10000.0, conf.Plan.Growth.InitialAmount)
	assert.Equal(t, 500.0, conf.Plan.Growth.PeriodicContribution)
	assert.Equal(t, "monthly", conf.Plan.Growth.Frequency)
	assert.Equal(t, 20.0, conf.Plan.Growth.Years)
	assert.Equal(t, 7.0, conf.Plan.Growth.AnnualRatePct)

	require.NotNil(t, conf.Plan.Retirement)
	assert.Equal(t, "annuity", conf.Plan.Retirement.Option)
	assert.Equal(t, "foreign-source", conf.Plan.Retirement.TaxRegime)

	require.NotNil(t, conf.Plan.Bond)
	assert.Equal(t, "Anual", conf.Plan.Bond.Frequency)
	assert.False(t, conf.Plan.Bond.NominalYield)

	assert.NoError(t, conf.Validate())
	assert.Empty(t, conf.ValidateConfiguration())
}

func TestLoadConfigurationDefaultsWhenMissing(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultServerAddress, conf.Server.Address)
	assert.Equal(t, constants.OutputFormatPretty, conf.Output.Format)
	assert.Empty(t, conf.Logging.Level)
	assert.True(t, conf.Plan.IsEmpty())
	assert.Contains(t, conf.ValidateConfiguration(), "plan declares no growth, retirement or bond section")
}

func TestLoadConfigurationEnvOverride(t *testing.T) {
	t.Setenv("FINPLAN_SERVER_ADDRESS", ":9999")
	t.Setenv("FINPLAN_LOGGING_LEVEL", "warn")

	conf, err := LoadConfiguration(writeConfig(t, samplePlan))
	require.NoError(t, err)

	assert.Equal(t, ":9999", conf.Server.Address)
	assert.Equal(t, "warn", conf.Logging.Level)
}

func TestLoadConfigurationDotEnv(t *testing.T) {
	path := writeConfig(t, "output:\n  format: pretty\n")
	envPath := filepath.Join(filepath.Dir(path), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("FINPLAN_OUTPUT_FORMAT=csv\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("FINPLAN_OUTPUT_FORMAT") })

	conf, err := LoadConfiguration(path)
	require.NoError(t, err)
	assert.Equal(t, constants.OutputFormatCSV, conf.Output.Format)
}

func TestLoadConfigurationInvalidYAML(t *testing.T) {
	_, err := LoadConfiguration(writeConfig(t, "plan: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		conf    Configuration
		wantErr bool
	}{
		{"defaults", Configuration{}, false},
		{"bad output format", Configuration{Output: OutputConfig{Format: "xml"}}, true},
		{"bad log format", Configuration{Logging: LoggingConfig{Format: "logfmt"}}, true},
		{"negative shutdown", Configuration{Server: ServerConfig{ShutdownTimeoutSeconds: -1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateConfigurationRetirementWithoutGrowth(t *testing.T) {
	conf := Configuration{Plan: Plan{Retirement: &RetirementPlan{Option: "lump-sum"}}}
	assert.Equal(t, []string{"retirement section requires a growth section to provide capital"}, conf.ValidateConfiguration())
}
