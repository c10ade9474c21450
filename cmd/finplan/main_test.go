package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/finplan/internal/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	base := []string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "--log-level", "error"}
	root.SetArgs(append(base, args...))
	err := root.Execute()
	return out.String(), err
}

func TestGrowthCommand(t *testing.T) {
	chart := filepath.Join(t.TempDir(), "growth.png")
	out, err := run(t, "growth", "--initial", "1000", "--contribution", "100", "--frequency", "annual",
		"--years", "2", "--rate", "10", "--chart", chart)
	require.NoError(t, err)

	assert.Contains(t, out, "--- Portfolio growth (annual) ---")
	assert.Contains(t, out, "Final balance: $1,420.00")

	info, err := os.Stat(chart)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGrowthCommandValidation(t *testing.T) {
	_, err := run(t, "growth", "--initial", "-5", "--years", "1", "--rate", "5")
	var verr *planner.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"initial amount cannot be negative"}, verr.Messages)
}

func TestPensionCommand(t *testing.T) {
	out, err := run(t, "-o", "json", "pension", "--capital", "100000", "--years", "20", "--rate", "4")
	require.NoError(t, err)

	var res pensionResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 602, res.MonthlyPension, 5)
}

func TestTaxCommand(t *testing.T) {
	out, err := run(t, "-o", "csv", "tax", "--gross", "1000", "--cost-basis", "800", "--regime", "foreign-source")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "regime,gross,cost basis,gain,tax,net", lines[0])
	assert.Equal(t, "foreign-source,1000.00,800.00,200.00,59.00,941.00", lines[1])
}

func TestTaxCommandUnknownRegime(t *testing.T) {
	_, err := run(t, "tax", "--gross", "1000", "--regime", "flat")
	assert.Error(t, err)
}

func TestBondCommand(t *testing.T) {
	out, err := run(t, "bond", "--face", "1000", "--coupon", "5", "--frequency", "Anual", "--years", "5", "--yield", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "Price: $957.87 (discount)")
}

func TestPlanCommand(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "finplan.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`output:
  format: yaml
plan:
  growth:
    initialAmount: 1000
    periodicContribution: 100
    frequency: annual
    years: 2
    annualRatePct: 10
  retirement:
    option: lump-sum
    taxRegime: local-exchange
`), 0600))
	pdfPath := filepath.Join(dir, "report.pdf")

	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs([]string{"--config", configPath, "--log-level", "error", "plan", "--pdf", pdfPath})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "retirement:")
	assert.Contains(t, out.String(), "option: lump-sum")

	pdf, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	out.Reset()
	root = newRootCmd(&out)
	root.SetArgs([]string{"--config", configPath, "--log-level", "error", "plan", "--summary"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Active simulation: retirement (lump-sum)")
}

func TestPlanCommandEmpty(t *testing.T) {
	out, err := run(t, "plan", "--summary")
	require.NoError(t, err)
	assert.Equal(t, "No active simulations.\n", out)
}

func TestInvalidOutputFormat(t *testing.T) {
	_, err := run(t, "-o", "xml", "tax", "--gross", "1")
	assert.Error(t, err)
}
