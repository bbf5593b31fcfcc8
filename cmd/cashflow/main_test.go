package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/factory"
)

// execute runs the CLI in an empty working directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)

	for _, p := range factory.Presets() {
		assert.Contains(t, out, p.ID)
	}
}

func TestSimulate_DefaultsToBaseline(t *testing.T) {
	out, err := execute(t, "simulate", "-q", "--months", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "Baseline household")
	assert.Contains(t, out, "Monthly ledger")
	assert.Contains(t, out, "March 2026")
	assert.NotContains(t, out, "April 2026")
}

func TestSimulate_JSON(t *testing.T) {
	out, err := execute(t, "simulate", "-q", "--preset", "layoff-year-three", "--json")
	require.NoError(t, err)

	var res cashflow.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Ledger, cashflow.HorizonMonths)
	assert.False(t, res.Ledger[30].IsEmployed)
}

func TestSimulate_EventsOnly(t *testing.T) {
	out, err := execute(t, "simulate", "-q", "--preset", "aggressive-prepayment", "--events-only")
	require.NoError(t, err)

	assert.Contains(t, out, "Accelerated payments")
	assert.NotContains(t, out, "Monthly ledger")
}

func TestSimulate_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "household.toml")
	doc := `
name = "Small flat"
base_salary = 15000000
annual_salary_increase_percent = 3

[mortgage]
initial_principal = 200000000
remaining_term_months = 60
extra_payment_penalty_percent = 1

[[expenses]]
id = "food"
name = "Food"
monthly_amount = 3000000
annual_increase_percent = 4
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := execute(t, "simulate", "-q", path, "--months", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Small flat")
	assert.Contains(t, out, "January 2026", "start comes from config defaults")
}

func TestSimulate_Errors(t *testing.T) {
	_, err := execute(t, "simulate", "-q", "--preset", "nope")
	assert.ErrorContains(t, err, "unknown preset")

	_, err = execute(t, "simulate", "-q", "--preset", "baseline", "some.json")
	assert.Error(t, err)

	_, err = execute(t, "simulate", "-q", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cashflow.toml")

	out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")
	assert.FileExists(t, path)

	_, err = execute(t, "config", "init", "--config", path)
	assert.Error(t, err, "refuses to overwrite")

	out, err = execute(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "port = 8080")
	assert.NotContains(t, out, "not found")
}
