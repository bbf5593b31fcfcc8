package factory_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/factory"
)

const baselineJSON = `{
  "id": "baseline",
  "name": "Baseline household",
  "start": "2026-01",
  "base_salary": 25000000,
  "annual_salary_increase_percent": 5,
  "initial_bpjs_balance": 15000000,
  "expenses": [
    {"id": "1", "name": "Groceries", "category": "Mandatory", "monthly_amount": 5000000, "annual_increase_percent": 5},
    {"id": "4", "name": "Entertainment", "category": "discretionary", "monthly_amount": "2000000", "annual_increase_percent": 2}
  ],
  "mortgage": {"initial_principal": 850000000, "remaining_term_months": 180, "extra_payment_penalty_percent": 1},
  "unemployment_month": 30
}`

func TestParseScenario_ConvertsPercentsToRates(t *testing.T) {
	in, err := factory.NewScenarioFactory().ParseScenario(baselineJSON)
	require.NoError(t, err)

	assert.True(t, in.AnnualSalaryGrowth.Equal(decimal.RequireFromString("0.05")))
	assert.True(t, in.Mortgage.PenaltyRate.Equal(decimal.RequireFromString("0.01")))
	assert.Equal(t, 180, in.Mortgage.RemainingTermMonths)
	require.NotNil(t, in.UnemploymentMonth)
	assert.Equal(t, 30, *in.UnemploymentMonth)

	require.Len(t, in.Expenses, 2)
	assert.Equal(t, cashflow.CategoryMandatory, in.Expenses[0].Category)
	assert.Equal(t, cashflow.CategoryDiscretionary, in.Expenses[1].Category)
	assert.True(t, in.Expenses[1].MonthlyAmount.Equal(decimal.NewFromInt(2000000)), "amounts may be quoted")
	assert.True(t, in.Expenses[1].AnnualGrowthRate.Equal(decimal.RequireFromString("0.02")))
}

func TestParseScenario_StartDefaultsToJanuary2026(t *testing.T) {
	in, err := factory.NewScenarioFactory().ParseScenario(`{"mortgage": {"remaining_term_months": 12}}`)
	require.NoError(t, err)

	assert.Equal(t, "January 2026", in.StartDate.Label(0))
	assert.Nil(t, in.UnemploymentMonth)
}

func TestParseScenario_MalformedJSON(t *testing.T) {
	_, err := factory.NewScenarioFactory().ParseScenario(`{"base_salary": `)
	assert.ErrorIs(t, err, factory.ErrInvalidScenario)
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(sj *factory.ScenarioJSON)
		field  string
	}{
		{"negative salary", func(sj *factory.ScenarioJSON) { sj.BaseSalary = decimal.NewFromInt(-1) }, "base_salary"},
		{"bad start", func(sj *factory.ScenarioJSON) { sj.Start = "January" }, "start"},
		{"salary collapse", func(sj *factory.ScenarioJSON) { sj.AnnualSalaryIncreasePercent = decimal.NewFromInt(-100) }, "annual_salary_increase_percent"},
		{"negative bpjs", func(sj *factory.ScenarioJSON) { sj.InitialBPJSBalance = decimal.NewFromInt(-5) }, "initial_bpjs_balance"},
		{"missing expense id", func(sj *factory.ScenarioJSON) { sj.Expenses[0].ID = " " }, "expenses[0].id"},
		{"duplicate expense id", func(sj *factory.ScenarioJSON) { sj.Expenses[1].ID = sj.Expenses[0].ID }, "expenses[1].id"},
		{"unknown category", func(sj *factory.ScenarioJSON) { sj.Expenses[2].Category = "luxury" }, "expenses[2].category"},
		{"negative expense", func(sj *factory.ScenarioJSON) { sj.Expenses[3].MonthlyAmount = decimal.NewFromInt(-1) }, "expenses[3].monthly_amount"},
		{"negative principal", func(sj *factory.ScenarioJSON) { sj.Mortgage.InitialPrincipal = decimal.NewFromInt(-1) }, "mortgage.initial_principal"},
		{"zero term", func(sj *factory.ScenarioJSON) { sj.Mortgage.RemainingTermMonths = 0 }, "mortgage.remaining_term_months"},
		{"penalty of 100%", func(sj *factory.ScenarioJSON) { sj.Mortgage.ExtraPaymentPenaltyPercent = decimal.NewFromInt(100) }, "mortgage.extra_payment_penalty_percent"},
		{"negative penalty", func(sj *factory.ScenarioJSON) { sj.Mortgage.ExtraPaymentPenaltyPercent = decimal.NewFromInt(-1) }, "mortgage.extra_payment_penalty_percent"},
		{"onset past horizon", func(sj *factory.ScenarioJSON) { m := 240; sj.UnemploymentMonth = &m }, "unemployment_month"},
		{"negative onset", func(sj *factory.ScenarioJSON) { m := -1; sj.UnemploymentMonth = &m }, "unemployment_month"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sj := factory.DefaultScenario()
			c.mutate(&sj)

			err := factory.Validate(sj)
			require.Error(t, err)
			assert.True(t, errors.Is(err, factory.ErrInvalidScenario))

			var ve *factory.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, c.field, ve.Field)
		})
	}
}

func TestToJSON_RestoresDocument(t *testing.T) {
	f := factory.NewScenarioFactory()
	in, err := f.FromJSON(factory.DefaultScenario())
	require.NoError(t, err)

	sj := f.ToJSON("baseline", "Baseline household", in)

	assert.Equal(t, "2026-01", sj.Start)
	assert.True(t, sj.AnnualSalaryIncreasePercent.Equal(decimal.NewFromInt(5)))
	assert.True(t, sj.Mortgage.ExtraPaymentPenaltyPercent.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "discretionary", sj.Expenses[3].Category)
	assert.NoError(t, factory.Validate(sj))
}

func TestLoadFile_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "household.toml")
	doc := `
name = "From TOML"
start = "2027-06"
base_salary = 30000000
annual_salary_increase_percent = 4
initial_bpjs_balance = 0
unemployment_month = 12

[mortgage]
initial_principal = 500000000
remaining_term_months = 120
extra_payment_penalty_percent = 2

[[expenses]]
id = "food"
name = "Food"
category = "mandatory"
monthly_amount = 4000000
annual_increase_percent = 3.5
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	sj, err := factory.LoadFile(path)
	require.NoError(t, err)

	in, err := factory.NewScenarioFactory().FromJSON(sj)
	require.NoError(t, err)

	assert.Equal(t, "June 2027", in.StartDate.Label(0))
	assert.Equal(t, 120, in.Mortgage.RemainingTermMonths)
	assert.True(t, in.Mortgage.PenaltyRate.Equal(decimal.RequireFromString("0.02")))
	require.Len(t, in.Expenses, 1)
	assert.True(t, in.Expenses[0].AnnualGrowthRate.Equal(decimal.RequireFromString("0.035")))
	require.NotNil(t, in.UnemploymentMonth)
	assert.Equal(t, 12, *in.UnemploymentMonth)
}

func TestLoadFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "household.json")
	require.NoError(t, os.WriteFile(path, []byte(baselineJSON), 0o644))

	sj, err := factory.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "baseline", sj.ID)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := factory.LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

// =============================================================================
// PRESETS
// =============================================================================

func TestPresets_AllValidAndRunnable(t *testing.T) {
	f := factory.NewScenarioFactory()
	presets := factory.Presets()
	require.Len(t, presets, 5)

	for _, p := range presets {
		in, err := f.FromJSON(p.Scenario)
		require.NoError(t, err, p.ID)

		res := cashflow.Run(in)
		assert.Len(t, res.Ledger, cashflow.HorizonMonths, p.ID)
	}
}

func TestPresets_Lookup(t *testing.T) {
	p, ok := factory.LookupPreset("layoff-year-three")
	require.True(t, ok)
	require.NotNil(t, p.Scenario.UnemploymentMonth)
	assert.Equal(t, 24, *p.Scenario.UnemploymentMonth)

	_, ok = factory.LookupPreset("missing")
	assert.False(t, ok)
}

func TestPresets_AggressivePrepaymentAccelerates(t *testing.T) {
	p, ok := factory.LookupPreset("aggressive-prepayment")
	require.True(t, ok)

	in, err := factory.NewScenarioFactory().FromJSON(p.Scenario)
	require.NoError(t, err)

	res := cashflow.Run(in)
	assert.NotEmpty(t, res.Accelerations)
	require.NotNil(t, res.PayoffMonth)
	assert.True(t, res.TotalInterestSaved.IsPositive())
}
