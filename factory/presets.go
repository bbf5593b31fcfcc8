package factory

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PRESET SCENARIOS
// =============================================================================
//
//	baseline:               default household, continuous employment
//	stable-employment:      smaller, shorter loan on the same salary
//	immediate-unemployment: job lost in the first month
//	layoff-year-three:      job lost at the start of year three
//	aggressive-prepayment:  high earner clearing the loan through the bucket

// Preset is a built-in scenario.
type Preset struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Scenario    ScenarioJSON `json:"scenario"`
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func monthPtr(m int) *int { return &m }

func defaultExpenses() []ExpenseJSON {
	return []ExpenseJSON{
		{ID: "1", Name: "Groceries", Category: "mandatory", MonthlyAmount: d(5000000), AnnualIncreasePercent: d(5)},
		{ID: "2", Name: "Utilities", Category: "mandatory", MonthlyAmount: d(1500000), AnnualIncreasePercent: d(3)},
		{ID: "3", Name: "Internet/Phone", Category: "mandatory", MonthlyAmount: d(500000), AnnualIncreasePercent: d(0)},
		{ID: "4", Name: "Entertainment", Category: "discretionary", MonthlyAmount: d(2000000), AnnualIncreasePercent: d(2)},
	}
}

// DefaultScenario is the household every preset starts from.
func DefaultScenario() ScenarioJSON {
	return ScenarioJSON{
		ID:                          "baseline",
		Name:                        "Baseline household",
		Start:                       "2026-01",
		BaseSalary:                  d(25000000),
		AnnualSalaryIncreasePercent: d(5),
		InitialBPJSBalance:          d(15000000),
		Expenses:                    defaultExpenses(),
		Mortgage: MortgageJSON{
			InitialPrincipal:           d(850000000),
			RemainingTermMonths:        180,
			ExtraPaymentPenaltyPercent: d(1),
		},
	}
}

func presetList() []Preset {
	baseline := DefaultScenario()

	stable := DefaultScenario()
	stable.ID, stable.Name = "stable-employment", "Stable employment"
	stable.Mortgage.InitialPrincipal = d(600000000)
	stable.Mortgage.RemainingTermMonths = 120

	immediate := DefaultScenario()
	immediate.ID, immediate.Name = "immediate-unemployment", "Immediate unemployment"
	immediate.UnemploymentMonth = monthPtr(0)

	layoff := DefaultScenario()
	layoff.ID, layoff.Name = "layoff-year-three", "Layoff in year three"
	layoff.UnemploymentMonth = monthPtr(24)

	aggressive := DefaultScenario()
	aggressive.ID, aggressive.Name = "aggressive-prepayment", "Aggressive prepayment"
	aggressive.BaseSalary = d(60000000)
	aggressive.AnnualSalaryIncreasePercent = d(7)

	return []Preset{
		{ID: baseline.ID, Name: baseline.Name, Category: "employment", Scenario: baseline,
			Description: "25M salary growing 5% a year, 850M mortgage over 15 years"},
		{ID: stable.ID, Name: stable.Name, Category: "employment", Scenario: stable,
			Description: "Same household with a 600M loan over 10 years"},
		{ID: immediate.ID, Name: immediate.Name, Category: "stress", Scenario: immediate,
			Description: "Salary stops in the first month; severance and BPJS arrive a month later"},
		{ID: layoff.ID, Name: layoff.Name, Category: "stress", Scenario: layoff,
			Description: "Two years of employment, then no salary for the rest of the horizon"},
		{ID: aggressive.ID, Name: aggressive.Name, Category: "prepayment", Scenario: aggressive,
			Description: "60M salary growing 7% a year; surplus prepays the mortgage every January"},
	}
}

// Presets returns every built-in scenario in display order.
func Presets() []Preset {
	return presetList()
}

// LookupPreset returns the preset with id.
func LookupPreset(id string) (Preset, bool) {
	for _, p := range presetList() {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}
