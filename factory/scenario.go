/*
Package factory converts scenario documents into engine inputs.

PURPOSE:
  A scenario is the household description as a person enters it: salary
  growth, expense growth and the prepayment penalty are percentages, the
  start month is "YYYY-MM" and the expense category is a word. The engine
  wants fractions and typed values. The factory validates the document and
  produces cashflow.Inputs, and turns Inputs back into a document.

JSON SCHEMA:
  {
    "id": "baseline",
    "name": "Baseline household",
    "start": "2026-01",
    "base_salary": 25000000,
    "annual_salary_increase_percent": 5,
    "initial_bpjs_balance": 15000000,
    "expenses": [
      {"id": "1", "name": "Groceries", "category": "mandatory",
       "monthly_amount": 5000000, "annual_increase_percent": 5}
    ],
    "mortgage": {
      "initial_principal": 850000000,
      "remaining_term_months": 180,
      "extra_payment_penalty_percent": 1
    },
    "unemployment_month": null
  }

  The same fields are accepted as TOML (see LoadFile).

USAGE:
  f := factory.NewScenarioFactory()
  inputs, err := f.ParseScenario(jsonString)
  if errors.Is(err, factory.ErrInvalidScenario) { ... }
  result := cashflow.Run(inputs)

SEE ALSO:
  - presets.go: built-in scenarios
  - cashflow/types.go: Inputs
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/money"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrInvalidScenario is wrapped by every validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid scenario: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidScenario
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ScenarioJSON is the document form of a household scenario.
type ScenarioJSON struct {
	ID                          string          `json:"id,omitempty" toml:"id"`
	Name                        string          `json:"name,omitempty" toml:"name"`
	Start                       string          `json:"start,omitempty" toml:"start"`
	BaseSalary                  decimal.Decimal `json:"base_salary" toml:"base_salary"`
	AnnualSalaryIncreasePercent decimal.Decimal `json:"annual_salary_increase_percent" toml:"annual_salary_increase_percent"`
	InitialBPJSBalance          decimal.Decimal `json:"initial_bpjs_balance" toml:"initial_bpjs_balance"`
	Expenses                    []ExpenseJSON   `json:"expenses" toml:"expenses"`
	Mortgage                    MortgageJSON    `json:"mortgage" toml:"mortgage"`
	UnemploymentMonth           *int            `json:"unemployment_month" toml:"unemployment_month"`
}

// ExpenseJSON is one recurring expense.
type ExpenseJSON struct {
	ID                    string          `json:"id" toml:"id"`
	Name                  string          `json:"name" toml:"name"`
	Category              string          `json:"category" toml:"category"` // mandatory, discretionary
	MonthlyAmount         decimal.Decimal `json:"monthly_amount" toml:"monthly_amount"`
	AnnualIncreasePercent decimal.Decimal `json:"annual_increase_percent" toml:"annual_increase_percent"`
}

// MortgageJSON is the outstanding loan.
type MortgageJSON struct {
	InitialPrincipal           decimal.Decimal `json:"initial_principal" toml:"initial_principal"`
	RemainingTermMonths        int             `json:"remaining_term_months" toml:"remaining_term_months"`
	ExtraPaymentPenaltyPercent decimal.Decimal `json:"extra_payment_penalty_percent" toml:"extra_payment_penalty_percent"`
}

// =============================================================================
// SCENARIO FACTORY
// =============================================================================

// ScenarioFactory converts scenario documents to engine inputs.
type ScenarioFactory struct{}

// NewScenarioFactory creates a new scenario factory.
func NewScenarioFactory() *ScenarioFactory {
	return &ScenarioFactory{}
}

// ParseScenario parses a JSON scenario and converts it to inputs.
func (f *ScenarioFactory) ParseScenario(jsonStr string) (cashflow.Inputs, error) {
	sj, err := Decode([]byte(jsonStr))
	if err != nil {
		return cashflow.Inputs{}, err
	}
	return f.FromJSON(sj)
}

// Decode reads a JSON scenario document without converting it.
func Decode(data []byte) (ScenarioJSON, error) {
	var sj ScenarioJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return ScenarioJSON{}, &ValidationError{Field: "body", Message: err.Error()}
	}
	return sj, nil
}

// LoadFile reads a scenario from disk. Files ending in .toml are decoded as
// TOML, everything else as JSON.
func LoadFile(path string) (ScenarioJSON, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var sj ScenarioJSON
		if _, err := toml.DecodeFile(path, &sj); err != nil {
			return ScenarioJSON{}, fmt.Errorf("decoding %s: %w", path, err)
		}
		return sj, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ScenarioJSON{}, fmt.Errorf("reading %s: %w", path, err)
	}
	sj, err := Decode(data)
	if err != nil {
		return ScenarioJSON{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return sj, nil
}

// FromJSON validates sj and converts it to inputs.
func (f *ScenarioFactory) FromJSON(sj ScenarioJSON) (cashflow.Inputs, error) {
	if err := Validate(sj); err != nil {
		return cashflow.Inputs{}, err
	}

	start, _ := cashflow.ParseStartDate(sj.Start) // checked by Validate

	in := cashflow.Inputs{
		BaseSalary:         sj.BaseSalary,
		AnnualSalaryGrowth: money.FromPercent(sj.AnnualSalaryIncreasePercent),
		InitialBenefitFund: sj.InitialBPJSBalance,
		Expenses:           make([]cashflow.ExpenseItem, 0, len(sj.Expenses)),
		Mortgage: cashflow.MortgageTerms{
			InitialPrincipal:    sj.Mortgage.InitialPrincipal,
			RemainingTermMonths: sj.Mortgage.RemainingTermMonths,
			PenaltyRate:         money.FromPercent(sj.Mortgage.ExtraPaymentPenaltyPercent),
		},
		StartDate: start,
	}
	if sj.UnemploymentMonth != nil {
		m := *sj.UnemploymentMonth
		in.UnemploymentMonth = &m
	}

	for _, ej := range sj.Expenses {
		category, _ := parseCategory(ej.Category)
		in.Expenses = append(in.Expenses, cashflow.ExpenseItem{
			ID:               ej.ID,
			Name:             ej.Name,
			Category:         category,
			MonthlyAmount:    ej.MonthlyAmount,
			AnnualGrowthRate: money.FromPercent(ej.AnnualIncreasePercent),
		})
	}
	return in, nil
}

// ToJSON converts inputs back to a scenario document.
func (f *ScenarioFactory) ToJSON(id, name string, in cashflow.Inputs) ScenarioJSON {
	sj := ScenarioJSON{
		ID:                          id,
		Name:                        name,
		Start:                       in.StartDate.String(),
		BaseSalary:                  in.BaseSalary,
		AnnualSalaryIncreasePercent: money.ToPercent(in.AnnualSalaryGrowth),
		InitialBPJSBalance:          in.InitialBenefitFund,
		Expenses:                    make([]ExpenseJSON, 0, len(in.Expenses)),
		Mortgage: MortgageJSON{
			InitialPrincipal:           in.Mortgage.InitialPrincipal,
			RemainingTermMonths:        in.Mortgage.RemainingTermMonths,
			ExtraPaymentPenaltyPercent: money.ToPercent(in.Mortgage.PenaltyRate),
		},
	}
	if in.UnemploymentMonth != nil {
		m := *in.UnemploymentMonth
		sj.UnemploymentMonth = &m
	}
	for _, item := range in.Expenses {
		sj.Expenses = append(sj.Expenses, ExpenseJSON{
			ID:                    item.ID,
			Name:                  item.Name,
			Category:              strings.ToLower(string(item.Category)),
			MonthlyAmount:         item.MonthlyAmount,
			AnnualIncreasePercent: money.ToPercent(item.AnnualGrowthRate),
		})
	}
	return sj
}

// =============================================================================
// VALIDATION
// =============================================================================

var minusHundred = decimal.NewFromInt(-100)

// Validate checks a scenario document. The first problem found is returned
// as a *ValidationError.
func Validate(sj ScenarioJSON) error {
	if _, err := cashflow.ParseStartDate(sj.Start); err != nil {
		return invalid("start", "must be YYYY-MM")
	}
	if sj.BaseSalary.IsNegative() {
		return invalid("base_salary", "must not be negative")
	}
	if !sj.AnnualSalaryIncreasePercent.GreaterThan(minusHundred) {
		return invalid("annual_salary_increase_percent", "must be greater than -100")
	}
	if sj.InitialBPJSBalance.IsNegative() {
		return invalid("initial_bpjs_balance", "must not be negative")
	}

	seen := make(map[string]bool, len(sj.Expenses))
	for i, ej := range sj.Expenses {
		field := fmt.Sprintf("expenses[%d]", i)
		if strings.TrimSpace(ej.ID) == "" {
			return invalid(field+".id", "is required")
		}
		if seen[ej.ID] {
			return invalid(field+".id", "duplicate id %q", ej.ID)
		}
		seen[ej.ID] = true

		if _, ok := parseCategory(ej.Category); !ok {
			return invalid(field+".category", "unknown category %q", ej.Category)
		}
		if ej.MonthlyAmount.IsNegative() {
			return invalid(field+".monthly_amount", "must not be negative")
		}
		if !ej.AnnualIncreasePercent.GreaterThan(minusHundred) {
			return invalid(field+".annual_increase_percent", "must be greater than -100")
		}
	}

	m := sj.Mortgage
	if m.InitialPrincipal.IsNegative() {
		return invalid("mortgage.initial_principal", "must not be negative")
	}
	if m.RemainingTermMonths <= 0 {
		return invalid("mortgage.remaining_term_months", "must be positive")
	}
	if m.ExtraPaymentPenaltyPercent.IsNegative() || !m.ExtraPaymentPenaltyPercent.LessThan(money.Hundred) {
		return invalid("mortgage.extra_payment_penalty_percent", "must be in [0, 100)")
	}

	if sj.UnemploymentMonth != nil {
		if u := *sj.UnemploymentMonth; u < 0 || u >= cashflow.HorizonMonths {
			return invalid("unemployment_month", "must be in [0, %d)", cashflow.HorizonMonths)
		}
	}
	return nil
}

func parseCategory(s string) (cashflow.Category, bool) {
	c := cashflow.Category(strings.ToUpper(strings.TrimSpace(s)))
	if c == "" {
		return cashflow.CategoryMandatory, true
	}
	return c, c.Valid()
}
