/*
Package cashflow is the household cash-flow simulation engine.

PURPOSE:
  Projects a household's monthly cash flow over a fixed 240-month horizon:
  salary with annual growth, bonus and severance months, an unemployment
  insurance balance, growth-adjusted expenses, a tiered-rate mortgage with
  yearly prepayment ("acceleration"), and a three-tier surplus waterfall
  (buffer -> emergency -> acceleration bucket).

DETERMINISM:
  Run is a pure function of Inputs. It performs no I/O, reads no clock and
  keeps no package-level state, so identical inputs produce identical
  results (and identical JSON).

KEY CONCEPTS IN THIS FILE (types.go):
  - Inputs: the immutable household description for one run
  - LedgerEntry: one month of the projection
  - AccelerationEvent: one executed prepayment
  - Result: ledger + events + risk summary

SEE ALSO:
  - simulator.go: the monthly step function
  - waterfall.go: surplus/deficit allocation
  - risk.go: post-hoc risk analysis
*/
package cashflow

import "github.com/shopspring/decimal"

// =============================================================================
// INPUTS
// =============================================================================

// Category tags an expense item.
type Category string

const (
	CategoryMandatory     Category = "MANDATORY"
	CategoryDiscretionary Category = "DISCRETIONARY"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryMandatory || c == CategoryDiscretionary
}

// ExpenseItem is a recurring monthly expense that grows once a year at its
// own rate.
type ExpenseItem struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Category         Category        `json:"category"`
	MonthlyAmount    decimal.Decimal `json:"monthly_amount"`
	AnnualGrowthRate decimal.Decimal `json:"annual_growth_rate"`
}

// MortgageTerms describes the outstanding loan at simulation start.
type MortgageTerms struct {
	InitialPrincipal    decimal.Decimal `json:"initial_principal"`
	RemainingTermMonths int             `json:"remaining_term_months"`
	// PenaltyRate is withheld from every acceleration payment (0.01 = 1%).
	PenaltyRate decimal.Decimal `json:"penalty_rate"`
}

// Inputs is everything a run needs. Rates are fractions (0.05 = 5%).
type Inputs struct {
	BaseSalary         decimal.Decimal `json:"base_salary"`
	AnnualSalaryGrowth decimal.Decimal `json:"annual_salary_growth"`
	InitialBenefitFund decimal.Decimal `json:"initial_benefit_fund"`
	Expenses           []ExpenseItem   `json:"expenses"`
	Mortgage           MortgageTerms   `json:"mortgage"`
	UnemploymentMonth  *int            `json:"unemployment_month,omitempty"`
	StartDate          StartDate       `json:"start"`
}

// =============================================================================
// LEDGER ENTRY
// =============================================================================

// RiskFlag marks a notable condition in a single month.
type RiskFlag string

const (
	FlagDeficit     RiskFlag = "DEFICIT"
	FlagDTIHigh     RiskFlag = "DTI_HIGH"
	FlagDTICritical RiskFlag = "DTI_CRITICAL"
	FlagRunwayLow   RiskFlag = "RUNWAY_LOW"
	FlagPaidOff     RiskFlag = "PAID_OFF"
)

// Income is the cash received in one month, by source.
type Income struct {
	Salary    decimal.Decimal `json:"salary"`
	Bonus     decimal.Decimal `json:"bonus"`
	Severance decimal.Decimal `json:"severance"`
	Benefit   decimal.Decimal `json:"benefit_claim"`
	Total     decimal.Decimal `json:"total"`
}

// Expenses is the cash spent in one month. Installment is what was actually
// paid to the lender.
type Expenses struct {
	Base        decimal.Decimal `json:"base"`
	Installment decimal.Decimal `json:"mortgage_installment"`
	Holiday     decimal.Decimal `json:"holiday"`
	Total       decimal.Decimal `json:"total"`
}

// MortgageSnapshot is the loan after this month's payments.
//
// InterestSaved and TermReduction are always zero at the entry level; the
// real savings live on AccelerationEvent and Result.TotalInterestSaved.
type MortgageSnapshot struct {
	Rate                    decimal.Decimal `json:"rate"`
	InterestPaid            decimal.Decimal `json:"interest_paid"`
	PrincipalPaid           decimal.Decimal `json:"principal_paid"`
	RemainingPrincipal      decimal.Decimal `json:"remaining_principal"`
	RemainingTermMonths     int             `json:"remaining_term_months"`
	InstallmentBeforeRecalc decimal.Decimal `json:"installment_before_recalc"`
	InstallmentAfterRecalc  decimal.Decimal `json:"installment_after_recalc"`
	Accelerated             decimal.Decimal `json:"accelerated"`
	InterestSaved           decimal.Decimal `json:"interest_saved"`
	TermReduction           int             `json:"term_reduction"`
}

// Funds are end-of-month balances and the targets used for this month.
type Funds struct {
	Buffer          decimal.Decimal `json:"buffer"`
	Emergency       decimal.Decimal `json:"emergency"`
	Bucket          decimal.Decimal `json:"acceleration_bucket"`
	Benefit         decimal.Decimal `json:"benefit_balance"`
	BufferTarget    decimal.Decimal `json:"buffer_target"`
	EmergencyTarget decimal.Decimal `json:"emergency_target"`
}

// Metrics are percentages; a zero denominator reports zero.
type Metrics struct {
	IncomeToExpense decimal.Decimal `json:"income_to_expense_ratio"`
	DebtService     decimal.Decimal `json:"debt_service_ratio"`
}

// LedgerEntry is one simulated month. Entries are immutable once appended.
type LedgerEntry struct {
	Month      int              `json:"month"`
	Label      string           `json:"label"`
	IsEmployed bool             `json:"is_employed"`
	Income     Income           `json:"income"`
	Expenses   Expenses         `json:"expenses"`
	Mortgage   MortgageSnapshot `json:"mortgage"`
	Funds      Funds            `json:"funds"`
	Waterfall  Allocation       `json:"waterfall"`
	Metrics    Metrics          `json:"metrics"`
	Surplus    decimal.Decimal  `json:"surplus"`
	Flags      []RiskFlag       `json:"risk_flags"`
}

// HasFlag reports whether the entry carries flag.
func (e LedgerEntry) HasFlag(flag RiskFlag) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// =============================================================================
// RESULT
// =============================================================================

// AccelerationEvent records one executed prepayment from the bucket.
type AccelerationEvent struct {
	Month             int             `json:"month"`
	Year              int             `json:"year"`
	Label             string          `json:"label"`
	AmountPaid        decimal.Decimal `json:"amount_paid"`
	Penalty           decimal.Decimal `json:"penalty"`
	PrincipalReduced  decimal.Decimal `json:"principal_reduced"`
	InstallmentBefore decimal.Decimal `json:"installment_before"`
	InstallmentAfter  decimal.Decimal `json:"installment_after"`
	TermReduction     int             `json:"term_reduction"`
	InterestSaved     decimal.Decimal `json:"interest_saved"`
}

// RiskLevel is ordinal: LOW < MEDIUM < HIGH.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Rank orders levels for comparison.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	default:
		return 0
	}
}

// DepletionEvent is the first month a fund returned to zero after having
// held a balance.
type DepletionEvent struct {
	Fund  string `json:"fund"`
	Month int    `json:"month"`
}

type RiskAnalysis struct {
	LiquidityRunwayMonths int              `json:"liquidity_runway_months"`
	MortgageStressMonth   *int             `json:"mortgage_stress_month"`
	DepletionTimeline     []DepletionEvent `json:"depletion_timeline"`
	Level                 RiskLevel        `json:"level"`
	Explanation           []string         `json:"explanation"`
}

// Result is the full output of one run.
type Result struct {
	Ledger             []LedgerEntry       `json:"ledger"`
	Accelerations      []AccelerationEvent `json:"accelerations"`
	Risk               RiskAnalysis        `json:"risk"`
	TotalInterestSaved decimal.Decimal     `json:"total_interest_saved"`
	PayoffMonth        *int                `json:"payoff_month"`
}
