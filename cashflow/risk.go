package cashflow

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/cashflow-engine/money"
)

// =============================================================================
// RISK ANALYSIS - Post-hoc pass over a finished ledger
// =============================================================================

// riskFacts are the figures the rules read. They are gathered in one
// forward pass over the ledger.
type riskFacts struct {
	runway        int
	stressMonth   *int
	emergencyFull bool
}

// riskAccumulator is the mutable level the rules act on. Rules only raise
// the level; every rule that fires keeps its explanation.
type riskAccumulator struct {
	level       RiskLevel
	explanation []string
}

func (a *riskAccumulator) raise(level RiskLevel, why string) {
	if level.Rank() > a.level.Rank() {
		a.level = level
	}
	a.explanation = append(a.explanation, why)
}

type riskRule func(f riskFacts, acc *riskAccumulator)

// riskRules are evaluated in order.
var riskRules = []riskRule{
	func(f riskFacts, acc *riskAccumulator) {
		switch {
		case f.runway < 6:
			acc.raise(RiskHigh, "Liquidity runway is critically short (less than 6 months).")
		case f.runway < 12:
			acc.raise(RiskMedium, "Liquidity runway is moderate (6-11 months).")
		default:
			acc.raise(RiskLow, "Liquidity runway is healthy (12+ months).")
		}
	},
	func(f riskFacts, acc *riskAccumulator) {
		if !f.emergencyFull && acc.level != RiskHigh {
			acc.raise(RiskMedium, "Emergency fund is not yet fully funded to target.")
		}
	},
	func(f riskFacts, acc *riskAccumulator) {
		if f.stressMonth != nil && *f.stressMonth < 12 {
			acc.raise(RiskHigh, fmt.Sprintf(
				"Mortgage default risk detected at month %d under current scenario.", *f.stressMonth))
		}
	},
}

// available is what a month could draw on: its income plus every liquid
// balance, including unclaimed unemployment insurance.
func available(e LedgerEntry) decimal.Decimal {
	return money.Sum(e.Income.Total, e.Funds.Buffer, e.Funds.Emergency, e.Funds.Benefit)
}

// AnalyzeRisk derives the runway, the first mortgage-stress month, the fund
// depletion timeline and the overall risk level from a ledger.
func AnalyzeRisk(ledger []LedgerEntry) RiskAnalysis {
	facts := riskFacts{emergencyFull: true}
	timeline := []DepletionEvent{}
	var bufferHeld, bufferDepleted, emergencyHeld, emergencyDepleted bool

	for _, e := range ledger {
		covered := !available(e).LessThan(e.Expenses.Total)

		if facts.stressMonth == nil && !covered &&
			e.Mortgage.RemainingPrincipal.IsPositive() && e.Expenses.Installment.IsPositive() {
			month := e.Month
			facts.stressMonth = &month
		}

		if !e.IsEmployed && covered {
			facts.runway++
		}

		if track(e.Funds.Buffer, &bufferHeld, &bufferDepleted) {
			timeline = append(timeline, DepletionEvent{Fund: "buffer", Month: e.Month})
		}
		if track(e.Funds.Emergency, &emergencyHeld, &emergencyDepleted) {
			timeline = append(timeline, DepletionEvent{Fund: "emergency", Month: e.Month})
		}
	}

	if n := len(ledger); n > 0 {
		last := ledger[n-1]
		facts.emergencyFull = !last.Funds.Emergency.LessThan(last.Funds.EmergencyTarget)
	}

	acc := &riskAccumulator{level: RiskLow, explanation: []string{}}
	for _, rule := range riskRules {
		rule(facts, acc)
	}

	return RiskAnalysis{
		LiquidityRunwayMonths: facts.runway,
		MortgageStressMonth:   facts.stressMonth,
		DepletionTimeline:     timeline,
		Level:                 acc.level,
		Explanation:           acc.explanation,
	}
}

// track reports the first month a fund drops back to zero after having held
// a balance.
func track(balance decimal.Decimal, held, depleted *bool) bool {
	if balance.IsPositive() {
		*held = true
		return false
	}
	if *held && !*depleted {
		*depleted = true
		return true
	}
	return false
}
