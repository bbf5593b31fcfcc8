package mortgage

import (
	"github.com/shopspring/decimal"

	"github.com/warp/cashflow-engine/money"
)

// =============================================================================
// AMORTIZATION - Fixed installment for a rate/term regime
// =============================================================================

// MonthlyRate converts an annual rate into the monthly rate used by the
// annuity formula (annualRate / 12).
func MonthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(money.Twelve)
}

// Installment returns the fixed monthly payment that retires principal over
// remainingMonths at annualRate:
//
//	I = P * r * (1+r)^n / ((1+r)^n - 1),  r = annualRate/12
//
// Non-positive principal or term yields zero. A zero rate falls back to
// straight-line division.
func Installment(principal, annualRate decimal.Decimal, remainingMonths int) decimal.Decimal {
	if remainingMonths <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}

	r := MonthlyRate(annualRate)
	if r.IsZero() {
		return money.Round(principal.Div(decimal.NewFromInt(int64(remainingMonths))))
	}

	growth := money.Pow(money.One.Add(r), remainingMonths)
	return money.Round(principal.Mul(r).Mul(growth).Div(growth.Sub(money.One)))
}

// Interest returns one month of interest on principal at annualRate.
func Interest(principal, annualRate decimal.Decimal) decimal.Decimal {
	if !principal.IsPositive() {
		return decimal.Zero
	}
	return money.Round(principal.Mul(MonthlyRate(annualRate)))
}

// Payment splits one regular installment into its interest and principal
// parts. The principal part never exceeds the outstanding principal.
type Payment struct {
	Interest  decimal.Decimal
	Principal decimal.Decimal
}

// Total is the cash actually paid.
func (p Payment) Total() decimal.Decimal { return p.Interest.Add(p.Principal) }

// Split applies installment to principal at annualRate: interest first, the
// rest to principal, capped at what is outstanding.
func Split(principal, annualRate, installment decimal.Decimal) Payment {
	if !principal.IsPositive() {
		return Payment{Interest: decimal.Zero, Principal: decimal.Zero}
	}
	interest := Interest(principal, annualRate)
	toPrincipal := money.Max(decimal.Zero, money.Min(principal, installment.Sub(interest)))
	return Payment{Interest: interest, Principal: toPrincipal}
}
