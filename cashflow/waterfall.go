package cashflow

import (
	"github.com/shopspring/decimal"

	"github.com/warp/cashflow-engine/money"
)

// =============================================================================
// WATERFALL - Surplus fill / deficit drain
// =============================================================================
//
// Surplus flows buffer -> emergency -> acceleration bucket, each fill capped
// at the gap to its target. A deficit drains buffer, then emergency, each
// capped at the balance. Whatever a deficit cannot draw is left uncovered;
// balances never go negative and the bucket is never drawn.

// Targets are the fill levels for the two capped reservoirs.
type Targets struct {
	Buffer    decimal.Decimal
	Emergency decimal.Decimal
}

// TargetsFor derives the month's targets from its base expenses and the
// installment in force at simulation start.
func TargetsFor(baseExpenses, originalInstallment decimal.Decimal) Targets {
	return Targets{
		Buffer: baseExpenses.Mul(BufferExpenseMonths).
			Add(originalInstallment.Mul(BufferInstallmentMonths)),
		Emergency: baseExpenses.Mul(EmergencyExpenseMonths).
			Add(originalInstallment.Mul(EmergencyInstallmentMonths)),
	}
}

// Balances are the three reservoirs.
type Balances struct {
	Buffer    decimal.Decimal
	Emergency decimal.Decimal
	Bucket    decimal.Decimal
}

// Allocation records how one month's surplus or deficit moved.
type Allocation struct {
	ToBuffer      decimal.Decimal `json:"to_buffer"`
	ToEmergency   decimal.Decimal `json:"to_emergency"`
	ToBucket      decimal.Decimal `json:"to_bucket"`
	FromBuffer    decimal.Decimal `json:"from_buffer"`
	FromEmergency decimal.Decimal `json:"from_emergency"`
	Shortfall     decimal.Decimal `json:"uncovered_shortfall"`
}

// Allocate applies surplus (negative for a deficit) to bal and returns the
// new balances with the moves that produced them.
//
// For a positive surplus ToBuffer + ToEmergency + ToBucket == surplus.
func Allocate(surplus decimal.Decimal, bal Balances, t Targets) (Balances, Allocation) {
	a := Allocation{
		ToBuffer:      decimal.Zero,
		ToEmergency:   decimal.Zero,
		ToBucket:      decimal.Zero,
		FromBuffer:    decimal.Zero,
		FromEmergency: decimal.Zero,
		Shortfall:     decimal.Zero,
	}

	switch {
	case surplus.IsPositive():
		left := surplus

		a.ToBuffer = money.Min(left, gap(bal.Buffer, t.Buffer))
		left = left.Sub(a.ToBuffer)

		a.ToEmergency = money.Min(left, gap(bal.Emergency, t.Emergency))
		left = left.Sub(a.ToEmergency)

		a.ToBucket = left

	case surplus.IsNegative():
		need := surplus.Neg()

		a.FromBuffer = money.Min(need, bal.Buffer)
		need = need.Sub(a.FromBuffer)

		a.FromEmergency = money.Min(need, bal.Emergency)
		need = need.Sub(a.FromEmergency)

		a.Shortfall = need
	}

	return Balances{
		Buffer:    bal.Buffer.Add(a.ToBuffer).Sub(a.FromBuffer),
		Emergency: bal.Emergency.Add(a.ToEmergency).Sub(a.FromEmergency),
		Bucket:    bal.Bucket.Add(a.ToBucket),
	}, a
}

func gap(balance, target decimal.Decimal) decimal.Decimal {
	return money.Max(decimal.Zero, target.Sub(balance))
}
