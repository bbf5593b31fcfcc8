/*
Package money holds the decimal helpers shared by the mortgage and cash-flow
packages.

PRECISION:
  Every currency amount is a decimal.Decimal. Additions, subtractions and
  comparisons are exact. Products that can grow the scale without bound
  (interest, compounded growth, penalties, installments) are rounded to
  Scale places at the point they are produced, so a 240-month run keeps a
  bounded representation and stays byte-for-byte reproducible.

  Integer powers are computed by repeated squaring at PowScale places. This
  keeps (1+r)^n exact enough for the annuity formula without relying on the
  library's general Pow.

SEE ALSO:
  - mortgage/annuity.go: installment formula
  - cashflow/income.go: growth-compounded expenses
*/
package money

import "github.com/shopspring/decimal"

const (
	// Scale is the number of decimal places kept for derived amounts.
	Scale = 8

	// PowScale is the working precision of Pow.
	PowScale = 20
)

var (
	One     = decimal.NewFromInt(1)
	Twelve  = decimal.NewFromInt(12)
	Hundred = decimal.NewFromInt(100)
)

// Round rounds a derived amount to Scale places.
func Round(d decimal.Decimal) decimal.Decimal { return d.Round(Scale) }

// Pow raises base to the n-th power. n <= 0 yields 1.
func Pow(base decimal.Decimal, n int) decimal.Decimal {
	result := One
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(PowScale)
		}
		base = base.Mul(base).Round(PowScale)
		n >>= 1
	}
	return result
}

// FromPercent converts a percentage (5 = 5%) into a rate fraction.
func FromPercent(p decimal.Decimal) decimal.Decimal { return p.Div(Hundred) }

// ToPercent converts a rate fraction into a percentage.
func ToPercent(rate decimal.Decimal) decimal.Decimal { return rate.Mul(Hundred) }

// Ratio returns num/den as a percentage rounded to 4 places, or zero when
// den is not positive.
func Ratio(num, den decimal.Decimal) decimal.Decimal {
	if !den.IsPositive() {
		return decimal.Zero
	}
	return num.Mul(Hundred).DivRound(den, 4)
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
