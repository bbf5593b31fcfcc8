/*
Package mortgage implements the tiered-rate mortgage math used by the
cash-flow engine.

PURPOSE:
  A household mortgage here is not a single-rate loan. The rate is locked per
  block of loan years (a "tier") and steps up as the loan ages. Every time the
  rate changes the fixed installment is recomputed for the remaining term.

KEY CONCEPTS IN THIS FILE (schedule.go):
  - RateTier: a contiguous, 1-based range of loan years sharing one rate
  - Schedule: ordered tiers; total over all non-negative year indexes

DEFAULT SCHEDULE:
  Years  1-3:   3.65%
  Years  4-6:   7.65%
  Years  7-10:  9.65%
  Years 11-20: 10.65%   (and every later year)

SEE ALSO:
  - annuity.go: installment formula
  - projection.go: forward interest projection used to price prepayments
*/
package mortgage

import "github.com/shopspring/decimal"

// =============================================================================
// RATE SCHEDULE - Loan year to annual rate
// =============================================================================

// RateTier is a contiguous range of loan years [StartYear, EndYear] (1-based,
// inclusive) sharing one annual rate.
type RateTier struct {
	StartYear int
	EndYear   int
	Rate      decimal.Decimal
}

// Schedule is an ordered, non-overlapping list of rate tiers.
type Schedule []RateTier

// DefaultSchedule is the fixed policy schedule.
var DefaultSchedule = Schedule{
	{StartYear: 1, EndYear: 3, Rate: decimal.RequireFromString("0.0365")},
	{StartYear: 4, EndYear: 6, Rate: decimal.RequireFromString("0.0765")},
	{StartYear: 7, EndYear: 10, Rate: decimal.RequireFromString("0.0965")},
	{StartYear: 11, EndYear: 20, Rate: decimal.RequireFromString("0.1065")},
}

// RateForYear returns the annual rate for a zero-based loan-year index.
// Years past the last tier keep the last tier's rate.
func (s Schedule) RateForYear(yearIndex int) decimal.Decimal {
	if len(s) == 0 {
		return decimal.Zero
	}
	if yearIndex < 0 {
		yearIndex = 0
	}
	year := yearIndex + 1
	for _, tier := range s {
		if year >= tier.StartYear && year <= tier.EndYear {
			return tier.Rate
		}
	}
	return s[len(s)-1].Rate
}

// RateForMonth returns the annual rate for an absolute month index counted
// from the loan start.
func (s Schedule) RateForMonth(monthIndex int) decimal.Decimal {
	if monthIndex < 0 {
		monthIndex = 0
	}
	return s.RateForYear(monthIndex / 12)
}
