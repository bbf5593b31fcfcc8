package mortgage

import "github.com/shopspring/decimal"

// =============================================================================
// FORWARD INTEREST PROJECTION - Prices a prepayment
// =============================================================================

// ProjectFutureInterest simulates the loan forward from (startYearIndex,
// startMonthInYear) with no further prepayments and returns the total
// interest that would be paid.
//
// The rate is re-derived from the schedule every month, so the projection
// follows tier changes, and the installment is recomputed each month for the
// term still left. The loop stops when the term is exhausted or the
// principal reaches zero.
//
// Running it once before and once after a principal reduction, over the same
// window, gives the interest that reduction saves. A closed form does not
// exist once the window crosses tier boundaries.
func (s Schedule) ProjectFutureInterest(principal decimal.Decimal, remainingMonths, startYearIndex, startMonthInYear int) decimal.Decimal {
	total := decimal.Zero
	current := principal
	monthsLeft := remainingMonths
	start := startYearIndex*12 + startMonthInYear

	for m := 0; monthsLeft > 0 && current.IsPositive(); m++ {
		rate := s.RateForMonth(start + m)
		installment := Installment(current, rate, monthsLeft)
		payment := Split(current, rate, installment)

		total = total.Add(payment.Interest)
		current = current.Sub(payment.Principal)
		monthsLeft--
	}
	return total
}

// ProjectFutureInterest projects forward interest on the default schedule.
func ProjectFutureInterest(principal decimal.Decimal, remainingMonths, startYearIndex, startMonthInYear int) decimal.Decimal {
	return DefaultSchedule.ProjectFutureInterest(principal, remainingMonths, startYearIndex, startMonthInYear)
}
