package mortgage_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/cashflow-engine/mortgage"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func f64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// =============================================================================
// RATE SCHEDULE TESTS
// =============================================================================

func TestSchedule_RateForYear_Tiers(t *testing.T) {
	cases := []struct {
		yearIndex int
		want      string
	}{
		{0, "0.0365"},
		{2, "0.0365"},
		{3, "0.0765"},
		{5, "0.0765"},
		{6, "0.0965"},
		{9, "0.0965"},
		{10, "0.1065"},
		{19, "0.1065"},
		{25, "0.1065"}, // past the last tier: last rate forever
		{-1, "0.0365"},
	}
	for _, c := range cases {
		got := mortgage.DefaultSchedule.RateForYear(c.yearIndex)
		assert.True(t, got.Equal(dec(c.want)), "year %d: got %s want %s", c.yearIndex, got, c.want)
	}
}

func TestSchedule_RateForMonth(t *testing.T) {
	s := mortgage.DefaultSchedule
	assert.True(t, s.RateForMonth(35).Equal(dec("0.0365")))
	assert.True(t, s.RateForMonth(36).Equal(dec("0.0765")))
}

func TestSchedule_Empty(t *testing.T) {
	var s mortgage.Schedule
	assert.True(t, s.RateForYear(4).IsZero())
}

// =============================================================================
// INSTALLMENT TESTS
// =============================================================================

func TestInstallment_Guards(t *testing.T) {
	rate := dec("0.0365")

	assert.True(t, mortgage.Installment(decimal.Zero, rate, 120).IsZero(), "zero principal")
	assert.True(t, mortgage.Installment(dec("-5"), rate, 120).IsZero(), "negative principal")
	assert.True(t, mortgage.Installment(dec("1000"), rate, 0).IsZero(), "zero term")
	assert.True(t, mortgage.Installment(dec("1000"), rate, -3).IsZero(), "negative term")
}

func TestInstallment_ZeroRateIsStraightLine(t *testing.T) {
	got := mortgage.Installment(dec("1200"), decimal.Zero, 12)
	assert.True(t, got.Equal(dec("100")), "got %s", got)
}

func TestInstallment_KnownValue(t *testing.T) {
	// 1,000,000 at 12%/year over 12 months = 88,848.79
	got := mortgage.Installment(dec("1000000"), dec("0.12"), 12)
	assert.InDelta(t, 88848.79, f64(got), 0.01)
}

func TestInstallment_RetiresLoanInExactlyNPeriods(t *testing.T) {
	// GIVEN: any P > 0, r > 0, n > 0
	// WHEN: the fixed installment is applied through the amortization recurrence
	// THEN: the principal parts sum to P and the balance reaches zero at period n

	cases := []struct {
		principal string
		rate      string
		months    int
	}{
		{"850000000", "0.0365", 180},
		{"850000000", "0.1065", 240},
		{"1000", "0.05", 1},
		{"250000", "0.0765", 37},
		{"99999.99", "0.0965", 360},
	}

	for _, c := range cases {
		principal := dec(c.principal)
		rate := dec(c.rate)
		installment := mortgage.Installment(principal, rate, c.months)
		require.True(t, installment.IsPositive())

		balance := principal
		repaid := decimal.Zero
		for k := 0; k < c.months; k++ {
			interest := mortgage.Interest(balance, rate)
			toPrincipal := installment.Sub(interest)
			repaid = repaid.Add(toPrincipal)
			balance = balance.Sub(toPrincipal)
		}

		assert.InDelta(t, f64(principal), f64(repaid), 0.01, "case %+v", c)
		assert.InDelta(t, 0, f64(balance), 0.01, "case %+v", c)
	}
}

func TestSplit_CapsPrincipalAtOutstanding(t *testing.T) {
	p := mortgage.Split(dec("100"), dec("0.12"), dec("500"))
	assert.True(t, p.Interest.Equal(dec("1")))
	assert.True(t, p.Principal.Equal(dec("100")))
	assert.True(t, p.Total().Equal(dec("101")))
}

func TestSplit_NoPrincipal(t *testing.T) {
	p := mortgage.Split(decimal.Zero, dec("0.12"), dec("500"))
	assert.True(t, p.Total().IsZero())
}

// =============================================================================
// FORWARD PROJECTION TESTS
// =============================================================================

func TestProjectFutureInterest_ZeroPrincipal(t *testing.T) {
	assert.True(t, mortgage.ProjectFutureInterest(decimal.Zero, 120, 0, 0).IsZero())
	assert.True(t, mortgage.ProjectFutureInterest(dec("1000"), 0, 0, 0).IsZero())
}

func TestProjectFutureInterest_SingleTierMatchesAnnuity(t *testing.T) {
	// GIVEN: a 24-month window entirely inside the first tier
	// THEN: projected interest equals n*I - P of the plain annuity
	principal := dec("100000000")
	rate := dec("0.0365")
	installment := mortgage.Installment(principal, rate, 24)

	got := mortgage.ProjectFutureInterest(principal, 24, 0, 0)
	want := installment.Mul(decimal.NewFromInt(24)).Sub(principal)

	assert.InDelta(t, f64(want), f64(got), 1.0)
}

func TestProjectFutureInterest_FollowsTierChanges(t *testing.T) {
	// Starting in month 11 of year 2 the window crosses into the 7.65% tier,
	// so it must cost more than the same window priced at 3.65% throughout.
	principal := dec("500000000")
	flat := mortgage.Schedule{{StartYear: 1, EndYear: 20, Rate: dec("0.0365")}}

	tiered := mortgage.ProjectFutureInterest(principal, 60, 2, 11)
	constant := flat.ProjectFutureInterest(principal, 60, 2, 11)

	assert.True(t, tiered.GreaterThan(constant), "tiered %s constant %s", tiered, constant)
}

func TestProjectFutureInterest_PrepaymentSavesInterest(t *testing.T) {
	before := mortgage.ProjectFutureInterest(dec("800000000"), 156, 2, 0)
	after := mortgage.ProjectFutureInterest(dec("700000000"), 156, 2, 0)

	saved := before.Sub(after)
	assert.True(t, saved.IsPositive())
	assert.True(t, saved.LessThan(before))
}
