package cashflow

import "github.com/shopspring/decimal"

// =============================================================================
// FIXED POLICY - Not user-configurable
// =============================================================================

const (
	// HorizonMonths is the length of every projection.
	HorizonMonths = 240

	// BonusMonth is the calendar month-in-year (0 = January) of the
	// year-end bonus. It follows StartDate, not the simulation month.
	BonusMonth = 2

	// SeveranceMonth is the calendar month-in-year of the annual
	// compensation payment.
	SeveranceMonth = 3

	// BenefitClaimLagMonths is how many months after onset the unemployment
	// insurance balance is paid out.
	BenefitClaimLagMonths = 1

	// AccelerationMultiple: the bucket must hold this many installments
	// before a prepayment executes.
	AccelerationMultiple = 6

	// RunwayLowMonths is the cover, in months of expenses, below which an
	// unemployed month is flagged RUNWAY_LOW.
	RunwayLowMonths = 6
)

var (
	// BenefitAccrualRate of salary accrues to the insurance balance each
	// employed month.
	BenefitAccrualRate = decimal.RequireFromString("0.057")

	// HolidayExpenseShare of the bonus is spent in the bonus month.
	HolidayExpenseShare = decimal.RequireFromString("0.5")

	BufferExpenseMonths        = decimal.NewFromInt(3)
	BufferInstallmentMonths    = decimal.NewFromInt(1)
	EmergencyExpenseMonths     = decimal.NewFromInt(12)
	EmergencyInstallmentMonths = decimal.NewFromInt(12)

	// Debt-service thresholds, in percent.
	DTIHighThreshold     = decimal.NewFromInt(30)
	DTICriticalThreshold = decimal.NewFromInt(45)
)
