package cashflow

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/cashflow-engine/money"
)

// period is the income and expense picture of one month before the mortgage
// and the waterfall are applied.
//
// Loan fields count from the start of the run and drive the rate tiers.
// Calendar fields follow StartDate and drive the yearly policy events.
type period struct {
	month         int
	loanYear      int
	loanMonth     int
	calendarYears int // calendar years elapsed since the start year
	calendarMonth int // 0 = January
	employed      bool
	income        Income
	base          decimal.Decimal
	holiday       decimal.Decimal
}

// newYear reports whether the period opens a calendar year after the first
// simulated month.
func (p period) newYear() bool {
	return p.month > 0 && p.calendarMonth == 0
}

// Employed reports whether month m falls before the unemployment onset.
func (in Inputs) Employed(m int) bool {
	return in.UnemploymentMonth == nil || m < *in.UnemploymentMonth
}

// BaseExpenses is the sum of every expense item grown for yearIndex
// completed years at its own annual rate.
func (in Inputs) BaseExpenses(yearIndex int) decimal.Decimal {
	total := decimal.Zero
	for _, item := range in.Expenses {
		growth := money.Pow(money.One.Add(item.AnnualGrowthRate), yearIndex)
		total = total.Add(money.Round(item.MonthlyAmount.Mul(growth)))
	}
	return total
}

// projectPeriod advances the salary and insurance parts of st into month m
// and returns the month's income and non-mortgage expenses.
func projectPeriod(in *Inputs, st *state, m int) period {
	year, month := in.StartDate.At(m)
	startYear, _ := in.StartDate.At(0)
	p := period{
		month:         m,
		loanYear:      m / 12,
		loanMonth:     m % 12,
		calendarYears: year - startYear,
		calendarMonth: int(month - time.January),
		employed:      in.Employed(m),
	}

	if !p.employed {
		st.monthsSinceOnset++
	}

	if p.employed && p.newYear() {
		st.salary = money.Round(st.salary.Mul(money.One.Add(in.AnnualSalaryGrowth)))
	}

	p.income.Salary = decimal.Zero
	p.income.Bonus = decimal.Zero
	p.income.Severance = decimal.Zero
	p.income.Benefit = decimal.Zero

	if p.employed {
		p.income.Salary = st.salary
		if p.calendarMonth == BonusMonth {
			p.income.Bonus = st.salary
		}
		if p.calendarMonth == SeveranceMonth {
			p.income.Severance = st.salary
		}
		st.benefit = st.benefit.Add(money.Round(st.salary.Mul(BenefitAccrualRate)))
	} else {
		if st.monthsSinceOnset == 1 {
			p.income.Severance = st.salary
		}
		if st.monthsSinceOnset == BenefitClaimLagMonths {
			p.income.Benefit = st.benefit
			st.benefit = decimal.Zero
		}
	}

	p.income.Total = money.Sum(p.income.Salary, p.income.Bonus, p.income.Severance, p.income.Benefit)
	p.base = in.BaseExpenses(p.calendarYears)
	p.holiday = money.Round(p.income.Bonus.Mul(HolidayExpenseShare))
	return p
}
