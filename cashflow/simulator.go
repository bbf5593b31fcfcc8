package cashflow

import (
	"github.com/shopspring/decimal"

	"github.com/warp/cashflow-engine/money"
	"github.com/warp/cashflow-engine/mortgage"
)

// =============================================================================
// SIMULATION STATE
// =============================================================================

// state is the running record threaded through every monthly step. It is
// owned by one run and discarded when Run returns.
type state struct {
	salary    decimal.Decimal
	benefit   decimal.Decimal
	buffer    decimal.Decimal
	emergency decimal.Decimal
	bucket    decimal.Decimal

	principal   decimal.Decimal
	term        int
	installment decimal.Decimal
	lastRate    decimal.Decimal
	rateLocked  bool

	interestSaved    decimal.Decimal
	payoffMonth      *int
	monthsSinceOnset int // -1 until the first unemployed month
}

func newState(in *Inputs) state {
	return state{
		salary:           in.BaseSalary,
		benefit:          in.InitialBenefitFund,
		buffer:           decimal.Zero,
		emergency:        decimal.Zero,
		bucket:           decimal.Zero,
		principal:        in.Mortgage.InitialPrincipal,
		term:             in.Mortgage.RemainingTermMonths,
		installment:      decimal.Zero,
		interestSaved:    decimal.Zero,
		monthsSinceOnset: -1,
	}
}

// =============================================================================
// RUN
// =============================================================================

type simulator struct {
	in                  Inputs
	schedule            mortgage.Schedule
	st                  state
	originalInstallment decimal.Decimal
	ledger              *Ledger
	events              []AccelerationEvent
}

// Run projects in over HorizonMonths months and analyzes the result.
//
// Run does not validate in. Non-positive principal or term yields a zero
// installment, and a deficit the funds cannot cover is reported on the entry
// rather than failing the run.
func Run(in Inputs) *Result {
	s := &simulator{
		in:       in,
		schedule: mortgage.DefaultSchedule,
		ledger:   NewLedger(HorizonMonths),
		events:   []AccelerationEvent{},
	}
	s.st = newState(&s.in)
	s.originalInstallment = mortgage.Installment(
		in.Mortgage.InitialPrincipal, s.schedule.RateForYear(0), in.Mortgage.RemainingTermMonths)

	for m := 0; m < HorizonMonths; m++ {
		if err := s.ledger.Append(s.step(m)); err != nil {
			panic(err)
		}
	}

	entries := s.ledger.Entries()
	return &Result{
		Ledger:             entries,
		Accelerations:      s.events,
		Risk:               AnalyzeRisk(entries),
		TotalInterestSaved: s.st.interestSaved,
		PayoffMonth:        s.st.payoffMonth,
	}
}

// step simulates month m and returns its ledger entry.
func (s *simulator) step(m int) LedgerEntry {
	st := &s.st
	p := projectPeriod(&s.in, st, m)

	rate := s.schedule.RateForMonth(m)
	if !st.rateLocked || !rate.Equal(st.lastRate) {
		st.installment = mortgage.Installment(st.principal, rate, st.term)
		st.lastRate = rate
		st.rateLocked = true
	}

	snap := MortgageSnapshot{
		Rate:                    rate,
		InterestPaid:            decimal.Zero,
		PrincipalPaid:           decimal.Zero,
		InstallmentBeforeRecalc: decimal.Zero,
		InstallmentAfterRecalc:  decimal.Zero,
		Accelerated:             decimal.Zero,
		InterestSaved:           decimal.Zero,
	}

	// The regular split is fixed on the opening balance, so a prepayment
	// later in the month does not change this month's interest.
	if st.principal.IsPositive() && st.term > 0 {
		pay := s.regularSplit(rate)
		if p.newYear() {
			if ev, ok := s.accelerate(p, rate); ok {
				snap.InstallmentBeforeRecalc = ev.InstallmentBefore
				snap.InstallmentAfterRecalc = ev.InstallmentAfter
				snap.Accelerated = ev.PrincipalReduced
			}
		}
		s.payRegular(m, pay, &snap)
	}
	snap.RemainingPrincipal = st.principal
	snap.RemainingTermMonths = st.term

	installment := snap.InterestPaid.Add(snap.PrincipalPaid)
	expenses := Expenses{
		Base:        p.base,
		Installment: installment,
		Holiday:     p.holiday,
		Total:       money.Sum(p.base, installment, p.holiday),
	}

	targets := TargetsFor(p.base, s.originalInstallment)
	surplus := p.income.Total.Sub(expenses.Total)
	bal, alloc := Allocate(surplus, Balances{
		Buffer:    st.buffer,
		Emergency: st.emergency,
		Bucket:    st.bucket,
	}, targets)
	st.buffer, st.emergency, st.bucket = bal.Buffer, bal.Emergency, bal.Bucket

	entry := LedgerEntry{
		Month:      m,
		Label:      s.in.StartDate.Label(m),
		IsEmployed: p.employed,
		Income:     p.income,
		Expenses:   expenses,
		Mortgage:   snap,
		Funds: Funds{
			Buffer:          st.buffer,
			Emergency:       st.emergency,
			Bucket:          st.bucket,
			Benefit:         st.benefit,
			BufferTarget:    targets.Buffer,
			EmergencyTarget: targets.Emergency,
		},
		Waterfall: alloc,
		Metrics: Metrics{
			IncomeToExpense: money.Ratio(p.income.Total, expenses.Total),
			DebtService:     money.Ratio(installment, p.income.Total),
		},
		Surplus: surplus,
	}
	entry.Flags = flagsFor(&entry)
	return entry
}

// regularSplit divides the locked installment into interest and principal on
// the current balance. The last scheduled payment settles whatever principal
// is left.
func (s *simulator) regularSplit(rate decimal.Decimal) mortgage.Payment {
	st := &s.st
	pay := mortgage.Split(st.principal, rate, st.installment)
	if st.term == 1 {
		pay.Principal = st.principal
	}
	return pay
}

// payRegular applies a split from regularSplit. The principal part is capped
// at what is still owed, since a prepayment may have retired the loan in
// between. The term runs down by one either way.
func (s *simulator) payRegular(m int, pay mortgage.Payment, snap *MortgageSnapshot) {
	st := &s.st
	principal := money.Min(pay.Principal, st.principal)

	st.principal = st.principal.Sub(principal)
	st.term--
	snap.InterestPaid = pay.Interest
	snap.PrincipalPaid = principal

	s.settle(m)
}

// settle clamps a retired loan to exactly zero and records the first payoff
// month. Later months never overwrite it.
func (s *simulator) settle(m int) {
	st := &s.st
	if st.principal.IsPositive() {
		return
	}
	st.principal = decimal.Zero
	if st.payoffMonth == nil {
		month := m
		st.payoffMonth = &month
	}
}

// =============================================================================
// ACCELERATION - Yearly prepayment from the bucket
// =============================================================================

// accelerate runs the yearly prepayment check and, when it passes, pays
// from the bucket into principal.
//
// Trigger: bucket > 0 and (bucket >= 6 installments, or principal itself is
// below 6 installments).
//
// The gross payment is capped so that the amount left after the penalty
// never exceeds outstanding principal. The installment is recalculated for
// the same remaining term at the same rate, and the interest saved is the
// difference of two forward projections taken before and after the
// reduction from the same starting month.
func (s *simulator) accelerate(p period, rate decimal.Decimal) (AccelerationEvent, bool) {
	st := &s.st
	if !st.bucket.IsPositive() || !st.principal.IsPositive() {
		return AccelerationEvent{}, false
	}

	threshold := st.installment.Mul(decimal.NewFromInt(AccelerationMultiple))
	if st.bucket.LessThan(threshold) && !st.principal.LessThan(threshold) {
		return AccelerationEvent{}, false
	}

	penaltyRate := s.in.Mortgage.PenaltyRate
	gross := st.bucket
	if keep := money.One.Sub(penaltyRate); keep.IsPositive() {
		// Rounded up with the penalty rounded down, so a full payoff nets
		// at least the outstanding principal and leaves no residue.
		gross = money.Min(st.bucket, st.principal.Div(keep).RoundCeil(money.Scale))
	}
	penalty := gross.Mul(penaltyRate).RoundFloor(money.Scale)
	net := money.Min(gross.Sub(penalty), st.principal)
	if !net.IsPositive() {
		return AccelerationEvent{}, false
	}

	before := st.installment
	interestBefore := s.schedule.ProjectFutureInterest(st.principal, st.term, p.loanYear, p.loanMonth)

	st.principal = st.principal.Sub(net)
	st.bucket = st.bucket.Sub(gross)
	st.installment = mortgage.Installment(st.principal, rate, st.term)

	interestAfter := s.schedule.ProjectFutureInterest(st.principal, st.term, p.loanYear, p.loanMonth)
	saved := interestBefore.Sub(interestAfter)
	st.interestSaved = st.interestSaved.Add(saved)

	year, _ := s.in.StartDate.At(p.month)
	ev := AccelerationEvent{
		Month:             p.month,
		Year:              year,
		Label:             s.in.StartDate.Label(p.month),
		AmountPaid:        gross,
		Penalty:           penalty,
		PrincipalReduced:  net,
		InstallmentBefore: before,
		InstallmentAfter:  st.installment,
		TermReduction:     0,
		InterestSaved:     saved,
	}
	s.events = append(s.events, ev)
	return ev, true
}

// =============================================================================
// PER-MONTH FLAGS
// =============================================================================

func flagsFor(e *LedgerEntry) []RiskFlag {
	flags := []RiskFlag{}

	if e.Waterfall.Shortfall.IsPositive() {
		flags = append(flags, FlagDeficit)
	}

	if e.Expenses.Installment.IsPositive() {
		switch {
		case !e.Income.Total.IsPositive(), e.Metrics.DebtService.GreaterThan(DTICriticalThreshold):
			flags = append(flags, FlagDTICritical)
		case e.Metrics.DebtService.GreaterThan(DTIHighThreshold):
			flags = append(flags, FlagDTIHigh)
		}
	}

	if !e.IsEmployed {
		cover := money.Sum(e.Funds.Buffer, e.Funds.Emergency, e.Funds.Benefit)
		need := e.Expenses.Total.Mul(decimal.NewFromInt(RunwayLowMonths))
		if cover.LessThan(need) {
			flags = append(flags, FlagRunwayLow)
		}
	}

	if !e.Mortgage.RemainingPrincipal.IsPositive() {
		flags = append(flags, FlagPaidOff)
	}

	return flags
}
