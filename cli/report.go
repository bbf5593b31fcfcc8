package cli

import (
	"fmt"
	"strings"

	"github.com/warp/cashflow-engine/cashflow"
)

// sparkWidth is how many points the principal sparkline samples.
const sparkWidth = 40

// RenderRiskLevel colors a risk level.
func RenderRiskLevel(level cashflow.RiskLevel) string {
	switch level {
	case cashflow.RiskHigh:
		return badStyle.Render(string(level))
	case cashflow.RiskMedium:
		return warnStyle.Render(string(level))
	default:
		return goodStyle.Render(string(level))
	}
}

// RenderSummary renders the headline figures of a run.
func RenderSummary(name string, res *cashflow.Result) string {
	payoff := "not within horizon"
	if p := res.PayoffMonth; p != nil && *p < len(res.Ledger) {
		payoff = fmt.Sprintf("%s (month %d)", res.Ledger[*p].Label, *p)
	}

	stress := "none"
	if m := res.Risk.MortgageStressMonth; m != nil && *m < len(res.Ledger) {
		stress = fmt.Sprintf("%s (month %d)", res.Ledger[*m].Label, *m)
	}

	pairs := [][2]string{
		{"Risk level", RenderRiskLevel(res.Risk.Level)},
		{"Mortgage paid off", payoff},
		{"Accelerations", fmt.Sprintf("%d", len(res.Accelerations))},
		{"Interest saved", FormatMoney(res.TotalInterestSaved)},
		{"Liquidity runway", FormatMonths(res.Risk.LiquidityRunwayMonths)},
		{"Mortgage stress", stress},
	}

	if n := len(res.Ledger); n > 0 {
		last := res.Ledger[n-1]
		pairs = append(pairs,
			[2]string{"Final buffer", FormatMoney(last.Funds.Buffer)},
			[2]string{"Final emergency", FormatMoney(last.Funds.Emergency)},
			[2]string{"Final bucket", FormatMoney(last.Funds.Bucket)},
			[2]string{"Principal", RenderSparkline(principalSeries(res.Ledger, sparkWidth))},
		)
	}

	var b strings.Builder
	b.WriteString(RenderTitle(name))
	b.WriteString("\n\n")
	b.WriteString(RenderKeyValues(pairs))
	return b.String()
}

// principalSeries samples remaining principal at most width times.
func principalSeries(ledger []cashflow.LedgerEntry, width int) []float64 {
	step := max((len(ledger)+width-1)/width, 1)
	var out []float64
	for i := 0; i < len(ledger); i += step {
		out = append(out, ledger[i].Mortgage.RemainingPrincipal.InexactFloat64())
	}
	return out
}

// RenderLedger renders the first limit months of the ledger. A limit of
// zero or less renders all of it.
func RenderLedger(ledger []cashflow.LedgerEntry, limit int) string {
	if limit <= 0 || limit > len(ledger) {
		limit = len(ledger)
	}

	t := Table{
		Title: "Monthly ledger",
		Headers: []string{"Month", "Income", "Expenses", "Installment", "Surplus",
			"Buffer", "Emergency", "Bucket", "Principal", "Flags"},
	}
	for _, e := range ledger[:limit] {
		if e.Month > 0 && e.Month%12 == 0 {
			t.Rows = append(t.Rows, []string{separatorRow})
		}
		t.Rows = append(t.Rows, []string{
			e.Label,
			FormatCompact(e.Income.Total),
			FormatCompact(e.Expenses.Total),
			FormatCompact(e.Expenses.Installment),
			FormatCompact(e.Surplus),
			FormatCompact(e.Funds.Buffer),
			FormatCompact(e.Funds.Emergency),
			FormatCompact(e.Funds.Bucket),
			FormatCompact(e.Mortgage.RemainingPrincipal),
			formatFlags(e.Flags),
		})
	}
	return RenderTable(t)
}

func formatFlags(flags []cashflow.RiskFlag) string {
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = string(f)
	}
	return strings.Join(names, " ")
}

// RenderAccelerations renders the prepayment event log.
func RenderAccelerations(events []cashflow.AccelerationEvent) string {
	if len(events) == 0 {
		return "  " + mutedStyle.Render("No accelerated payments.") + "\n"
	}

	t := Table{
		Title: "Accelerated payments",
		Headers: []string{"Date", "Paid", "Penalty", "Principal", "Installment",
			"Term saved", "Interest saved"},
	}
	for _, ev := range events {
		t.Rows = append(t.Rows, []string{
			ev.Label,
			FormatMoney(ev.AmountPaid),
			FormatMoney(ev.Penalty),
			FormatMoney(ev.PrincipalReduced),
			FormatCompact(ev.InstallmentBefore) + " → " + FormatCompact(ev.InstallmentAfter),
			FormatMonths(ev.TermReduction),
			FormatMoney(ev.InterestSaved),
		})
	}
	return RenderTable(t)
}

// RenderRisk renders the risk explanation and the depletion timeline.
func RenderRisk(risk cashflow.RiskAnalysis, ledger []cashflow.LedgerEntry) string {
	var b strings.Builder
	b.WriteString("  " + headerStyle.Render("Risk") + "  " + RenderRiskLevel(risk.Level) + "\n")
	for _, why := range risk.Explanation {
		b.WriteString("    - " + why + "\n")
	}

	if len(risk.DepletionTimeline) == 0 {
		return b.String()
	}
	b.WriteString("\n")

	t := Table{Title: "Depletion timeline", Headers: []string{"Fund", "Month", "Date"}}
	for _, d := range risk.DepletionTimeline {
		label := ""
		if d.Month < len(ledger) {
			label = ledger[d.Month].Label
		}
		t.Rows = append(t.Rows, []string{d.Fund, fmt.Sprintf("%d", d.Month), label})
	}
	b.WriteString(RenderTable(t))
	return b.String()
}
