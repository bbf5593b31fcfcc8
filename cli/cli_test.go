package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/factory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{
		0:          "0",
		999:        "999",
		1000:       "1,000",
		1234567:    "1,234,567",
		-850000000: "-850,000,000",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatNumber(in), in)
	}
}

func TestFormatMoney_RoundsToUnits(t *testing.T) {
	assert.Equal(t, "2,166,712", FormatMoney(dec("2166712.49")))
	assert.Equal(t, "2,166,713", FormatMoney(dec("2166712.5")))
	assert.Equal(t, "0", FormatMoney(decimal.Zero))
}

func TestFormatCompact(t *testing.T) {
	assert.Equal(t, "850", FormatCompact(dec("850")))
	assert.Equal(t, "1.2K", FormatCompact(dec("1234")))
	assert.Equal(t, "25.0M", FormatCompact(dec("25000000")))
	assert.Equal(t, "-2.2M", FormatCompact(dec("-2166712")))
	assert.Equal(t, "1.5B", FormatCompact(dec("1500000000")))
}

func TestFormatPercentAndRate(t *testing.T) {
	assert.Equal(t, "32.1%", FormatPercent(dec("32.14159")))
	assert.Equal(t, "3.65%", FormatRate(dec("0.0365")))
	assert.Equal(t, "10.65%", FormatRate(dec("0.1065")))
}

func TestFormatMonths(t *testing.T) {
	assert.Equal(t, "0m", FormatMonths(0))
	assert.Equal(t, "6m", FormatMonths(6))
	assert.Equal(t, "2y", FormatMonths(24))
	assert.Equal(t, "2y 3m", FormatMonths(27))
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Funds",
		Headers: []string{"Fund", "Balance"},
		Rows: [][]string{
			{"buffer", "1,000"},
			{separatorRow},
			{"emergency", "25"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 8) // title, top, header, rule, row, rule, row, bottom
	assert.Contains(t, lines[0], "Funds")
	assert.Contains(t, out, "│ emergency │      25 │")
	assert.Contains(t, out, "│ buffer    │   1,000 │")

	width := len([]rune(lines[1]))
	for _, l := range lines[1:] {
		assert.Equal(t, width, len([]rune(l)), l)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(Table{}))
}

func TestRenderSparkline(t *testing.T) {
	assert.Equal(t, "", RenderSparkline(nil))
	assert.Equal(t, "█▄▁", RenderSparkline([]float64{8, 4, 0}))
	assert.Equal(t, "▁▁", RenderSparkline([]float64{0, 0}))
}

func runPreset(t *testing.T, id string) *cashflow.Result {
	t.Helper()
	p, ok := factory.LookupPreset(id)
	require.True(t, ok)
	in, err := factory.NewScenarioFactory().FromJSON(p.Scenario)
	require.NoError(t, err)
	return cashflow.Run(in)
}

func TestRenderLedger_Limit(t *testing.T) {
	res := runPreset(t, "baseline")

	out := RenderLedger(res.Ledger, 13)

	assert.Contains(t, out, "January 2026")
	assert.Contains(t, out, "January 2027")
	assert.NotContains(t, out, "February 2027")
}

func TestRenderAccelerations(t *testing.T) {
	assert.Contains(t, RenderAccelerations(nil), "No accelerated payments")

	res := runPreset(t, "aggressive-prepayment")
	require.NotEmpty(t, res.Accelerations)

	out := RenderAccelerations(res.Accelerations)
	assert.Contains(t, out, res.Accelerations[0].Label)
	assert.Contains(t, out, FormatMoney(res.Accelerations[0].AmountPaid))
}

func TestRenderSummaryAndRisk(t *testing.T) {
	res := runPreset(t, "immediate-unemployment")

	summary := RenderSummary("Immediate unemployment", res)
	assert.Contains(t, summary, "Immediate unemployment")
	assert.Contains(t, summary, string(res.Risk.Level))
	assert.Contains(t, summary, "Liquidity runway")

	risk := RenderRisk(res.Risk, res.Ledger)
	for _, why := range res.Risk.Explanation {
		assert.Contains(t, risk, why)
	}
	if len(res.Risk.DepletionTimeline) > 0 {
		assert.Contains(t, risk, "Depletion timeline")
	}
}
