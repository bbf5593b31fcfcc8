// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatMoney rounds to whole units and adds separators.
// e.g., 2166712.49 -> "2,166,712"
func FormatMoney(d decimal.Decimal) string {
	return FormatNumber(d.Round(0).IntPart())
}

// FormatCompact abbreviates large amounts.
// e.g., 1234 -> "1.2K", 25000000 -> "25.0M", 850000000 -> "850.0M"
func FormatCompact(d decimal.Decimal) string {
	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(billion):
		return d.Div(billion).StringFixed(1) + "B"
	case abs.GreaterThanOrEqual(million):
		return d.Div(million).StringFixed(1) + "M"
	case abs.GreaterThanOrEqual(thousand):
		return d.Div(thousand).StringFixed(1) + "K"
	default:
		return d.StringFixed(0)
	}
}

// FormatPercent formats a value already expressed in percent.
// e.g., 32.14159 -> "32.1%"
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}

// FormatRate formats a fraction as a percentage with two decimals.
// e.g., 0.0365 -> "3.65%"
func FormatRate(r decimal.Decimal) string {
	return r.Shift(2).StringFixed(2) + "%"
}

// FormatMonths formats a month count as years and months.
// e.g., 27 -> "2y 3m", 6 -> "6m", 0 -> "0m"
func FormatMonths(n int) string {
	if n <= 0 {
		return "0m"
	}
	years, months := n/12, n%12
	switch {
	case years == 0:
		return fmt.Sprintf("%dm", months)
	case months == 0:
		return fmt.Sprintf("%dy", years)
	default:
		return fmt.Sprintf("%dy %dm", years, months)
	}
}
