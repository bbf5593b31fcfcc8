package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	goodStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	warnStyle = lipgloss.NewStyle().Foreground(ColorOrange)
	badStyle  = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
)

// separatorRow in Table.Rows draws a horizontal rule.
const separatorRow = "---"

// Table represents a bordered text table for CLI output. The first column
// is left-aligned, the rest right-aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	widths := t.columnWidths()
	if len(widths) == 0 {
		return ""
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	b.WriteString(rule(widths, "╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(row(widths, t.Headers, headerStyle, false))
		b.WriteString(rule(widths, "├", "┼", "┤"))
	}
	for _, r := range t.Rows {
		if len(r) == 1 && r[0] == separatorRow {
			b.WriteString(rule(widths, "├", "┼", "┤"))
			continue
		}
		b.WriteString(row(widths, r, valueStyle, true))
	}
	b.WriteString(rule(widths, "╰", "┴", "╯"))

	return b.String()
}

func (t Table) columnWidths() []int {
	n := len(t.Headers)
	if n == 0 && len(t.Rows) > 0 {
		n = len(t.Rows[0])
	}
	widths := make([]int, n)
	if t.Widths != nil {
		copy(widths, t.Widths)
		return widths
	}

	grow := func(cells []string) {
		for i, c := range cells {
			if i < n && lipgloss.Width(c) > widths[i] {
				widths[i] = lipgloss.Width(c)
			}
		}
	}
	grow(t.Headers)
	for _, r := range t.Rows {
		if len(r) == 1 && r[0] == separatorRow {
			continue
		}
		grow(r)
	}
	return widths
}

func rule(widths []int, left, mid, right string) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	return dimStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
}

func row(widths []int, cells []string, style lipgloss.Style, alignRight bool) string {
	bar := dimStyle.Render("│")

	var b strings.Builder
	b.WriteString(bar)
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", max(w-lipgloss.Width(cell), 0))
		if alignRight && i > 0 {
			cell = pad + cell
		} else {
			cell += pad
		}
		b.WriteString(style.Render(" " + cell + " "))
		b.WriteString(bar)
	}
	b.WriteString("\n")
	return b.String()
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	top := values[0]
	for _, v := range values[1:] {
		top = max(top, v)
	}
	if top <= 0 {
		top = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / top * float64(len(blocks)-1))
		b.WriteRune(blocks[min(max(idx, 0), len(blocks)-1)])
	}
	return b.String()
}

// RenderKeyValues renders label/value pairs with aligned labels.
func RenderKeyValues(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}

	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "  %s  %s\n",
			mutedStyle.Render(fmt.Sprintf("%-*s", width, p[0])),
			valueStyle.Render(p[1]))
	}
	return b.String()
}
