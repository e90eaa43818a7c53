package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fcast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// styles are derived from the active theme on each render so the CLI follows
// the configured appearance.
type styles struct {
	title, header, value, muted, dim lipgloss.Style
	favorable, unfavorable, warn     lipgloss.Style
	border                           lipgloss.Color
}

func currentStyles() styles {
	t := theme.Active
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return styles{
		title:       fg(t.TextPrimary).Bold(true).Align(lipgloss.Center),
		header:      fg(t.Accent).Bold(true),
		value:       fg(t.TextPrimary),
		muted:       fg(t.TextMuted),
		dim:         fg(t.TextDim),
		favorable:   fg(t.Favorable),
		unfavorable: fg(t.Unfavorable),
		warn:        fg(t.Caution),
		border:      t.Border,
	}
}

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  []string // optional totals row, drawn below a separator
	Widths  []int    // optional column widths, auto-calculated if nil

	// Signed marks columns whose values are variances. A leading "+" or "-"
	// is colored; InvertSign flips which one is favorable (cost columns).
	Signed     map[int]bool
	InvertSign map[int]bool
}

// SeparatorRow is a one-cell row RenderTable draws as a horizontal rule.
const SeparatorRow = "---"

// RenderTitle renders a centered title in a rounded box at least 55 columns wide.
func RenderTitle(title string) string {
	st := currentStyles()
	width := lipgloss.Width(title) + 4
	if width < 55 {
		width = 55
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(st.border).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)
	return box.Render(st.title.Render(title))
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
	grow := func(row []string) {
		for i, cell := range row {
			if i < n && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}
	grow(t.Headers)
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == SeparatorRow {
			continue
		}
		grow(row)
	}
	grow(t.Footer)
	return widths
}

// RenderTable renders a bordered table with headers, rows and an optional footer.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}
	st := currentStyles()
	widths := t.columnWidths()

	var b strings.Builder
	rule := func(left, mid, right string) {
		b.WriteString(st.dim.Render(left))
		for i, w := range widths {
			b.WriteString(st.dim.Render(strings.Repeat("─", w+2)))
			if i < len(widths)-1 {
				b.WriteString(st.dim.Render(mid))
			}
		}
		b.WriteString(st.dim.Render(right))
		b.WriteString("\n")
	}
	line := func(cells []string, style func(col int, cell string) lipgloss.Style) {
		b.WriteString(st.dim.Render("│"))
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style(i, cell).Render(pad(cell, w, i > 0)))
			if i < len(widths)-1 {
				b.WriteString(st.dim.Render("│"))
			}
		}
		b.WriteString(st.dim.Render("│"))
		b.WriteString("\n")
	}

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(st.header.Render(t.Title))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")
	if len(t.Headers) > 0 {
		line(t.Headers, func(int, string) lipgloss.Style { return st.header })
		rule("├", "┼", "┤")
	}
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == SeparatorRow {
			rule("├", "┼", "┤")
			continue
		}
		line(row, func(col int, cell string) lipgloss.Style { return t.cellStyle(st, col, cell) })
	}
	if len(t.Footer) > 0 {
		rule("├", "┼", "┤")
		line(t.Footer, func(col int, cell string) lipgloss.Style {
			return t.cellStyle(st, col, cell).Bold(true)
		})
	}
	rule("╰", "┴", "╯")

	return b.String()
}

func (t Table) cellStyle(st styles, col int, cell string) lipgloss.Style {
	if !t.Signed[col] || cell == "" {
		return st.value
	}
	up, down := st.favorable, st.unfavorable
	if t.InvertSign[col] {
		up, down = down, up
	}
	switch cell[0] {
	case '+':
		return up
	case '-':
		if cell == Missing {
			return st.muted
		}
		return down
	}
	return st.value
}

// pad pads a cell to width display columns. Numeric columns right-align.
func pad(cell string, width int, right bool) string {
	gap := width - lipgloss.Width(cell)
	if gap < 0 {
		gap = 0
	}
	if right {
		return " " + strings.Repeat(" ", gap) + cell + " "
	}
	return " " + cell + strings.Repeat(" ", gap) + " "
}

// RenderProgressBar renders how many of total periods are covered, e.g.
// periods with actuals.
func RenderProgressBar(current, total int, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	if current > total {
		current = total
	}
	filled := current * width / total
	st := currentStyles()
	return fmt.Sprintf("%s%s %d/%d (%d%%)",
		st.header.Render(strings.Repeat("█", filled)),
		st.dim.Render(strings.Repeat("░", width-filled)),
		current, total, current*100/total,
	)
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// RenderSparkline draws values as block characters scaled between the series
// minimum and maximum, so losses and profits share one line.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo

	var b strings.Builder
	for _, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkBlocks)-1))
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

// RenderHorizontalBar renders one labelled bar of a breakdown chart with its
// share of the total.
func RenderHorizontalBar(label string, value, maxValue float64, maxWidth int, percent int) string {
	barLen := 0
	if maxValue > 0 && value > 0 {
		barLen = int(value / maxValue * float64(maxWidth))
	}
	if barLen > maxWidth {
		barLen = maxWidth
	}
	st := currentStyles()
	bar := strings.Repeat("█", barLen) + strings.Repeat(" ", maxWidth-barLen)
	return fmt.Sprintf("  %s %s %s",
		st.value.Render(label),
		st.header.Render(bar),
		st.muted.Render(fmt.Sprintf("%3d%%", percent)),
	)
}

// RenderWarning renders a single warning line.
func RenderWarning(code, msg string) string {
	st := currentStyles()
	return st.warn.Render("  ! ") + st.dim.Render(code+": ") + msg
}
