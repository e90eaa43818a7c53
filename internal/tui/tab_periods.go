package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/tui/components"
	"github.com/theirongolddev/fcast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// periodsChrome is the rows a periods card spends on border, title, header,
// rule and key hint.
const periodsChrome = 6

func periodsVisibleRows(contentH int) int {
	n := contentH - periodsChrome
	if n < 1 {
		n = 1
	}
	return n
}

// ensurePeriodVisible scrolls the periods table so the selected period is on screen.
func (a *App) ensurePeriodVisible() {
	rows := periodsVisibleRows(a.contentHeight())
	idx := a.period - 1
	if idx < a.periodsOffset {
		a.periodsOffset = idx
	}
	if idx >= a.periodsOffset+rows {
		a.periodsOffset = idx - rows + 1
	}
	if a.periodsOffset < 0 {
		a.periodsOffset = 0
	}
}

func (a App) renderPeriodsTab(cw, contentH int) string {
	t := theme.Active
	periods := a.result.Periods
	innerW := components.CardInnerWidth(cw)
	compact := a.isCompactLayout()

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	const labelW = 10
	const moneyW = 11

	cols := []string{"Rev Fcst", "Rev Act", "Cost Fcst", "Cost Act", "Profit Fcst", "Profit Act", "Var %"}
	if compact {
		cols = []string{"Rev Fcst", "Rev Act", "Profit Fcst", "Profit Act", "Var %"}
	}

	var b strings.Builder
	header := fmt.Sprintf("  %-*s", labelW, "Period")
	for _, c := range cols {
		header += fmt.Sprintf(" %*s", moneyW, c)
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	b.WriteString("\n")

	rows := periodsVisibleRows(contentH)
	start := a.periodsOffset
	if start > len(periods)-rows {
		start = len(periods) - rows
	}
	if start < 0 {
		start = 0
	}
	end := start + rows
	if end > len(periods) {
		end = len(periods)
	}

	for _, p := range periods[start:end] {
		m := p.Metrics
		if a.cumulative {
			m = p.Cumulative
		}
		cells := periodCells(m, compact)

		line := fmt.Sprintf("%-*s", labelW, p.Label)
		for _, c := range cells {
			line += fmt.Sprintf(" %*s", moneyW, c)
		}
		line = truncStr(line, innerW-2)

		if p.Period == a.period {
			b.WriteString(markerStyle.Render("▸ "))
			b.WriteString(selStyle.Render(line))
			if pad := innerW - 2 - lipgloss.Width(line); pad > 0 {
				b.WriteString(selStyle.Render(strings.Repeat(" ", pad)))
			}
		} else {
			style := rowStyle
			if !m.HasActual() {
				style = mutedStyle
			}
			b.WriteString(dimStyle.Render("  "))
			b.WriteString(style.Render(line))
		}
		b.WriteString("\n")
	}

	mode := "per period"
	if a.cumulative {
		mode = "cumulative"
	}
	hint := fmt.Sprintf("[←→/jk] period  [c] %s  %d-%d of %d", mode, start+1, end, len(periods))
	b.WriteString(dimStyle.Render(hint))

	title := "Periods"
	if p, ok := a.selectedPeriod(); ok {
		title = fmt.Sprintf("Periods · %s selected", p.Label)
	}
	return components.ContentCard(title, b.String(), cw)
}

func periodCells(m model.Metrics, compact bool) []string {
	varPct := cli.FormatOptionalPercent(m.ProfitVariancePercent)
	if compact {
		return []string{
			cli.FormatMoney(m.RevenueForecast),
			cli.FormatOptionalMoney(m.RevenueActual),
			cli.FormatMoney(m.ProfitForecast),
			cli.FormatOptionalMoney(m.ProfitActual),
			varPct,
		}
	}
	return []string{
		cli.FormatMoney(m.RevenueForecast),
		cli.FormatOptionalMoney(m.RevenueActual),
		cli.FormatMoney(m.CostForecast),
		cli.FormatOptionalMoney(m.CostActual),
		cli.FormatMoney(m.ProfitForecast),
		cli.FormatOptionalMoney(m.ProfitActual),
		varPct,
	}
}
