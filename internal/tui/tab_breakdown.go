package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/tui/components"
	"github.com/theirongolddev/fcast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderBreakdownTab(cw int) string {
	t := theme.Active
	p, ok := a.selectedPeriod()
	if !ok {
		return components.ContentCard("Breakdown", "No periods to show.", cw)
	}

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	innerW := components.CardInnerWidth(cw)

	shares := forecast.Breakdown(p, a.breakdownSrc)

	var chart strings.Builder
	if len(shares) == 0 {
		chart.WriteString(dimStyle.Render("No " + string(a.breakdownSrc) + " lines in this period."))
	} else {
		bars := make([]components.Bar, len(shares))
		for i, s := range shares {
			bars[i] = components.Bar{
				Label: s.Name,
				Value: s.Value,
				Text:  fmt.Sprintf("%s %3d%%", cli.FormatMoney(s.Value), s.Percent),
				Color: t.SeriesColor(i),
			}
		}
		chart.WriteString(components.HBarChart(bars, innerW))
	}
	chart.WriteString("\n\n")
	chart.WriteString(dimStyle.Render("[t] toggle revenue/cost  [←→] period"))

	title := fmt.Sprintf("%s · %s by %s", p.Label, titleSource(a.breakdownSrc), groupingName(a.breakdownSrc))

	var b strings.Builder
	b.WriteString(components.ContentCard(title, chart.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Line Items", a.lineItemsBody(p, innerW), cw))
	return b.String()
}

func (a App) lineItemsBody(p model.PeriodProjection, innerW int) string {
	t := theme.Active

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	lines := p.RevenueLines
	actual := p.RevenueActual
	forecastTotal := p.RevenueForecast
	if a.breakdownSrc == forecast.SourceCost {
		lines = p.CostLines
		actual = p.CostActual
		forecastTotal = p.CostForecast
	}

	const valueW = 12
	const catW = 12
	nameW := innerW - valueW - catW - 2
	if nameW < 12 {
		nameW = 12
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %-*s %*s", nameW, "Line", catW, "Category", valueW, "Forecast")))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-*s ", nameW, truncStr(l.Name, nameW))))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-*s ", catW, truncStr(l.Category, catW))))
		b.WriteString(rowStyle.Render(fmt.Sprintf("%*s", valueW, cli.FormatMoney(l.Value))))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %-*s %*s", nameW, "Total", catW, "", valueW, cli.FormatMoney(forecastTotal))))
	if actual != nil {
		v := *actual - forecastTotal
		varStyle := lipgloss.NewStyle().
			Foreground(t.VarianceColor(v, a.breakdownSrc == forecast.SourceCost)).
			Background(t.Surface)
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-*s %-*s ", nameW, "Actual", catW, "")))
		b.WriteString(rowStyle.Render(fmt.Sprintf("%*s", valueW, cli.FormatMoney(*actual))))
		b.WriteString(varStyle.Render(fmt.Sprintf("  %s", cli.FormatSignedMoney(v))))
	}
	return b.String()
}

func titleSource(src forecast.CategorySource) string {
	if src == forecast.SourceCost {
		return "Cost"
	}
	return "Revenue"
}

func groupingName(src forecast.CategorySource) string {
	if src == forecast.SourceCost {
		return "category"
	}
	return "stream"
}
