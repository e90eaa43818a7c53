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

func (a App) renderSummaryTab(cw int) string {
	t := theme.Active
	res := a.result
	s := res.Summary

	name := res.Assumptions.Metadata.Name
	if name == "" {
		name = "Forecast"
	}

	// Headline cards
	metrics := []components.Metric{
		{
			Label: "Forecast Profit",
			Value: cli.FormatMoney(s.TotalProfitForecast),
			Delta: "margin " + cli.FormatPercent(s.ForecastMargin),
		},
		{
			Label:      "Revised Profit",
			Value:      cli.FormatMoney(s.RevisedTotalProfit),
			Delta:      cli.FormatSignedMoney(s.ProfitOutlookVariance) + " vs plan",
			DeltaColor: t.VarianceColor(s.ProfitOutlookVariance, false),
		},
		{
			Label:      "Revised Revenue",
			Value:      cli.FormatMoney(s.RevisedTotalRevenue),
			Delta:      cli.FormatSignedMoney(s.RevenueOutlookVariance) + " vs plan",
			DeltaColor: t.VarianceColor(s.RevenueOutlookVariance, false),
		},
		{
			Label:      "Revised Cost",
			Value:      cli.FormatMoney(s.RevisedTotalCost),
			Delta:      cli.FormatSignedMoney(s.CostOutlookVariance) + " vs plan",
			DeltaColor: t.VarianceColor(s.CostOutlookVariance, true),
		},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	compact := a.isCompactLayout()
	outlook := components.ContentCard(name+" · Full-Horizon Outlook", a.outlookBody(), halfWidth(cw, compact, 0))
	toDate := components.ContentCard(a.toDateTitle(), a.toDateBody(), halfWidth(cw, compact, 1))
	if compact {
		b.WriteString(outlook)
		b.WriteString("\n")
		b.WriteString(toDate)
	} else {
		b.WriteString(components.CardRow([]string{outlook, toDate}))
	}
	b.WriteString("\n")

	// Coverage and trend
	innerW := components.CardInnerWidth(cw)
	barW := innerW - 30
	if barW > 50 {
		barW = 50
	}
	if barW < 10 {
		barW = 10
	}
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var trend strings.Builder
	trend.WriteString(components.CoverageBar("Actuals recorded", s.PeriodsWithActuals, s.PeriodCount, 18, barW))
	trend.WriteString("\n")
	trend.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", "Revised profit")))
	trend.WriteString(components.Sparkline(revisedProfitSeries(res.Periods, innerW-19), t.AccentBright))
	b.WriteString(components.ContentCard("Progress", trend.String(), cw))

	if s.TotalAttendanceForecast != nil {
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Attendance", a.attendanceBody(), cw))
	}

	return b.String()
}

func halfWidth(cw int, compact bool, idx int) int {
	if compact {
		return cw
	}
	return components.LayoutRow(cw, 2)[idx]
}

func (a App) outlookBody() string {
	t := theme.Active
	s := a.result.Summary

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	rows := []struct {
		label             string
		forecast, revised float64
		variance          float64
		invert            bool
	}{
		{"Revenue", s.TotalRevenueForecast, s.RevisedTotalRevenue, s.RevenueOutlookVariance, false},
		{"Cost", s.TotalCostForecast, s.RevisedTotalCost, s.CostOutlookVariance, true},
		{"Profit", s.TotalProfitForecast, s.RevisedTotalProfit, s.ProfitOutlookVariance, false},
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-9s %12s %12s %12s", "", "Forecast", "Revised", "Variance")))
	b.WriteString("\n")
	for _, r := range rows {
		varStyle := lipgloss.NewStyle().Foreground(t.VarianceColor(r.variance, r.invert)).Background(t.Surface)
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-9s ", r.label)))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%12s %12s ", cli.FormatMoney(r.forecast), cli.FormatMoney(r.revised))))
		b.WriteString(varStyle.Render(fmt.Sprintf("%12s", cli.FormatSignedMoney(r.variance))))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-9s ", "Margin")))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%12s %12s", cli.FormatPercent(s.ForecastMargin), cli.FormatPercent(s.RevisedMargin))))
	return b.String()
}

func (a App) toDateTitle() string {
	s := a.result.Summary
	if s.PeriodsWithActuals == 0 {
		return "To Date · no actuals yet"
	}
	label := a.result.Assumptions.Metadata.PeriodUnit.Label(s.LatestPeriodWithActuals)
	return fmt.Sprintf("To Date · through %s", label)
}

func (a App) toDateBody() string {
	t := theme.Active
	s := a.result.Summary

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	rows := []struct {
		label            string
		forecast, actual float64
		invert           bool
	}{
		{"Revenue", s.ForecastRevenueToDate, s.ActualRevenueToDate, false},
		{"Cost", s.ForecastCostToDate, s.ActualCostToDate, true},
		{"Profit", s.ForecastProfitToDate, s.ActualProfitToDate, false},
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-9s %12s %12s %12s", "", "Forecast", "Actual", "Variance")))
	b.WriteString("\n")
	for _, r := range rows {
		v := r.actual - r.forecast
		varStyle := lipgloss.NewStyle().Foreground(t.VarianceColor(v, r.invert)).Background(t.Surface)
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-9s ", r.label)))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%12s %12s ", cli.FormatMoney(r.forecast), cli.FormatMoney(r.actual))))
		b.WriteString(varStyle.Render(fmt.Sprintf("%12s", cli.FormatSignedMoney(v))))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-9s ", "Margin")))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%12s %12s", "", cli.FormatPercent(s.ActualMargin))))
	return b.String()
}

func (a App) attendanceBody() string {
	t := theme.Active
	s := a.result.Summary

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	fields := []struct{ label, value string }{
		{"Forecast attendance", cli.FormatOptionalAttendance(s.TotalAttendanceForecast)},
		{"Actual to date", cli.FormatOptionalAttendance(s.ActualAttendanceToDate)},
		{"Revised attendance", cli.FormatOptionalAttendance(s.RevisedTotalAttendance)},
		{"Variance", cli.FormatOptionalPercent(s.AttendanceVariancePercent)},
		{"Revenue / attendee", cli.FormatOptionalMoney(s.RevenuePerAttendee)},
		{"Profit / attendee", cli.FormatOptionalMoney(s.ProfitPerAttendee)},
	}

	var b strings.Builder
	for i, f := range fields {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-20s ", f.label)))
		b.WriteString(valueStyle.Render(f.value))
		if i < len(fields)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// revisedProfitSeries returns actual profit where recorded and forecast profit
// otherwise, sampled down to at most width points.
func revisedProfitSeries(periods []model.PeriodProjection, width int) []float64 {
	values := make([]float64, len(periods))
	for i, p := range periods {
		if p.ProfitActual != nil {
			values[i] = *p.ProfitActual
		} else {
			values[i] = p.ProfitForecast
		}
	}
	if width <= 0 || len(values) <= width {
		return values
	}
	if width == 1 {
		return values[len(values)-1:]
	}
	sampled := make([]float64, width)
	for i := range sampled {
		sampled[i] = values[i*(len(values)-1)/(width-1)]
	}
	return sampled
}
