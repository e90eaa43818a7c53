package cli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
)

// MarkdownReport renders a forecast result as a Markdown document: summary,
// per-period table, breakdown of the latest reported period, and warnings.
func MarkdownReport(res *forecast.Result) string {
	var b strings.Builder
	s := res.Summary

	name := res.Assumptions.Metadata.Name
	if name == "" {
		name = "Forecast"
	}
	fmt.Fprintf(&b, "# %s\n\n", escapeMD(name))
	fmt.Fprintf(&b, "%d %ss, %d with actuals", s.PeriodCount, res.Assumptions.Metadata.PeriodUnit, s.PeriodsWithActuals)
	if s.LatestPeriodWithActuals > 0 {
		fmt.Fprintf(&b, " (latest: %s)", res.Assumptions.Metadata.PeriodUnit.Label(s.LatestPeriodWithActuals))
	}
	b.WriteString(".\n\n")

	b.WriteString("## Outlook\n\n")
	mdTable(&b, []string{"", "Forecast", "Revised", "Change"}, [][]string{
		{"Revenue", FormatMoney(s.TotalRevenueForecast), FormatMoney(s.RevisedTotalRevenue), FormatSignedMoney(s.RevenueOutlookVariance)},
		{"Cost", FormatMoney(s.TotalCostForecast), FormatMoney(s.RevisedTotalCost), FormatSignedMoney(s.CostOutlookVariance)},
		{"Profit", FormatMoney(s.TotalProfitForecast), FormatMoney(s.RevisedTotalProfit), FormatSignedMoney(s.ProfitOutlookVariance)},
		{"Margin", FormatPercent(s.ForecastMargin), FormatPercent(s.RevisedMargin), ""},
	})

	if s.PeriodsWithActuals > 0 {
		b.WriteString("## To date\n\n")
		mdTable(&b, []string{"", "Forecast", "Actual"}, [][]string{
			{"Revenue", FormatMoney(s.ForecastRevenueToDate), FormatMoney(s.ActualRevenueToDate)},
			{"Cost", FormatMoney(s.ForecastCostToDate), FormatMoney(s.ActualCostToDate)},
			{"Profit", FormatMoney(s.ForecastProfitToDate), FormatMoney(s.ActualProfitToDate)},
			{"Margin", "", FormatPercent(s.ActualMargin)},
		})
	}

	if s.TotalAttendanceForecast != nil {
		b.WriteString("## Attendance\n\n")
		mdTable(&b, []string{"Forecast", "Actual to date", "Revised", "Variance", "Revenue / attendee"}, [][]string{{
			FormatOptionalAttendance(s.TotalAttendanceForecast),
			FormatOptionalAttendance(s.ActualAttendanceToDate),
			FormatOptionalAttendance(s.RevisedTotalAttendance),
			FormatOptionalPercent(s.AttendanceVariancePercent),
			FormatOptionalMoney(s.RevenuePerAttendee),
		}})
	}

	b.WriteString("## Periods\n\n")
	rows := make([][]string, 0, len(res.Periods))
	for _, p := range res.Periods {
		rows = append(rows, []string{
			p.Label,
			FormatMoney(p.RevenueForecast),
			FormatOptionalMoney(p.RevenueActual),
			FormatOptionalPercent(p.RevenueVariancePercent),
			FormatMoney(p.CostForecast),
			FormatOptionalMoney(p.CostActual),
			FormatMoney(p.ProfitForecast),
			FormatOptionalMoney(p.ProfitActual),
		})
	}
	mdTable(&b, []string{"Period", "Revenue", "Actual", "Var %", "Cost", "Actual", "Profit", "Actual"}, rows)

	focus := s.LatestPeriodWithActuals
	if focus == 0 {
		focus = 1
	}
	if p, ok := res.Period(focus); ok {
		fmt.Fprintf(&b, "## Breakdown: %s\n\n", p.Label)
		for _, src := range []forecast.CategorySource{forecast.SourceRevenue, forecast.SourceCost} {
			shares := forecast.Breakdown(p, src)
			if len(shares) == 0 {
				continue
			}
			rows := make([][]string, 0, len(shares))
			for _, sh := range shares {
				rows = append(rows, []string{sh.Name, FormatMoney(sh.Value), fmt.Sprintf("%d%%", sh.Percent)})
			}
			mdTable(&b, []string{titleCase(string(src)), "Amount", "Share"}, rows)
		}
	}

	if len(res.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "- `%s` %s\n", w.Code, escapeMD(w.Message))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderHTML converts Markdown to a standalone HTML page.
func RenderHTML(markdown, title string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", htmlEscaper.Replace(title))
	b.WriteString(reportCSS)
	b.WriteString("</head><body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body></html>\n")
	return b.String(), nil
}

const reportCSS = `<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; max-width: 60rem; margin: 2rem auto; color: #1c1b1a; }
table { border-collapse: collapse; margin-bottom: 1.5rem; }
th, td { border: 1px solid #ccc; padding: .3rem .6rem; }
td:not(:first-child) { text-align: right; font-variant-numeric: tabular-nums; }
code { color: #da702c; }
</style>
`

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

var mdEscaper = strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`)

func escapeMD(s string) string {
	return mdEscaper.Replace(s)
}

func mdTable(b *strings.Builder, headers []string, rows [][]string) {
	b.WriteString("|")
	for _, h := range headers {
		b.WriteString(" " + escapeMD(h) + " |")
	}
	b.WriteString("\n|")
	for i := range headers {
		if i == 0 {
			b.WriteString(" --- |")
		} else {
			b.WriteString(" ---: |")
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString("|")
		for _, cell := range row {
			b.WriteString(" " + escapeMD(cell) + " |")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// WarningLines formats warnings for stderr.
func WarningLines(ws []model.Warning) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, RenderWarning(string(w.Code), w.Message))
	}
	return out
}
