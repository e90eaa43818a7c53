package cmd

import (
	"fmt"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Forecast totals, actuals to date and revised outlook",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	res, err := runForecast(cmd.Context())
	if err != nil {
		return err
	}
	s := res.Summary

	if flagJSON {
		return printJSON(s)
	}

	name := res.Assumptions.Metadata.Name
	if name == "" {
		name = "Forecast"
	}
	unit := res.Assumptions.Metadata.PeriodUnit

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  %d %ss", name, s.PeriodCount, unit)))
	fmt.Println()

	outlook := cli.Table{
		Title:   "Outlook",
		Headers: []string{"", "Forecast", "Revised", "Change"},
		Rows: [][]string{
			{"Revenue", cli.FormatMoney(s.TotalRevenueForecast), cli.FormatMoney(s.RevisedTotalRevenue), cli.FormatSignedMoney(s.RevenueOutlookVariance)},
			{"Cost", cli.FormatMoney(s.TotalCostForecast), cli.FormatMoney(s.RevisedTotalCost), cli.FormatSignedMoney(s.CostOutlookVariance)},
			{"Profit", cli.FormatMoney(s.TotalProfitForecast), cli.FormatMoney(s.RevisedTotalProfit), cli.FormatSignedMoney(s.ProfitOutlookVariance)},
			{cli.SeparatorRow},
			{"Margin", cli.FormatPercent(s.ForecastMargin), cli.FormatPercent(s.RevisedMargin), ""},
		},
	}
	fmt.Print(cli.RenderTable(outlook))

	if s.PeriodsWithActuals == 0 {
		fmt.Println()
		fmt.Println("  No actuals recorded yet. Add some with `fcast actuals add`.")
		return nil
	}

	fmt.Println()
	toDate := cli.Table{
		Title:   fmt.Sprintf("To date (%d of %d, latest %s)", s.PeriodsWithActuals, s.PeriodCount, unit.Label(s.LatestPeriodWithActuals)),
		Headers: []string{"", "Forecast", "Actual", "Variance"},
		Rows: [][]string{
			{"Revenue", cli.FormatMoney(s.ForecastRevenueToDate), cli.FormatMoney(s.ActualRevenueToDate), cli.FormatSignedMoney(s.ActualRevenueToDate - s.ForecastRevenueToDate)},
			{"Cost", cli.FormatMoney(s.ForecastCostToDate), cli.FormatMoney(s.ActualCostToDate), cli.FormatSignedMoney(s.ActualCostToDate - s.ForecastCostToDate)},
			{"Profit", cli.FormatMoney(s.ForecastProfitToDate), cli.FormatMoney(s.ActualProfitToDate), cli.FormatSignedMoney(s.ActualProfitToDate - s.ForecastProfitToDate)},
			{cli.SeparatorRow},
			{"Margin", "", cli.FormatPercent(s.ActualMargin), ""},
		},
	}
	fmt.Print(cli.RenderTable(toDate))
	fmt.Printf("  Coverage %s\n", cli.RenderProgressBar(s.PeriodsWithActuals, s.PeriodCount, 30))
	fmt.Printf("  Profit   %s\n", cli.RenderSparkline(profitTrend(res)))

	if s.TotalAttendanceForecast != nil {
		fmt.Println()
		fmt.Print(cli.RenderTable(attendanceTable(s)))
	}
	return nil
}

func attendanceTable(s model.ForecastSummary) cli.Table {
	return cli.Table{
		Title:   "Attendance",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Forecast", cli.FormatOptionalAttendance(s.TotalAttendanceForecast)},
			{"Actual to date", cli.FormatOptionalAttendance(s.ActualAttendanceToDate)},
			{"Revised", cli.FormatOptionalAttendance(s.RevisedTotalAttendance)},
			{"Variance", cli.FormatOptionalPercent(s.AttendanceVariancePercent)},
			{cli.SeparatorRow},
			{"Revenue / attendee", cli.FormatOptionalMoney(s.RevenuePerAttendee)},
			{"Profit / attendee", cli.FormatOptionalMoney(s.ProfitPerAttendee)},
			{"Revised rev / attendee", cli.FormatOptionalMoney(s.RevisedRevenuePerAttendee)},
		},
	}
}

// profitTrend is per-period profit, actual where recorded.
func profitTrend(res *forecast.Result) []float64 {
	out := make([]float64, len(res.Periods))
	for i, p := range res.Periods {
		out[i] = p.ProfitForecast
		if p.ProfitActual != nil {
			out[i] = *p.ProfitActual
		}
	}
	return out
}
