package cmd

import (
	"fmt"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/model"

	"github.com/spf13/cobra"
)

var flagCumulative bool

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "Per-period forecast, actuals and variance",
	RunE:  runPeriods,
}

func init() {
	periodsCmd.Flags().BoolVarP(&flagCumulative, "cumulative", "c", false, "Show running totals instead of per-period values")
	rootCmd.AddCommand(periodsCmd)
}

func runPeriods(cmd *cobra.Command, _ []string) error {
	res, err := runForecast(cmd.Context())
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(res.Periods)
	}

	rows := make([][]string, 0, len(res.Periods))
	for _, p := range res.Periods {
		m := p.Metrics
		if flagCumulative {
			m = p.Cumulative
		}
		rows = append(rows, append([]string{p.Label}, metricCells(m)...))
	}

	title := "Per period"
	if flagCumulative {
		title = "Cumulative"
	}

	var footer []string
	if n := len(res.Periods); n > 0 && !flagCumulative {
		footer = append([]string{"Total"}, metricCells(res.Periods[n-1].Cumulative)...)
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:      title,
		Headers:    []string{"Period", "Revenue", "Actual", "Var", "Cost", "Actual", "Var", "Profit", "Actual", "Var", "Var %"},
		Rows:       rows,
		Footer:     footer,
		Signed:     map[int]bool{3: true, 6: true, 9: true, 10: true},
		InvertSign: map[int]bool{6: true},
	}))
	return nil
}

func metricCells(m model.Metrics) []string {
	return []string{
		cli.FormatMoney(m.RevenueForecast),
		cli.FormatOptionalMoney(m.RevenueActual),
		cli.FormatOptionalSignedMoney(m.RevenueVariance),
		cli.FormatMoney(m.CostForecast),
		cli.FormatOptionalMoney(m.CostActual),
		cli.FormatOptionalSignedMoney(m.CostVariance),
		cli.FormatMoney(m.ProfitForecast),
		cli.FormatOptionalMoney(m.ProfitActual),
		cli.FormatOptionalSignedMoney(m.ProfitVariance),
		cli.FormatOptionalPercent(m.ProfitVariancePercent),
	}
}
