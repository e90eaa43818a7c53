package cmd

import (
	"fmt"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/forecast"

	"github.com/spf13/cobra"
)

var (
	flagPeriod int
	flagSource string
)

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Revenue by stream or cost by category for one period",
	RunE:  runBreakdown,
}

func init() {
	breakdownCmd.Flags().IntVarP(&flagPeriod, "period", "p", 0, "Period number (default: latest with actuals, else 1)")
	breakdownCmd.Flags().StringVarP(&flagSource, "source", "s", "revenue", "What to break down: revenue or cost")
	rootCmd.AddCommand(breakdownCmd)
}

func runBreakdown(cmd *cobra.Command, _ []string) error {
	src := forecast.CategorySource(flagSource)
	if src != forecast.SourceRevenue && src != forecast.SourceCost {
		return fmt.Errorf("invalid --source %q (use revenue or cost)", flagSource)
	}

	res, err := runForecast(cmd.Context())
	if err != nil {
		return err
	}

	n := flagPeriod
	if n == 0 {
		n = res.Summary.LatestPeriodWithActuals
	}
	if n == 0 {
		n = 1
	}
	p, ok := res.Period(n)
	if !ok {
		return fmt.Errorf("period %d is outside the forecast (1-%d)", n, len(res.Periods))
	}

	shares := forecast.Breakdown(p, src)
	if flagJSON {
		return printJSON(shares)
	}

	fmt.Println()
	if len(shares) == 0 {
		fmt.Printf("  No %s in %s.\n", src, p.Label)
		return nil
	}

	var maxVal float64
	labelW := 0
	for _, s := range shares {
		if s.Value > maxVal {
			maxVal = s.Value
		}
		if len(s.Name) > labelW {
			labelW = len(s.Name)
		}
	}

	total := p.RevenueForecast
	if src == forecast.SourceCost {
		total = p.CostForecast
	}
	fmt.Printf("  %s %s  %s\n\n", p.Label, src, cli.FormatMoney(total))
	for _, s := range shares {
		fmt.Println(cli.RenderHorizontalBar(fmt.Sprintf("%-*s", labelW, s.Name), s.Value, maxVal, 30, s.Percent))
	}
	fmt.Println()

	rows := make([][]string, 0, len(shares))
	for _, s := range shares {
		rows = append(rows, []string{s.Name, cli.FormatMoney(s.Value), fmt.Sprintf("%d%%", s.Percent)})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Name", "Amount", "Share"},
		Rows:    rows,
		Footer:  []string{"Total", cli.FormatMoney(total), ""},
	}))
	if src == forecast.SourceCost {
		if cogs := forecast.COGSForPeriod(res.Assumptions, p.Period); cogs > 0 {
			fmt.Printf("  Cost of goods sold: %s (%s of cost)\n", cli.FormatMoney(cogs), cli.FormatPercent(cogs/total*100))
		}
	}
	return nil
}
