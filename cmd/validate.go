package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check assumptions and actuals without printing a forecast",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	a, actuals, err := loadInputs(cmd.Context())
	if err != nil {
		return err
	}

	if err := forecast.Validate(a); err != nil {
		var ve *forecast.ValidationError
		if errors.As(err, &ve) {
			if flagJSON {
				_ = printJSON(ve)
			} else {
				fmt.Println()
				fmt.Print(cli.RenderTable(cli.Table{
					Title:   "Invalid assumptions",
					Headers: []string{"Field", "Problem"},
					Rows:    fieldRows(ve.Problems),
				}))
			}
		}
		return err
	}

	var bad int
	for _, e := range actuals {
		if err := forecast.ValidateActual(e); err != nil {
			bad++
			fmt.Println(cli.RenderWarning("invalid_actual", fmt.Sprintf("period %d: %v", e.Period, err)))
		}
	}

	res, err := forecast.Run(a, actuals)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(struct {
			Valid          bool            `json:"valid"`
			Periods        int             `json:"periods"`
			Actuals        int             `json:"actuals"`
			InvalidActuals int             `json:"invalidActuals"`
			Warnings       []model.Warning `json:"warnings"`
		}{bad == 0, len(res.Periods), len(actuals), bad, res.Warnings})
	}

	printWarnings(res.Warnings)
	fmt.Printf("\n  OK: %d %ss, %d revenue streams, %d cost categories, %d actual entries, %d warning(s)\n",
		len(res.Periods), a.Metadata.PeriodUnit, len(a.RevenueStreams), len(a.CostCategories), len(actuals), len(res.Warnings))
	if bad > 0 {
		return fmt.Errorf("%d actual entries are invalid", bad)
	}
	return nil
}

func fieldRows(problems []forecast.FieldError) [][]string {
	rows := make([][]string, 0, len(problems))
	for _, p := range problems {
		rows = append(rows, []string{p.Field, p.Reason})
	}
	return rows
}
