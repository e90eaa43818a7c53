package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/fcast/internal/cli"

	"github.com/spf13/cobra"
)

var flagReportHTML bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a Markdown or HTML forecast report",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Write to file instead of stdout (.html implies --html)")
	reportCmd.Flags().BoolVar(&flagReportHTML, "html", false, "Render HTML instead of Markdown")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	res, err := runForecast(cmd.Context())
	if err != nil {
		return err
	}

	doc := cli.MarkdownReport(res)
	asHTML := flagReportHTML || strings.EqualFold(filepath.Ext(flagOut), ".html")
	if asHTML {
		title := res.Assumptions.Metadata.Name
		if title == "" {
			title = "Forecast report"
		}
		if doc, err = cli.RenderHTML(doc, title); err != nil {
			return err
		}
	}

	if flagOut == "" {
		fmt.Print(doc)
		return nil
	}
	if err := os.WriteFile(flagOut, []byte(doc), 0o644); err != nil {
		return err
	}
	progressf("  Wrote %s\n", flagOut)
	return nil
}
