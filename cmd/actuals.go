package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/source"
	"github.com/theirongolddev/fcast/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagActPeriod     int
	flagActRevenue    map[string]string
	flagActCost       map[string]string
	flagActAttendance int
	flagActNotes      string
)

var actualsCmd = &cobra.Command{
	Use:     "actuals",
	Aliases: []string{"actual"},
	Short:   "Record and manage actual results for a saved forecast",
}

var actualsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record actuals for one period (replaces any existing entry)",
	Example: `  fcast actuals add -f ID --period 3 --revenue Tickets=41000 --revenue "F&B Sales=9800" \
      --cost Venue=12000 --attendance 2650 --notes "rain on Saturday"`,
	Args: cobra.NoArgs,
	RunE: runActualsAdd,
}

var actualsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded actuals",
	Args:  cobra.NoArgs,
	RunE:  runActualsList,
}

var actualsImportCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Store actuals from .json, .jsonl or .csv files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runActualsImport,
}

var actualsRmCmd = &cobra.Command{
	Use:   "rm PERIOD",
	Short: "Delete the actuals recorded for a period",
	Args:  cobra.ExactArgs(1),
	RunE:  runActualsRm,
}

var actualsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write recorded actuals as CSV",
	Args:  cobra.NoArgs,
	RunE:  runActualsExport,
}

func init() {
	actualsAddCmd.Flags().IntVar(&flagActPeriod, "period", 0, "Period number (1-based)")
	actualsAddCmd.Flags().StringToStringVar(&flagActRevenue, "revenue", nil, "Revenue actual as STREAM=AMOUNT; repeatable")
	actualsAddCmd.Flags().StringToStringVar(&flagActCost, "cost", nil, "Cost actual as CATEGORY=AMOUNT; repeatable")
	actualsAddCmd.Flags().IntVar(&flagActAttendance, "attendance", -1, "Actual attendance")
	actualsAddCmd.Flags().StringVar(&flagActNotes, "notes", "", "Free-text notes")
	_ = actualsAddCmd.MarkFlagRequired("period")

	actualsExportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Write to file instead of stdout")

	actualsCmd.AddCommand(actualsAddCmd, actualsListCmd, actualsImportCmd, actualsRmCmd, actualsExportCmd)
	rootCmd.AddCommand(actualsCmd)
}

// targetForecast resolves the stored forecast that actuals are written to.
// A file-based forecast qualifies when it carries an ID.
func targetForecast() (string, model.Assumptions, *store.Store, error) {
	ref, err := resolveForecastRef()
	if err != nil {
		return "", model.Assumptions{}, nil, err
	}

	id := ref.ID
	if ref.Path != "" {
		a, err := source.LoadAssumptions(ref.Path)
		if err != nil {
			return "", a, nil, err
		}
		if a.ID == "" {
			return "", a, nil, fmt.Errorf("%s has no id; import it first with `fcast model import %s`", ref.Path, ref.Path)
		}
		id = a.ID
	}

	st, err := openStore()
	if err != nil {
		return "", model.Assumptions{}, nil, err
	}
	a, err := st.LoadModel(id)
	if err != nil {
		_ = st.Close()
		if errors.Is(err, store.ErrNotFound) {
			return "", a, nil, fmt.Errorf("forecast %s is not saved; run `fcast model import` first", id)
		}
		return "", a, nil, err
	}
	return id, a, st, nil
}

func runActualsAdd(_ *cobra.Command, _ []string) error {
	id, a, st, err := targetForecast()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	e := model.ActualPeriodEntry{
		Period:     flagActPeriod,
		PeriodUnit: a.Metadata.PeriodUnit,
		Notes:      flagActNotes,
	}
	if e.RevenueActuals, err = parseAmounts("revenue", flagActRevenue); err != nil {
		return err
	}
	if e.CostActuals, err = parseAmounts("cost", flagActCost); err != nil {
		return err
	}
	if flagActAttendance >= 0 {
		n := flagActAttendance
		e.AttendanceActual = &n
	}
	if err := forecast.ValidateActual(e); err != nil {
		return err
	}
	if e.Period > a.Metadata.PeriodCount {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(string(model.WarnPeriodOutOfRange),
			fmt.Sprintf("period %d is beyond the %d-%s horizon and will be ignored in forecasts", e.Period, a.Metadata.PeriodCount, a.Metadata.PeriodUnit)))
	}

	saved, err := st.SaveActual(id, e)
	if err != nil {
		return err
	}
	fmt.Printf("  Recorded %s for %s\n", a.Metadata.PeriodUnit.Label(saved.Period), a.Metadata.Name)
	return nil
}

// parseAmounts converts NAME=AMOUNT flag values to numbers.
func parseAmounts(kind string, raw map[string]string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(raw))
	for name, s := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("--%s %s=%s: not a number", kind, name, s)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

func runActualsList(_ *cobra.Command, _ []string) error {
	id, a, st, err := targetForecast()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	entries, err := st.LoadActuals(id)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Printf("\n  No actuals recorded for %s.\n", a.Metadata.Name)
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		att := cli.Missing
		if e.AttendanceActual != nil {
			att = cli.FormatNumber(int64(*e.AttendanceActual))
		}
		rows = append(rows, []string{
			e.PeriodUnit.Label(e.Period),
			cli.FormatMoney(sumAmounts(e.RevenueActuals)),
			cli.FormatMoney(sumAmounts(e.CostActuals)),
			att,
			keyList(e.RevenueActuals, e.CostActuals),
			e.RecordedAt.Local().Format(time.DateOnly),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Actuals · %s", a.Metadata.Name),
		Headers: []string{"Period", "Revenue", "Cost", "Attendance", "Keys", "Recorded"},
		Rows:    rows,
	}))
	return nil
}

func sumAmounts(m map[string]float64) float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

func keyList(maps ...map[string]float64) string {
	var keys []string
	for _, m := range maps {
		for k := range m {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	s := strings.Join(keys, ", ")
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	return s
}

func runActualsImport(_ *cobra.Command, args []string) error {
	id, _, st, err := targetForecast()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	_, err = importActualFiles(st, id, args)
	return err
}

// importActualFiles decodes every file first, then stores the entries.
func importActualFiles(st *store.Store, forecastID string, paths []string) (int, error) {
	var entries []model.ActualPeriodEntry
	for _, p := range paths {
		res, err := source.LoadActuals(p)
		if err != nil {
			return 0, err
		}
		if res.ParseErrors > 0 {
			progressf("  Skipped %d malformed line(s) in %s\n", res.ParseErrors, p)
		}
		entries = append(entries, res.Entries...)
	}
	return storeActuals(st, forecastID, entries)
}

// storeActuals saves entries in order with a progress bar. Entries that fail
// validation are reported and skipped; a later entry for the same period
// replaces an earlier one.
func storeActuals(st *store.Store, forecastID string, entries []model.ActualPeriodEntry) (int, error) {
	if len(entries) == 0 {
		progressf("  No actual entries found\n")
		return 0, nil
	}

	bar := newProgress(len(entries), "Storing actuals")
	var saved, rejected int
	for _, e := range entries {
		if err := forecast.ValidateActual(e); err != nil {
			rejected++
			_ = bar.Clear()
			fmt.Fprintln(os.Stderr, cli.RenderWarning("invalid_actual", fmt.Sprintf("period %d: %v", e.Period, err)))
		} else if _, err := st.SaveActual(forecastID, e); err != nil {
			_ = bar.Finish()
			return saved, err
		} else {
			saved++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	fmt.Printf("  Stored %d actual entr%s", saved, plural(saved, "y", "ies"))
	if rejected > 0 {
		fmt.Printf(", rejected %d", rejected)
	}
	fmt.Println()
	return saved, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func runActualsRm(_ *cobra.Command, args []string) error {
	period, err := strconv.Atoi(args[0])
	if err != nil || period < 1 {
		return fmt.Errorf("invalid period %q", args[0])
	}

	id, a, st, err := targetForecast()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.DeleteActual(id, period); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no actuals recorded for %s", a.Metadata.PeriodUnit.Label(period))
		}
		return err
	}
	fmt.Printf("  Deleted actuals for %s\n", a.Metadata.PeriodUnit.Label(period))
	return nil
}

func runActualsExport(_ *cobra.Command, _ []string) error {
	id, _, st, err := targetForecast()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	entries, err := st.LoadActuals(id)
	if err != nil {
		return err
	}

	out := os.Stdout
	if flagOut != "" {
		f, err := os.Create(flagOut)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	if err := source.WriteCSV(out, entries); err != nil {
		return err
	}
	if flagOut != "" {
		progressf("  Wrote %d entr%s to %s\n", len(entries), plural(len(entries), "y", "ies"), flagOut)
	}
	return nil
}
