package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/source"
	"github.com/theirongolddev/fcast/internal/store"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	flagOut        string
	flagFormat     string
	flagSaveModel  bool
	flagSetDefault bool
)

var modelCmd = &cobra.Command{
	Use:     "model",
	Aliases: []string{"models"},
	Short:   "Manage saved forecasts",
}

var modelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved forecasts",
	Args:  cobra.NoArgs,
	RunE:  runModelList,
}

var modelImportCmd = &cobra.Command{
	Use:   "import PATH",
	Short: "Save assumptions (and actuals) from a file or directory",
	Long: "Import an assumptions file, or every assumptions and actuals file in a directory.\n" +
		"Files whose name contains \"actual\" (and .jsonl/.csv files) are read as actuals and\n" +
		"attached to the forecast when the directory holds exactly one assumptions file.",
	Args: cobra.ExactArgs(1),
	RunE: runModelImport,
}

var modelShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print saved assumptions as TOML, YAML, JSON or HJSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelShow,
}

var modelRmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a saved forecast and its actuals",
	Args:    cobra.ExactArgs(1),
	RunE:    runModelRm,
}

var modelInitCmd = &cobra.Command{
	Use:   "init TEMPLATE",
	Short: "Write starter assumptions from a template (" + strings.Join(source.TemplateNames(), ", ") + ")",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelInit,
}

func init() {
	modelImportCmd.Flags().BoolVar(&flagSetDefault, "default", false, "Make the imported forecast the default")

	modelShowCmd.Flags().StringVar(&flagFormat, "format", "toml", "Output format: toml, yaml, json, hjson")
	modelShowCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Write to file instead of stdout (format from extension)")

	modelInitCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Write to file instead of stdout (format from extension)")
	modelInitCmd.Flags().StringVar(&flagFormat, "format", "toml", "Output format when writing to stdout")
	modelInitCmd.Flags().BoolVar(&flagSaveModel, "save", false, "Also save the template to the store")

	modelCmd.AddCommand(modelListCmd, modelImportCmd, modelShowCmd, modelRmCmd, modelInitCmd)
	rootCmd.AddCommand(modelCmd)
}

func runModelList(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	infos, err := st.ListModels()
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(infos)
	}
	if len(infos) == 0 {
		fmt.Println("\n  No saved forecasts. Create one with `fcast model init festival --save`.")
		return nil
	}

	rows := make([][]string, 0, len(infos))
	for _, fi := range infos {
		id := fi.ID
		if id == appConfig.General.DefaultForecast {
			id += " *"
		}
		rows = append(rows, []string{
			id,
			fi.Name,
			string(fi.Kind),
			fmt.Sprintf("%d %ss", fi.PeriodCount, fi.PeriodUnit),
			cli.FormatNumber(int64(fi.Actuals)),
			fi.UpdatedAt.Local().Format(time.DateTime),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Saved forecasts",
		Headers: []string{"ID", "Name", "Kind", "Horizon", "Actuals", "Updated"},
		Rows:    rows,
	}))
	return nil
}

func runModelImport(_ *cobra.Command, args []string) error {
	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var id string
	if info.IsDir() {
		id, err = importDir(st, path)
	} else {
		id, err = importAssumptions(st, path)
	}
	if err != nil {
		return err
	}

	if flagSetDefault && id != "" {
		appConfig.General.DefaultForecast = id
		if err := saveConfig(); err != nil {
			return err
		}
		progressf("  Default forecast set to %s\n", id)
	}
	return nil
}

func importAssumptions(st *store.Store, path string) (string, error) {
	a, err := source.LoadAssumptions(path)
	if err != nil {
		return "", err
	}
	if err := forecast.Validate(a); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	id, err := st.SaveModel(a)
	if err != nil {
		return "", err
	}
	fmt.Printf("  Saved %q as %s\n", a.Metadata.Name, id)
	return id, nil
}

// importDir saves every assumptions file found under dir. Actuals files are
// attached only when there is a single forecast to attach them to.
func importDir(st *store.Store, dir string) (string, error) {
	bar := newProgress(-1, "Reading "+dir)
	res, err := source.LoadDir(dir, func(current, total int) {
		bar.ChangeMax(total)
		_ = bar.Set(current)
	})
	_ = bar.Finish()
	if err != nil {
		return "", err
	}

	for _, f := range res.Failures {
		fmt.Fprintln(os.Stderr, cli.RenderWarning("import_failed", f.Err.Error()))
	}
	if res.ParseErrors > 0 {
		progressf("  Skipped %d malformed actuals line(s)\n", res.ParseErrors)
	}
	if len(res.Assumptions) == 0 {
		return "", fmt.Errorf("no readable assumptions files found in %s", dir)
	}
	progressf("  Read %d of %d file(s): %d forecast(s), %d actual entr%s\n",
		res.ParsedFiles, res.TotalFiles, len(res.Assumptions), len(res.Actuals), plural(len(res.Actuals), "y", "ies"))

	var (
		lastID string
		failed int
	)
	for _, la := range res.Assumptions {
		if err := forecast.Validate(la.Assumptions); err != nil {
			failed++
			fmt.Fprintln(os.Stderr, cli.RenderWarning("import_failed", fmt.Sprintf("%s: %v", la.Path, err)))
			continue
		}
		id, err := st.SaveModel(la.Assumptions)
		if err != nil {
			return lastID, err
		}
		fmt.Printf("  Saved %q as %s\n", la.Assumptions.Metadata.Name, id)
		lastID = id
	}

	if len(res.Actuals) > 0 {
		if len(res.Assumptions) != 1 || lastID == "" {
			progressf("  Skipped %d actual entr%s: attach them with `fcast actuals import -f ID FILE`\n",
				len(res.Actuals), plural(len(res.Actuals), "y", "ies"))
		} else if _, err := storeActuals(st, lastID, res.Actuals); err != nil {
			return lastID, err
		}
	}

	if failed > 0 {
		return lastID, fmt.Errorf("%d of %d forecast(s) failed validation", failed, len(res.Assumptions))
	}
	return lastID, nil
}

func runModelShow(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	a, err := st.LoadModel(args[0])
	if err != nil {
		return err
	}
	return writeAssumptions(a)
}

func runModelRm(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id := args[0]
	if err := st.DeleteModel(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no saved forecast with ID %s", id)
		}
		return err
	}
	fmt.Printf("  Deleted forecast %s\n", id)

	if appConfig.General.DefaultForecast == id {
		appConfig.General.DefaultForecast = ""
		return saveConfig()
	}
	return nil
}

func runModelInit(_ *cobra.Command, args []string) error {
	a, ok := source.Template(args[0])
	if !ok {
		return fmt.Errorf("unknown template %q (available: %s)", args[0], strings.Join(source.TemplateNames(), ", "))
	}

	if flagSaveModel {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		id, err := st.SaveModel(a)
		if err != nil {
			return err
		}
		a.ID = id
		progressf("  Saved %q as %s\n", a.Metadata.Name, id)
	}

	if flagSaveModel && flagOut == "" {
		return nil
	}
	return writeAssumptions(a)
}

// writeAssumptions encodes a to --out (format from its extension) or stdout
// (format from --format).
func writeAssumptions(a model.Assumptions) error {
	format := source.Format(strings.ToLower(flagFormat))
	var w io.Writer = os.Stdout
	if flagOut != "" {
		format = source.FormatOf(flagOut)
		if format == "" || format == source.FormatJSONL || format == source.FormatCSV {
			return fmt.Errorf("cannot write assumptions to %s (use .toml, .yaml, .json or .hjson)", flagOut)
		}
	}

	data, err := source.EncodeAssumptions(a, format)
	if err != nil {
		return err
	}

	if flagOut != "" {
		if err := os.WriteFile(flagOut, data, 0o644); err != nil {
			return err
		}
		progressf("  Wrote %s\n", flagOut)
		return nil
	}
	_, err = w.Write(data)
	return err
}

// newProgress returns a stderr progress bar that stays silent under --quiet.
func newProgress(total int, desc string) *progressbar.ProgressBar {
	var w io.Writer = os.Stderr
	if flagQuiet {
		w = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
