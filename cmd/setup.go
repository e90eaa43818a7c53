package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/config"
	"github.com/theirongolddev/fcast/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := appConfig

	var forecastOpts []huh.Option[string]
	forecastOpts = append(forecastOpts, huh.NewOption("(none)", ""))
	if st, err := openStore(); err == nil {
		if infos, err := st.ListModels(); err == nil {
			for _, fi := range infos {
				forecastOpts = append(forecastOpts, huh.NewOption(fmt.Sprintf("%s (%s)", fi.Name, fi.ID), fi.ID))
			}
		}
		_ = st.Close()
	}

	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, th := range theme.All {
		themes = append(themes, huh.NewOption(th.Name, th.Name))
	}

	refreshSec := fmt.Sprintf("%d", cfg.TUI.RefreshIntervalSec)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to fcast!").
				Description("Revenue, cost and profit forecasts with actuals variance.\n"+
					"Settings are saved to "+config.Path()),
			huh.NewInput().
				Title("Currency symbol").
				Value(&cfg.General.Currency).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("currency symbol is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&cfg.Appearance.Theme),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Store for saved forecasts and actuals").
				Options(
					huh.NewOption("Local SQLite file", "sqlite"),
					huh.NewOption("PostgreSQL", "postgres"),
					huh.NewOption("MySQL / MariaDB", "mysql"),
				).
				Value(&cfg.Store.Driver),
			huh.NewInput().
				Title("Store DSN").
				Description("Leave empty for the default SQLite file.").
				Value(&cfg.Store.DSN),
			huh.NewSelect[string]().
				Title("Default forecast").
				Options(forecastOpts...).
				Value(&cfg.General.DefaultForecast),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Auto-refresh the dashboard?").
				Value(&cfg.TUI.AutoRefresh),
			huh.NewInput().
				Title("Refresh interval (seconds)").
				Value(&refreshSec).
				Validate(func(s string) error {
					var n int
					if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n < 10 {
						return fmt.Errorf("enter a whole number of at least 10")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		return err
	}

	_, _ = fmt.Sscanf(refreshSec, "%d", &cfg.TUI.RefreshIntervalSec)
	cfg.General.Currency = strings.TrimSpace(cfg.General.Currency)
	if cfg.Store.Driver != "sqlite" && cfg.Store.DSN == "" {
		fmt.Println(cli.RenderWarning("store", cfg.Store.Driver+" needs a DSN; set one with `fcast config set store.dsn ...`"))
	}

	appConfig = cfg
	if err := saveConfig(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `fcast setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
