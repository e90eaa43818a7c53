package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/config"
	"github.com/theirongolddev/fcast/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the answers collected by the first-run form.
type setupValues struct {
	currency    string
	theme       string
	storeDriver string
	autoRefresh bool
}

var currencyOptions = []string{"$", "€", "£", "¥", "A$", "C$"}

// newSetupForm builds the first-run wizard shown once a forecast has loaded.
func newSetupForm(source string, vals *setupValues) *huh.Form {
	cfg := loadConfigOrDefault()
	vals.currency = cfg.General.Currency
	vals.theme = cfg.Appearance.Theme
	vals.storeDriver = cfg.Store.Driver
	vals.autoRefresh = cfg.TUI.AutoRefresh

	currencies := make([]huh.Option[string], 0, len(currencyOptions))
	for _, c := range currencyOptions {
		currencies = append(currencies, huh.NewOption(c, c))
	}
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, th := range theme.All {
		themes = append(themes, huh.NewOption(th.Name, th.Name))
	}

	welcome := "Welcome to fcast!"
	if source != "" {
		welcome += fmt.Sprintf("\n\nLoaded forecast from %s.", source)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("fcast").
				Description(welcome+"\nLet's save a few preferences."),
			huh.NewSelect[string]().
				Title("Currency symbol").
				Options(currencies...).
				Value(&vals.currency),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&vals.theme),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should saved forecasts live?").
				Options(
					huh.NewOption("Local SQLite file", "sqlite"),
					huh.NewOption("PostgreSQL", "postgres"),
					huh.NewOption("MySQL / MariaDB", "mysql"),
				).
				Value(&vals.storeDriver),
			huh.NewConfirm().
				Title("Recompute the dashboard automatically?").
				Value(&vals.autoRefresh),
		),
	).WithTheme(huh.ThemeCharm())
}

func (a *App) saveSetupConfig() error {
	cfg := loadConfigOrDefault()

	if c := strings.TrimSpace(a.setupVals.currency); c != "" {
		cfg.General.Currency = c
		cli.Currency = c
	}
	if theme.Valid(a.setupVals.theme) {
		cfg.Appearance.Theme = a.setupVals.theme
		theme.SetActive(a.setupVals.theme)
	}
	if a.setupVals.storeDriver != "" {
		cfg.Store.Driver = a.setupVals.storeDriver
	}
	cfg.TUI.AutoRefresh = a.setupVals.autoRefresh
	a.autoRefresh = a.setupVals.autoRefresh

	return config.Save(cfg)
}
