package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/config"
	"github.com/theirongolddev/fcast/internal/store"
	"github.com/theirongolddev/fcast/internal/tui/theme"

	"github.com/spf13/cobra"
)

var (
	flagAssumptions string
	flagForecast    string
	flagActuals     []string
	flagNoStore     bool
	flagQuiet       bool
	flagLogLevel    string
	flagJSON        bool
)

// appConfig is loaded once per invocation before any command runs.
var appConfig = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "fcast",
	Short: "Revenue, cost and profit forecasts with actuals variance",
	Long: "Project revenue, cost and profit over weeks or months, merge recorded actuals,\n" +
		"and report variance and revised outlook for events and continuous businesses.",
	SilenceUsage:      true,
	PersistentPreRunE: loadAppConfig,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagAssumptions, "assumptions", "a", "", "Assumptions file (.toml, .yaml, .json, .hjson)")
	rootCmd.PersistentFlags().StringVarP(&flagForecast, "forecast", "f", "", "Saved forecast ID from the store")
	rootCmd.PersistentFlags().StringSliceVar(&flagActuals, "actuals", nil, "Actuals file(s) (.json, .jsonl, .csv); repeatable")
	rootCmd.PersistentFlags().BoolVar(&flagNoStore, "no-store", false, "Ignore actuals saved in the store")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress and warning output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print machine-readable JSON instead of tables")
}

// loadAppConfig loads config and configures logging, currency and theme.
func loadAppConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		// A broken config file should not stop read-only commands.
		fmt.Fprintf(os.Stderr, "  Warning: %v (using defaults)\n", err)
	}
	appConfig = cfg

	level := cfg.Logging.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	slog.SetDefault(newLogger(level, cfg.Logging.Format))

	if cfg.General.Currency != "" {
		cli.Currency = cfg.General.Currency
	}
	theme.SetActive(cfg.Appearance.Theme)

	slog.Debug("config loaded", "path", config.Path(), "command", cmd.Name(), "store", cfg.Store.Driver)
	return nil
}

// newLogger builds the process logger; diagnostics go to stderr so command
// output on stdout stays clean.
func newLogger(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openStore opens the configured forecast store.
func openStore() (*store.Store, error) {
	st, err := store.Open(appConfig.Store.Driver, config.StoreDSN(appConfig))
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", appConfig.Store.Driver, err)
	}
	return st, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func progressf(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
