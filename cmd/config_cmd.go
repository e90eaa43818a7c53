// Package cmd implements the fcast CLI commands.
package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/fcast/internal/config"
	"github.com/theirongolddev/fcast/internal/tui/theme"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change one configuration value",
	Long:  "Change one configuration value. Keys:\n  " + strings.Join(configKeys(), "\n  "),
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appConfig
	if flagJSON {
		return printJSON(cfg)
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if cfg.General.DefaultForecast != "" {
		fmt.Printf("    Default forecast: %s\n", cfg.General.DefaultForecast)
	} else {
		fmt.Println("    Default forecast: not set")
	}
	fmt.Printf("    Currency:         %s\n", cfg.General.Currency)
	fmt.Println()

	fmt.Println("  [Store]")
	fmt.Printf("    Driver: %s\n", cfg.Store.Driver)
	fmt.Printf("    DSN:    %s\n", maskDSN(config.StoreDSN(cfg)))
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval:      %s\n", cfg.Daemon.Interval.Duration)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Printf("    Rate limit:    %g req/s\n", cfg.Daemon.RateLimit)
	if cfg.Daemon.SentryDSN != "" {
		fmt.Printf("    Sentry DSN:    %s\n", maskSecret(cfg.Daemon.SentryDSN))
	}
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", cfg.Logging.Level)
	fmt.Printf("    Format: %s\n", cfg.Logging.Format)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto refresh:     %v\n", cfg.TUI.AutoRefresh)
	fmt.Printf("    Refresh interval: %ds\n", cfg.TUI.RefreshIntervalSec)
	fmt.Println()

	fmt.Println("  Run `fcast setup` or `fcast config set` to reconfigure.")
	return nil
}

// configSetters maps dotted keys to functions that parse and apply a value.
var configSetters = map[string]func(*config.Config, string) error{
	"general.default_forecast": func(c *config.Config, v string) error {
		c.General.DefaultForecast = v
		return nil
	},
	"general.currency": func(c *config.Config, v string) error {
		c.General.Currency = v
		return nil
	},
	"store.driver": func(c *config.Config, v string) error {
		switch v {
		case "sqlite", "postgres", "mysql":
			c.Store.Driver = v
			return nil
		}
		return fmt.Errorf("unknown driver %q (sqlite, postgres, mysql)", v)
	},
	"store.dsn": func(c *config.Config, v string) error {
		c.Store.DSN = v
		return nil
	},
	"daemon.addr": func(c *config.Config, v string) error {
		c.Daemon.Addr = v
		return nil
	},
	"daemon.interval": func(c *config.Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Daemon.Interval = config.Duration{Duration: d}
		return nil
	},
	"daemon.rate_limit": func(c *config.Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("rate limit must be a non-negative number")
		}
		c.Daemon.RateLimit = f
		return nil
	},
	"daemon.sentry_dsn": func(c *config.Config, v string) error {
		c.Daemon.SentryDSN = v
		return nil
	},
	"logging.level": func(c *config.Config, v string) error {
		c.Logging.Level = v
		return nil
	},
	"logging.format": func(c *config.Config, v string) error {
		if v != "text" && v != "json" {
			return fmt.Errorf("format must be text or json")
		}
		c.Logging.Format = v
		return nil
	},
	"appearance.theme": func(c *config.Config, v string) error {
		if !theme.Valid(v) {
			return fmt.Errorf("unknown theme %q (%s)", v, strings.Join(theme.Names(), ", "))
		}
		c.Appearance.Theme = v
		return nil
	},
	"tui.auto_refresh": func(c *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.TUI.AutoRefresh = b
		return nil
	},
	"tui.refresh_interval_sec": func(c *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 10 {
			return fmt.Errorf("refresh interval must be at least 10 seconds")
		}
		c.TUI.RefreshIntervalSec = n
		return nil
	},
}

func configKeys() []string {
	keys := make([]string, 0, len(configSetters))
	for k := range configSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runConfigSet(_ *cobra.Command, args []string) error {
	set, ok := configSetters[args[0]]
	if !ok {
		return fmt.Errorf("unknown key %q; valid keys: %s", args[0], strings.Join(configKeys(), ", "))
	}
	if err := set(&appConfig, args[1]); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if err := saveConfig(); err != nil {
		return err
	}
	fmt.Printf("  %s = %s\n", args[0], args[1])
	return nil
}

func saveConfig() error {
	if err := config.Save(appConfig); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// maskDSN hides the password in URL-style and MySQL-style DSNs.
func maskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return dsn
	}
	creds := dsn[:at]
	if i := strings.LastIndex(creds, ":"); i >= 0 && !strings.HasPrefix(creds[i:], "://") {
		return creds[:i+1] + "****" + dsn[at:]
	}
	return dsn
}

func maskSecret(s string) string {
	if len(s) > 16 {
		return s[:8] + "..." + s[len(s)-4:]
	}
	if len(s) > 4 {
		return s[:4] + "..."
	}
	return "****"
}
