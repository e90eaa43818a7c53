package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{
		"FCAST_STORE_DRIVER", "FCAST_STORE_DSN", "FCAST_SENTRY_DSN", "FCAST_LOG_LEVEL",
		"FCAST_DAEMON_ADDR", "FCAST_DAEMON_INTERVAL", "FCAST_RATE_LIMIT",
	} {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Fatalf("driver = %q, want sqlite", cfg.Store.Driver)
	}
	if cfg.Daemon.Interval.Duration != 15*time.Second {
		t.Fatalf("interval = %s, want 15s", cfg.Daemon.Interval)
	}
	if Exists() {
		t.Fatal("Exists() = true before Save")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.General.DefaultForecast = "summer-fest"
	cfg.Store = StoreConfig{Driver: "postgres", DSN: "postgres://localhost/fcast"}
	cfg.Daemon.Interval = Duration{2 * time.Minute}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.DefaultForecast != "summer-fest" {
		t.Fatalf("default forecast = %q", got.General.DefaultForecast)
	}
	if got.Store != cfg.Store {
		t.Fatalf("store = %+v, want %+v", got.Store, cfg.Store)
	}
	if got.Daemon.Interval.Duration != 2*time.Minute {
		t.Fatalf("interval = %s, want 2m0s", got.Daemon.Interval)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("FCAST_STORE_DRIVER", "mysql")
	t.Setenv("FCAST_DAEMON_INTERVAL", "45s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != "mysql" {
		t.Fatalf("driver = %q, want mysql", cfg.Store.Driver)
	}
	if cfg.Daemon.Interval.Duration != 45*time.Second {
		t.Fatalf("interval = %s, want 45s", cfg.Daemon.Interval)
	}
}

func TestLoad_BadEnvDuration(t *testing.T) {
	isolate(t)
	t.Setenv("FCAST_DAEMON_INTERVAL", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparsable FCAST_DAEMON_INTERVAL")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	os.Unsetenv("FCAST_LOG_LEVEL")
	t.Cleanup(func() { os.Unsetenv("FCAST_LOG_LEVEL") })

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FCAST_LOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q, want debug", cfg.Logging.Level)
	}
}

func TestStoreDSN(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	if got, want := StoreDSN(cfg), DefaultDSN(); got != want {
		t.Fatalf("StoreDSN = %q, want %q", got, want)
	}
	cfg.Store.Driver = "postgres"
	if got := StoreDSN(cfg); got != "" {
		t.Fatalf("StoreDSN for postgres without dsn = %q, want empty", got)
	}
}
