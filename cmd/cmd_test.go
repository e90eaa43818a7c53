package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/fcast/internal/config"
)

const cafeTOML = `
id = "cafe"

[metadata]
name = "Cafe"
kind = "continuous_business"
period_unit = "week"
period_count = 3

[[revenue_streams]]
name = "Sales"
base_value = 1000
kind = "recurring"

[[cost_categories]]
name = "Rent"
base_value = 400
kind = "recurring"
category = "operations"

[growth]
kind = "none"
`

// resetFlags restores package-level flag state after a test.
func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		flagAssumptions, flagForecast, flagActuals, flagNoStore = "", "", nil, false
		appConfig = config.DefaultConfig()
	})
}

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestResolveForecastRef(t *testing.T) {
	resetFlags(t)

	if _, err := resolveForecastRef(); !errors.Is(err, errNoForecast) {
		t.Fatalf("err = %v, want errNoForecast", err)
	}

	flagAssumptions, flagForecast = "a.toml", "abc"
	if _, err := resolveForecastRef(); err == nil {
		t.Fatal("expected error when both flags are set")
	}

	flagAssumptions = ""
	ref, err := resolveForecastRef()
	if err != nil || ref.ID != "abc" {
		t.Fatalf("ref = %+v, err = %v", ref, err)
	}

	flagForecast = ""
	path := writeTemp(t, "cafe.toml", cafeTOML)
	appConfig.General.DefaultForecast = path
	ref, _ = resolveForecastRef()
	if ref.Path != path {
		t.Fatalf("default file: ref = %+v", ref)
	}

	appConfig.General.DefaultForecast = "saved-id"
	ref, _ = resolveForecastRef()
	if ref.ID != "saved-id" {
		t.Fatalf("default id: ref = %+v", ref)
	}
}

func TestLoadInputs_FileWithActuals(t *testing.T) {
	resetFlags(t)
	flagQuiet = true
	t.Cleanup(func() { flagQuiet = false })

	flagAssumptions = writeTemp(t, "cafe.toml", cafeTOML)
	flagActuals = []string{writeTemp(t, "actuals.jsonl",
		`{"period": 1, "periodUnit": "week", "revenueActuals": {"Sales": 900}}`+"\n"+
			`{"period": 2, "periodUnit": "week", "revenueActuals": {"Sales": 1100}}`)}
	flagNoStore = true

	a, actuals, err := loadInputs(context.Background())
	if err != nil {
		t.Fatalf("loadInputs: %v", err)
	}
	if a.Metadata.Name != "Cafe" || len(actuals) != 2 {
		t.Fatalf("got %q with %d actuals", a.Metadata.Name, len(actuals))
	}

	res, err := runForecast(context.Background())
	if err != nil {
		t.Fatalf("runForecast: %v", err)
	}
	if res.Summary.RevisedTotalRevenue != 3000 {
		t.Fatalf("revised revenue = %v, want 3000", res.Summary.RevisedTotalRevenue)
	}
	if res.Summary.PeriodsWithActuals != 2 {
		t.Fatalf("periods with actuals = %d, want 2", res.Summary.PeriodsWithActuals)
	}
}

func TestLoadInputs_CanceledContext(t *testing.T) {
	resetFlags(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := loadInputs(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestParseAmounts(t *testing.T) {
	got, err := parseAmounts("revenue", map[string]string{" Tickets ": "41000", "F&B": "9800.5"})
	if err != nil {
		t.Fatalf("parseAmounts: %v", err)
	}
	if got["Tickets"] != 41000 || got["F&B"] != 9800.5 {
		t.Fatalf("got %v", got)
	}
	if _, err := parseAmounts("cost", map[string]string{"Venue": "lots"}); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
	if got, _ := parseAmounts("cost", nil); got != nil {
		t.Fatalf("empty input: got %v, want nil", got)
	}
}

func TestConfigSetters(t *testing.T) {
	cfg := config.DefaultConfig()

	if err := configSetters["daemon.interval"](&cfg, "45s"); err != nil {
		t.Fatalf("daemon.interval: %v", err)
	}
	if cfg.Daemon.Interval.Duration != 45*time.Second {
		t.Fatalf("interval = %v", cfg.Daemon.Interval.Duration)
	}
	if err := configSetters["store.driver"](&cfg, "oracle"); err == nil {
		t.Fatal("expected unknown driver error")
	}
	if err := configSetters["tui.refresh_interval_sec"](&cfg, "5"); err == nil {
		t.Fatal("expected minimum interval error")
	}
	if err := configSetters["appearance.theme"](&cfg, "no-such-theme"); err == nil {
		t.Fatal("expected unknown theme error")
	}
}

func TestMaskDSN(t *testing.T) {
	tests := []struct{ in, want string }{
		{"postgres://fcast:hunter2@db:5432/fcast", "postgres://fcast:****@db:5432/fcast"},
		{"fcast:hunter2@tcp(db:3306)/fcast", "fcast:****@tcp(db:3306)/fcast"},
		{"postgres://fcast@db/fcast", "postgres://fcast@db/fcast"},
		{"/home/me/.local/share/fcast/fcast.db", "/home/me/.local/share/fcast/fcast.db"},
	}
	for _, tt := range tests {
		if got := maskDSN(tt.in); got != tt.want {
			t.Errorf("maskDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "-f", "x", "--detach=true"})
	want := []string{"daemon", "-f", "x"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRunFileLifecycle(t *testing.T) {
	rf := runFile(filepath.Join(t.TempDir(), "run", "fcastd.pid"))

	if _, err := rf.PID(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("PID on missing file: %v", err)
	}
	if err := rf.Claim(); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	st := daemonRuntimeState{PID: os.Getpid(), Addr: "127.0.0.1:9999", Source: "cafe.toml"}
	if err := rf.Write(st); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if pid, err := rf.PID(); err != nil || pid != os.Getpid() {
		t.Fatalf("PID = %d, %v", pid, err)
	}
	got, err := rf.State()
	if err != nil || got.Addr != st.Addr {
		t.Fatalf("State = %+v, %v", got, err)
	}
	if err := rf.Claim(); err == nil {
		t.Fatal("Claim should fail while this process owns the file")
	}

	rf.Release()
	if _, err := os.Stat(rf.statePath()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("state sidecar left behind: %v", err)
	}
}

func TestRunFileInvalidPID(t *testing.T) {
	rf := runFile(writeTemp(t, "bad.pid", "not-a-pid\n"))
	if _, err := rf.PID(); err == nil {
		t.Fatal("expected error for garbage pid file")
	}
	if err := rf.Claim(); err == nil {
		t.Fatal("Claim should surface an unreadable pid file")
	}
}
