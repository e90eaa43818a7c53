package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/config"
	"github.com/theirongolddev/fcast/internal/daemon"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
)

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Recompute the forecast in the background and serve it over HTTP/SSE",
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

var daemonRecomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Ask the running daemon to recompute now",
	RunE:  runDaemonRecompute,
}

func init() {
	defaultPID := filepath.Join(config.DataDir(), "fcastd.pid")
	defaultLog := filepath.Join(config.DataDir(), "fcastd.log")

	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", 0, "Recompute interval (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", defaultPID, "PID file path")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", defaultLog, "Log file path for detached mode")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd, daemonStopCmd, daemonRecomputeCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonConfig merges config file values with command-line overrides.
func daemonConfig() daemon.Config {
	dc := appConfig.Daemon
	cfg := daemon.Config{
		Source:       describeSource(),
		Loader:       daemon.LoaderFunc(loadInputs),
		Interval:     dc.Interval.Duration,
		Addr:         dc.Addr,
		EventsBuffer: dc.EventsBuffer,
		RateLimit:    dc.RateLimit,
		SentryDSN:    dc.SentryDSN,
		Logger:       slog.Default(),
	}
	if flagDaemonChild {
		level := appConfig.Logging.Level
		if flagLogLevel != "" {
			level = flagLogLevel
		}
		cfg.Logger = newLogger(level, "json")
	}
	if flagDaemonAddr != "" {
		cfg.Addr = flagDaemonAddr
	}
	if flagDaemonInterval > 0 {
		cfg.Interval = flagDaemonInterval
	}
	if flagDaemonEventsBuffer > 0 {
		cfg.EventsBuffer = flagDaemonEventsBuffer
	}
	return cfg
}

// daemonAddr is the address a running daemon is expected to listen on.
func daemonAddr() string {
	if st, err := runFile(flagDaemonPIDFile).State(); err == nil && st.Addr != "" {
		return st.Addr
	}
	if flagDaemonAddr != "" {
		return flagDaemonAddr
	}
	return appConfig.Daemon.Addr
}

func runDaemon(_ *cobra.Command, _ []string) error {
	if flagDaemonDetach && flagDaemonChild {
		return errors.New("invalid daemon launch mode")
	}

	// Fail fast on a missing forecast instead of inside the detached child.
	if _, err := resolveForecastRef(); err != nil {
		return err
	}

	if flagDaemonDetach {
		return startDaemonDetached()
	}

	return runDaemonForeground()
}

func startDaemonDetached() error {
	if err := runFile(flagDaemonPIDFile).Claim(); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}

	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	cmd := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Stdin = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagDaemonPIDFile)
	fmt.Printf("  API: http://%s/v1/status\n", daemonConfig().Addr)
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground() error {
	rf := runFile(flagDaemonPIDFile)
	if err := rf.Claim(); err != nil {
		return err
	}

	cfg := daemonConfig()
	svc := daemon.New(cfg)

	err := rf.Write(daemonRuntimeState{
		PID:       os.Getpid(),
		Addr:      svc.Addr(),
		StartedAt: time.Now(),
		Source:    cfg.Source,
	})
	if err != nil {
		return err
	}
	defer rf.Release()

	fmt.Printf("  fcast daemon listening on http://%s\n", svc.Addr())
	fmt.Printf("  Recomputing every %s from %s\n", svc.Interval(), cfg.Source)
	fmt.Printf("  Stop with: fcast daemon stop --pid-file %s\n", flagDaemonPIDFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newAPIClient returns a retrying client for talking to a local daemon.
func newAPIClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.HTTPClient = &http.Client{Timeout: 2 * time.Second}
	c.RetryMax = 2
	c.RetryWaitMin = 100 * time.Millisecond
	c.RetryWaitMax = 500 * time.Millisecond
	c.Logger = slog.Default()
	return c
}

func runDaemonStatus(cmd *cobra.Command, _ []string) error {
	pid, err := runFile(flagDaemonPIDFile).PID()
	if err != nil {
		fmt.Printf("  Daemon: not running (pid file not found)\n")
		return nil
	}

	if !processAlive(pid) {
		fmt.Printf("  Daemon: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := daemonAddr()
	fmt.Printf("  Daemon PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	req, err := retryablehttp.NewRequestWithContext(cmd.Context(), http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return err
	}
	resp, err := newAPIClient().Do(req)
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	if flagJSON {
		return printJSON(st)
	}

	fmt.Printf("  Source: %s\n", st.Source)
	if st.LastPollAt.IsZero() {
		fmt.Printf("  Last recompute: pending\n")
	} else {
		fmt.Printf("  Last recompute: %s\n", st.LastPollAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Recompute count: %d\n", st.PollCount)
	fmt.Printf("  Periods with actuals: %d of %d\n", st.Summary.PeriodsWithActuals, st.Summary.Periods)
	fmt.Printf("  Revised profit: %s (plan %s)\n", cli.FormatMoney(st.Summary.RevisedProfit), cli.FormatMoney(st.Summary.ProfitForecast))
	fmt.Printf("  Revised margin: %s\n", cli.FormatPercent(st.Summary.RevisedMargin))
	if st.Summary.Warnings > 0 {
		fmt.Printf("  Warnings: %d\n", st.Summary.Warnings)
	}
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func runDaemonRecompute(cmd *cobra.Command, _ []string) error {
	addr := daemonAddr()
	req, err := retryablehttp.NewRequestWithContext(cmd.Context(), http.MethodPost, "http://"+addr+"/v1/recompute", nil)
	if err != nil {
		return err
	}
	resp, err := newAPIClient().Do(req)
	if err != nil {
		return fmt.Errorf("daemon unreachable at %s: %w", addr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return fmt.Errorf("recompute failed: HTTP %d %s", resp.StatusCode, body.Message)
	}
	fmt.Println("  Recomputed")
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	rf := runFile(flagDaemonPIDFile)
	pid, err := rf.PID()
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}
	if !waitExit(pid, 8*time.Second) {
		return fmt.Errorf("daemon (pid %d) did not exit in time", pid)
	}
	rf.Release()
	fmt.Printf("  Stopped daemon (pid %d)\n", pid)
	return nil
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}
