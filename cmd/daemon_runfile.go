package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// daemonRuntimeState is written next to the pid file so clients can find
// the API address of a daemon started with a non-default --addr.
type daemonRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	Source    string    `json:"source"`
}

// runFile is a daemon pid file plus its JSON state sidecar.
type runFile string

func (f runFile) statePath() string { return string(f) + ".json" }

// PID returns the recorded pid. A missing file yields an os.ErrNotExist error.
func (f runFile) PID() (int, error) {
	//nolint:gosec // daemon pid path is configured by the local user
	data, err := os.ReadFile(string(f))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", f)
	}
	return pid, nil
}

// State returns the sidecar written by the running daemon.
func (f runFile) State() (daemonRuntimeState, error) {
	var st daemonRuntimeState
	//nolint:gosec // daemon state path is configured by the local user
	data, err := os.ReadFile(f.statePath())
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(data, &st)
	return st, err
}

// Claim fails when a live daemon owns the file and clears a stale one.
func (f runFile) Claim() error {
	pid, err := f.PID()
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return err
	case processAlive(pid):
		return fmt.Errorf("daemon already running (pid %d)", pid)
	default:
		f.Release()
	}
	if err := os.MkdirAll(filepath.Dir(string(f)), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	return nil
}

// Write records st; the state sidecar is best effort.
func (f runFile) Write(st daemonRuntimeState) error {
	if err := os.WriteFile(string(f), []byte(strconv.Itoa(st.PID)+"\n"), 0o600); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	if data, err := json.MarshalIndent(st, "", "  "); err == nil {
		_ = os.WriteFile(f.statePath(), append(data, '\n'), 0o600)
	}
	return nil
}

// Release removes the pid file and its sidecar.
func (f runFile) Release() {
	_ = os.Remove(string(f))
	_ = os.Remove(f.statePath())
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

// waitExit polls until pid is gone or timeout passes.
func waitExit(pid int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			return true
		}
		time.Sleep(150 * time.Millisecond)
	}
	return false
}
