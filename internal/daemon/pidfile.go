package daemon

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

var (
	// ErrNotRunning means no live process owns the pid file.
	ErrNotRunning = errors.New("daemon is not running")
	// ErrAlreadyRunning means a live process already owns the pid file.
	ErrAlreadyRunning = errors.New("daemon already running")
)

// Runtime describes a started daemon. It is written beside the pid file so
// status checks can find the listen address.
type Runtime struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	Range     string    `json:"range"`
}

// PIDFile guards a single daemon instance.
type PIDFile string

func (p PIDFile) runtimePath() string { return string(p) + ".json" }

// Acquire records rt as the running instance. A pid file left by a dead
// process is replaced.
func (p PIDFile) Acquire(rt Runtime) error {
	if cur, err := p.Lookup(); err == nil {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, cur.PID)
	} else if !errors.Is(err, ErrNotRunning) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(string(p)), 0o750); err != nil {
		return fmt.Errorf("creating daemon directory: %w", err)
	}
	if err := os.WriteFile(string(p), []byte(strconv.Itoa(rt.PID)+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing pid file: %w", err)
	}
	data, err := json.MarshalIndent(rt, "", "  ")
	if err != nil {
		return err
	}
	// The runtime file is advisory; status falls back to the configured addr.
	_ = os.WriteFile(p.runtimePath(), append(data, '\n'), 0o600)
	return nil
}

// Release removes the pid and runtime files.
func (p PIDFile) Release() {
	_ = os.Remove(string(p))
	_ = os.Remove(p.runtimePath())
}

// Lookup returns the live instance. Missing or stale pid files yield
// ErrNotRunning; stale files are cleaned up.
func (p PIDFile) Lookup() (Runtime, error) {
	//nolint:gosec // pid path is configured by the local user
	data, err := os.ReadFile(string(p))
	if errors.Is(err, os.ErrNotExist) {
		return Runtime{}, ErrNotRunning
	}
	if err != nil {
		return Runtime{}, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return Runtime{}, fmt.Errorf("invalid pid in %s", p)
	}
	if !processAlive(pid) {
		p.Release()
		return Runtime{PID: pid}, ErrNotRunning
	}

	rt := Runtime{PID: pid}
	//nolint:gosec // runtime path sits beside the pid file
	if data, err := os.ReadFile(p.runtimePath()); err == nil {
		_ = json.Unmarshal(data, &rt)
		rt.PID = pid
	}
	return rt, nil
}

// Stop sends SIGTERM to the live instance and waits up to timeout for it
// to exit.
func (p PIDFile) Stop(timeout time.Duration) (int, error) {
	rt, err := p.Lookup()
	if err != nil {
		return 0, err
	}
	proc, err := os.FindProcess(rt.PID)
	if err != nil {
		return rt.PID, fmt.Errorf("finding daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return rt.PID, fmt.Errorf("signalling daemon process: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !processAlive(rt.PID) {
			p.Release()
			return rt.PID, nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return rt.PID, fmt.Errorf("daemon (pid %d) did not exit within %s", rt.PID, timeout)
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
