package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/admybrand/adpulse/internal/apiclient"
	"github.com/admybrand/adpulse/internal/cli"
	"github.com/admybrand/adpulse/internal/daemon"
	"github.com/admybrand/adpulse/internal/notify"
	"github.com/admybrand/adpulse/internal/store"

	"github.com/pterm/pterm"
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
	flagDaemonAfter        int64
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Serve refreshed dashboard snapshots over HTTP, SSE and WebSocket",
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the daemon's buffered events",
	RunE:  runDaemonEvents,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	cacheDir := filepath.Dir(store.DefaultPath())

	pf := daemonCmd.PersistentFlags()
	pf.StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	pf.DurationVar(&flagDaemonInterval, "interval", 0, "Refresh interval (default from config)")
	pf.StringVar(&flagDaemonPIDFile, "pid-file", filepath.Join(cacheDir, "adpulsed.pid"), "PID file path")
	pf.StringVar(&flagDaemonLogFile, "log-file", filepath.Join(cacheDir, "adpulsed.log"), "Log file for detached mode")
	pf.IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run the daemon in the background")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonEventsCmd.Flags().Int64Var(&flagDaemonAfter, "after", 0, "Only events with a larger ID")

	daemonCmd.AddCommand(daemonStatusCmd, daemonEventsCmd, daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonSettings merges the daemon flags over the [daemon] config section.
func daemonSettings() (addr string, interval time.Duration, buffer int) {
	addr, buffer = appCfg.Daemon.Addr, appCfg.Daemon.EventsBuffer
	interval = time.Duration(appCfg.Daemon.IntervalSec) * time.Second
	if flagDaemonAddr != "" {
		addr = flagDaemonAddr
	}
	if flagDaemonInterval > 0 {
		interval = flagDaemonInterval
	}
	if flagDaemonEventsBuffer > 0 {
		buffer = flagDaemonEventsBuffer
	}
	return addr, interval, buffer
}

// daemonAddr prefers the address the running instance recorded.
func daemonAddr() (string, daemon.Runtime, error) {
	addr, _, _ := daemonSettings()
	rt, err := daemon.PIDFile(flagDaemonPIDFile).Lookup()
	if err == nil && rt.Addr != "" {
		addr = rt.Addr
	}
	return addr, rt, err
}

func runDaemon(_ *cobra.Command, _ []string) error {
	switch {
	case flagDaemonDetach && flagDaemonChild:
		return errors.New("--detach and --child are exclusive")
	case flagDaemonDetach:
		return startDaemonDetached()
	}
	return runDaemonForeground()
}

// withoutDetach drops --detach from the re-exec arguments.
func withoutDetach(args []string) []string {
	return slices.DeleteFunc(slices.Clone(args), func(a string) bool {
		return a == "--detach" || strings.HasPrefix(a, "--detach=")
	})
}

func startDaemonDetached() error {
	if rt, err := daemon.PIDFile(flagDaemonPIDFile).Lookup(); err == nil {
		return fmt.Errorf("%w (pid %d)", daemon.ErrAlreadyRunning, rt.PID)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving executable: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	//nolint:gosec // log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening daemon log: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, append(withoutDetach(os.Args[1:]), "--child")...) //nolint:gosec // re-exec of this binary
	child.Stdout, child.Stderr = logf, logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("starting detached daemon: %w", err)
	}

	addr, _, _ := daemonSettings()
	pterm.Success.Printfln("Started daemon (pid %d)", child.Process.Pid)
	fmt.Printf("  API: http://%s/v1/status\n", addr)
	fmt.Printf("  PID file: %s\n", flagDaemonPIDFile)
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground() error {
	rng, err := selectedRange()
	if err != nil {
		return err
	}
	addr, interval, buffer := daemonSettings()

	pid := daemon.PIDFile(flagDaemonPIDFile)
	if err := pid.Acquire(daemon.Runtime{
		PID:       os.Getpid(),
		Addr:      addr,
		StartedAt: time.Now(),
		Range:     rng.String(),
	}); err != nil {
		return err
	}
	defer pid.Release()

	center := notify.NewCenter()
	center.Seed()
	svc := daemon.New(daemon.Config{
		Addr:         addr,
		Interval:     interval,
		EventsBuffer: buffer,
		Range:        rng,
	}, newBuilder(), center, appLog)

	fmt.Printf("  adpulse daemon listening on http://%s\n", addr)
	fmt.Printf("  Refreshing %s every %s\n", rng.String(), interval)
	fmt.Printf("  Stop with: adpulse daemon stop --pid-file %s\n", flagDaemonPIDFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	addr, rt, err := daemonAddr()
	switch {
	case errors.Is(err, daemon.ErrNotRunning) && rt.PID != 0:
		pterm.Warning.Printfln("Daemon: stale pid file removed (pid %d not alive)", rt.PID)
		return nil
	case errors.Is(err, daemon.ErrNotRunning):
		fmt.Println("  Daemon: not running")
		return nil
	case err != nil:
		return err
	}

	fmt.Printf("  Daemon PID: %d\n", rt.PID)
	fmt.Printf("  Address: http://%s\n", addr)
	if !rt.StartedAt.IsZero() {
		fmt.Printf("  Started: %s\n", rt.StartedAt.Local().Format(time.RFC3339))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := apiclient.New(addr).Status(ctx)
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Println("  Last poll: pending")
	} else {
		fmt.Printf("  Last poll: %s\n", st.LastPollAt.Local().Format(time.RFC3339))
	}
	sum := st.Summary
	fmt.Printf("  Poll count: %d every %ds\n", st.PollCount, st.PollIntervalSec)
	fmt.Printf("  Range: %s (%s)\n", st.Range, sum.RangeKind)
	fmt.Printf("  Revenue: %s (%s)\n", cli.FormatRupees(sum.Revenue), cli.FormatChange(sum.RevenueChange))
	fmt.Printf("  Campaigns: %d (%d active, avg ROI %s)\n", sum.Campaigns, sum.ActiveCampaigns, cli.FormatPercent(sum.AvgROI))
	if sum.ForecastPoints > 0 {
		fmt.Printf("  Forecast: %s over %d days\n", cli.FormatRupees(sum.ForecastTotal), sum.ForecastPoints)
	}
	fmt.Printf("  Events: %d buffered, %d subscribers\n", st.EventCount, st.SubscriberCount)
	fmt.Printf("  Unread notifications: %d\n", sum.Unread)
	return nil
}

func runDaemonEvents(_ *cobra.Command, _ []string) error {
	addr, _, _ := daemonAddr()
	events, err := apiclient.New(addr).Events(context.Background(), flagDaemonAfter)
	if err != nil {
		return fmt.Errorf("fetching events: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("  No events.")
		return nil
	}

	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{
			strconv.FormatInt(ev.ID, 10),
			ev.Timestamp.Local().Format(time.TimeOnly),
			ev.Type,
			eventDetail(ev),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Time", "Type", "Detail"},
		Rows:    rows,
	}))
	return nil
}

func eventDetail(ev daemon.Event) string {
	switch {
	case ev.Notification != nil && ev.Notification.Notification != nil:
		return string(ev.Notification.Type) + ": " + ev.Notification.Notification.Title
	case ev.Notification != nil:
		return string(ev.Notification.Type)
	case ev.Type == daemon.EventDelta:
		return fmt.Sprintf("revenue %+.0f, forecast %+.0f", ev.Delta.Revenue, ev.Delta.ForecastTotal)
	}
	return cli.FormatRupees(ev.Snapshot.Revenue)
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	pid, err := daemon.PIDFile(flagDaemonPIDFile).Stop(8 * time.Second)
	if err != nil {
		return err
	}
	pterm.Success.Printfln("Stopped daemon (pid %d)", pid)
	return nil
}
