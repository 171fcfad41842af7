package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/admybrand/adpulse/internal/assistant"
	"github.com/admybrand/adpulse/internal/config"
	"github.com/admybrand/adpulse/internal/export"
	"github.com/admybrand/adpulse/internal/logging"
	"github.com/admybrand/adpulse/internal/notify"
	"github.com/admybrand/adpulse/internal/store"
	"github.com/admybrand/adpulse/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	r, err := selectedRange()
	if err != nil {
		return err
	}
	// An explicit --range wins; otherwise the saved default applies.
	if flagRange == "" && flagFrom == "" {
		r.Preset = ""
	}

	// The alt screen owns stderr, so the dashboard logs to a file.
	log, closeLog := tuiLogger()
	defer closeLog()

	var st *store.Store
	if s, err := store.Open(store.DefaultPath()); err != nil {
		log.Warn("settings store unavailable", "error", err)
	} else {
		st = s
		defer func() { _ = st.Close() }()
	}

	center := notify.NewCenter()
	center.Seed()

	b := newBuilder()
	b.Log = log.WithComponent(logging.ComponentPipeline)

	dir := appCfg.Export.OutputDir
	app := tui.NewApp(tui.Options{
		Builder:   b,
		Range:     r,
		Config:    appCfg,
		Store:     st,
		Center:    center,
		Exporter:  export.New(dir, center, log.WithComponent(logging.ComponentExport)),
		Log:       log,
		Delays:    assistant.DefaultDelays,
		NeedSetup: !config.Exists() && flagConfig == "",
	})
	unsubscribe := app.Subscribe()
	defer unsubscribe()

	// Force TrueColor so background fills render even when the profile
	// detection falls back to Ascii.
	if !flagNoColor {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func tuiLogger() (*logging.Logger, func()) {
	path := filepath.Join(filepath.Dir(store.DefaultPath()), "tui.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return logging.Discard(), func() {}
	}
	//nolint:gosec // log path is under the user's cache dir
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return logging.Discard(), func() {}
	}
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(appCfg.General.LogLevel)
	cfg.Output = f
	return logging.New(cfg), func() { _ = f.Close() }
}
