package cmd

import (
	"fmt"

	"github.com/admybrand/adpulse/internal/config"
	"github.com/admybrand/adpulse/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	path := config.ConfigPath()
	if flagConfig != "" {
		path = flagConfig
	}
	fmt.Printf("  Config file: %s\n", path)
	if flagConfig != "" || config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Settings store: %s\n", store.DefaultPath())
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default range: %s\n", cfg.General.DefaultRange)
	if cfg.General.Seed != 0 {
		fmt.Printf("    Seed:          %d\n", cfg.General.Seed)
	} else {
		fmt.Println("    Seed:          random per refresh")
	}
	fmt.Printf("    Log level:     %s\n", cfg.General.LogLevel)
	fmt.Println()

	p := cfg.Projection
	fmt.Println("  [Projection]")
	fmt.Printf("    Horizon:       %d days\n", p.Horizon)
	fmt.Printf("    Window:        %d points\n", p.Window)
	fmt.Printf("    Jitter:        %.2f to %.2f\n", p.Jitter.Min, p.Jitter.Max)
	fmt.Printf("    Seam blend:    %.2f\n", p.BlendWeight)
	fmt.Printf("    Trend rate:    %.3f\n", p.TrendRate)
	fmt.Printf("    Hide on past:  %v\n", p.SuppressHistorical)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto refresh:  %v every %ds\n", cfg.TUI.AutoRefresh, cfg.TUI.RefreshIntervalSec)
	fmt.Printf("    Animations:    %v\n", cfg.TUI.Animations)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval:      %ds\n", cfg.Daemon.IntervalSec)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Export]")
	if cfg.Export.OutputDir != "" {
		fmt.Printf("    Output dir: %s\n", cfg.Export.OutputDir)
	} else {
		fmt.Println("    Output dir: working directory")
	}
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Problems: %s\n\n", err)
	}

	fmt.Println("  Run `adpulse setup` to reconfigure.")
	return nil
}
