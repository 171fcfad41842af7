// Package cmd implements the adpulse CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/admybrand/adpulse/internal/config"
	"github.com/admybrand/adpulse/internal/logging"
	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/pipeline"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	flagRange   string
	flagFrom    string
	flagTo      string
	flagSeed    uint64
	flagQuiet   bool
	flagConfig  string
	flagEnvFile string
	flagNoColor bool
)

// Loaded once per invocation by loadRuntime.
var (
	appCfg config.Config
	appLog *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:               "adpulse",
	Short:             "Marketing analytics dashboard",
	Long:              "Campaign metrics, revenue trends with projections, and exports, on mock data.",
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagRange, "range", "r", "", "Date range preset (last30days, last6months, thisYear, lastYear, nextQuarter)")
	rootCmd.PersistentFlags().StringVar(&flagFrom, "from", "", "Custom range start (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flagTo, "to", "", "Custom range end (YYYY-MM-DD)")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "Fix the mock data seed (0 = config or random)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (toml, yaml or json)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Dotenv file loaded before ADPULSE_* overrides")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
}

// loadRuntime resolves .env, the config file and the logger for every
// command. config and setup still run on an invalid file so it can be fixed.
func loadRuntime(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(flagEnvFile); err != nil {
		return err
	}

	var err error
	if flagConfig != "" {
		appCfg, err = config.LoadFile(flagConfig)
		if err == nil {
			config.ApplyEnv(&appCfg)
		}
	} else {
		appCfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if flagSeed != 0 {
		appCfg.General.Seed = flagSeed
	}
	if cmd != configCmd && cmd != setupCmd {
		if err := appCfg.Validate(); err != nil {
			return err
		}
	}

	if flagNoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(appCfg.General.LogLevel)
	appLog = logging.New(logCfg)
	logging.SetDefault(appLog)
	return nil
}

// selectedRange resolves --from/--to, then --range, then the configured default.
func selectedRange() (model.DateRange, error) {
	if flagFrom != "" || flagTo != "" {
		if flagFrom == "" || flagTo == "" {
			return model.DateRange{}, errors.New("--from and --to must be given together")
		}
		from, err := time.ParseInLocation(time.DateOnly, flagFrom, time.Local)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("parsing --from: %w", err)
		}
		to, err := time.ParseInLocation(time.DateOnly, flagTo, time.Local)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("parsing --to: %w", err)
		}
		return model.Custom(from, to), nil
	}

	name := flagRange
	if name == "" {
		name = appCfg.General.DefaultRange
	}
	p, err := model.ParsePreset(name)
	if err != nil {
		return model.DateRange{}, err
	}
	if p == model.RangeCustom {
		return model.DateRange{}, errors.New("custom range needs --from and --to")
	}
	return model.DateRange{Preset: p}, nil
}

func newBuilder() *pipeline.Builder {
	b := pipeline.NewBuilder(appCfg.General.Seed)
	b.Projection = appCfg.Projection
	b.Log = appLog.WithComponent(logging.ComponentPipeline)
	return b
}

// loadDashboard is the shared data path used by the reporting commands.
func loadDashboard() (model.Dashboard, error) {
	r, err := selectedRange()
	if err != nil {
		return model.Dashboard{}, err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Generating dashboard data...\n")
	}
	start := time.Now()
	d := newBuilder().Build(r)
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Built %d campaigns and %d revenue points in %s\n",
			len(d.Campaigns), len(d.Revenue), time.Since(start).Round(time.Millisecond))
	}
	return d, nil
}
