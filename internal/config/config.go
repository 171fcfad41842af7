// Package config loads and saves adpulse configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/projection"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all adpulse configuration.
type Config struct {
	General    GeneralConfig     `toml:"general" yaml:"general" json:"general"`
	Projection projection.Config `toml:"projection" yaml:"projection" json:"projection"`
	TUI        TUIConfig         `toml:"tui" yaml:"tui" json:"tui"`
	Appearance AppearanceConfig  `toml:"appearance" yaml:"appearance" json:"appearance"`
	Daemon     DaemonConfig      `toml:"daemon" yaml:"daemon" json:"daemon"`
	Export     ExportConfig      `toml:"export" yaml:"export" json:"export"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultRange string `toml:"default_range" yaml:"default_range" json:"default_range"`
	Seed         uint64 `toml:"seed,omitempty" yaml:"seed,omitempty" json:"seed,omitempty"`
	LogLevel     string `toml:"log_level" yaml:"log_level" json:"log_level"`
}

// TUIConfig holds dashboard behaviour settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh" yaml:"auto_refresh" json:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec" yaml:"refresh_interval_sec" json:"refresh_interval_sec"`
	Animations         bool `toml:"animations" yaml:"animations" json:"animations"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" yaml:"theme" json:"theme"`
}

// DaemonConfig holds the background service settings.
type DaemonConfig struct {
	Addr         string `toml:"addr" yaml:"addr" json:"addr"`
	IntervalSec  int    `toml:"interval_sec" yaml:"interval_sec" json:"interval_sec"`
	EventsBuffer int    `toml:"events_buffer" yaml:"events_buffer" json:"events_buffer"`
}

// ExportConfig holds report export settings.
type ExportConfig struct {
	OutputDir string `toml:"output_dir,omitempty" yaml:"output_dir,omitempty" json:"output_dir,omitempty"`
}

// MinRefreshIntervalSec is the fastest allowed auto refresh.
const MinRefreshIntervalSec = 2

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultRange: string(model.RangeLast6Months),
			LogLevel:     "info",
		},
		Projection: projection.DefaultConfig(),
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 10,
			Animations:         true,
		},
		Appearance: AppearanceConfig{
			Theme: "system",
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			IntervalSec:  10,
			EventsBuffer: 200,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "adpulse")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "adpulse")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the default config file, returning defaults if it doesn't exist.
// Environment overrides are applied on top.
func Load() (Config, error) {
	cfg, err := LoadFile(ConfigPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	}
	ApplyEnv(&cfg)
	return cfg, nil
}

// LoadFile reads a TOML, YAML or JSON config file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml", "":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config file format: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config as TOML to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return f.Close()
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var problems []string

	if _, err := model.ParsePreset(c.General.DefaultRange); err != nil {
		problems = append(problems, err.Error())
	}
	p := c.Projection
	if p.Horizon < 1 || p.Horizon > 90 {
		problems = append(problems, fmt.Sprintf("projection horizon %d: must be between 1 and 90", p.Horizon))
	}
	if p.Window < 2 {
		problems = append(problems, fmt.Sprintf("projection window %d: must be at least 2", p.Window))
	}
	if p.Jitter.Min <= 0 || p.Jitter.Max < p.Jitter.Min {
		problems = append(problems, fmt.Sprintf("jitter bounds [%.2f, %.2f]: need 0 < min <= max", p.Jitter.Min, p.Jitter.Max))
	}
	if p.BlendWeight <= 0 || p.BlendWeight > 1 {
		problems = append(problems, fmt.Sprintf("blend weight %.2f: need 0 < weight <= 1", p.BlendWeight))
	}
	if c.TUI.RefreshIntervalSec < MinRefreshIntervalSec {
		problems = append(problems, fmt.Sprintf("refresh interval %ds: must be at least %ds", c.TUI.RefreshIntervalSec, MinRefreshIntervalSec))
	}
	if c.Daemon.Addr == "" {
		problems = append(problems, "daemon addr cannot be empty")
	}
	if c.Daemon.IntervalSec < 1 {
		problems = append(problems, fmt.Sprintf("daemon interval %ds: must be positive", c.Daemon.IntervalSec))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
