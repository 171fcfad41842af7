package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg from ADPULSE_* environment variables. Malformed
// numeric values are ignored.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("ADPULSE_RANGE"); v != "" {
		cfg.General.DefaultRange = v
	}
	if v := os.Getenv("ADPULSE_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.General.Seed = n
		}
	}
	if v := os.Getenv("ADPULSE_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
	if v := os.Getenv("ADPULSE_THEME"); v != "" {
		cfg.Appearance.Theme = v
	}
	if v := os.Getenv("ADPULSE_REFRESH_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TUI.RefreshIntervalSec = n
		}
	}
	if v := os.Getenv("ADPULSE_DAEMON_ADDR"); v != "" {
		cfg.Daemon.Addr = v
	}
	if v := os.Getenv("ADPULSE_EXPORT_DIR"); v != "" {
		cfg.Export.OutputDir = v
	}
}
