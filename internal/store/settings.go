package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/admybrand/adpulse/internal/model"
)

const (
	// SettingsKey holds the dashboard settings blob.
	SettingsKey = "dashboard-settings"
	// SelectionKey holds the last campaign selection.
	SelectionKey = "campaign-selection"
)

// ErrCorrupt is returned alongside defaults when a stored value cannot be decoded.
var ErrCorrupt = errors.New("corrupt stored value")

// Settings are the user-adjustable dashboard preferences.
type Settings struct {
	AnimationsEnabled      bool   `json:"animationsEnabled"`
	DefaultDateRange       string `json:"defaultDateRange"`
	AutoRefreshEnabled     bool   `json:"autoRefreshEnabled"`
	AutoRefreshIntervalSec int    `json:"autoRefreshIntervalSec"`
	ThemePreference        string `json:"themePreference"`
}

// DefaultSettings returns the factory preferences.
func DefaultSettings() Settings {
	return Settings{
		AnimationsEnabled:      true,
		DefaultDateRange:       string(model.RangeLast6Months),
		AutoRefreshEnabled:     true,
		AutoRefreshIntervalSec: 10,
		ThemePreference:        "system",
	}
}

// normalize replaces out-of-range fields with defaults.
func (s Settings) normalize() Settings {
	d := DefaultSettings()
	if _, err := model.ParsePreset(s.DefaultDateRange); err != nil {
		s.DefaultDateRange = d.DefaultDateRange
	}
	if s.AutoRefreshIntervalSec < 2 {
		s.AutoRefreshIntervalSec = d.AutoRefreshIntervalSec
	}
	if s.ThemePreference == "" {
		s.ThemePreference = d.ThemePreference
	}
	return s
}

// LoadSettings returns the stored settings merged over defaults. A missing
// entry yields defaults; an undecodable one yields defaults and ErrCorrupt.
func (s *Store) LoadSettings(ctx context.Context) (Settings, error) {
	out := DefaultSettings()
	raw, err := s.Get(ctx, SettingsKey)
	if errors.Is(err, ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return DefaultSettings(), fmt.Errorf("%w: %s: %v", ErrCorrupt, SettingsKey, err)
	}
	return out.normalize(), nil
}

// SaveSettings stores settings.
func (s *Store) SaveSettings(ctx context.Context, st Settings) error {
	data, err := json.Marshal(st.normalize())
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return s.Set(ctx, SettingsKey, string(data))
}

// LoadSelection returns the stored campaign IDs, or nil.
func (s *Store) LoadSelection(ctx context.Context) ([]string, error) {
	raw, err := s.Get(ctx, SelectionKey)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, SelectionKey, err)
	}
	return ids, nil
}

// SaveSelection stores campaign IDs. An empty selection clears the key.
func (s *Store) SaveSelection(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return s.Delete(ctx, SelectionKey)
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encoding selection: %w", err)
	}
	return s.Set(ctx, SelectionKey, string(data))
}
