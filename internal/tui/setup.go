package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/admybrand/adpulse/internal/config"
	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues is bound to the first-run form fields.
type SetupValues struct {
	Range       string
	Theme       string
	AutoRefresh bool
	Seed        string
}

// NewSetupValues prefills the form from an existing config.
func NewSetupValues(cfg config.Config) *SetupValues {
	v := &SetupValues{
		Range:       cfg.General.DefaultRange,
		Theme:       cfg.Appearance.Theme,
		AutoRefresh: cfg.TUI.AutoRefresh,
	}
	if cfg.General.Seed != 0 {
		v.Seed = strconv.FormatUint(cfg.General.Seed, 10)
	}
	if v.Theme == "" {
		v.Theme = theme.PreferenceSystem
	}
	return v
}

// NewSetupForm builds the huh form used by the TUI and `adpulse setup`.
func NewSetupForm(v *SetupValues) *huh.Form {
	var rangeOpts []huh.Option[string]
	for _, p := range model.Presets {
		if p == model.RangeCustom {
			continue
		}
		rangeOpts = append(rangeOpts, huh.NewOption(p.Label(), string(p)))
	}

	var themeOpts []huh.Option[string]
	for _, pref := range theme.Preferences {
		themeOpts = append(themeOpts, huh.NewOption(pref, pref))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to adpulse").
				Description("A few defaults for the dashboard. Run `adpulse setup` anytime to change them."),
			huh.NewSelect[string]().
				Title("Default date range").
				Options(rangeOpts...).
				Value(&v.Range),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
			huh.NewConfirm().
				Title("Refresh the dashboard automatically?").
				Affirmative("Yes").
				Negative("No").
				Value(&v.AutoRefresh),
			huh.NewInput().
				Title("Mock data seed").
				Description("Blank regenerates data on every refresh.").
				Placeholder("e.g. 42").
				Validate(validateSeed).
				Value(&v.Seed),
		),
	).WithShowHelp(true)
}

func validateSeed(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseUint(s, 10, 64); err != nil {
		return fmt.Errorf("seed must be a non-negative integer")
	}
	return nil
}

// Apply copies the form answers into cfg.
func (v *SetupValues) Apply(cfg *config.Config) error {
	if _, err := model.ParsePreset(v.Range); err != nil {
		return err
	}
	if err := validateSeed(v.Seed); err != nil {
		return err
	}

	cfg.General.DefaultRange = v.Range
	cfg.Appearance.Theme = v.Theme
	cfg.TUI.AutoRefresh = v.AutoRefresh
	cfg.General.Seed = 0
	if s := strings.TrimSpace(v.Seed); s != "" {
		cfg.General.Seed, _ = strconv.ParseUint(s, 10, 64)
	}
	return nil
}
