package tui

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/admybrand/adpulse/internal/config"
	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/store"
	"github.com/admybrand/adpulse/internal/tui/components"
	"github.com/admybrand/adpulse/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingTheme = iota
	settingRange
	settingAutoRefresh
	settingInterval
	settingAnimations
	settingCount
)

var settingLabels = [settingCount]string{
	"Theme",
	"Default range",
	"Auto refresh",
	"Refresh interval",
	"Animations",
}

type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

type settingsSavedMsg struct {
	err error
}

func (a App) saveSettingsCmd() tea.Cmd {
	st := a.opts.Store
	prefs := a.prefs
	return func() tea.Msg {
		if st == nil {
			return settingsSavedMsg{}
		}
		return settingsSavedMsg{err: st.SaveSettings(context.Background(), prefs)}
	}
}

// nextOf returns the element after cur, wrapping; unknown values start over.
func nextOf(list []string, cur string) string {
	i := slices.Index(list, cur)
	return list[(i+1)%len(list)]
}

func (a App) updateSettingsKey(key string) (App, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.settings.cursor = min(a.settings.cursor+1, settingCount-1)
		return a, nil, true
	case "k", "up":
		a.settings.cursor = max(a.settings.cursor-1, 0)
		return a, nil, true
	case "enter", " ":
	default:
		return a, nil, false
	}

	a.settings.saved = false
	switch a.settings.cursor {
	case settingTheme:
		a.prefs.ThemePreference = nextOf(theme.Preferences, a.prefs.ThemePreference)
		theme.SetActive(a.prefs.ThemePreference)
	case settingRange:
		cur, _ := model.ParsePreset(a.prefs.DefaultDateRange)
		next := cyclePreset(cur, true)
		a.prefs.DefaultDateRange = string(next)
		a.rng = model.DateRange{Preset: next}
		a.refreshing = true
		return a, tea.Batch(a.saveSettingsCmd(), buildCmd(a.opts.Builder, a.rng)), true
	case settingAutoRefresh:
		a.autoRefresh = !a.autoRefresh
		a.prefs.AutoRefreshEnabled = a.autoRefresh
	case settingInterval:
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 4
		ti.Width = 8
		ti.SetValue(strconv.Itoa(a.prefs.AutoRefreshIntervalSec))
		ti.Focus()
		a.settings.input = ti
		a.settings.editing = true
		return a, textinput.Blink, true
	case settingAnimations:
		a.prefs.AnimationsEnabled = !a.prefs.AnimationsEnabled
	}
	return a, a.saveSettingsCmd(), true
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.settings.editing = false
		return a, nil
	case "enter":
		secs, err := strconv.Atoi(strings.TrimSpace(a.settings.input.Value()))
		if err != nil || secs < config.MinRefreshIntervalSec {
			a.flash = fmt.Sprintf("Interval must be a whole number of seconds, at least %d", config.MinRefreshIntervalSec)
			return a, nil
		}
		a.settings.editing = false
		a.settings.saved = false
		a.prefs.AutoRefreshIntervalSec = secs
		a.refreshInterval = time.Duration(secs) * time.Second
		return a, a.saveSettingsCmd()
	}
	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (a App) settingValue(i int) string {
	switch i {
	case settingTheme:
		if a.prefs.ThemePreference == theme.PreferenceSystem {
			return fmt.Sprintf("system (%s)", theme.Active.Name)
		}
		return a.prefs.ThemePreference
	case settingRange:
		if p, err := model.ParsePreset(a.prefs.DefaultDateRange); err == nil {
			return p.Label()
		}
		return a.prefs.DefaultDateRange
	case settingAutoRefresh:
		return onOff(a.autoRefresh)
	case settingInterval:
		if a.settings.editing {
			return a.settings.input.View()
		}
		return fmt.Sprintf("%ds", a.prefs.AutoRefreshIntervalSec)
	case settingAnimations:
		return onOff(a.prefs.AnimationsEnabled)
	}
	return ""
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	for i := range settingCount {
		bg := t.Surface
		marker := "  "
		if i == a.settings.cursor {
			bg = t.SurfaceHover
			marker = "▸ "
		}
		row := lipgloss.NewStyle().Foreground(t.Accent).Background(bg).Render(marker) +
			lipgloss.NewStyle().Foreground(t.TextMuted).Background(bg).Width(20).Render(settingLabels[i]) +
			lipgloss.NewStyle().Foreground(t.TextPrimary).Background(bg).Render(a.settingValue(i))
		b.WriteString(lipgloss.NewStyle().Background(bg).Width(inner).Render(row))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	switch {
	case a.settings.saveErr != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).
			Render("Could not save: " + a.settings.saveErr.Error()))
	case a.settings.saved && a.opts.Store != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Render("Saved"))
	case a.opts.Store == nil:
		b.WriteString(dimStyle.Render("Settings store unavailable; changes last for this session"))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("[j/k] move  [enter] change  [esc] cancel edit"))
	prefsCard := components.ContentCard("Dashboard Settings", b.String(), cw)

	pc := a.opts.Builder.Projection
	seed := "random per refresh"
	if a.opts.Builder.Seed != 0 {
		seed = strconv.FormatUint(a.opts.Builder.Seed, 10)
	}
	info := []struct{ k, v string }{
		{"Config file", config.ConfigPath()},
		{"Settings store", store.DefaultPath()},
		{"Data seed", seed},
		{"Projection", fmt.Sprintf("horizon %d, window %d", pc.Horizon, pc.Window)},
		{"Jitter", fmt.Sprintf("%.2f to %.2f", pc.Jitter.Min, pc.Jitter.Max)},
		{"Seam blend", fmt.Sprintf("%.2f of last actual", pc.BlendWeight)},
	}
	var ib strings.Builder
	for i, kv := range info {
		if i > 0 {
			ib.WriteString("\n")
		}
		ib.WriteString(labelStyle.Width(18).Render(kv.k))
		ib.WriteString(valueStyle.Render(kv.v))
	}
	infoCard := components.ContentCard("About", ib.String(), cw)

	return prefsCard + "\n" + infoCard
}
