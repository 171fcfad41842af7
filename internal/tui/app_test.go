package tui

import (
	"testing"
	"time"

	"github.com/admybrand/adpulse/internal/config"
	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/notify"
	"github.com/admybrand/adpulse/internal/pipeline"
	"github.com/admybrand/adpulse/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
)

var fixedNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.Local)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enterKey = tea.KeyMsg{Type: tea.KeyEnter}

// loadedApp returns an app that has received its first dashboard build.
func loadedApp(t *testing.T) App {
	t.Helper()
	b := pipeline.NewBuilder(42)
	b.Now = func() time.Time { return fixedNow }

	a := NewApp(Options{
		Builder: b,
		Config:  config.DefaultConfig(),
		Range:   model.DateRange{Preset: model.RangeLast30Days},
	})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	m, _ = m.(App).Update(buildCmd(b, a.rng)())
	a = m.(App)
	if !a.loaded {
		t.Fatal("app not loaded after dashboardMsg")
	}
	return a
}

func press(t *testing.T, a App, keys ...tea.KeyMsg) (App, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var m tea.Model
		m, cmd = a.Update(k)
		a = m.(App)
	}
	return a, cmd
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0
		for i := 0; i < n; i++ {
			w := components.TabVisualWidth(components.Tabs[i], i == active)
			x := pos + w/2
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w + 1
		}
	}
}

func TestDashboardLoad(t *testing.T) {
	a := loadedApp(t)
	if got := len(a.dash.Campaigns); got != 15 {
		t.Fatalf("campaigns = %d, want 15", got)
	}
	if !a.dash.Revenue.HasProjection() {
		t.Fatal("last 30 days should carry a projection")
	}
	if v := a.View(); v == "" {
		t.Fatal("empty view after load")
	}
}

func TestRangeCycling(t *testing.T) {
	a := loadedApp(t)

	a, cmd := press(t, a, runeKey("]"))
	if a.rng.Preset != model.RangeLast6Months {
		t.Fatalf("preset = %s, want %s", a.rng.Preset, model.RangeLast6Months)
	}
	if cmd == nil || !a.refreshing {
		t.Fatal("range change should trigger a rebuild")
	}

	if got := cyclePreset(model.RangeLast30Days, false); got != model.RangeNextQuarter {
		t.Fatalf("backwards from first = %s, want %s", got, model.RangeNextQuarter)
	}
	if got := cyclePreset(model.RangeNextQuarter, true); got != model.RangeLast30Days {
		t.Fatalf("forward from last = %s, want wrap to %s", got, model.RangeLast30Days)
	}
}

func TestCampaignFilterAndSelection(t *testing.T) {
	a := loadedApp(t)
	a.activeTab = components.TabCampaigns

	a, _ = press(t, a, runeKey("f"))
	want := a.camp.statusFilter()
	if want == "" {
		t.Fatal("status filter not applied")
	}
	for _, c := range a.visibleCampaigns() {
		if c.Status != want {
			t.Fatalf("campaign %q has status %s under filter %s", c.Name, c.Status, want)
		}
	}

	// Clear the filter and sort ascending by ROI.
	for a.camp.statusIdx != 0 {
		a, _ = press(t, a, runeKey("f"))
	}
	a, _ = press(t, a, runeKey("S"))
	vis := a.visibleCampaigns()
	for i := 1; i < len(vis); i++ {
		if vis[i-1].ROI > vis[i].ROI {
			t.Fatalf("not ascending by ROI at %d: %.1f > %.1f", i, vis[i-1].ROI, vis[i].ROI)
		}
	}

	a, _ = press(t, a, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	ids := a.camp.selectedIDs()
	if len(ids) != 1 || ids[0] != vis[0].ID {
		t.Fatalf("selection = %v, want [%s]", ids, vis[0].ID)
	}
	a, _ = press(t, a, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if len(a.camp.selectedIDs()) != 0 {
		t.Fatal("second space should deselect")
	}
}

func TestSettingsToggles(t *testing.T) {
	a := loadedApp(t)
	a.activeTab = components.TabSettings

	before := a.prefs.AnimationsEnabled
	a, cmd := press(t, a, runeKey("j"), runeKey("j"), runeKey("j"), runeKey("j"), enterKey)
	if a.settings.cursor != settingAnimations {
		t.Fatalf("cursor = %d, want %d", a.settings.cursor, settingAnimations)
	}
	if a.prefs.AnimationsEnabled == before {
		t.Fatal("animations not toggled")
	}
	if cmd == nil {
		t.Fatal("toggle should save settings")
	}
	if msg, ok := cmd().(settingsSavedMsg); !ok || msg.err != nil {
		t.Fatalf("save msg = %#v", msg)
	}

	a, _ = press(t, a, runeKey("k"), runeKey("k"), enterKey)
	if a.settings.cursor != settingAutoRefresh || a.autoRefresh != a.prefs.AutoRefreshEnabled {
		t.Fatal("auto refresh toggle out of sync")
	}
}

func TestSettingsIntervalEdit(t *testing.T) {
	a := loadedApp(t)
	a.activeTab = components.TabSettings
	a.settings.cursor = settingInterval

	a, _ = press(t, a, enterKey)
	if !a.settings.editing {
		t.Fatal("enter should open the interval editor")
	}

	a.settings.input.SetValue("1")
	a, _ = press(t, a, enterKey)
	if !a.settings.editing || a.flash == "" {
		t.Fatal("interval below minimum should be rejected")
	}

	a.settings.input.SetValue("5")
	a, _ = press(t, a, enterKey)
	if a.settings.editing {
		t.Fatal("editor should close after a valid interval")
	}
	if a.refreshInterval != 5*time.Second || a.prefs.AutoRefreshIntervalSec != 5 {
		t.Fatalf("interval = %s / %d", a.refreshInterval, a.prefs.AutoRefreshIntervalSec)
	}
}

func TestAlertsTab(t *testing.T) {
	a := loadedApp(t)
	a.opts.Center.Seed()
	a.unread = a.opts.Center.UnreadCount()
	a.activeTab = components.TabAlerts

	a, _ = press(t, a, enterKey)
	if a.unread != 2 {
		t.Fatalf("unread = %d, want 2", a.unread)
	}
	a, _ = press(t, a, runeKey("A"))
	if a.unread != 0 {
		t.Fatalf("unread after mark all = %d", a.unread)
	}
	a, _ = press(t, a, runeKey("d"))
	if got := len(a.opts.Center.List()); got != 2 {
		t.Fatalf("items after delete = %d, want 2", got)
	}
	a, _ = press(t, a, runeKey("C"))
	if got := len(a.opts.Center.List()); got != 0 {
		t.Fatalf("items after clear = %d", got)
	}
}

func TestNotifyMsgUpdatesBadge(t *testing.T) {
	a := loadedApp(t)
	m, _ := a.Update(notifyMsg{change: notify.Change{Unread: 4}})
	if got := m.(App).unread; got != 4 {
		t.Fatalf("unread = %d, want 4", got)
	}
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	v := NewSetupValues(cfg)
	v.Range = string(model.RangeThisYear)
	v.Theme = "light"
	v.AutoRefresh = false
	v.Seed = " 7 "
	if err := v.Apply(&cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.General.DefaultRange != "thisYear" || cfg.Appearance.Theme != "light" || cfg.TUI.AutoRefresh || cfg.General.Seed != 7 {
		t.Fatalf("cfg = %+v", cfg)
	}

	v.Seed = "-1"
	if err := v.Apply(&cfg); err == nil {
		t.Fatal("negative seed accepted")
	}
	v.Seed = ""
	v.Range = "forever"
	if err := v.Apply(&cfg); err == nil {
		t.Fatal("unknown range accepted")
	}
}
