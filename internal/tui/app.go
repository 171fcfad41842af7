// Package tui provides the interactive Bubble Tea dashboard for adpulse.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/admybrand/adpulse/internal/assistant"
	"github.com/admybrand/adpulse/internal/config"
	"github.com/admybrand/adpulse/internal/export"
	"github.com/admybrand/adpulse/internal/logging"
	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/notify"
	"github.com/admybrand/adpulse/internal/pipeline"
	"github.com/admybrand/adpulse/internal/store"
	"github.com/admybrand/adpulse/internal/tui/components"
	"github.com/admybrand/adpulse/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Options wires the dashboard to its collaborators. Store may be nil, in
// which case settings live for the session only.
type Options struct {
	Builder   *pipeline.Builder
	Range     model.DateRange
	Config    config.Config
	Store     *store.Store
	Center    *notify.Center
	Exporter  *export.Exporter
	Log       *logging.Logger
	Delays    assistant.Delays
	NeedSetup bool
}

// dashboardMsg carries a freshly built dashboard.
type dashboardMsg struct {
	dash    model.Dashboard
	elapsed time.Duration
}

// notifyMsg relays a notification center change.
type notifyMsg struct{ change notify.Change }

type tickMsg struct{}

// App is the root Bubble Tea model.
type App struct {
	opts Options
	log  *logging.Logger

	// Data
	dash      model.Dashboard
	loaded    bool
	buildTime time.Duration
	rng       model.DateRange

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	flash     string
	unread    int

	// Per-tab state
	camp     campaignsState
	chat     chatState
	alerts   alertsState
	settings settingsState
	prefs    store.Settings

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	spinner  spinner.Model
	notifyCh <-chan notify.Change
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5

	refreshNote = "Projection generated using past 30 days of campaign data."
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	if opts.Builder == nil {
		opts.Builder = pipeline.NewBuilder(opts.Config.General.Seed)
	}
	if opts.Center == nil {
		opts.Center = notify.NewCenter()
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	log := opts.Log.WithComponent(logging.ComponentTUI)

	prefs := loadPrefs(opts, log)
	theme.SetActive(prefs.ThemePreference)

	rng := opts.Range
	if rng.Preset == "" {
		if p, err := model.ParsePreset(prefs.DefaultDateRange); err == nil {
			rng = model.DateRange{Preset: p}
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		opts:            opts,
		log:             log,
		rng:             rng,
		prefs:           prefs,
		autoRefresh:     prefs.AutoRefreshEnabled,
		refreshInterval: time.Duration(prefs.AutoRefreshIntervalSec) * time.Second,
		spinner:         sp,
		needSetup:       opts.NeedSetup,
		camp:            newCampaignsState(),
		chat:            newChatState(opts.Delays),
		unread:          opts.Center.UnreadCount(),
	}
	if opts.Store != nil {
		ids, err := opts.Store.LoadSelection(context.Background())
		if err != nil {
			log.Warn("loading campaign selection", "error", err)
		}
		for _, id := range ids {
			a.camp.selected[id] = true
		}
	}
	if a.needSetup {
		a.setupVals = NewSetupValues(opts.Config)
		a.setupForm = NewSetupForm(a.setupVals)
	}
	return a
}

// loadPrefs reads persisted settings, seeding defaults from the config file.
func loadPrefs(opts Options, log *logging.Logger) store.Settings {
	prefs := store.DefaultSettings()
	prefs.AnimationsEnabled = opts.Config.TUI.Animations
	prefs.AutoRefreshEnabled = opts.Config.TUI.AutoRefresh
	if opts.Config.TUI.RefreshIntervalSec >= config.MinRefreshIntervalSec {
		prefs.AutoRefreshIntervalSec = opts.Config.TUI.RefreshIntervalSec
	}
	if opts.Config.General.DefaultRange != "" {
		prefs.DefaultDateRange = opts.Config.General.DefaultRange
	}
	if opts.Config.Appearance.Theme != "" {
		prefs.ThemePreference = opts.Config.Appearance.Theme
	}
	if opts.Store == nil {
		return prefs
	}

	ctx := context.Background()
	if _, err := opts.Store.Get(ctx, store.SettingsKey); errors.Is(err, store.ErrNotFound) {
		return prefs
	}
	stored, err := opts.Store.LoadSettings(ctx)
	if err != nil {
		log.Warn("loading settings, using defaults", "error", err)
		return prefs
	}
	return stored
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		buildCmd(a.opts.Builder, a.rng),
		a.spinner.Tick,
		tickCmd(),
	}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// Subscribe attaches the app to the notification center. It must be called
// before the program starts; the returned func detaches it.
func (a *App) Subscribe() func() {
	ch, cancel := a.opts.Center.Subscribe(16)
	a.notifyCh = ch
	return cancel
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case dashboardMsg:
		first := !a.loaded
		a.dash = msg.dash
		a.loaded = true
		a.refreshing = false
		a.buildTime = msg.elapsed
		a.lastRefresh = time.Now()
		a.camp.clamp(len(a.visibleCampaigns()))
		a.log.Debug("dashboard refreshed", "range", msg.dash.Range.String(), "elapsed_ms", msg.elapsed.Milliseconds())
		if first && a.notifyCh != nil {
			return a, waitForChange(a.notifyCh)
		}
		return a, nil

	case notifyMsg:
		a.unread = msg.change.Unread
		a.alerts.clamp(len(a.opts.Center.List()))
		return a, waitForChange(a.notifyCh)

	case chatReplyMsg:
		return a.handleChatReply(msg)

	case exportDoneMsg:
		if msg.err != nil {
			a.flash = "Export failed: " + msg.err.Error()
		} else {
			a.flash = "Saved " + msg.path
		}
		return a, nil

	case settingsSavedMsg:
		a.settings.saveErr = msg.err
		a.settings.saved = msg.err == nil
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.chat.waiting {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && time.Since(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, buildCmd(a.opts.Builder, a.rng))
		}
		return a, tea.Batch(cmds...)
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.chat.focused {
		var cmd tea.Cmd
		a.chat.input, cmd = a.chat.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if !a.loaded {
		return a, nil
	}

	// Text inputs intercept all keys while focused.
	switch {
	case a.activeTab == components.TabCampaigns && a.camp.searching:
		return a.updateCampaignSearch(msg)
	case a.activeTab == components.TabAssistant && a.chat.focused:
		return a.updateChatInput(msg)
	case a.activeTab == components.TabSettings && a.settings.editing:
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.flash = ""

	var (
		handled bool
		cmd     tea.Cmd
	)
	switch a.activeTab {
	case components.TabCampaigns:
		a, cmd, handled = a.updateCampaignsKey(key)
	case components.TabAssistant:
		a, cmd, handled = a.updateChatKey(key)
	case components.TabAlerts:
		a, cmd, handled = a.updateAlertsKey(key)
	case components.TabSettings:
		a, cmd, handled = a.updateSettingsKey(key)
	}
	if handled {
		return a, cmd
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, buildCmd(a.opts.Builder, a.rng)
		}
		return a, nil
	case "R":
		a.autoRefresh = !a.autoRefresh
		a.prefs.AutoRefreshEnabled = a.autoRefresh
		return a, a.saveSettingsCmd()
	case "[", "]":
		a.rng = model.DateRange{Preset: cyclePreset(a.rng.Preset, key == "]")}
		a.refreshing = true
		return a, buildCmd(a.opts.Builder, a.rng)
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		switch a.activeTab {
		case components.TabCampaigns:
			a.camp.move(-1, len(a.visibleCampaigns()))
		case components.TabAlerts:
			a.alerts.move(-1, len(a.opts.Center.List()))
		}
	case tea.MouseButtonWheelDown:
		switch a.activeTab {
		case components.TabCampaigns:
			a.camp.move(1, len(a.visibleCampaigns()))
		case components.TabAlerts:
			a.alerts.move(1, len(a.opts.Center.List()))
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg := a.opts.Config
		if err := a.setupVals.Apply(&cfg); err != nil {
			a.flash = "Setup: " + err.Error()
		} else if err := config.Save(cfg); err != nil {
			a.flash = "Saving config: " + err.Error()
		}
		a.opts.Config = cfg
		a.opts.Builder.Seed = cfg.General.Seed
		a.prefs.ThemePreference = cfg.Appearance.Theme
		a.prefs.DefaultDateRange = cfg.General.DefaultRange
		a.prefs.AutoRefreshEnabled = cfg.TUI.AutoRefresh
		a.autoRefresh = cfg.TUI.AutoRefresh
		theme.SetActive(cfg.Appearance.Theme)
		if p, err := model.ParsePreset(cfg.General.DefaultRange); err == nil {
			a.rng = model.DateRange{Preset: p}
		}
		a.setupForm = nil
		a.needSetup = false
		a.refreshing = true
		return a, tea.Batch(a.saveSettingsCmd(), buildCmd(a.opts.Builder, a.rng))
	case huh.StateAborted:
		a.setupForm = nil
		a.needSetup = false
		return a, nil
	}

	return a, cmd
}

// cyclePreset steps through the preset ranges, skipping custom.
func cyclePreset(p model.RangePreset, forward bool) model.RangePreset {
	presets := make([]model.RangePreset, 0, len(model.Presets))
	for _, q := range model.Presets {
		if q != model.RangeCustom {
			presets = append(presets, q)
		}
	}
	idx := 0
	for i, q := range presets {
		if q == p {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(presets)
	} else {
		idx = (idx - 1 + len(presets)) % len(presets)
	}
	return presets[idx]
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  adpulse needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ adpulse"))
	b.WriteString(subtitleStyle.Render(" · ADmyBRAND Insights"))
	b.WriteString("\n\n")
	if a.prefs.AnimationsEnabled {
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" "))
	}
	b.WriteString(subtitleStyle.Render("Loading " + a.rng.Preset.Label() + "…"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o c a l x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Navigate lists"},
			{"[ ]", "Previous / Next date range"},
		}},
		{"Campaigns", [][2]string{
			{"/", "Search by name"},
			{"f s S", "Status filter / Sort / Reverse"},
			{"Space A", "Select / Select all"},
			{"Enter", "Details drawer"},
			{"e p J", "Export CSV / PDF / JSON"},
		}},
		{"General", [][2]string{
			{"r", "Refresh data"},
			{"R", "Toggle auto-refresh"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	badges := map[int]string{}
	if a.unread > 0 {
		badges[components.TabAlerts] = fmt.Sprintf(" (%d)", a.unread)
	}
	header := components.RenderTabBar(a.activeTab, w, badges)

	statusBar := components.RenderStatusBar(w, components.StatusInfo{
		Range:       a.dash.Range.Preset.Label(),
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
		Interval:    a.refreshInterval,
		Age:         time.Since(a.lastRefresh),
		Unread:      a.unread,
		Flash:       a.flash,
	})

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case components.TabOverview:
		content = a.renderOverviewTab(cw)
	case components.TabCampaigns:
		content = a.renderCampaignsTab(cw, contentH)
	case components.TabAssistant:
		content = a.renderAssistantTab(cw, contentH)
	case components.TabAlerts:
		content = a.renderAlertsTab(cw)
	case components.TabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// buildCmd rebuilds the dashboard in the background.
func buildCmd(b *pipeline.Builder, r model.DateRange) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		d := b.Build(r)
		return dashboardMsg{dash: d, elapsed: time.Since(start)}
	}
}

// waitForChange blocks until the next notification center change.
func waitForChange(ch <-chan notify.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return notifyMsg{change: c}
	}
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes mirror RenderTabBar: tabs separated by one column.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if i == components.TabAlerts && a.unread > 0 {
			tabW += lipgloss.Width(fmt.Sprintf(" (%d)", a.unread))
		}
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
