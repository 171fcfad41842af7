package components

import (
	"strings"

	"github.com/admybrand/adpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o', KeyPos: 0},
	{Name: "Campaigns", Key: 'c', KeyPos: 0},
	{Name: "Assistant", Key: 'a', KeyPos: 0},
	{Name: "Alerts", Key: 'l', KeyPos: 1},
	{Name: "Settings", Key: 'x', KeyPos: -1},
}

// Tab indexes.
const (
	TabOverview = iota
	TabCampaigns
	TabAssistant
	TabAlerts
	TabSettings
)

func renderTab(tab Tab, active bool, badge string) string {
	t := theme.Active
	pad := lipgloss.NewStyle().Background(t.Surface)

	if active {
		s := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
		return s.Render(" " + tab.Name + badge + " ")
	}

	name := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Underline(true)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var body string
	if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
		body = name.Render(tab.Name[:tab.KeyPos]) +
			key.Render(tab.Name[tab.KeyPos:tab.KeyPos+1]) +
			name.Render(tab.Name[tab.KeyPos+1:])
	} else {
		body = name.Render(tab.Name) + dim.Render("[") + key.Render(string(tab.Key)) + dim.Render("]")
	}
	return pad.Render(" ") + body + name.Render(badge) + pad.Render(" ")
}

// TabVisualWidth returns the rendered width of a tab without badge.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active, ""))
}

// RenderTabBar renders the tab bar. badges maps tab index to a suffix such
// as an unread count.
func RenderTabBar(activeIdx, width int, badges map[int]string) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		parts = append(parts, renderTab(tab, i == activeIdx, badges[i]))
	}
	bar := strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(bar)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
