package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/admybrand/adpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar reports.
type StatusInfo struct {
	Range       string
	Refreshing  bool
	AutoRefresh bool
	Interval    time.Duration
	Age         time.Duration
	Unread      int
	Flash       string // transient message, e.g. an export path
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)

	left := base.Render(" [?]help  [q]uit")
	if info.Flash != "" {
		left += base.Render("  ") + accent.Render(info.Flash)
	}

	var right []string
	if info.Unread > 0 {
		right = append(right, warn.Render(fmt.Sprintf("● %d unread", info.Unread)))
	}
	if info.Range != "" {
		right = append(right, base.Render(info.Range))
	}
	switch {
	case info.Refreshing:
		right = append(right, accent.Render("refreshing…"))
	case info.AutoRefresh:
		right = append(right, base.Render(fmt.Sprintf("auto %s · %ds ago", info.Interval, int(info.Age.Seconds()))))
	default:
		right = append(right, base.Render("auto refresh off"))
	}
	r := strings.Join(right, base.Render("  ")) + base.Render(" ")

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(r))
	return left + base.Render(strings.Repeat(" ", padding)) + r
}
