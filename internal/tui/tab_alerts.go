package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/admybrand/adpulse/internal/notify"
	"github.com/admybrand/adpulse/internal/tui/components"
	"github.com/admybrand/adpulse/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// alertsState holds the notification list cursor.
type alertsState struct {
	cursor int
}

func (s *alertsState) move(delta, n int) {
	s.cursor += delta
	s.clamp(n)
}

func (s *alertsState) clamp(n int) {
	s.cursor = max(0, min(s.cursor, n-1))
}

func (a App) updateAlertsKey(key string) (App, tea.Cmd, bool) {
	c := a.opts.Center
	items := c.List()

	switch key {
	case "j", "down":
		a.alerts.move(1, len(items))
	case "k", "up":
		a.alerts.move(-1, len(items))
	case "enter", " ":
		if len(items) > 0 {
			c.MarkRead(items[a.alerts.cursor].ID)
		}
	case "A":
		c.MarkAllRead()
	case "d":
		if len(items) > 0 {
			c.Remove(items[a.alerts.cursor].ID)
			a.alerts.clamp(len(items) - 1)
		}
	case "C":
		c.Clear()
		a.alerts.cursor = 0
	default:
		return a, nil, false
	}
	a.unread = c.UnreadCount()
	return a, nil, true
}

func kindColor(k notify.Kind) lipgloss.Color {
	t := theme.Active
	switch k {
	case notify.KindSuccess:
		return t.Green
	case notify.KindWarning:
		return t.Yellow
	case notify.KindError:
		return t.Red
	}
	return t.Blue
}

// relativeTime renders "just now", "5m ago", "2h ago" or a date.
func relativeTime(at, now time.Time) string {
	d := now.Sub(at)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return at.Format("Jan 02")
}

func (a App) renderAlertsTab(cw int) string {
	t := theme.Active
	items := a.opts.Center.List()
	inner := components.CardInnerWidth(cw)
	now := time.Now()

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	if len(items) == 0 {
		b.WriteString(mutedStyle.Render("No notifications"))
	}
	for i, n := range items {
		bg := t.Surface
		if i == a.alerts.cursor {
			bg = t.SurfaceHover
		}
		dot := lipgloss.NewStyle().Foreground(kindColor(n.Kind)).Background(bg).Render("● ")
		if n.Read {
			dot = lipgloss.NewStyle().Foreground(t.TextDim).Background(bg).Render("○ ")
		}
		titleStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(bg).Bold(!n.Read)
		when := lipgloss.NewStyle().Foreground(t.TextDim).Background(bg).Render(relativeTime(n.Timestamp, now))

		head := dot + titleStyle.Render(n.Title)
		gap := max(1, inner-lipgloss.Width(head)-lipgloss.Width(when))
		b.WriteString(head + lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", gap)) + when)
		b.WriteString("\n")

		msgStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(bg).Width(inner).PaddingLeft(2)
		b.WriteString(msgStyle.Render(n.Message))
		if n.Action != "" {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(t.Accent).Background(bg).Width(inner).PaddingLeft(2).
				Render(n.Action + ": " + n.Target))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("[enter] mark read  [A] mark all read  [d] delete  [C] clear all"))

	title := "Notifications"
	if a.unread > 0 {
		title = fmt.Sprintf("Notifications (%d unread)", a.unread)
	}
	return components.ContentCard(title, b.String(), cw)
}
