// Package components provides reusable TUI widgets for the adpulse dashboard.
package components

import (
	"fmt"
	"math"

	"github.com/admybrand/adpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const minCardWidth = 10

// LayoutRow splits total into n column widths summing to total; the leading
// columns take the remainder.
func LayoutRow(total, n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = total / n
		if i < total%n {
			out[i]++
		}
	}
	return out
}

// MetricCardData is one headline card.
type MetricCardData struct {
	Label  string
	Value  string
	Change float64 // percent versus the prior period
}

// MetricCard renders a headline figure with its month-over-month change.
func MetricCard(c MetricCardData, outerWidth int) string {
	t := theme.Active
	on := func(fg lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(fg).Background(t.Surface)
	}

	trend, trendColor := "↑", t.Green
	if c.Change < 0 {
		trend, trendColor = "↓", t.Red
	}
	body := on(t.TextMuted).Render(c.Label) + "\n" +
		on(t.TextPrimary).Bold(true).Render(c.Value) + "\n" +
		on(trendColor).Render(fmt.Sprintf("%s %.1f%%", trend, math.Abs(c.Change))) +
		on(t.TextDim).Render(" from last month")
	return frame(t.Border, outerWidth).Render(body)
}

// MetricCardRow lays cards out across exactly totalWidth columns.
func MetricCardRow(cards []MetricCardData, totalWidth int) string {
	if len(cards) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(cards))
	out := make([]string, len(cards))
	for i := range cards {
		out[i] = MetricCard(cards[i], widths[i])
	}
	return CardRow(out)
}

// ContentCard renders body in a bordered box; outerWidth includes the border.
func ContentCard(title, body string, outerWidth int) string {
	return titled(title, body, outerWidth, theme.Active.Border)
}

// FocusCard is a ContentCard with an accent border, used for drawers.
func FocusCard(title, body string, outerWidth int) string {
	return titled(title, body, outerWidth, theme.Active.BorderAccent)
}

func titled(title, body string, outerWidth int, border lipgloss.Color) string {
	t := theme.Active
	if title != "" {
		heading := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
		body = heading.Render(title) + "\n" + body
	}
	return frame(border, outerWidth).Render(body)
}

// frame is the rounded, padded box shared by every card.
func frame(border lipgloss.Color, outerWidth int) lipgloss.Style {
	t := theme.Active
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Width(max(outerWidth-2, minCardWidth)).
		Padding(0, 1)
}

// CardRow joins pre-rendered card strings horizontally.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// CardInnerWidth is the text width left inside a card after border and
// padding.
func CardInnerWidth(outerWidth int) int {
	return max(outerWidth-4, minCardWidth)
}
