package components

import (
	"fmt"

	"github.com/admybrand/adpulse/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// SpendColor grades budget utilization: green while there is headroom,
// red once the campaign has spent its whole budget.
func SpendColor(ratio float64) lipgloss.Color {
	t := theme.Active
	switch {
	case ratio >= 1:
		return t.Red
	case ratio >= 0.85:
		return t.Orange
	case ratio >= 0.6:
		return t.Yellow
	}
	return t.Green
}

// BudgetBar renders "label [bar] pct  detail" for spent against budget.
// A zero budget draws an empty bar.
func BudgetBar(label string, spent, budget float64, detail string, labelW, barWidth int) string {
	t := theme.Active
	var ratio float64
	if budget > 0 {
		ratio = max(0, min(spent/budget, 1))
	}
	color := SpendColor(ratio)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(barWidth, 4)),
		progress.WithoutPercentage(),
	)
	bar.Full, bar.Empty = '█', '░'
	bar.EmptyColor = string(t.TextDim)

	bg := lipgloss.NewStyle().Background(t.Surface)
	return bg.Foreground(t.TextMuted).Render(fmt.Sprintf("%-*s ", labelW, label)) +
		bar.ViewAs(ratio) +
		bg.Foreground(color).Bold(true).Render(fmt.Sprintf(" %3.0f%%", ratio*100)) +
		bg.Foreground(t.TextDim).Render("  "+detail)
}
