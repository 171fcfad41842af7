package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/admybrand/adpulse/internal/cli"
	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/pipeline"
	"github.com/admybrand/adpulse/internal/tui/components"
	"github.com/admybrand/adpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	d := a.dash
	var b strings.Builder

	// Row 1: headline metrics
	m := d.Metrics
	cards := []components.MetricCardData{
		{Label: m.Revenue.Label, Value: cli.FormatRupees(m.Revenue.Value), Change: m.Revenue.Change},
		{Label: m.Users.Label, Value: cli.FormatNumber(int64(math.Round(m.Users.Value))), Change: m.Users.Change},
		{Label: m.Conversions.Label, Value: cli.FormatNumber(int64(math.Round(m.Conversions.Value))), Change: m.Conversions.Change},
		{Label: m.Growth.Label, Value: cli.FormatPercent(m.Growth.Value), Change: m.Growth.Change},
	}
	if a.isCompactLayout() {
		half := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.MetricCard(cards[0], half[0]), components.MetricCard(cards[1], half[1]),
		}))
		b.WriteString("\n")
		b.WriteString(components.CardRow([]string{
			components.MetricCard(cards[2], half[0]), components.MetricCard(cards[3], half[1]),
		}))
	} else {
		b.WriteString(components.MetricCardRow(cards, cw))
	}
	b.WriteString("\n")

	// Row 2: insight banner
	b.WriteString(renderInsightBanner(pipeline.Headline(d.Campaigns, d.Insights), cw))
	b.WriteString("\n")

	// Row 3: revenue chart with projection
	chartInner := components.CardInnerWidth(cw)
	body := components.RevenueChart(d.Revenue, chartInner, 10)
	if d.ShowNote {
		noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Italic(true)
		body += "\n" + noteStyle.Render(refreshNote)
	}
	title := fmt.Sprintf("Revenue Trend · %s", d.Range.Preset.Label())
	if !d.Range.IsOpen() {
		title += fmt.Sprintf(" (%s)", d.Range.String())
	}
	b.WriteString(components.ContentCard(title, body, cw))
	b.WriteString("\n")

	// Row 4: distribution, conversions, leaderboard
	if a.isCompactLayout() {
		half := components.LayoutRow(cw, 2)
		dist := renderDistribution(d.Distribution, components.CardInnerWidth(half[0]))
		conv := renderConversions(d.Conversions, components.CardInnerWidth(half[1]))
		b.WriteString(components.CardRow([]string{
			components.ContentCard("User Distribution", dist, half[0]),
			components.ContentCard("Conversions by Campaign", conv, half[1]),
		}))
		b.WriteString("\n")
		board := renderLeaderboard(d.TopCampaigns, components.CardInnerWidth(cw))
		b.WriteString(components.ContentCard("Top Campaigns by ROI", board, cw))
	} else {
		thirds := components.LayoutRow(cw, 3)
		dist := renderDistribution(d.Distribution, components.CardInnerWidth(thirds[0]))
		conv := renderConversions(d.Conversions, components.CardInnerWidth(thirds[1]))
		board := renderLeaderboard(d.TopCampaigns, components.CardInnerWidth(thirds[2]))
		b.WriteString(components.CardRow([]string{
			components.ContentCard("User Distribution", dist, thirds[0]),
			components.ContentCard("Conversions by Campaign", conv, thirds[1]),
			components.ContentCard("Top Campaigns by ROI", board, thirds[2]),
		}))
	}

	return b.String()
}

func insightColor(k model.InsightKind) lipgloss.Color {
	t := theme.Active
	switch k {
	case model.InsightPositive:
		return t.Green
	case model.InsightNegative:
		return t.Red
	case model.InsightWarning:
		return t.Yellow
	}
	return t.Blue
}

func insightIcon(k model.InsightKind) string {
	switch k {
	case model.InsightPositive:
		return "▲"
	case model.InsightNegative:
		return "▼"
	case model.InsightWarning:
		return "!"
	}
	return "●"
}

func renderInsightBanner(in model.Insight, cw int) string {
	t := theme.Active
	color := insightColor(in.Kind)
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		BorderBackground(t.Background).
		Background(t.Surface).
		Width(cw-2).
		Padding(0, 1)
	head := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	msg := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	return style.Render(head.Render(insightIcon(in.Kind)+" "+in.Title+": ") + msg.Render(in.Message))
}

func renderDistribution(shares []model.ChannelShare, inner int) string {
	if len(shares) == 0 {
		return ""
	}
	t := theme.Active
	colors := []lipgloss.Color{t.Blue, t.Green, t.Yellow, t.Magenta, t.Cyan}
	labelW := 12
	barW := max(4, inner-labelW-7)
	lines := make([]string, 0, len(shares))
	for i, s := range shares {
		lines = append(lines, components.HBar(s.Name, fmt.Sprintf("%.0f%%", s.Percent), s.Percent, 100, labelW, barW, colors[i%len(colors)]))
	}
	return strings.Join(lines, "\n")
}

func renderConversions(rows []model.CampaignConversions, inner int) string {
	if len(rows) == 0 {
		return ""
	}
	t := theme.Active
	var peak int64
	for _, r := range rows {
		peak = max(peak, r.Conversions)
	}
	labelW := 14
	barW := max(4, inner-labelW-8)
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, components.HBar(r.Campaign, cli.FormatNumber(r.Conversions),
			float64(r.Conversions), float64(peak), labelW, barW, t.Accent))
	}
	return strings.Join(lines, "\n")
}

func renderLeaderboard(top []model.Campaign, inner int) string {
	t := theme.Active
	if len(top) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No campaigns")
	}
	medals := []lipgloss.Color{t.Yellow, t.TextMuted, t.Orange}
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	roiStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Bold(true)

	var b strings.Builder
	for i, c := range top {
		rank := lipgloss.NewStyle().Foreground(medals[i%len(medals)]).Background(t.Surface).Bold(true).
			Render(fmt.Sprintf("#%d ", i+1))
		roi := roiStyle.Render(fmt.Sprintf("%.1f%%", c.ROI))
		nameW := max(8, inner-lipgloss.Width(rank)-lipgloss.Width(roi)-1)
		b.WriteString(rank + nameStyle.Render(fmt.Sprintf("%-*s ", nameW, truncStr(c.Name, nameW))) + roi)
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("   %s conversions · %s spent",
			cli.FormatNumber(c.Conversions), cli.FormatRupees(c.Spent))))
		if i < len(top)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
