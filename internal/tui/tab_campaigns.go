package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/admybrand/adpulse/internal/cli"
	"github.com/admybrand/adpulse/internal/export"
	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/pipeline"
	"github.com/admybrand/adpulse/internal/tui/components"
	"github.com/admybrand/adpulse/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// exportDoneMsg reports a finished export.
type exportDoneMsg struct {
	path string
	err  error
}

// campaignsState holds the campaigns tab state.
type campaignsState struct {
	cursor    int
	offset    int
	query     string
	searching bool
	input     textinput.Model
	statusIdx int // 0 = all, otherwise model.Statuses[statusIdx-1]
	sortIdx   int // index into pipeline.SortFields
	desc      bool
	selected  map[string]bool
	drawer    bool
}

func newCampaignsState() campaignsState {
	return campaignsState{
		selected: make(map[string]bool),
		sortIdx:  indexOfSort(pipeline.SortROI),
		desc:     true,
	}
}

func indexOfSort(f pipeline.SortField) int {
	for i, s := range pipeline.SortFields {
		if s == f {
			return i
		}
	}
	return 0
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "campaign name"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 32
	return ti
}

func (s campaignsState) statusFilter() model.CampaignStatus {
	if s.statusIdx == 0 {
		return ""
	}
	return model.Statuses[s.statusIdx-1]
}

func (s *campaignsState) move(delta, n int) {
	s.cursor += delta
	s.clamp(n)
}

func (s *campaignsState) clamp(n int) {
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// selectedIDs returns the selection in a stable order.
func (s campaignsState) selectedIDs() []string {
	ids := make([]string, 0, len(s.selected))
	for id, ok := range s.selected {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// visibleCampaigns applies the status filter, name search and sort.
func (a App) visibleCampaigns() []model.Campaign {
	out := make([]model.Campaign, len(a.dash.Campaigns))
	copy(out, a.dash.Campaigns)
	if st := a.camp.statusFilter(); st != "" {
		out = pipeline.FilterByStatus(out, st)
	}
	out = pipeline.FilterByName(out, a.camp.query)
	pipeline.SortCampaigns(out, pipeline.SortFields[a.camp.sortIdx], a.camp.desc)
	return out
}

func (a App) updateCampaignSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.camp.query = strings.TrimSpace(a.camp.input.Value())
		a.camp.searching = false
		a.camp.cursor = 0
		a.camp.offset = 0
		return a, nil
	case "esc":
		a.camp.searching = false
		return a, nil
	}
	var cmd tea.Cmd
	a.camp.input, cmd = a.camp.input.Update(msg)
	return a, cmd
}

func (a App) updateCampaignsKey(key string) (App, tea.Cmd, bool) {
	visible := a.visibleCampaigns()
	n := len(visible)

	switch key {
	case "/":
		a.camp.searching = true
		a.camp.input = newSearchInput()
		a.camp.input.SetValue(a.camp.query)
		a.camp.input.Focus()
		return a, textinput.Blink, true
	case "j", "down":
		a.camp.move(1, n)
	case "k", "up":
		a.camp.move(-1, n)
	case "g":
		a.camp.cursor = 0
	case "G":
		a.camp.cursor = n - 1
		a.camp.clamp(n)
	case "f":
		a.camp.statusIdx = (a.camp.statusIdx + 1) % (len(model.Statuses) + 1)
		a.camp.cursor = 0
	case "s":
		a.camp.sortIdx = (a.camp.sortIdx + 1) % len(pipeline.SortFields)
	case "S":
		a.camp.desc = !a.camp.desc
	case " ":
		if n > 0 {
			id := visible[a.camp.cursor].ID
			if a.camp.selected[id] {
				delete(a.camp.selected, id)
			} else {
				a.camp.selected[id] = true
			}
			return a, a.saveSelectionCmd(), true
		}
	case "A":
		all := true
		for _, c := range visible {
			if !a.camp.selected[c.ID] {
				all = false
				break
			}
		}
		for _, c := range visible {
			if all {
				delete(a.camp.selected, c.ID)
			} else {
				a.camp.selected[c.ID] = true
			}
		}
		return a, a.saveSelectionCmd(), true
	case "enter":
		a.camp.drawer = !a.camp.drawer && n > 0
	case "esc":
		switch {
		case a.camp.drawer:
			a.camp.drawer = false
		case a.camp.query != "":
			a.camp.query = ""
			a.camp.cursor = 0
		default:
			return a, nil, false
		}
	case "e":
		return a, a.exportCmd(export.FormatCSV), true
	case "p":
		return a, a.exportCmd(export.FormatPDF), true
	case "J":
		return a, a.exportCmd(export.FormatJSON), true
	default:
		return a, nil, false
	}
	return a, nil, true
}

// selectionCopy snapshots the selection so commands don't race the model.
func (a App) selectionCopy() []string {
	return a.camp.selectedIDs()
}

func (a App) saveSelectionCmd() tea.Cmd {
	st := a.opts.Store
	if st == nil {
		return nil
	}
	ids := a.selectionCopy()
	log := a.log
	return func() tea.Msg {
		if err := st.SaveSelection(context.Background(), ids); err != nil {
			log.Warn("saving campaign selection", "error", err)
		}
		return nil
	}
}

func (a App) exportCmd(f export.Format) tea.Cmd {
	ex := a.opts.Exporter
	if ex == nil {
		return func() tea.Msg { return exportDoneMsg{err: errors.New("export is not configured")} }
	}
	rng := a.dash.Range
	req := export.Request{
		Campaigns: a.dash.Campaigns,
		Selected:  a.selectionCopy(),
		Range:     &rng,
		Revenue:   a.dash.Revenue,
		Source:    "Campaign",
	}
	return func() tea.Msg {
		path, err := ex.Export(f, req)
		return exportDoneMsg{path: path, err: err}
	}
}

func statusColor(s model.CampaignStatus) lipgloss.Color {
	t := theme.Active
	switch s {
	case model.StatusActive:
		return t.Green
	case model.StatusPaused:
		return t.Yellow
	}
	return t.TextMuted
}

func (a App) renderCampaignsTab(cw, h int) string {
	t := theme.Active
	visible := a.visibleCampaigns()
	cs := a.camp

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	// Filter line
	status := "all"
	if st := cs.statusFilter(); st != "" {
		status = string(st)
	}
	dir := "↑"
	if cs.desc {
		dir = "↓"
	}
	filter := mutedStyle.Render("status ") + accentStyle.Render(status) +
		mutedStyle.Render("  sort ") + accentStyle.Render(string(pipeline.SortFields[cs.sortIdx])+dir) +
		mutedStyle.Render(fmt.Sprintf("  selected %d", len(cs.selectedIDs())))
	if cs.searching {
		filter += mutedStyle.Render("  ") + cs.input.View()
	} else if cs.query != "" {
		filter += mutedStyle.Render("  search ") + accentStyle.Render(cs.query)
	}

	tableW := cw
	drawerW := 0
	if cs.drawer && len(visible) > 0 && !a.isCompactLayout() {
		drawerW = max(40, cw*2/5)
		tableW = cw - drawerW
	}

	inner := components.CardInnerWidth(tableW)
	var body strings.Builder
	body.WriteString(filter)
	body.WriteString("\n\n")

	if len(visible) == 0 {
		body.WriteString(mutedStyle.Render("No campaigns found"))
		return components.ContentCard("Campaigns", body.String(), cw)
	}

	// name | status | clicks | conv | roi | budget used
	fixed := 2 + 10 + 9 + 7 + 8 + 8 + 5
	nameW := max(12, inner-fixed)
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	body.WriteString(headerStyle.Render(fmt.Sprintf("  %-*s %-10s %9s %7s %8s %8s",
		nameW, "Campaign", "Status", "Clicks", "Conv", "ROI", "Budget")))
	body.WriteString("\n")

	rows := max(3, h-8)
	if cs.cursor < cs.offset {
		cs.offset = cs.cursor
	}
	if cs.cursor >= cs.offset+rows {
		cs.offset = cs.cursor - rows + 1
	}
	end := min(len(visible), cs.offset+rows)

	for i := cs.offset; i < end; i++ {
		c := visible[i]
		bg := t.Surface
		if i == cs.cursor {
			bg = t.SurfaceHover
		}
		cell := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(bg)
		mark := lipgloss.NewStyle().Foreground(t.TextDim).Background(bg).Render("○ ")
		if cs.selected[c.ID] {
			mark = lipgloss.NewStyle().Foreground(t.AccentBright).Background(bg).Render("● ")
		}
		st := lipgloss.NewStyle().Foreground(statusColor(c.Status)).Background(bg).Render(fmt.Sprintf("%-10s", c.Status))
		line := mark +
			cell.Render(fmt.Sprintf("%-*s ", nameW, truncStr(c.Name, nameW))) +
			st +
			cell.Render(fmt.Sprintf(" %9s %7s %7.1f%% %7.0f%%",
				cli.FormatNumber(c.Clicks), cli.FormatNumber(c.Conversions), c.ROI, c.BudgetUsed()))
		body.WriteString(line)
		if pad := inner - lipgloss.Width(line); pad > 0 {
			body.WriteString(lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", pad)))
		}
		body.WriteString("\n")
	}

	totals := pipeline.Aggregate(visible)
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(fmt.Sprintf("%d campaigns · %s clicks · %s conversions · avg ROI %.1f%%",
		totals.Count, cli.FormatNumber(totals.Clicks), cli.FormatNumber(totals.Conversions), totals.AvgROI)))
	body.WriteString("\n")
	body.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
		Render("[/]search [f]ilter [s]ort [space]select [enter]details [e]csv [p]df [J]son"))

	table := components.ContentCard(fmt.Sprintf("Campaigns [%d/%d]", len(visible), len(a.dash.Campaigns)), body.String(), tableW)

	if !cs.drawer {
		return table
	}
	sel := visible[cs.cursor]
	if drawerW == 0 {
		return table + "\n" + components.FocusCard(sel.Name, renderCampaignDrawer(sel, components.CardInnerWidth(cw)), cw)
	}
	return components.CardRow([]string{table, components.FocusCard(sel.Name, renderCampaignDrawer(sel, components.CardInnerWidth(drawerW)), drawerW)})
}

// renderCampaignDrawer shows the full details for one campaign.
func renderCampaignDrawer(c model.Campaign, inner int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-18s", label)) + valueStyle.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(statusColor(c.Status)).Background(t.Surface).Bold(true).Render(string(c.Status)))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %s → %s", cli.FormatDate(c.StartDate), cli.FormatDate(c.EndDate))))
	b.WriteString("\n")
	if c.Description != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Width(inner).Render(c.Description))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Budget"))
	b.WriteString("\n")
	barW := max(8, inner-30)
	b.WriteString(components.BudgetBar("Used", c.Spent, c.Budget, fmt.Sprintf("%s of %s",
		cli.FormatRupees(c.Spent), cli.FormatRupees(c.Budget)), 5, barW))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Performance"))
	b.WriteString("\n")
	b.WriteString(row("Impressions", cli.FormatNumber(c.Impressions)))
	b.WriteString(row("Clicks", cli.FormatNumber(c.Clicks)))
	b.WriteString(row("CTR", cli.FormatPercent(c.CTR())))
	b.WriteString(row("Conversions", cli.FormatNumber(c.Conversions)))
	b.WriteString(row("Conversion rate", cli.FormatPercent(c.ConversionRate())))
	b.WriteString(row("Cost per click", cli.FormatRupeesExact(c.CostPerClick)))
	b.WriteString(row("Cost / conversion", cli.FormatRupeesExact(c.CostPerConversion())))
	b.WriteString(row("ROI", cli.FormatPercent(c.ROI)))

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Targeting"))
	b.WriteString("\n")
	b.WriteString(row("Platform", c.Platform))
	b.WriteString(row("Ad type", c.AdType))
	b.WriteString(row("Audience", c.TargetAudience))

	return strings.TrimRight(b.String(), "\n")
}

