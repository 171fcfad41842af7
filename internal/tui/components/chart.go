package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Bar is one column of a ColumnChart.
type Bar struct {
	Value     float64
	Label     string
	Projected bool
}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// sampleBars fits bars into capacity columns. Projected bars are kept as-is
// and the historical prefix is sampled evenly into the remaining space.
func sampleBars(bars []Bar, capacity int) []Bar {
	if len(bars) <= capacity {
		return bars
	}
	split := len(bars)
	for i, b := range bars {
		if b.Projected {
			split = i
			break
		}
	}
	hist, proj := bars[:split], bars[split:]
	room := capacity - len(proj)
	if room < 2 {
		room = min(2, len(hist))
	}
	if len(hist) <= room {
		return bars
	}
	out := make([]Bar, 0, room+len(proj))
	for i := 0; i < room; i++ {
		out = append(out, hist[i*(len(hist)-1)/max(1, room-1)])
	}
	return append(out, proj...)
}

// ColumnChart renders a column chart with a Y axis. Projected columns use the
// projection color and a lighter fill.
func ColumnChart(bars []Bar, width, height int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active
	if width < 15 || height < 3 {
		values := make([]float64, len(bars))
		for i, b := range bars {
			values[i] = b.Value
		}
		return Sparkline(values, t.Accent)
	}

	maxVal := 0.0
	for _, b := range bars {
		maxVal = math.Max(maxVal, b.Value)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Y-axis: compute tick step and ceiling
	tickStep := chartTickStep(maxVal)
	maxIntervals := max(2, height/2)
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := max(1, int(math.Round(ceiling/tickStep)))
	rowsPerTick := max(2, height/numIntervals)
	chartH := rowsPerTick * numIntervals

	yLabelW := max(4, len(formatChartLabel(ceiling))+1)
	tickLabels := make(map[int]string)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(tickStep * float64(i))
	}

	chartW := max(5, width-yLabelW-1)
	bars = sampleBars(bars, (chartW+1)/2)
	n := len(bars)

	gap := 1
	if n <= 1 {
		gap = 0
	}
	barW := chartW
	if n > 1 {
		barW = (chartW - (n-1)*gap) / n
	}
	if barW < 1 {
		barW, gap = 1, 0
	}
	barW = min(barW, 6)
	axisLen := n*barW + max(0, n-1)*gap

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blankStyle := lipgloss.NewStyle().Background(t.Surface)
	actualStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	projStyle := lipgloss.NewStyle().Foreground(t.Projection).Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))

		for i, bar := range bars {
			if i > 0 && gap > 0 {
				b.WriteString(blankStyle.Render(strings.Repeat(" ", gap)))
			}
			style, full := actualStyle, "█"
			if bar.Projected {
				style, full = projStyle, "▓"
			}
			switch {
			case bar.Value >= rowTop:
				b.WriteString(style.Render(strings.Repeat(full, barW)))
			case bar.Value > rowBottom:
				idx := int((bar.Value - rowBottom) / (rowTop - rowBottom) * 8)
				idx = max(1, min(idx, 8))
				b.WriteString(style.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(blankStyle.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	if labels := xAxisLabels(bars, barW+gap, axisLen); labels != "" {
		b.WriteString("\n")
		b.WriteString(blankStyle.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render(labels))
	}

	return b.String()
}

// xAxisLabels places bar labels left to right, skipping any that would
// overlap the previous one.
func xAxisLabels(bars []Bar, stride, axisLen int) string {
	buf := []rune(strings.Repeat(" ", axisLen))
	lastEnd := -1
	placed := false
	for i, bar := range bars {
		lbl := []rune(bar.Label)
		pos := i * stride
		if len(lbl) == 0 || pos <= lastEnd || pos+len(lbl) > axisLen {
			continue
		}
		copy(buf[pos:], lbl)
		lastEnd = pos + len(lbl)
		placed = true
	}
	if !placed {
		return ""
	}
	return strings.TrimRight(string(buf), " ")
}

// RevenueBars converts a revenue series into chart columns labeled with
// compact dates: month names at month boundaries, day numbers otherwise.
func RevenueBars(s model.Series) []Bar {
	bars := make([]Bar, 0, len(s))
	prevMonth := time.Month(0)
	for i, p := range s {
		bar := Bar{}
		switch {
		case p.Projected != nil:
			bar.Value, bar.Projected = *p.Projected, true
		case p.Actual != nil:
			bar.Value = *p.Actual
		}
		switch {
		case p.Date == nil:
			bar.Label = p.Period
		case i == 0 || p.Date.Month() != prevMonth:
			bar.Label = p.Date.Format("Jan")
			prevMonth = p.Date.Month()
		default:
			bar.Label = strconv.Itoa(p.Date.Day())
		}
		bars = append(bars, bar)
	}
	return bars
}

// RevenueChart renders the revenue series with its projection and a legend.
func RevenueChart(s model.Series, width, height int) string {
	t := theme.Active
	chart := ColumnChart(RevenueBars(s), width, height)
	if chart == "" {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No revenue data for this range")
	}

	legend := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render("█") +
		lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(" Actual")
	if s.HasProjection() {
		legend += lipgloss.NewStyle().Background(t.Surface).Render("   ") +
			lipgloss.NewStyle().Foreground(t.Projection).Background(t.Surface).Render("▓") +
			lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(" Projected")
	}
	return chart + "\n" + legend
}

// HBar renders one labeled horizontal bar with its value text.
func HBar(label, valueText string, value, maxValue float64, labelW, barW int, color lipgloss.Color) string {
	t := theme.Active
	filled := 0
	if maxValue > 0 {
		filled = int(math.Round(value / maxValue * float64(barW)))
	}
	filled = max(0, min(filled, barW))

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	runes := []rune(label)
	if len(runes) > labelW {
		label = string(runes[:max(0, labelW-1)]) + "…"
	}
	return labelStyle.Render(fmt.Sprintf("%-*s ", labelW, label)) +
		barStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", barW-filled)) +
		valueStyle.Render(" "+valueText)
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	trim := func(x float64, suffix string) string {
		if x == math.Trunc(x) {
			return fmt.Sprintf("%.0f%s", x, suffix)
		}
		return fmt.Sprintf("%.1f%s", x, suffix)
	}
	switch {
	case v >= 1e6:
		return trim(v/1e6, "M")
	case v >= 1e3:
		return trim(v/1e3, "K")
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
