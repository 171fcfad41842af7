package components

import (
	"strings"
	"testing"
	"time"

	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
	theme.Active = theme.FlexokiDark
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, tc := range []struct{ total, n int }{{100, 3}, {81, 4}, {7, 7}, {10, 1}} {
		widths := LayoutRow(tc.total, tc.n)
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != tc.total {
			t.Fatalf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
		if widths[0] < widths[len(widths)-1] {
			t.Fatalf("remainder should go to the first items: %v", widths)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestSampleBarsKeepsProjection(t *testing.T) {
	var bars []Bar
	for i := 0; i < 100; i++ {
		bars = append(bars, Bar{Value: float64(i)})
	}
	for i := 0; i < 7; i++ {
		bars = append(bars, Bar{Value: 1, Projected: true})
	}

	got := sampleBars(bars, 30)
	if len(got) != 30 {
		t.Fatalf("len = %d, want 30", len(got))
	}
	proj := 0
	for _, b := range got {
		if b.Projected {
			proj++
		}
	}
	if proj != 7 {
		t.Fatalf("projected bars = %d, want 7", proj)
	}
	if got[0].Value != 0 || got[22].Value != 99 {
		t.Fatalf("history sample should span first..last, got %v..%v", got[0].Value, got[22].Value)
	}
}

func TestRevenueBarsLabels(t *testing.T) {
	day := func(m time.Month, d int) *time.Time {
		v := time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
		return &v
	}
	s := model.Series{
		{Period: "2026-01-30", Date: day(1, 30), Actual: model.Float(10)},
		{Period: "2026-01-31", Date: day(1, 31), Actual: model.Float(20)},
		{Period: "2026-02-01", Date: day(2, 1), Projected: model.Float(30)},
		{Period: "T+2", Projected: model.Float(40)},
	}
	bars := RevenueBars(s)
	want := []string{"Jan", "31", "Feb", "T+2"}
	for i, b := range bars {
		if b.Label != want[i] {
			t.Errorf("label[%d] = %q, want %q", i, b.Label, want[i])
		}
	}
	if bars[1].Projected || !bars[2].Projected || bars[3].Value != 40 {
		t.Fatalf("unexpected bars: %+v", bars)
	}
}

func TestRevenueChartLegend(t *testing.T) {
	s := model.Series{
		{Period: "a", Actual: model.Float(100)},
		{Period: "b", Actual: model.Float(120)},
		{Period: "T+1", Projected: model.Float(130)},
	}
	out := RevenueChart(s, 60, 8)
	if !strings.Contains(out, "Projected") || !strings.Contains(out, "▓") {
		t.Fatalf("chart with forecast should show projected legend:\n%s", out)
	}
	out = RevenueChart(s[:2], 60, 8)
	if strings.Contains(out, "Projected") {
		t.Fatal("chart without forecast should not show projected legend")
	}
	if got := RevenueChart(nil, 60, 8); !strings.Contains(got, "No revenue data") {
		t.Fatalf("empty chart = %q", got)
	}
}

func TestFormatChartLabel(t *testing.T) {
	cases := map[float64]string{
		0.5:       "0.50",
		40:        "40",
		20000:     "20K",
		12500:     "12.5K",
		1_000_000: "1M",
	}
	for v, want := range cases {
		if got := formatChartLabel(v); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", v, got, want)
		}
	}
}

func TestTabs(t *testing.T) {
	if TabIdxByKey('l') != TabAlerts || TabIdxByKey('x') != TabSettings || TabIdxByKey('z') != -1 {
		t.Fatal("TabIdxByKey mismatch")
	}
	// Inactive Settings appends "[x]"; everything gets one column of padding each side.
	if got, want := TabVisualWidth(Tabs[TabSettings], false), len("Settings")+2+3; got != want {
		t.Fatalf("Settings width = %d, want %d", got, want)
	}
	if got, want := TabVisualWidth(Tabs[TabOverview], true), len("Overview")+2; got != want {
		t.Fatalf("Overview width = %d, want %d", got, want)
	}
}

func TestHBarClampsFill(t *testing.T) {
	out := HBar("Paid Search", "45%", 90, 45, 8, 10, theme.Active.Accent)
	if strings.Count(out, "█") != 10 {
		t.Fatalf("over-full bar should clamp to width: %q", out)
	}
	out = HBar("A very long campaign name", "1", 0, 0, 8, 4, theme.Active.Accent)
	if !strings.Contains(out, "A very …") {
		t.Fatalf("label should truncate: %q", out)
	}
}

func TestBudgetBar(t *testing.T) {
	out := BudgetBar("Used", 50, 100, "₹50 of ₹100", 5, 10)
	if !strings.Contains(out, " 50%") || !strings.Contains(out, "₹50 of ₹100") {
		t.Fatalf("BudgetBar = %q", out)
	}
	if strings.Count(out, "█") != 5 {
		t.Fatalf("want 5 filled cells, got %q", out)
	}
	if out := BudgetBar("Used", 300, 100, "", 5, 10); !strings.Contains(out, "100%") {
		t.Fatalf("overspend should clamp, got %q", out)
	}
	if out := BudgetBar("Used", 10, 0, "", 5, 10); !strings.Contains(out, "  0%") {
		t.Fatalf("zero budget should be empty, got %q", out)
	}
}

func TestSpendColor(t *testing.T) {
	th := theme.Active
	cases := map[float64]lipgloss.Color{0.2: th.Green, 0.7: th.Yellow, 0.9: th.Orange, 1: th.Red}
	for ratio, want := range cases {
		if got := SpendColor(ratio); got != want {
			t.Errorf("SpendColor(%v) = %v, want %v", ratio, got, want)
		}
	}
}
