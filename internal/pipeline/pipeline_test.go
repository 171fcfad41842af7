package pipeline

import (
	"testing"
	"time"

	"github.com/admybrand/adpulse/internal/model"
)

var fixedNow = time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)

func newTestBuilder() *Builder {
	b := NewBuilder(11)
	b.Now = func() time.Time { return fixedNow }
	return b
}

func campaign(name string, status model.CampaignStatus, clicks, conv int64, roi float64) model.Campaign {
	return model.Campaign{ID: name, Name: name, Status: status, Clicks: clicks, Conversions: conv, ROI: roi}
}

func TestAggregate(t *testing.T) {
	cs := []model.Campaign{
		campaign("a", model.StatusActive, 1000, 50, 100),
		campaign("b", model.StatusPaused, 3000, 150, 300),
	}
	tot := Aggregate(cs)
	if tot.Count != 2 || tot.Clicks != 4000 || tot.Conversions != 200 {
		t.Fatalf("totals = %+v", tot)
	}
	if tot.AvgROI != 200 {
		t.Fatalf("AvgROI = %v, want 200", tot.AvgROI)
	}
	if tot.ConversionRate != 5 {
		t.Fatalf("ConversionRate = %v, want 5", tot.ConversionRate)
	}
	if tot.ByStatus[model.StatusPaused] != 1 {
		t.Fatalf("ByStatus = %v", tot.ByStatus)
	}
}

func TestTopByROIAndFilters(t *testing.T) {
	cs := []model.Campaign{
		campaign("Summer Sale", model.StatusActive, 1, 1, 120),
		campaign("Flash Sale", model.StatusPaused, 1, 1, 390),
		campaign("Market Expansion", model.StatusActive, 1, 1, 250),
		campaign("Loyalty", model.StatusCompleted, 1, 1, 80),
	}
	top := TopByROI(cs, 3)
	if len(top) != 3 || top[0].Name != "Flash Sale" || top[2].Name != "Summer Sale" {
		t.Fatalf("TopByROI = %v", top)
	}
	if cs[0].Name != "Summer Sale" {
		t.Fatal("TopByROI reordered its input")
	}
	if got := FilterByName(cs, "sale"); len(got) != 2 {
		t.Fatalf("FilterByName = %d, want 2", len(got))
	}
	if got := FilterByStatus(cs, model.StatusActive); len(got) != 2 {
		t.Fatalf("FilterByStatus = %d, want 2", len(got))
	}
	if got := Select(cs, nil); len(got) != 4 {
		t.Fatalf("empty selection = %d, want all", len(got))
	}
	if got := Select(cs, []string{"Loyalty"}); len(got) != 1 || got[0].Name != "Loyalty" {
		t.Fatalf("Select = %v", got)
	}

	SortCampaigns(cs, SortROI, true)
	if cs[0].ROI != 390 {
		t.Fatalf("SortCampaigns desc first ROI = %v", cs[0].ROI)
	}
}

func TestInsightRules(t *testing.T) {
	strong := []model.Campaign{
		campaign("a", model.StatusActive, 1000, 80, 300),
		campaign("b", model.StatusActive, 1000, 70, 280),
	}
	ins := Insights(strong, 12)
	if len(ins) != 3 {
		t.Fatalf("got %d insights, want 3: %+v", len(ins), ins)
	}
	for _, in := range ins {
		if in.Kind != model.InsightPositive {
			t.Fatalf("insight %+v, want positive", in)
		}
	}

	weak := []model.Campaign{
		campaign("a", model.StatusPaused, 1000, 10, 100),
		campaign("b", model.StatusActive, 1000, 5, 90),
		campaign("c", model.StatusPaused, 1000, 5, 90),
	}
	ins = Insights(weak, -8)
	if ins[0].Kind != model.InsightWarning {
		t.Fatalf("first insight = %v, want warning before negative", ins[0].Kind)
	}
	if ins[len(ins)-1].Kind != model.InsightNegative {
		t.Fatalf("last insight = %v, want negative", ins[len(ins)-1].Kind)
	}

	mid := []model.Campaign{campaign("a", model.StatusActive, 1000, 30, 200)}
	if h := Headline(mid, Insights(mid, 0)); h.Kind != model.InsightNeutral {
		t.Fatalf("Headline = %+v, want neutral summary", h)
	}
}

func TestBuildMixedRangeProjects(t *testing.T) {
	d := newTestBuilder().Build(model.DateRange{Preset: model.RangeLast6Months})
	if !d.ShowNote || !d.Revenue.HasProjection() {
		t.Fatal("mixed range should carry a projection")
	}
	if n := len(d.Revenue.Forecast()); n != 7 {
		t.Fatalf("forecast points = %d, want 7", n)
	}
	hist := d.Revenue.Historical()
	last := hist[len(hist)-1]
	if last.Period != "2026-06-15" {
		t.Fatalf("last historical period = %q", last.Period)
	}
	if d.Revenue.Forecast()[0].Period != "2026-06-16" {
		t.Fatalf("first forecast period = %q", d.Revenue.Forecast()[0].Period)
	}
	if len(d.TopCampaigns) != 3 || len(d.Campaigns) != 15 {
		t.Fatalf("campaigns = %d top = %d", len(d.Campaigns), len(d.TopCampaigns))
	}
}

func TestBuildHistoricalRangeSuppresses(t *testing.T) {
	d := newTestBuilder().Build(model.DateRange{Preset: model.RangeLastYear})
	if d.ShowNote || d.Revenue.HasProjection() {
		t.Fatal("historical range must not project")
	}
	if len(d.Revenue) != 365 {
		t.Fatalf("history = %d days, want 365", len(d.Revenue))
	}
}

func TestBuildFutureRangeIsSynthetic(t *testing.T) {
	d := newTestBuilder().Build(model.DateRange{Preset: model.RangeNextQuarter})
	if d.RangeKind != "future" {
		t.Fatalf("RangeKind = %q", d.RangeKind)
	}
	if len(d.Revenue.Historical()) != 0 || len(d.Revenue.Forecast()) != 7 {
		t.Fatalf("series = %+v", d.Revenue)
	}
	if d.Revenue[0].Period != "2026-07-01" {
		t.Fatalf("first period = %q", d.Revenue[0].Period)
	}
}

func TestBuildIsDeterministicForSeed(t *testing.T) {
	a := newTestBuilder().Build(model.DateRange{Preset: model.RangeLast30Days})
	b := newTestBuilder().Build(model.DateRange{Preset: model.RangeLast30Days})
	fa, fb := a.Revenue.Forecast(), b.Revenue.Forecast()
	for i := range fa {
		if *fa[i].Projected != *fb[i].Projected {
			t.Fatalf("forecast[%d] differs: %v vs %v", i, *fa[i].Projected, *fb[i].Projected)
		}
	}
}

func TestParseSortField(t *testing.T) {
	if f, err := ParseSortField("ROI"); err != nil || f != SortROI {
		t.Fatalf("ParseSortField(ROI) = %q, %v", f, err)
	}
	if _, err := ParseSortField("budget"); err == nil {
		t.Fatal("unknown field accepted")
	}
}
