package mockdata

import (
	"testing"
	"time"

	"github.com/admybrand/adpulse/internal/model"
)

var now = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func TestRevenueStopsAtToday(t *testing.T) {
	g := New(1)
	obs := g.Revenue(model.Resolve(model.RangeThisYear, now), now)
	if len(obs) == 0 {
		t.Fatal("no observations")
	}
	last := obs[len(obs)-1]
	if !last.Date.Equal(model.Day(now)) {
		t.Fatalf("last date = %v, want today", last.Date)
	}
	if obs[0].Period != "2026-01-01" {
		t.Fatalf("first period = %q", obs[0].Period)
	}
	for _, o := range obs {
		if o.Value == nil || *o.Value <= 0 || o.Prior == nil {
			t.Fatalf("bad observation %+v", o)
		}
	}
}

func TestRevenueFutureRangeIsEmpty(t *testing.T) {
	obs := New(1).Revenue(model.Resolve(model.RangeNextQuarter, now), now)
	if len(obs) != 0 {
		t.Fatalf("got %d observations for a future range", len(obs))
	}
}

func TestOpenRangeCoversThirtyDays(t *testing.T) {
	if n := len(New(2).Revenue(model.DateRange{}, now)); n != 30 {
		t.Fatalf("len = %d, want 30", n)
	}
}

func TestCampaignsAreSeededAndBounded(t *testing.T) {
	a := New(99).Campaigns(now)
	b := New(99).Campaigns(now)
	if len(a) != len(CampaignNames) {
		t.Fatalf("len = %d, want %d", len(a), len(CampaignNames))
	}
	for i, c := range a {
		if c.ID != b[i].ID || c.Clicks != b[i].Clicks {
			t.Fatalf("campaign %d differs between seeded runs", i)
		}
		if c.Budget < 5000 || c.Budget > 100000 {
			t.Fatalf("%s budget = %v", c.Name, c.Budget)
		}
		if c.Spent < c.Budget*0.1-1 || c.Spent > c.Budget*0.9 {
			t.Fatalf("%s spent = %v of %v", c.Name, c.Spent, c.Budget)
		}
		if c.ROI < 50 || c.ROI > 400 {
			t.Fatalf("%s ROI = %v", c.Name, c.ROI)
		}
		days := c.EndDate.Sub(c.StartDate).Hours() / 24
		if days < 7 || days > 90 {
			t.Fatalf("%s runs %v days", c.Name, days)
		}
		if c.Impressions < c.Clicks*5 || c.Impressions > c.Clicks*15 {
			t.Fatalf("%s impressions = %d for %d clicks", c.Name, c.Impressions, c.Clicks)
		}
	}
}

func TestMetricsUseRangeTotal(t *testing.T) {
	hist := []model.Observation{
		{Value: model.Float(100), Prior: model.Float(80)},
		{Value: model.Float(100), Prior: model.Float(80)},
	}
	m := New(5).Metrics(hist)
	if m.Revenue.Value != 200 {
		t.Fatalf("revenue = %v, want 200", m.Revenue.Value)
	}
	if m.Revenue.Change != 25 {
		t.Fatalf("change = %v, want 25", m.Revenue.Change)
	}
	if m.Users.Value < 12000 || m.Users.Value > 13000 {
		t.Fatalf("users = %v", m.Users.Value)
	}
}

func TestConversionsTopN(t *testing.T) {
	cs := New(3).Campaigns(now)
	top := Conversions(cs, 6)
	if len(top) != 6 {
		t.Fatalf("len = %d, want 6", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Conversions > top[i-1].Conversions {
			t.Fatal("conversions not sorted descending")
		}
	}
}
