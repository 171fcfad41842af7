// Package mockdata generates the randomized dashboard data adpulse displays.
// A Generator seeded with the same value always produces the same data.
package mockdata

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/projection"

	"github.com/google/uuid"
)

// DailyRevenueBase is the mean daily revenue in rupees.
const DailyRevenueBase = 40000.0

// CampaignNames are the fixed names of the generated campaigns.
var CampaignNames = []string{
	"Summer Sale Campaign",
	"Back to School Promotion",
	"Holiday Season Special",
	"New Product Launch",
	"Brand Awareness Campaign",
	"Customer Retention Drive",
	"Social Media Boost",
	"Email Marketing Series",
	"Influencer Partnership",
	"Retargeting Campaign",
	"Seasonal Promotion",
	"Flash Sale Event",
	"Loyalty Program Launch",
	"Competitive Response",
	"Market Expansion",
}

var (
	platforms = []string{"Facebook", "Google Ads", "Instagram", "LinkedIn"}
	adTypes   = []string{"Display", "Video", "Carousel", "Story"}
	audiences = []string{
		"Adults 25-45, urban professionals",
		"Students 18-24",
		"Parents 30-50",
		"Small business owners",
		"Returning customers",
		"Tech enthusiasts 20-35",
	}
)

// Generator produces mock dashboard data from a private random stream.
type Generator struct {
	rng *rand.Rand
}

// New returns a generator. Seed 0 picks a time-based seed.
func New(seed uint64) *Generator {
	return &Generator{rng: projection.NewSource(seed)}
}

// Source exposes the generator's random stream for callers that need to
// share it, such as the projector's jitter.
func (g *Generator) Source() *rand.Rand { return g.rng }

func (g *Generator) between(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) intBetween(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Int64N(hi-lo+1)
}

func pick[T any](g *Generator, xs []T) T {
	return xs[g.rng.IntN(len(xs))]
}

// Read fills p from the random stream so seeded runs yield stable UUIDs.
func (g *Generator) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(g.rng.Uint32())
	}
	return len(p), nil
}

func (g *Generator) newID() string {
	id, err := uuid.NewRandomFromReader(g)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Revenue returns one observation per day of r, stopping at today. Days
// after today have no actuals and are omitted. Open ranges cover the last
// 30 days.
func (g *Generator) Revenue(r model.DateRange, now time.Time) []model.Observation {
	today := model.Day(now)
	from, to := r.From, r.To
	if r.IsOpen() {
		from, to = today.AddDate(0, 0, -29), today
	}
	if to.After(today) {
		to = today
	}
	if from.After(to) {
		return nil
	}

	var obs []model.Observation
	origin := time.Date(2020, 1, 1, 0, 0, 0, 0, now.Location())
	for d := model.Day(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		// Slow growth since origin plus a weekly cycle peaking at weekends.
		age := d.Sub(origin).Hours() / 24
		trend := DailyRevenueBase * (1 + age/3650)
		weekly := 1 + 0.08*math.Sin(float64(d.Weekday())/7*2*math.Pi)
		v := math.Round(trend * weekly * g.between(0.85, 1.15))
		prior := math.Round(v * g.between(0.70, 1.0))
		obs = append(obs, model.Observation{
			Period: d.Format(projection.PeriodLayout),
			Date:   d,
			Value:  model.Float(v),
			Prior:  model.Float(prior),
		})
	}
	return obs
}

// Metrics returns the headline metrics. When history is non-empty the
// revenue card is the range total compared with the prior period.
func (g *Generator) Metrics(history []model.Observation) model.Metrics {
	const (
		baseRevenue     = 1200000.0
		baseUsers       = 12500.0
		baseConversions = 1020.0
		baseGrowth      = 8.2
	)
	revVar := g.between(-50000, 50000)
	usersVar := math.Floor(g.between(-500, 500))
	convVar := math.Floor(g.between(-50, 50))
	growthVar := g.between(-1, 1)

	revenue := model.Metric{Label: "Total Revenue", Value: baseRevenue + revVar, Change: revVar / baseRevenue * 100}
	var cur, prev float64
	for _, o := range history {
		if o.Value != nil {
			cur += *o.Value
		}
		if o.Prior != nil {
			prev += *o.Prior
		}
	}
	if cur > 0 {
		revenue.Value = cur
		if prev > 0 {
			revenue.Change = (cur - prev) / prev * 100
		}
	}

	return model.Metrics{
		Revenue:     revenue,
		Users:       model.Metric{Label: "Active Users", Value: baseUsers + usersVar, Change: usersVar / baseUsers * 100},
		Conversions: model.Metric{Label: "Conversions", Value: baseConversions + convVar, Change: convVar / baseConversions * 100},
		Growth:      model.Metric{Label: "Growth Rate", Value: baseGrowth + growthVar, Change: growthVar},
	}
}

// Campaigns returns the fifteen named campaigns.
func (g *Generator) Campaigns(now time.Time) []model.Campaign {
	out := make([]model.Campaign, 0, len(CampaignNames))
	windowStart := now.AddDate(0, 0, -60)
	window := now.AddDate(0, 0, 30).Sub(windowStart)
	for _, name := range CampaignNames {
		start := model.Day(windowStart.Add(time.Duration(g.rng.Int64N(int64(window)))))
		end := start.AddDate(0, 0, int(g.intBetween(7, 90)))
		budget := float64(g.intBetween(5000, 100000))
		spent := float64(g.intBetween(int64(budget*0.1), int64(budget*0.9)))
		clicks := g.intBetween(1000, 50000)
		c := model.Campaign{
			ID:             g.newID(),
			Name:           name,
			Status:         pick(g, model.Statuses),
			StartDate:      start,
			EndDate:        end,
			Budget:         budget,
			Spent:          spent,
			Clicks:         clicks,
			Conversions:    g.intBetween(50, 2000),
			ROI:            float64(g.intBetween(50, 400)),
			Impressions:    clicks * g.intBetween(5, 15),
			CostPerClick:   math.Round(spent/float64(clicks)*100) / 100,
			Platform:       pick(g, platforms),
			AdType:         pick(g, adTypes),
			TargetAudience: pick(g, audiences),
		}
		c.Description = fmt.Sprintf("%s %s ads on %s for %s.", name, c.AdType, c.Platform, c.TargetAudience)
		out = append(out, c)
	}
	return out
}

// Distribution returns the user acquisition channel split.
func Distribution() []model.ChannelShare {
	return []model.ChannelShare{
		{Name: "Paid Search", Percent: 45},
		{Name: "Organic", Percent: 30},
		{Name: "Social Media", Percent: 15},
		{Name: "Referral", Percent: 10},
	}
}

// Conversions returns the n campaigns with the most conversions.
func Conversions(campaigns []model.Campaign, n int) []model.CampaignConversions {
	sorted := make([]model.Campaign, len(campaigns))
	copy(sorted, campaigns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Conversions > sorted[j].Conversions
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]model.CampaignConversions, len(sorted))
	for i, c := range sorted {
		out[i] = model.CampaignConversions{Campaign: c.Name, Conversions: c.Conversions}
	}
	return out
}
