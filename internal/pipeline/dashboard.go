package pipeline

import (
	"time"

	"github.com/admybrand/adpulse/internal/logging"
	"github.com/admybrand/adpulse/internal/mockdata"
	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/projection"
)

// Builder produces dashboard snapshots. Each Build generates fresh data and
// a fresh revenue series; nothing is carried between builds.
type Builder struct {
	Projection projection.Config
	// Seed fixes the generated data. Zero draws new data on every build.
	Seed uint64
	// TopN bounds the leaderboard and conversions chart.
	TopN int
	Now  func() time.Time
	Log  *logging.Logger
}

// NewBuilder returns a builder with default projection settings.
func NewBuilder(seed uint64) *Builder {
	return &Builder{Projection: projection.DefaultConfig(), Seed: seed}
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Builder) log() *logging.Logger {
	if b.Log != nil {
		return b.Log
	}
	return logging.Discard()
}

// ResolveRange fills in preset dates relative to the builder clock. Custom
// and already-resolved ranges pass through.
func (b *Builder) ResolveRange(r model.DateRange) model.DateRange {
	if r.Preset == "" {
		r.Preset = model.RangeLast6Months
	}
	if r.Preset != model.RangeCustom && r.IsOpen() {
		return model.Resolve(r.Preset, b.now())
	}
	return r
}

// Build assembles a complete dashboard snapshot for r.
func (b *Builder) Build(r model.DateRange) model.Dashboard {
	now := b.now()
	r = b.ResolveRange(r)
	gen := mockdata.New(b.Seed)

	history := gen.Revenue(r, now)
	kind := projection.Classify(r, now)
	base := history
	if kind == projection.RangeFuture {
		// Future ranges have no history of their own; seed the trend from
		// the most recent month.
		base = gen.Revenue(model.Resolve(model.RangeLast30Days, now), now)
	}

	proj := projection.New(b.Projection, gen.Source())
	forecast := proj.Project(base, r, now, mockdata.DailyRevenueBase)
	series := projection.BuildSeries(history, forecast)

	topN := b.TopN
	if topN <= 0 {
		topN = 6
	}
	campaigns := gen.Campaigns(now)
	metrics := gen.Metrics(history)
	insights := Insights(campaigns, metrics.Revenue.Change)

	b.log().Debug("built dashboard",
		"range", r.String(),
		"range_kind", kind.String(),
		"mode", forecast.Mode.String(),
		"history", len(history),
		"forecast", len(forecast.Values),
	)

	return model.Dashboard{
		GeneratedAt:  now,
		Range:        r,
		RangeKind:    kind.String(),
		Metrics:      metrics,
		Revenue:      series,
		ShowNote:     series.HasProjection(),
		Campaigns:    campaigns,
		Totals:       Aggregate(campaigns),
		TopCampaigns: TopByROI(campaigns, 3),
		Distribution: mockdata.Distribution(),
		Conversions:  mockdata.Conversions(campaigns, topN),
		Insights:     insights,
	}
}
