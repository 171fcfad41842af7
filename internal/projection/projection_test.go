package projection

import (
	"math"
	"testing"
	"time"

	"github.com/admybrand/adpulse/internal/model"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

// fixedSource always returns the same draw.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func undated(vals ...float64) []model.Observation {
	obs := make([]model.Observation, len(vals))
	for i, v := range vals {
		obs[i] = model.Observation{Period: "p" + string(rune('a'+i%26)), Value: model.Float(v)}
	}
	return obs
}

func TestFitRecoversLinearSlope(t *testing.T) {
	ys := []float64{1000, 1100, 1200, 1300, 1400, 1500, 1600}
	l := Fit(ys)
	if !approx(l.Slope, 100) {
		t.Fatalf("Slope = %v, want 100", l.Slope)
	}
	if !approx(l.Intercept, 1000) {
		t.Fatalf("Intercept = %v, want 1000", l.Intercept)
	}
}

func TestFitConstantSeries(t *testing.T) {
	l := Fit([]float64{42, 42, 42, 42})
	if l.Slope != 0 {
		t.Fatalf("Slope = %v, want 0", l.Slope)
	}
	for i, v := range l.Extrapolate(5) {
		if !approx(v, 42) {
			t.Fatalf("Extrapolate[%d] = %v, want 42", i, v)
		}
	}
}

func TestFitSinglePointHasZeroSlope(t *testing.T) {
	l := Fit([]float64{7})
	if l.Slope != 0 || l.Intercept != 7 {
		t.Fatalf("Fit([7]) = %+v", l)
	}
}

func TestRegressInsufficientData(t *testing.T) {
	p := New(DefaultConfig(), fixedSource(0.5))
	cases := map[string][]model.Observation{
		"empty":  nil,
		"single": undated(120),
		"gaps": {
			{Period: "a"},
			{Period: "b", Value: model.Float(5)},
			{Period: "c", Value: model.Float(math.NaN())},
		},
	}
	for name, obs := range cases {
		if f := p.Regress(obs); !f.Empty() {
			t.Fatalf("%s: got %d forecast points, want 0", name, len(f.Values))
		}
	}
}

func TestRegressUsesTrailingWindowOnly(t *testing.T) {
	var vals []float64
	for i := 0; i < 10; i++ {
		vals = append(vals, 1e6-float64(i)*5e4) // noisy, steeply falling prefix
	}
	var tail []float64
	for i := 0; i < 30; i++ {
		tail = append(tail, 500+float64(i)*3)
	}
	vals = append(vals, tail...)

	cfg := DefaultConfig()
	cfg.Jitter = NoJitter
	f := New(cfg, nil).Regress(undated(vals...))

	want := Fit(tail)
	if !approx(f.Line.Slope, want.Slope) || !approx(f.Line.Intercept, want.Intercept) {
		t.Fatalf("Line = %+v, want %+v", f.Line, want)
	}
	if !approx(f.Line.Slope, 3) {
		t.Fatalf("Slope = %v, want 3", f.Line.Slope)
	}
}

func TestFirstPointBlendsTowardLastActual(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Jitter = NoJitter
	obs := undated(10, 30, 20, 60, 40, 90)
	f := New(cfg, nil).Regress(obs)

	last := 90.0
	raw := f.Raw[0]
	lo, hi := math.Min(raw, last), math.Max(raw, last)
	if raw == last {
		t.Fatal("test series should not extrapolate to the last actual")
	}
	if !(f.Values[0] > lo && f.Values[0] < hi) {
		t.Fatalf("first = %v, want strictly between %v and %v", f.Values[0], lo, hi)
	}
	for k := 1; k < len(f.Values); k++ {
		if !approx(f.Values[k], f.Raw[k]) {
			t.Fatalf("Values[%d] = %v, want unblended %v", k, f.Values[k], f.Raw[k])
		}
	}
}

func TestProjectionNeverNegative(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Jitter = WideJitter
	cfg.Horizon = 20
	p := New(cfg, NewSource(7))
	f := p.Regress(undated(900, 700, 500, 300, 100))
	if f.Empty() {
		t.Fatal("expected a forecast")
	}
	for i, v := range f.Values {
		if v < 0 {
			t.Fatalf("Values[%d] = %v, want >= 0", i, v)
		}
	}
	for i, v := range p.Synthetic(-50, time.Time{}).Values {
		if v < 0 {
			t.Fatalf("synthetic[%d] = %v, want >= 0", i, v)
		}
	}
}

func TestSeededSourceIsDeterministic(t *testing.T) {
	obs := undated(100, 130, 125, 160, 170, 190, 185)
	a := New(DefaultConfig(), NewSource(42)).Regress(obs)
	b := New(DefaultConfig(), NewSource(42)).Regress(obs)
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			t.Fatalf("Values[%d]: %v != %v", i, a.Values[i], b.Values[i])
		}
	}
}

func TestJitterStaysInBounds(t *testing.T) {
	src := NewSource(3)
	for i := 0; i < 1000; i++ {
		f := DefaultJitter.Factor(src)
		if f < 0.90 || f > 1.10 {
			t.Fatalf("Factor = %v, outside [0.90, 1.10]", f)
		}
	}
	if got := WideJitter.Factor(fixedSource(1)); !approx(got, 1.15) {
		t.Fatalf("wide upper = %v, want 1.15", got)
	}
}

func TestEndToEndScenario(t *testing.T) {
	cfg := Config{Horizon: 3, Window: 6, Jitter: NoJitter, BlendWeight: 0.3}
	f := New(cfg, nil).Regress(undated(100, 110, 120, 130, 140, 150))

	if !approx(f.Line.Slope, 10) || !approx(f.Line.Intercept, 100) {
		t.Fatalf("Line = %+v, want slope 10 intercept 100", f.Line)
	}
	wantRaw := []float64{160, 170, 180}
	for i, w := range wantRaw {
		if !approx(f.Raw[i], w) {
			t.Fatalf("Raw[%d] = %v, want %v", i, f.Raw[i], w)
		}
	}
	if !approx(f.Values[0], 157) {
		t.Fatalf("Values[0] = %v, want 157", f.Values[0])
	}
	if !approx(f.Values[1], 170) || !approx(f.Values[2], 180) {
		t.Fatalf("Values = %v, want [157 170 180]", f.Values)
	}
	if f.Labels[0] != "T+1" || f.Labels[2] != "T+3" || f.Dates != nil {
		t.Fatalf("Labels = %v, want synthetic sequence", f.Labels)
	}
}

func TestCalendarLabelsFollowLastDate(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := Observations(start, []float64{1, 2, 3, math.NaN()})
	f := New(DefaultConfig(), fixedSource(0.5)).Regress(obs)
	if len(f.Labels) != 7 {
		t.Fatalf("len(Labels) = %d, want 7", len(f.Labels))
	}
	// Jan 4 is a gap but still a historical period; the forecast follows it.
	if f.Labels[0] != "2026-01-05" || f.Labels[6] != "2026-01-11" {
		t.Fatalf("Labels = %v", f.Labels)
	}
}

func TestTrailingGapKeepsBlendedFirstPoint(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := Observations(start, []float64{100, 110, 120, 130, 140, 150, math.NaN()})
	cfg := Config{Horizon: 3, Window: 30, Jitter: NoJitter, BlendWeight: 0.3}
	f := New(cfg, nil).Regress(obs)

	// Fit gives 160, 170, 180; the first step blends toward the last actual 150.
	if want := 0.3*150 + 0.7*160; !approx(f.Values[0], want) {
		t.Fatalf("Values[0] = %v, want %v", f.Values[0], want)
	}

	fc := BuildSeries(obs, f).Forecast()
	if len(fc) != cfg.Horizon {
		t.Fatalf("series forecast has %d points, want %d", len(fc), cfg.Horizon)
	}
	if fc[0].Period != "2026-01-08" || !approx(*fc[0].Projected, f.Values[0]) {
		t.Fatalf("first forecast point = %s %v", fc[0].Period, *fc[0].Projected)
	}
}

func TestZeroConfigUsesDefaults(t *testing.T) {
	got := New(Config{}, nil).Config()
	want := DefaultConfig()
	want.SuppressHistorical = false
	if got != want {
		t.Fatalf("Config = %+v, want %+v", got, want)
	}
}

func TestClassifyAndDecide(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		r        model.DateRange
		kind     RangeKind
		suppress bool
		mode     Mode
	}{
		{"last year", model.Resolve(model.RangeLastYear, now), RangeHistorical, true, ModeSuppressed},
		{"last year unsuppressed", model.Resolve(model.RangeLastYear, now), RangeHistorical, false, ModeRegression},
		{"next quarter", model.Resolve(model.RangeNextQuarter, now), RangeFuture, true, ModeSynthetic},
		{"this year", model.Resolve(model.RangeThisYear, now), RangeMixed, true, ModeRegression},
		{"ends today", model.Resolve(model.RangeLast30Days, now), RangeMixed, true, ModeRegression},
		{"open", model.DateRange{}, RangeMixed, true, ModeRegression},
	}
	for _, tt := range tests {
		kind := Classify(tt.r, now)
		if kind != tt.kind {
			t.Fatalf("%s: Classify = %v, want %v", tt.name, kind, tt.kind)
		}
		if mode := Decide(kind, tt.suppress); mode != tt.mode {
			t.Fatalf("%s: Decide = %v, want %v", tt.name, mode, tt.mode)
		}
	}
}

func TestProjectSuppressesHistoricalRange(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	r := model.Resolve(model.RangeLastYear, now)
	obs := Observations(r.From, []float64{10, 20, 30, 40})
	f := New(DefaultConfig(), NewSource(1)).Project(obs, r, now, 0)
	if f.Mode != ModeSuppressed || !f.Empty() {
		t.Fatalf("Project = %v with %d values, want suppressed", f.Mode, len(f.Values))
	}
}

func TestProjectFutureRangeUsesSyntheticTrend(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	r := model.Resolve(model.RangeNextQuarter, now)
	cfg := DefaultConfig()
	cfg.Jitter = NoJitter
	f := New(cfg, nil).Project(nil, r, now, 100)

	if f.Mode != ModeSynthetic {
		t.Fatalf("Mode = %v, want synthetic", f.Mode)
	}
	want := []float64{100, 102, 104.04}
	for i, w := range want {
		if math.Abs(f.Values[i]-w) > 1e-6 {
			t.Fatalf("Values[%d] = %v, want %v", i, f.Values[i], w)
		}
	}
	if f.Labels[0] != "2026-07-01" {
		t.Fatalf("Labels[0] = %q, want range start", f.Labels[0])
	}
}

func TestBuildSeriesAppendsForecast(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	obs := Observations(start, []float64{100, 110, 120, 130})
	obs[1].Prior = model.Float(95)
	f := New(DefaultConfig(), NewSource(9)).Regress(obs)
	s := BuildSeries(obs, f)

	if len(s) != len(obs)+len(f.Values) {
		t.Fatalf("len = %d, want %d", len(s), len(obs)+len(f.Values))
	}
	for i, pt := range s[:len(obs)] {
		if pt.Projected != nil || pt.Actual == nil {
			t.Fatalf("history[%d] = %+v", i, pt)
		}
	}
	if s[1].PriorPeriodActual == nil || *s[1].PriorPeriodActual != 95 {
		t.Fatal("prior period value lost")
	}
	for i, pt := range s[len(obs):] {
		if pt.Actual != nil || pt.PriorPeriodActual != nil || pt.Projected == nil {
			t.Fatalf("forecast[%d] = %+v", i, pt)
		}
	}
	seen := map[string]bool{}
	for _, pt := range s {
		if seen[pt.Period] {
			t.Fatalf("duplicate period %q", pt.Period)
		}
		seen[pt.Period] = true
	}
	if !s.HasProjection() {
		t.Fatal("HasProjection() = false")
	}
}
