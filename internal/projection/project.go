package projection

import (
	"fmt"
	"time"

	"github.com/admybrand/adpulse/internal/model"
)

// PeriodLayout formats calendar period labels.
const PeriodLayout = "2006-01-02"

// Config controls the projector. Zero fields fall back to defaults, so a
// blend weight or trend rate of zero cannot be configured.
type Config struct {
	Horizon            int     `toml:"horizon" json:"horizon" yaml:"horizon"`
	Window             int     `toml:"window" json:"window" yaml:"window"`
	Jitter             Bounds  `toml:"jitter" json:"jitter" yaml:"jitter"`
	BlendWeight        float64 `toml:"blend_weight" json:"blend_weight" yaml:"blend_weight"`
	TrendRate          float64 `toml:"trend_rate" json:"trend_rate" yaml:"trend_rate"`
	SuppressHistorical bool    `toml:"suppress_historical" json:"suppress_historical" yaml:"suppress_historical"`
}

// DefaultConfig returns the standard projector settings.
func DefaultConfig() Config {
	return Config{
		Horizon:            7,
		Window:             30,
		Jitter:             DefaultJitter,
		BlendWeight:        0.3,
		TrendRate:          0.02,
		SuppressHistorical: true,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Horizon <= 0 {
		c.Horizon = d.Horizon
	}
	if c.Window <= 0 {
		c.Window = d.Window
	}
	if c.Jitter == (Bounds{}) {
		c.Jitter = d.Jitter
	}
	if c.BlendWeight <= 0 || c.BlendWeight > 1 {
		c.BlendWeight = d.BlendWeight
	}
	if c.TrendRate == 0 {
		c.TrendRate = d.TrendRate
	}
	return c
}

// Forecast is the output of one projection run.
type Forecast struct {
	Mode   Mode
	Line   Line      // zero unless Mode is ModeRegression
	Raw    []float64 // unjittered extrapolation
	Values []float64
	Labels []string
	Dates  []time.Time // nil when labels are synthetic
}

// Empty reports whether there is nothing to display.
func (f Forecast) Empty() bool { return len(f.Values) == 0 }

// Projector turns a historical series into a short forecast.
type Projector struct {
	cfg Config
	src Source
}

// New creates a projector. A nil src disables jitter randomness and uses the
// lower jitter bound, so callers normally pass NewSource(seed).
func New(cfg Config, src Source) *Projector {
	return &Projector{cfg: cfg.withDefaults(), src: src}
}

// Config returns the effective configuration.
func (p *Projector) Config() Config { return p.cfg }

// Regress runs the regression path over obs, ignoring any date range policy.
// Fewer than two valid observations yield an empty forecast.
func (p *Projector) Regress(obs []model.Observation) Forecast {
	vals, _ := ValidValues(obs)
	if len(vals) < 2 {
		return Forecast{Mode: ModeRegression}
	}
	window := Trailing(vals, p.cfg.Window)
	line := Fit(window)
	raw := line.Extrapolate(p.cfg.Horizon)

	values := Jitter(raw, p.cfg.Jitter, p.src)
	values[0] = Blend(values[0], window[len(window)-1], p.cfg.BlendWeight)

	f := Forecast{Mode: ModeRegression, Line: line, Raw: raw, Values: values}
	f.Labels, f.Dates = labels(lastDate(obs), len(values), 1)
	return f
}

// lastDate is the date of the last dated observation, gaps included, so the
// forecast starts after the whole history.
func lastDate(obs []model.Observation) time.Time {
	for i := len(obs) - 1; i >= 0; i-- {
		if obs[i].HasDate() {
			return obs[i].Date
		}
	}
	return time.Time{}
}

// Synthetic produces the display-only uptrend used for future ranges.
// Labels start at start when it is set.
func (p *Projector) Synthetic(base float64, start time.Time) Forecast {
	values := SyntheticTrend(base, p.cfg.Horizon, p.cfg.TrendRate, p.cfg.Jitter, p.src)
	f := Forecast{Mode: ModeSynthetic, Values: values}
	f.Raw = SyntheticTrend(base, p.cfg.Horizon, p.cfg.TrendRate, NoJitter, nil)
	f.Labels, f.Dates = labels(start, len(values), 0)
	return f
}

// Project applies the date range policy and dispatches to the matching
// strategy. For future ranges the synthetic trend is based on the last valid
// observation in obs, or fallbackBase when obs has none.
func (p *Projector) Project(obs []model.Observation, r model.DateRange, now time.Time, fallbackBase float64) Forecast {
	switch Decide(Classify(r, now), p.cfg.SuppressHistorical) {
	case ModeSuppressed:
		return Forecast{Mode: ModeSuppressed}
	case ModeSynthetic:
		base := fallbackBase
		if vals, _ := ValidValues(obs); len(vals) > 0 {
			base = vals[len(vals)-1]
		}
		return p.Synthetic(base, r.From)
	}
	return p.Regress(obs)
}

// labels names n forecast steps. With a calendar anchor the k-th label is
// anchor + offset + k days, otherwise the sequence T+1, T+2, ...
func labels(anchor time.Time, n, offset int) ([]string, []time.Time) {
	out := make([]string, n)
	if anchor.IsZero() {
		for k := range out {
			out[k] = fmt.Sprintf("T+%d", k+1)
		}
		return out, nil
	}
	dates := make([]time.Time, n)
	for k := range out {
		dates[k] = anchor.AddDate(0, 0, k+offset)
		out[k] = dates[k].Format(PeriodLayout)
	}
	return out, dates
}
