package projection

import (
	"math"
	"time"

	"github.com/admybrand/adpulse/internal/model"
)

// BuildSeries converts history into chart points and appends the forecast
// after the last historical point. Forecast points whose period collides
// with a historical period are dropped.
func BuildSeries(history []model.Observation, f Forecast) model.Series {
	out := make(model.Series, 0, len(history)+len(f.Values))
	seen := make(map[string]struct{}, len(history))
	for _, o := range history {
		if _, dup := seen[o.Period]; dup {
			continue
		}
		seen[o.Period] = struct{}{}
		pt := model.RevenuePoint{
			Period:            o.Period,
			Actual:            o.Value,
			PriorPeriodActual: o.Prior,
		}
		if o.HasDate() {
			d := o.Date
			pt.Date = &d
		}
		out = append(out, pt)
	}
	for k, v := range f.Values {
		if _, dup := seen[f.Labels[k]]; dup {
			continue
		}
		pt := model.RevenuePoint{Period: f.Labels[k], Projected: model.Float(v)}
		if f.Dates != nil {
			d := f.Dates[k]
			pt.Date = &d
		}
		out = append(out, pt)
	}
	return out
}

// Observations builds an observation slice from daily values starting at
// start. NaN entries are recorded as gaps.
func Observations(start time.Time, values []float64) []model.Observation {
	obs := make([]model.Observation, len(values))
	for i, v := range values {
		d := start.AddDate(0, 0, i)
		obs[i] = model.Observation{Period: d.Format(PeriodLayout), Date: d}
		if !math.IsNaN(v) {
			obs[i].Value = model.Float(v)
		}
	}
	return obs
}
