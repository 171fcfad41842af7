package projection

import (
	"math"

	"github.com/admybrand/adpulse/internal/model"
)

// ValidValues returns the non-gap values of obs in order, along with the
// index of the last valid observation (-1 if none).
func ValidValues(obs []model.Observation) ([]float64, int) {
	vals := make([]float64, 0, len(obs))
	last := -1
	for i, o := range obs {
		if o.Value == nil || math.IsNaN(*o.Value) || math.IsInf(*o.Value, 0) {
			continue
		}
		vals = append(vals, *o.Value)
		last = i
	}
	return vals, last
}

// Trailing returns the last size values of vals. A non-positive size
// returns vals unchanged.
func Trailing(vals []float64, size int) []float64 {
	if size <= 0 || len(vals) <= size {
		return vals
	}
	return vals[len(vals)-size:]
}
