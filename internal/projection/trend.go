package projection

import "math"

// SyntheticTrend produces a display-only uptrend of horizon values:
// base * (1+rate)^k * jitter, clamped at zero.
func SyntheticTrend(base float64, horizon int, rate float64, b Bounds, src Source) []float64 {
	if horizon <= 0 {
		return nil
	}
	out := make([]float64, horizon)
	for k := range out {
		out[k] = Clamp(base * math.Pow(1+rate, float64(k)) * b.Factor(src))
	}
	return out
}
