// Package projection forecasts revenue from a trailing window of history.
//
// The work is split into composable stages: Fit computes an ordinary least
// squares line, Classify/Decide apply the date range policy, and
// Jitter/Blend post-process the raw extrapolation for display.
package projection

// Line is a fitted y = Slope*x + Intercept over x = 0..N-1.
type Line struct {
	Slope     float64
	Intercept float64
	N         int
}

// Fit computes the least squares line through (i, ys[i]).
// A degenerate fit (fewer than two points) yields a zero slope.
func Fit(ys []float64) Line {
	n := len(ys)
	if n == 0 {
		return Line{}
	}
	var meanX, meanY float64
	for i, y := range ys {
		meanX += float64(i)
		meanY += y
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var num, den float64
	for i, y := range ys {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}

	slope := 0.0
	if den != 0 {
		slope = num / den
	}
	return Line{
		Slope:     slope,
		Intercept: meanY - slope*meanX,
		N:         n,
	}
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Extrapolate returns the raw values for x = N..N+horizon-1.
func (l Line) Extrapolate(horizon int) []float64 {
	if horizon <= 0 {
		return nil
	}
	out := make([]float64, horizon)
	for k := range out {
		out[k] = l.At(float64(l.N + k))
	}
	return out
}
