package projection

import (
	"math/rand/v2"
	"time"
)

// Source supplies uniform random numbers in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded PCG source. Seed 0 picks a time-based seed.
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Bounds is a multiplicative jitter interval.
type Bounds struct {
	Min float64 `toml:"min" json:"min" yaml:"min"`
	Max float64 `toml:"max" json:"max" yaml:"max"`
}

var (
	// DefaultJitter is the standard ±10% display jitter.
	DefaultJitter = Bounds{Min: 0.90, Max: 1.10}
	// WideJitter is the ±15% variant.
	WideJitter = Bounds{Min: 0.85, Max: 1.15}
	// NoJitter leaves values untouched.
	NoJitter = Bounds{Min: 1, Max: 1}
)

// Factor draws one multiplier uniformly from [Min, Max].
func (b Bounds) Factor(src Source) float64 {
	if src == nil || b.Max <= b.Min {
		return b.Min
	}
	return b.Min + src.Float64()*(b.Max-b.Min)
}

// Jitter scales each value by an independent draw and clamps at zero.
func Jitter(vals []float64, b Bounds, src Source) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = Clamp(v * b.Factor(src))
	}
	return out
}

// Blend pulls the first forecast value toward the last actual so the
// projected line starts near the observed series.
func Blend(first, lastActual, weight float64) float64 {
	return Clamp(weight*lastActual + (1-weight)*first)
}

// Clamp floors v at zero.
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
