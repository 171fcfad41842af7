package projection

import (
	"time"

	"github.com/admybrand/adpulse/internal/model"
)

// RangeKind places a date range relative to today.
type RangeKind int

const (
	RangeMixed RangeKind = iota
	RangeHistorical
	RangeFuture
)

func (k RangeKind) String() string {
	switch k {
	case RangeHistorical:
		return "historical"
	case RangeFuture:
		return "future"
	}
	return "mixed"
}

// Mode is the forecasting strategy chosen for a range.
type Mode int

const (
	ModeRegression Mode = iota
	ModeSuppressed
	ModeSynthetic
)

func (m Mode) String() string {
	switch m {
	case ModeSuppressed:
		return "suppressed"
	case ModeSynthetic:
		return "synthetic"
	}
	return "regression"
}

// Classify reports whether r lies entirely before today, entirely after
// today, or spans it. Open ranges are mixed.
func Classify(r model.DateRange, now time.Time) RangeKind {
	today := model.Day(now)
	switch {
	case !r.To.IsZero() && model.Day(r.To).Before(today):
		return RangeHistorical
	case !r.From.IsZero() && model.Day(r.From).After(today):
		return RangeFuture
	}
	return RangeMixed
}

// Decide maps a range kind to a forecasting mode.
func Decide(kind RangeKind, suppressHistorical bool) Mode {
	switch kind {
	case RangeHistorical:
		if suppressHistorical {
			return ModeSuppressed
		}
	case RangeFuture:
		return ModeSynthetic
	}
	return ModeRegression
}
