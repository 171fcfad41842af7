// Package model defines domain types for adpulse campaigns, metrics and revenue series.
package model

import "time"

// Observation is one historical revenue sample fed to the projector.
// A nil Value marks a gap in the data.
type Observation struct {
	Period string
	Date   time.Time // zero when the series has no calendar context
	Value  *float64
	Prior  *float64
}

// HasDate reports whether the observation carries a calendar date.
func (o Observation) HasDate() bool { return !o.Date.IsZero() }

// RevenuePoint is one chart point. Historical points carry Actual (and
// optionally PriorPeriodActual); forecast points carry only Projected.
type RevenuePoint struct {
	Period            string     `json:"period"`
	Date              *time.Time `json:"date,omitempty"`
	Actual            *float64   `json:"actual,omitempty"`
	PriorPeriodActual *float64   `json:"prior_period_actual,omitempty"`
	Projected         *float64   `json:"projected,omitempty"`
}

// IsForecast reports whether the point belongs to the forecast region.
func (p RevenuePoint) IsForecast() bool { return p.Projected != nil }

// Series is an ordered chronological sequence of revenue points.
type Series []RevenuePoint

// HasProjection reports whether any point carries a projected value.
func (s Series) HasProjection() bool {
	for _, p := range s {
		if p.Projected != nil {
			return true
		}
	}
	return false
}

// Historical returns the prefix of points that carry actual data.
func (s Series) Historical() Series {
	for i, p := range s {
		if p.IsForecast() {
			return s[:i]
		}
	}
	return s
}

// Forecast returns the projected suffix of the series.
func (s Series) Forecast() Series {
	for i, p := range s {
		if p.IsForecast() {
			return s[i:]
		}
	}
	return nil
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
