package model

import (
	"fmt"
	"strings"
	"time"
)

// RangePreset names a dashboard date range selection.
type RangePreset string

const (
	RangeLast30Days  RangePreset = "last30days"
	RangeLast6Months RangePreset = "last6months"
	RangeThisYear    RangePreset = "thisYear"
	RangeLastYear    RangePreset = "lastYear"
	RangeNextQuarter RangePreset = "nextQuarter"
	RangeCustom      RangePreset = "custom"
)

// Presets lists the selectable presets in menu order.
var Presets = []RangePreset{
	RangeLast30Days, RangeLast6Months, RangeThisYear, RangeLastYear, RangeNextQuarter, RangeCustom,
}

// Label returns a human-readable preset name.
func (p RangePreset) Label() string {
	switch p {
	case RangeLast30Days:
		return "Last 30 days"
	case RangeLast6Months:
		return "Last 6 months"
	case RangeThisYear:
		return "This year"
	case RangeLastYear:
		return "Last year"
	case RangeNextQuarter:
		return "Next quarter"
	case RangeCustom:
		return "Custom"
	}
	return string(p)
}

// ParsePreset matches a preset name case-insensitively.
func ParsePreset(s string) (RangePreset, error) {
	for _, p := range Presets {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown date range %q", s)
}

// DateRange is an inclusive calendar day range. From and To are midnight
// local time; a zero From or To leaves that side open.
type DateRange struct {
	Preset RangePreset `json:"preset"`
	From   time.Time   `json:"from"`
	To     time.Time   `json:"to"`
}

// Day truncates t to local midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Resolve expands a preset into concrete dates relative to now.
// Custom ranges are returned with their dates normalised to midnight.
func Resolve(p RangePreset, now time.Time) DateRange {
	today := Day(now)
	switch p {
	case RangeLast30Days:
		return DateRange{Preset: p, From: today.AddDate(0, 0, -29), To: today}
	case RangeLast6Months:
		return DateRange{Preset: p, From: today.AddDate(0, -6, 0), To: today}
	case RangeThisYear:
		y := today.Year()
		return DateRange{
			Preset: p,
			From:   time.Date(y, 1, 1, 0, 0, 0, 0, now.Location()),
			To:     time.Date(y, 12, 31, 0, 0, 0, 0, now.Location()),
		}
	case RangeLastYear:
		y := today.Year() - 1
		return DateRange{
			Preset: p,
			From:   time.Date(y, 1, 1, 0, 0, 0, 0, now.Location()),
			To:     time.Date(y, 12, 31, 0, 0, 0, 0, now.Location()),
		}
	case RangeNextQuarter:
		q := (int(today.Month()) - 1) / 3
		start := time.Date(today.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 3, 0)
		return DateRange{Preset: p, From: start, To: start.AddDate(0, 3, -1)}
	}
	return DateRange{Preset: RangeCustom}
}

// Custom builds a custom range from two dates. The bounds are swapped when
// given in reverse order.
func Custom(from, to time.Time) DateRange {
	from, to = Day(from), Day(to)
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		from, to = to, from
	}
	return DateRange{Preset: RangeCustom, From: from, To: to}
}

// Days returns the number of calendar days in the range, inclusive.
func (r DateRange) Days() int {
	if r.From.IsZero() || r.To.IsZero() {
		return 0
	}
	return int(Day(r.To).Sub(Day(r.From)).Hours()/24+0.5) + 1
}

// IsOpen reports whether either bound is missing.
func (r DateRange) IsOpen() bool { return r.From.IsZero() || r.To.IsZero() }

// String renders the range as "2006-01-02 to 2006-01-02".
func (r DateRange) String() string {
	if r.IsOpen() {
		return r.Preset.Label()
	}
	return r.From.Format("2006-01-02") + " to " + r.To.Format("2006-01-02")
}
