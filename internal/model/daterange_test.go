package model

import (
	"testing"
	"time"
)

func TestResolvePresets(t *testing.T) {
	now := time.Date(2026, 5, 14, 15, 30, 0, 0, time.UTC)

	r := Resolve(RangeLast30Days, now)
	if got := r.Days(); got != 30 {
		t.Fatalf("last30days Days() = %d, want 30", got)
	}
	if !r.To.Equal(time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("last30days To = %v", r.To)
	}

	ly := Resolve(RangeLastYear, now)
	if ly.From.Year() != 2025 || ly.To.Month() != time.December || ly.To.Day() != 31 {
		t.Fatalf("lastYear = %v", ly)
	}

	nq := Resolve(RangeNextQuarter, now)
	want := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	if !nq.From.Equal(want) {
		t.Fatalf("nextQuarter From = %v, want %v", nq.From, want)
	}
	if !nq.To.Equal(time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("nextQuarter To = %v", nq.To)
	}
}

func TestCustomSwapsReversedBounds(t *testing.T) {
	a := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)
	r := Custom(a, b)
	if !r.From.Before(r.To) {
		t.Fatalf("Custom(%v, %v) = %v, want ordered bounds", a, b, r)
	}
	if got := r.Days(); got != 10 {
		t.Fatalf("Days() = %d, want 10", got)
	}
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset("LAST6MONTHS")
	if err != nil || p != RangeLast6Months {
		t.Fatalf("ParsePreset = %q, %v", p, err)
	}
	if _, err := ParsePreset("fortnight"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestSeriesSplit(t *testing.T) {
	s := Series{
		{Period: "a", Actual: Float(1)},
		{Period: "b", Actual: Float(2)},
		{Period: "c", Projected: Float(3)},
	}
	if !s.HasProjection() {
		t.Fatal("HasProjection() = false")
	}
	if len(s.Historical()) != 2 || len(s.Forecast()) != 1 {
		t.Fatalf("split = %d/%d, want 2/1", len(s.Historical()), len(s.Forecast()))
	}
	if Series(s[:2]).HasProjection() {
		t.Fatal("historical-only series reports projection")
	}
}
