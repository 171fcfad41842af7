package model

import "testing"

func TestCampaignDerivedMetrics(t *testing.T) {
	c := Campaign{Budget: 20000, Spent: 5000, Clicks: 400, Conversions: 20, Impressions: 8000}
	if got := c.CTR(); got != 5 {
		t.Errorf("CTR = %v, want 5", got)
	}
	if got := c.ConversionRate(); got != 5 {
		t.Errorf("ConversionRate = %v, want 5", got)
	}
	if got := c.CostPerConversion(); got != 250 {
		t.Errorf("CostPerConversion = %v, want 250", got)
	}
	if got := c.BudgetUsed(); got != 25 {
		t.Errorf("BudgetUsed = %v, want 25", got)
	}

	var zero Campaign
	if zero.CTR() != 0 || zero.ConversionRate() != 0 || zero.CostPerConversion() != 0 || zero.BudgetUsed() != 0 {
		t.Error("zero campaign should report zero rates")
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("Paused"); err != nil || s != StatusPaused {
		t.Fatalf("ParseStatus(Paused) = %q, %v", s, err)
	}
	if _, err := ParseStatus("archived"); err == nil {
		t.Fatal("unknown status accepted")
	}
}
