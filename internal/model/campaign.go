package model

import (
	"fmt"
	"strings"
	"time"
)

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	StatusActive    CampaignStatus = "active"
	StatusPaused    CampaignStatus = "paused"
	StatusCompleted CampaignStatus = "completed"
)

// Statuses lists every campaign status in display order.
var Statuses = []CampaignStatus{StatusActive, StatusPaused, StatusCompleted}

// ParseStatus matches a status name case-insensitively.
func ParseStatus(s string) (CampaignStatus, error) {
	for _, st := range Statuses {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown campaign status %q", s)
}

// Campaign holds the performance data for one marketing campaign.
type Campaign struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Status      CampaignStatus `json:"status"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
	Budget      float64        `json:"budget"`
	Spent       float64        `json:"spent"`
	Clicks      int64          `json:"clicks"`
	Conversions int64          `json:"conversions"`
	ROI         float64        `json:"roi"`

	// Drawer detail fields.
	Impressions    int64   `json:"impressions"`
	CostPerClick   float64 `json:"cost_per_click"`
	Description    string  `json:"description"`
	Platform       string  `json:"platform"`
	AdType         string  `json:"ad_type"`
	TargetAudience string  `json:"target_audience"`
}

// CTR returns the click-through rate in percent.
func (c Campaign) CTR() float64 {
	if c.Impressions == 0 {
		return 0
	}
	return float64(c.Clicks) / float64(c.Impressions) * 100
}

// ConversionRate returns conversions per click in percent.
func (c Campaign) ConversionRate() float64 {
	if c.Clicks == 0 {
		return 0
	}
	return float64(c.Conversions) / float64(c.Clicks) * 100
}

// CostPerConversion returns spend divided by conversions.
func (c Campaign) CostPerConversion() float64 {
	if c.Conversions == 0 {
		return 0
	}
	return c.Spent / float64(c.Conversions)
}

// BudgetUsed returns the spent share of the budget in percent.
func (c Campaign) BudgetUsed() float64 {
	if c.Budget <= 0 {
		return 0
	}
	return c.Spent / c.Budget * 100
}
