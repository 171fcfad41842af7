package model

import "time"

// Metric is one headline card value with its change versus the prior period.
type Metric struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Change float64 `json:"change"` // percent
}

// Metrics holds the four headline dashboard metrics.
type Metrics struct {
	Revenue     Metric `json:"revenue"`
	Users       Metric `json:"users"`
	Conversions Metric `json:"conversions"`
	Growth      Metric `json:"growth"`
}

// ChannelShare is one slice of the user acquisition distribution.
type ChannelShare struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// CampaignConversions is one bar of the conversions-by-campaign chart.
type CampaignConversions struct {
	Campaign    string `json:"campaign"`
	Conversions int64  `json:"conversions"`
}

// CampaignTotals aggregates a set of campaigns.
type CampaignTotals struct {
	Count          int                    `json:"count"`
	Clicks         int64                  `json:"clicks"`
	Conversions    int64                  `json:"conversions"`
	Impressions    int64                  `json:"impressions"`
	Budget         float64                `json:"budget"`
	Spent          float64                `json:"spent"`
	AvgROI         float64                `json:"avg_roi"`
	ConversionRate float64                `json:"conversion_rate"`
	ByStatus       map[CampaignStatus]int `json:"by_status"`
}

// InsightKind classifies an insight banner entry.
type InsightKind string

const (
	InsightPositive InsightKind = "positive"
	InsightNegative InsightKind = "negative"
	InsightWarning  InsightKind = "warning"
	InsightNeutral  InsightKind = "neutral"
)

// Insight is one message in the dashboard insight banner.
type Insight struct {
	Kind    InsightKind `json:"kind"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
}

// Dashboard is a complete snapshot of everything the dashboard renders.
type Dashboard struct {
	GeneratedAt  time.Time             `json:"generated_at"`
	Range        DateRange             `json:"range"`
	RangeKind    string                `json:"range_kind"`
	Metrics      Metrics               `json:"metrics"`
	Revenue      Series                `json:"revenue"`
	ShowNote     bool                  `json:"show_projection_note"`
	Campaigns    []Campaign            `json:"campaigns"`
	Totals       CampaignTotals        `json:"totals"`
	TopCampaigns []Campaign            `json:"top_campaigns"`
	Distribution []ChannelShare        `json:"distribution"`
	Conversions  []CampaignConversions `json:"conversions"`
	Insights     []Insight             `json:"insights"`
}
