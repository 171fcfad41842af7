package pipeline

import (
	"fmt"
	"sort"

	"github.com/admybrand/adpulse/internal/model"
)

var insightPriority = map[model.InsightKind]int{
	model.InsightPositive: 0,
	model.InsightWarning:  1,
	model.InsightNegative: 2,
	model.InsightNeutral:  3,
}

// Insights derives banner messages from campaign totals and the revenue
// change, ordered positive first, then warnings, negatives and neutral.
func Insights(campaigns []model.Campaign, revenueChange float64) []model.Insight {
	if len(campaigns) == 0 {
		return nil
	}
	t := Aggregate(campaigns)
	active := t.ByStatus[model.StatusActive]
	highROI := 0
	for _, c := range campaigns {
		if c.ROI > 200 {
			highROI++
		}
	}

	var out []model.Insight
	switch {
	case revenueChange > 10:
		out = append(out, model.Insight{Kind: model.InsightPositive, Title: "Revenue",
			Message: fmt.Sprintf("Revenue has increased by %.1f%% over the past period, with %d campaigns exceeding 200%% ROI.", revenueChange, highROI)})
	case revenueChange < -5:
		out = append(out, model.Insight{Kind: model.InsightNegative, Title: "Revenue",
			Message: fmt.Sprintf("Revenue has decreased by %.1f%%. Consider optimizing %d active campaigns to improve performance.", -revenueChange, active)})
	}

	switch {
	case t.AvgROI > 250:
		out = append(out, model.Insight{Kind: model.InsightPositive, Title: "ROI",
			Message: fmt.Sprintf("Excellent performance! Average ROI is %.0f%% with %d campaigns achieving over 200%% ROI.", t.AvgROI, highROI)})
	case t.AvgROI < 150:
		out = append(out, model.Insight{Kind: model.InsightWarning, Title: "ROI",
			Message: fmt.Sprintf("Average ROI is %.0f%%. Focus on optimizing %d active campaigns to improve returns.", t.AvgROI, active)})
	}

	switch {
	case t.ConversionRate > 5:
		out = append(out, model.Insight{Kind: model.InsightPositive, Title: "Conversions",
			Message: fmt.Sprintf("Strong conversion rate of %.1f%% across %d campaigns. Keep up the great work!", t.ConversionRate, t.Count)})
	case t.ConversionRate < 2:
		out = append(out, model.Insight{Kind: model.InsightWarning, Title: "Conversions",
			Message: fmt.Sprintf("Conversion rate is %.1f%%. Consider reviewing targeting and messaging for %d active campaigns.", t.ConversionRate, active)})
	}

	switch {
	case active == 0:
		out = append(out, model.Insight{Kind: model.InsightNeutral, Title: "Campaigns",
			Message: "No active campaigns detected. Consider launching new campaigns to drive growth."})
	case float64(active) < float64(t.Count)*0.5:
		out = append(out, model.Insight{Kind: model.InsightWarning, Title: "Campaigns",
			Message: fmt.Sprintf("Only %d of %d campaigns are active. Consider reactivating paused campaigns.", active, t.Count)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return insightPriority[out[i].Kind] < insightPriority[out[j].Kind]
	})
	return out
}

// Headline picks the banner message: the highest priority insight, or a
// neutral summary when no rule fired.
func Headline(campaigns []model.Campaign, insights []model.Insight) model.Insight {
	if len(insights) > 0 {
		return insights[0]
	}
	t := Aggregate(campaigns)
	return model.Insight{
		Kind:    model.InsightNeutral,
		Title:   "Campaigns",
		Message: fmt.Sprintf("Managing %d campaigns with %d currently active.", t.Count, t.ByStatus[model.StatusActive]),
	}
}
