// Package pipeline assembles dashboard snapshots from generated data.
package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/admybrand/adpulse/internal/model"
)

// Aggregate computes totals across a set of campaigns.
func Aggregate(campaigns []model.Campaign) model.CampaignTotals {
	t := model.CampaignTotals{ByStatus: make(map[model.CampaignStatus]int)}
	var roiSum float64
	for _, c := range campaigns {
		t.Count++
		t.Clicks += c.Clicks
		t.Conversions += c.Conversions
		t.Impressions += c.Impressions
		t.Budget += c.Budget
		t.Spent += c.Spent
		t.ByStatus[c.Status]++
		roiSum += c.ROI
	}
	if t.Count > 0 {
		t.AvgROI = roiSum / float64(t.Count)
	}
	if t.Clicks > 0 {
		t.ConversionRate = float64(t.Conversions) / float64(t.Clicks) * 100
	}
	return t
}

// TopByROI returns up to n campaigns ordered by ROI descending.
func TopByROI(campaigns []model.Campaign, n int) []model.Campaign {
	sorted := make([]model.Campaign, len(campaigns))
	copy(sorted, campaigns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ROI > sorted[j].ROI
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// SortField names a sortable campaign table column.
type SortField string

const (
	SortName        SortField = "name"
	SortStatus      SortField = "status"
	SortClicks      SortField = "clicks"
	SortConversions SortField = "conversions"
	SortROI         SortField = "roi"
	SortSpent       SortField = "spent"
	SortStart       SortField = "start"
)

// SortFields lists the table columns in cycle order.
var SortFields = []SortField{SortName, SortStatus, SortClicks, SortConversions, SortROI, SortSpent, SortStart}

// ParseSortField matches a sort field name case-insensitively.
func ParseSortField(s string) (SortField, error) {
	for _, f := range SortFields {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// SortCampaigns sorts in place by field. Unknown fields keep the order.
func SortCampaigns(campaigns []model.Campaign, field SortField, desc bool) {
	less := func(a, b model.Campaign) bool {
		switch field {
		case SortName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case SortStatus:
			return a.Status < b.Status
		case SortClicks:
			return a.Clicks < b.Clicks
		case SortConversions:
			return a.Conversions < b.Conversions
		case SortROI:
			return a.ROI < b.ROI
		case SortSpent:
			return a.Spent < b.Spent
		case SortStart:
			return a.StartDate.Before(b.StartDate)
		}
		return false
	}
	sort.SliceStable(campaigns, func(i, j int) bool {
		if desc {
			return less(campaigns[j], campaigns[i])
		}
		return less(campaigns[i], campaigns[j])
	})
}

// FilterByStatus returns campaigns with the given status. An empty status
// matches everything.
func FilterByStatus(campaigns []model.Campaign, status model.CampaignStatus) []model.Campaign {
	if status == "" {
		return campaigns
	}
	var result []model.Campaign
	for _, c := range campaigns {
		if c.Status == status {
			result = append(result, c)
		}
	}
	return result
}

// FilterByName returns campaigns whose name contains the query substring.
func FilterByName(campaigns []model.Campaign, query string) []model.Campaign {
	query = strings.TrimSpace(query)
	if query == "" {
		return campaigns
	}
	var result []model.Campaign
	for _, c := range campaigns {
		if containsIgnoreCase(c.Name, query) {
			result = append(result, c)
		}
	}
	return result
}

// Select returns the campaigns whose IDs are in ids, in their original
// order. An empty selection returns every campaign.
func Select(campaigns []model.Campaign, ids []string) []model.Campaign {
	if len(ids) == 0 {
		return campaigns
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var result []model.Campaign
	for _, c := range campaigns {
		if _, ok := want[c.ID]; ok {
			result = append(result, c)
		}
	}
	return result
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
