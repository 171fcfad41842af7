// Package assistant implements the simulated campaign insights chat.
// Replies are canned text keyed by page and request type.
package assistant

import (
	"fmt"
	"strings"
)

// Page is the dashboard view the assistant was opened from.
type Page string

const (
	PageOverview  Page = "overview"
	PageReports   Page = "reports"
	PageCampaigns Page = "manage-campaigns"
)

// ParsePage matches a page name. Unknown names map to the overview.
func ParsePage(s string) Page {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reports", "report":
		return PageReports
	case "manage-campaigns", "campaigns", "campaign":
		return PageCampaigns
	}
	return PageOverview
}

// Request is one of the quick-action prompts.
type Request string

const (
	RequestSummary       Request = "summary"
	RequestBestCampaigns Request = "best-campaigns"
	RequestImprovements  Request = "improvements"
)

// Requests lists the quick actions in menu order.
var Requests = []Request{RequestSummary, RequestBestCampaigns, RequestImprovements}

// ParseRequest matches a request name.
func ParseRequest(s string) (Request, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range Requests {
		if string(r) == s {
			return r, nil
		}
	}
	switch s {
	case "best", "top":
		return RequestBestCampaigns, nil
	case "improve", "suggestions":
		return RequestImprovements, nil
	}
	return "", fmt.Errorf("unknown request %q (want summary, best-campaigns or improvements)", s)
}

// PromptText is the user-side message for a quick action.
func PromptText(r Request) string {
	switch r {
	case RequestSummary:
		return "📈 Give me a quick summary"
	case RequestBestCampaigns:
		return "🔥 Which campaigns performed best?"
	case RequestImprovements:
		return "💡 Suggestions to improve performance"
	}
	return ""
}

var responses = map[Page]map[Request]string{
	PageOverview: {
		RequestSummary: `📊 Dashboard Overview Summary

Your campaigns are showing strong performance with:
• Revenue: ₹2.4M (+24.5% vs last month)
• Active Users: 45.2K (+18.2% growth)
• Conversions: 12.8K (+31.4% increase)
• Overall Growth: 22.3% across all metrics

The "Summer Sale Campaign" is driving 32% of total revenue, while user engagement has improved by 28% through optimized targeting.`,
		RequestBestCampaigns: `🔥 Top Performing Campaigns

1. Summer Sale Campaign (+32% ROI)
   - 2.4K conversions, ₹480K revenue
   - High engagement, strong CTR

2. Brand Awareness (+28% ROI)
   - 1.8K conversions, ₹360K revenue
   - Consistent performance

3. Product Launch (+24% ROI)
   - 1.2K conversions, ₹240K revenue
   - Growing steadily`,
		RequestImprovements: `💡 Performance Optimization Suggestions

• Increase budget for Summer Sale Campaign by 15%
• A/B test ad copy for Brand Awareness campaign
• Expand targeting for Product Launch to similar audiences
• Optimize landing pages to improve conversion rates
• Implement retargeting for abandoned cart users`,
	},
	PageReports: {
		RequestSummary: `📈 Reports Analysis Summary

Based on your campaign data:
• Total Campaigns: 8 active campaigns
• Average ROI: 24.5% across all campaigns
• Best Performer: Summer Sale (+32% ROI)
• Total Revenue: ₹2.4M from all campaigns
• Conversion Rate: 3.2% (industry average: 2.1%)

Your campaigns are performing 16% above industry benchmarks.`,
		RequestBestCampaigns: `🏆 Campaign Performance Analysis

Top 3 Campaigns by ROI:

1. Summer Sale Campaign
   - ROI: +32% | Revenue: ₹480K
   - CTR: 4.2% | Conversions: 2.4K
   - Status: Active & Optimized

2. Brand Awareness
   - ROI: +28% | Revenue: ₹360K
   - CTR: 3.8% | Conversions: 1.8K
   - Status: Active

3. Product Launch
   - ROI: +24% | Revenue: ₹240K
   - CTR: 3.1% | Conversions: 1.2K
   - Status: Active`,
		RequestImprovements: `🚀 Strategic Recommendations

Immediate Actions:
• Scale Summer Sale Campaign budget by 20%
• Optimize Brand Awareness ad copy (CTR below average)
• Implement lookalike audiences for Product Launch

Long-term Strategy:
• Develop seasonal campaign calendar
• Implement advanced attribution modeling
• Create automated bid optimization rules
• Set up real-time performance alerts`,
	},
	PageCampaigns: {
		RequestSummary: `📊 Campaign Management Summary

Your campaign management overview:
• Total Campaigns: 15 campaigns across all statuses
• Active Campaigns: 8 currently running
• Paused Campaigns: 4 temporarily stopped
• Completed Campaigns: 3 finished campaigns
• Average Budget: ₹45K per campaign
• Total Spent: ₹675K across all campaigns

Campaign management is well-organized with good status tracking.`,
		RequestBestCampaigns: `🔥 Top Campaigns by Performance

Best Performing Campaigns:

1. Summer Sale Campaign
   - Status: Active | Budget: ₹50K
   - ROI: +32% | High engagement
   - Recommendation: Scale budget

2. Brand Awareness
   - Status: Active | Budget: ₹40K
   - ROI: +28% | Consistent performance
   - Recommendation: Continue current strategy

3. Product Launch
   - Status: Active | Budget: ₹35K
   - ROI: +24% | Growing steadily
   - Recommendation: Optimize targeting`,
		RequestImprovements: `💡 Campaign Management Suggestions

Immediate Actions:
• Reactivate paused campaigns with high potential
• Increase budget for top-performing campaigns
• Optimize underperforming campaigns
• Review completed campaigns for insights

Management Tips:
• Set up automated status alerts
• Implement budget pacing rules
• Create campaign templates for consistency
• Schedule regular performance reviews`,
	},
}

// Respond returns the canned reply for a page and request. Unknown pages
// answer as the overview.
func Respond(p Page, r Request) (string, bool) {
	byReq, ok := responses[p]
	if !ok {
		byReq = responses[PageOverview]
	}
	text, ok := byReq[r]
	return text, ok
}

// FreeTextReply is the reply to a typed message.
func FreeTextReply(msg string) string {
	return fmt.Sprintf("I understand you're asking about \"%s\". Let me analyze your campaign data and provide insights. "+
		"This is a simulated response - in a real implementation, this would connect to an AI service.", msg)
}
