package cmd

import (
	"fmt"

	"github.com/admybrand/adpulse/internal/cli"
	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Headline metrics, revenue trend and campaign totals",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	d, err := loadDashboard()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("ADPULSE  " + d.Range.String()))
	fmt.Println()

	m := d.Metrics
	rows := [][]string{
		{m.Revenue.Label, cli.FormatRupees(m.Revenue.Value), cli.RenderChange(m.Revenue.Change)},
		{m.Users.Label, cli.FormatNumber(int64(m.Users.Value)), cli.RenderChange(m.Users.Change)},
		{m.Conversions.Label, cli.FormatNumber(int64(m.Conversions.Value)), cli.RenderChange(m.Conversions.Change)},
		{m.Growth.Label, cli.FormatPercent(m.Growth.Value), cli.RenderChange(m.Growth.Change)},
		{"---"},
		{"Campaigns", cli.FormatNumber(int64(d.Totals.Count)), fmt.Sprintf("%d active", d.Totals.ByStatus[model.StatusActive])},
		{"Spend", cli.FormatRupees(d.Totals.Spent), "of " + cli.FormatRupees(d.Totals.Budget)},
		{"Avg ROI", cli.FormatPercent(d.Totals.AvgROI), ""},
		{"Conv Rate", cli.FormatPercent(d.Totals.ConversionRate), ""},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value", "vs last month"},
		Rows:    rows,
	}))
	fmt.Println()

	printRevenueSparkline(d)
	printConversionBars(d.Conversions)
	if d.Totals.Budget > 0 {
		fmt.Printf("  Budget   %s\n\n", cli.RenderProgressBar(d.Totals.Spent/d.Totals.Budget*100, 30))
	}

	head := pipeline.Headline(d.Campaigns, d.Insights)
	fmt.Printf("  %s  %s\n", head.Title, cli.RenderNote(head.Message))
	fmt.Println()
	return nil
}

// printRevenueSparkline prints the trend line and, when a forecast exists,
// its total and the projection note.
func printRevenueSparkline(d model.Dashboard) {
	var history, forecast []float64
	for _, p := range d.Revenue {
		switch {
		case p.Projected != nil:
			forecast = append(forecast, *p.Projected)
		case p.Actual != nil:
			history = append(history, *p.Actual)
		}
	}
	if len(history)+len(forecast) == 0 {
		fmt.Println("  No revenue data for this range")
		fmt.Println()
		return
	}

	fmt.Printf("  Revenue  %s\n", cli.RenderForecastSparkline(history, forecast))
	if len(forecast) > 0 {
		var total float64
		for _, v := range forecast {
			total += v
		}
		fmt.Printf("  Next %d days projected: %s\n", len(forecast), cli.FormatRupees(total))
	}
	if d.ShowNote {
		fmt.Printf("  %s\n", cli.RenderNote(projectionNote))
	}
	fmt.Println()
}

func printConversionBars(rows []model.CampaignConversions) {
	if len(rows) == 0 {
		return
	}
	var peak float64
	labelW := 0
	for _, r := range rows {
		peak = max(peak, float64(r.Conversions))
		labelW = max(labelW, len([]rune(r.Campaign)))
	}
	fmt.Println("  Conversions by campaign")
	for _, r := range rows {
		fmt.Println(cli.RenderHorizontalBar(r.Campaign, float64(r.Conversions), peak, 30, labelW))
	}
	fmt.Println()
}

const projectionNote = "Projection generated using past 30 days of campaign data."
