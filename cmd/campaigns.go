package cmd

import (
	"fmt"

	"github.com/admybrand/adpulse/internal/cli"
	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagCampStatus string
	flagCampSearch string
	flagCampSort   string
	flagCampAsc    bool
	flagCampLimit  int
)

var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "Campaign performance table",
	RunE:  runCampaigns,
}

func init() {
	campaignsCmd.Flags().StringVar(&flagCampStatus, "status", "", "Filter by status (active, paused, completed)")
	campaignsCmd.Flags().StringVarP(&flagCampSearch, "search", "s", "", "Filter by name (substring match)")
	campaignsCmd.Flags().StringVar(&flagCampSort, "sort", string(pipeline.SortROI), "Sort by name, status, clicks, conversions, roi, spent or start")
	campaignsCmd.Flags().BoolVar(&flagCampAsc, "asc", false, "Sort ascending")
	campaignsCmd.Flags().IntVarP(&flagCampLimit, "limit", "l", 0, "Show at most N campaigns (0 = all)")
	rootCmd.AddCommand(campaignsCmd)
}

func runCampaigns(_ *cobra.Command, _ []string) error {
	field, err := pipeline.ParseSortField(flagCampSort)
	if err != nil {
		return err
	}
	var status model.CampaignStatus
	if flagCampStatus != "" {
		if status, err = model.ParseStatus(flagCampStatus); err != nil {
			return err
		}
	}

	d, err := loadDashboard()
	if err != nil {
		return err
	}

	campaigns := pipeline.FilterByName(pipeline.FilterByStatus(d.Campaigns, status), flagCampSearch)
	pipeline.SortCampaigns(campaigns, field, !flagCampAsc)
	totals := pipeline.Aggregate(campaigns)
	if flagCampLimit > 0 && len(campaigns) > flagCampLimit {
		campaigns = campaigns[:flagCampLimit]
	}

	if len(campaigns) == 0 {
		fmt.Println("\n  No campaigns match the filters.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CAMPAIGNS  %d shown", len(campaigns))))
	fmt.Println()

	rows := make([][]string, 0, len(campaigns)+2)
	for _, c := range campaigns {
		rows = append(rows, []string{
			c.Name,
			string(c.Status),
			cli.FormatNumber(c.Clicks),
			cli.FormatNumber(c.Conversions),
			cli.FormatPercent(c.ROI),
			fmt.Sprintf("%.2f%%", c.CTR()),
			cli.FormatRupees(c.Spent),
			cli.FormatPercent(c.BudgetUsed()),
		})
	}
	rows = append(rows,
		[]string{"---"},
		[]string{
			"Total",
			fmt.Sprintf("%d", totals.Count),
			cli.FormatNumber(totals.Clicks),
			cli.FormatNumber(totals.Conversions),
			cli.FormatPercent(totals.AvgROI),
			"",
			cli.FormatRupees(totals.Spent),
			"",
		},
	)

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Campaign", "Status", "Clicks", "Conv", "ROI", "CTR", "Spent", "Budget"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}
