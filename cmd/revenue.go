package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/admybrand/adpulse/internal/cli"
	"github.com/admybrand/adpulse/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagRevenueJSON bool
	flagRevenueAll  bool
)

var revenueCmd = &cobra.Command{
	Use:   "revenue",
	Short: "Daily revenue with the projected trend",
	RunE:  runRevenue,
}

func init() {
	revenueCmd.Flags().BoolVar(&flagRevenueJSON, "json", false, "Print the series as JSON")
	revenueCmd.Flags().BoolVar(&flagRevenueAll, "all", false, "List every day instead of the last 14 plus the forecast")
	rootCmd.AddCommand(revenueCmd)
}

func runRevenue(_ *cobra.Command, _ []string) error {
	d, err := loadDashboard()
	if err != nil {
		return err
	}

	if flagRevenueJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Range     model.DateRange `json:"range"`
			RangeKind string          `json:"range_kind"`
			ShowNote  bool            `json:"show_projection_note"`
			Series    model.Series    `json:"series"`
		}{d.Range, d.RangeKind, d.ShowNote, d.Revenue})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("REVENUE  %s  (%s)", d.Range.String(), d.RangeKind)))
	fmt.Println()

	points := d.Revenue
	if !flagRevenueAll {
		points = tailWithForecast(points, 14)
	}

	rows := make([][]string, 0, len(points)+1)
	seenForecast := false
	for _, p := range points {
		if p.IsForecast() && !seenForecast && len(rows) > 0 {
			rows = append(rows, []string{"---"})
		}
		seenForecast = seenForecast || p.IsForecast()
		rows = append(rows, []string{p.Period, optRupees(p.Actual), optRupees(p.PriorPeriodActual), optRupees(p.Projected)})
	}
	if len(rows) > 0 {
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Period", "Actual", "Prior Period", "Projected"},
			Rows:    rows,
		}))
		fmt.Println()
	}

	printRevenueSparkline(d)
	return nil
}

// tailWithForecast keeps the last n historical points and every forecast point.
func tailWithForecast(s model.Series, n int) model.Series {
	hist := 0
	for _, p := range s {
		if !p.IsForecast() {
			hist++
		}
	}
	skip := max(0, hist-n)
	out := make(model.Series, 0, len(s)-skip)
	for _, p := range s {
		if !p.IsForecast() && skip > 0 {
			skip--
			continue
		}
		out = append(out, p)
	}
	return out
}

func optRupees(v *float64) string {
	if v == nil {
		return "-"
	}
	return cli.FormatRupeesExact(*v)
}
