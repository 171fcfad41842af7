package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/admybrand/adpulse/internal/model"
)

// CSVHeaders are the campaign report columns.
var CSVHeaders = []string{
	"Campaign Name",
	"Status",
	"Clicks",
	"Conversions",
	"ROI (%)",
	"CTR (%)",
	"Cost per Conversion (₹)",
	"Impressions",
	"Conversion Rate (%)",
}

func campaignRecord(c model.Campaign) []string {
	return []string{
		c.Name,
		string(c.Status),
		fmt.Sprintf("%d", c.Clicks),
		fmt.Sprintf("%d", c.Conversions),
		fmt.Sprintf("%.1f", c.ROI),
		fmt.Sprintf("%.2f", c.CTR()),
		fmt.Sprintf("%.0f", c.CostPerConversion()),
		fmt.Sprintf("%d", c.Impressions),
		fmt.Sprintf("%.2f", c.ConversionRate()),
	}
}

func writeCSV(path string, campaigns []model.Campaign) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(CSVHeaders); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, c := range campaigns {
		if err := w.Write(campaignRecord(c)); err != nil {
			return fmt.Errorf("writing CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return file.Close()
}
