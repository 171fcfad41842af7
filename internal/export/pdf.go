package export

import (
	"fmt"
	"time"

	"github.com/admybrand/adpulse/internal/cli"
	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/pipeline"

	"github.com/jung-kurt/gofpdf"
)

var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Campaign", 52, "L"},
	{"Status", 20, "L"},
	{"Clicks", 18, "R"},
	{"Conversions", 20, "R"},
	{"ROI", 14, "R"},
	{"CTR", 14, "R"},
	{"Cost/Conv", 18, "R"},
	{"Impressions", 22, "R"},
	{"Conv Rate", 16, "R"},
}

func pdfRow(c model.Campaign) []string {
	name := c.Name
	if len(name) > 30 {
		name = name[:27] + "..."
	}
	return []string{
		name,
		string(c.Status),
		cli.FormatNumber(c.Clicks),
		cli.FormatNumber(c.Conversions),
		fmt.Sprintf("%.1f%%", c.ROI),
		fmt.Sprintf("%.2f%%", c.CTR()),
		fmt.Sprintf("Rs.%.0f", c.CostPerConversion()),
		cli.FormatNumber(c.Impressions),
		fmt.Sprintf("%.2f%%", c.ConversionRate()),
	}
}

func writePDF(path string, campaigns []model.Campaign, r *model.DateRange, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(5, 14, 5)
	pdf.AddPage()

	bodyTextColor := [3]int{50, 50, 50}

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Campaign Performance Report", "", 1, "L", false, 0, "")

	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	if r != nil && !r.IsOpen() {
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("Date Range: %s - %s",
			r.From.Format("2006-01-02"), r.To.Format("2006-01-02"))), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, tr("Generated on: "+now.Format("2006-01-02")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Header row.
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(66, 139, 202)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.title, "", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.SetFillColor(245, 245, 245)
	for i, c := range campaigns {
		for j, cell := range pdfRow(c) {
			col := pdfColumns[j]
			pdf.CellFormat(col.width, 6, tr(cell), "", 0, col.align, i%2 == 1, 0, "")
		}
		pdf.Ln(-1)
	}

	t := pipeline.Aggregate(campaigns)
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, "Summary:", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	for _, line := range []string{
		fmt.Sprintf("Total Campaigns: %d", t.Count),
		"Total Clicks: " + cli.FormatNumber(t.Clicks),
		"Total Conversions: " + cli.FormatNumber(t.Conversions),
		fmt.Sprintf("Average ROI: %.1f%%", t.AvgROI),
	} {
		pdf.CellFormat(0, 8, tr(line), "", 1, "L", false, 0, "")
	}

	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 10, tr("Generated by adpulse | "+now.Format("2006-01-02")), "", 0, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing PDF file: %w", err)
	}
	return nil
}
