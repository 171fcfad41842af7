package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/admybrand/adpulse/internal/export"
	"github.com/admybrand/adpulse/internal/logging"
	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/notify"
	"github.com/admybrand/adpulse/internal/pipeline"
	"github.com/admybrand/adpulse/internal/store"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	flagExportOut    string
	flagExportIDs    []string
	flagExportSaved  bool
	flagExportStatus string
)

var exportCmd = &cobra.Command{
	Use:       "export [csv|pdf|json]",
	Short:     "Export the campaign report",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(export.FormatCSV), string(export.FormatPDF), string(export.FormatJSON)},
	RunE:      runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output directory (default from config, else the working directory)")
	exportCmd.Flags().StringSliceVar(&flagExportIDs, "ids", nil, "Export only these campaign IDs")
	exportCmd.Flags().BoolVar(&flagExportSaved, "saved", false, "Export the selection saved from the dashboard")
	exportCmd.Flags().StringVar(&flagExportStatus, "status", "", "Export only campaigns with this status")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, args []string) error {
	format := export.FormatCSV
	if len(args) == 1 {
		f, err := export.ParseFormat(args[0])
		if err != nil {
			return err
		}
		format = f
	}

	d, err := loadDashboard()
	if err != nil {
		return err
	}

	campaigns := d.Campaigns
	if flagExportStatus != "" {
		status, err := model.ParseStatus(flagExportStatus)
		if err != nil {
			return err
		}
		campaigns = pipeline.FilterByStatus(campaigns, status)
	}

	selected := flagExportIDs
	if flagExportSaved {
		ids, err := savedSelection()
		if err != nil {
			return err
		}
		selected = append(selected, ids...)
	}

	dir := flagExportOut
	if dir == "" {
		dir = appCfg.Export.OutputDir
	}
	center := notify.NewCenter()
	ex := export.New(dir, center, appLog.WithComponent(logging.ComponentExport))

	var spinner *pterm.SpinnerPrinter
	if !flagQuiet {
		spinner, _ = pterm.DefaultSpinner.Start(fmt.Sprintf("Writing %s report...", strings.ToUpper(string(format))))
	}

	rng := d.Range
	path, err := ex.Export(format, export.Request{
		Campaigns: campaigns,
		Selected:  selected,
		Range:     &rng,
		Revenue:   d.Revenue,
		Source:    "Campaign",
	})
	if err != nil {
		if spinner != nil {
			spinner.Fail(err.Error())
		}
		return err
	}
	if spinner != nil {
		spinner.Success(path)
	} else {
		fmt.Println(path)
	}

	if !flagQuiet {
		for _, n := range center.List() {
			pterm.Info.Printfln("%s: %s", n.Title, n.Message)
		}
	}
	return nil
}

// savedSelection reads the campaign selection persisted by the dashboard.
// IDs only match when the data seed is fixed.
func savedSelection() ([]string, error) {
	st, err := store.Open(store.DefaultPath())
	if err != nil {
		return nil, fmt.Errorf("opening settings store: %w", err)
	}
	defer func() { _ = st.Close() }()

	ids, err := st.LoadSelection(context.Background())
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 && !flagQuiet {
		pterm.Warning.Println("No saved selection; exporting every campaign")
	}
	return ids, nil
}
