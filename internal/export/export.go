// Package export writes campaign reports as CSV, PDF and JSON files.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/admybrand/adpulse/internal/logging"
	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/notify"
	"github.com/admybrand/adpulse/internal/pipeline"
)

// ErrNothingToExport is returned when no campaigns are available.
var ErrNothingToExport = errors.New("no campaigns to export")

// Format is an output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// ParseFormat matches a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, pdf or json)", s)
}

// Notifier receives a notification after each successful export.
type Notifier interface {
	Add(n notify.Notification) notify.Notification
}

// Request describes one export.
type Request struct {
	Campaigns []model.Campaign
	// Selected holds campaign IDs. Empty exports every campaign.
	Selected []string
	// Range, when set, is printed in the report and encoded in the filename.
	Range *model.DateRange
	// Revenue is included in JSON exports.
	Revenue model.Series
	// Source names the view the export came from, e.g. "Dashboard".
	Source string
}

// Exporter writes reports into OutputDir.
type Exporter struct {
	OutputDir string
	Notifier  Notifier
	Now       func() time.Time
	Log       *logging.Logger
}

// New returns an exporter writing to dir (the working directory when empty).
func New(dir string, n Notifier, log *logging.Logger) *Exporter {
	if log == nil {
		log = logging.Discard()
	}
	return &Exporter{OutputDir: dir, Notifier: n, Now: time.Now, Log: log}
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Export writes req in format f and returns the absolute file path.
func (e *Exporter) Export(f Format, req Request) (string, error) {
	campaigns := pipeline.Select(req.Campaigns, req.Selected)
	if len(campaigns) == 0 {
		return "", ErrNothingToExport
	}

	path, err := generateFilename(baseName(req.Range), e.OutputDir, string(f))
	if err != nil {
		return "", err
	}

	switch f {
	case FormatCSV:
		err = writeCSV(path, campaigns)
	case FormatPDF:
		err = writePDF(path, campaigns, req.Range, e.now())
	case FormatJSON:
		err = writeJSON(path, campaigns, req.Revenue, req.Range, e.now())
	default:
		return "", fmt.Errorf("unknown export format %q", f)
	}
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	e.Log.Info("exported report", "format", string(f), "campaigns", len(campaigns), "path", abs)

	if e.Notifier != nil {
		e.Notifier.Add(completedNotification(f, req.Source, abs))
	}
	return abs, nil
}

func completedNotification(f Format, source, path string) notify.Notification {
	if source == "" {
		source = "Dashboard"
	}
	kind := strings.ToUpper(string(f))
	return notify.Notification{
		Title:   kind + " Export Completed",
		Message: fmt.Sprintf("Your %s data has been exported as %s. The file has been saved to %s.", strings.ToLower(source), kind, path),
		Kind:    notify.KindSuccess,
		Action:  "Open file",
		Target:  path,
	}
}

// baseName is campaign_reports, suffixed with the range dates when known.
func baseName(r *model.DateRange) string {
	base := "campaign_reports"
	if r == nil || r.IsOpen() {
		return base
	}
	return fmt.Sprintf("%s_%s_to_%s", base, r.From.Format("2006-01-02"), r.To.Format("2006-01-02"))
}

// generateFilename ensures dir exists and returns a path for base.ext that
// does not collide with an existing file.
func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, base+"."+ext)
	for i := 1; ; i++ {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.%s", base, i, ext))
	}
}
