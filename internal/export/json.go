package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/pipeline"
)

type jsonReport struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Range       *model.DateRange     `json:"range,omitempty"`
	Summary     model.CampaignTotals `json:"summary"`
	Campaigns   []model.Campaign     `json:"campaigns"`
	Revenue     model.Series         `json:"revenue,omitempty"`
}

func writeJSON(path string, campaigns []model.Campaign, revenue model.Series, r *model.DateRange, now time.Time) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating JSON file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonReport{
		GeneratedAt: now,
		Range:       r,
		Summary:     pipeline.Aggregate(campaigns),
		Campaigns:   campaigns,
		Revenue:     revenue,
	}); err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	return file.Close()
}
