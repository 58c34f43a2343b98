package dataplatform

import (
	"time"

	"github.com/google/uuid"

	"github.com/cepro/chronicsgen/repository"
)

// supabaseScenarioRun mirrors the layout of the scenario run table in the
// data platform.
type supabaseScenarioRun struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Seed        int64     `json:"seed"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	DtMinutes   int       `json:"dt_minutes"`
	SiteCount   int       `json:"site_count"`
	OutputPath  string    `json:"output_path"`
	CompletedAt time.Time `json:"completed_at"`
}

func convertRuns(runs []repository.StoredScenarioRun) []supabaseScenarioRun {
	converted := make([]supabaseScenarioRun, 0, len(runs))
	for _, run := range runs {
		converted = append(converted, supabaseScenarioRun(run.ScenarioRun))
	}
	return converted
}
