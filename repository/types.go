package repository

import (
	"time"

	"github.com/google/uuid"
)

// ScenarioRun records one completed chronic generation run.
type ScenarioRun struct {
	ID          uuid.UUID
	Name        string
	Seed        int64
	StartDate   time.Time
	EndDate     time.Time
	DtMinutes   int
	SiteCount   int
	OutputPath  string
	CompletedAt time.Time
}

// StoredScenarioRun is a scenario run persisted to the SQLite buffer, with a
// count of upload attempts.
type StoredScenarioRun struct {
	ScenarioRun
	UploadAttemptCount uint
}

func newStoredScenarioRun(run ScenarioRun) StoredScenarioRun {
	return StoredScenarioRun{
		ScenarioRun:        run,
		UploadAttemptCount: 0,
	}
}
