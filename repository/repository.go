package repository

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Repository stores scenario run records on the local file system (SQLite)
// before they are uploaded to the data platform.
type Repository struct {
	db *gorm.DB
}

func New(path string) (*Repository, error) {

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Migrate the schema
	err = db.AutoMigrate(&StoredScenarioRun{})
	if err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}

func (r *Repository) AddScenarioRun(run ScenarioRun) error {
	result := r.db.Create(newStoredScenarioRun(run))
	return result.Error
}

// GetScenarioRuns returns up to limit buffered runs. With fresh set, only
// runs that have never failed an upload are returned, otherwise only runs
// with at least one failed attempt.
func (r *Repository) GetScenarioRuns(limit int, fresh bool) ([]StoredScenarioRun, error) {
	var runs []StoredScenarioRun

	query := r.db.Limit(limit).Order("upload_attempt_count asc, completed_at desc")
	if fresh {
		query = query.Where("upload_attempt_count = ?", 0)
	} else {
		query = query.Where("upload_attempt_count > ?", 0)
	}
	result := query.Find(&runs)
	if result.Error != nil {
		return nil, result.Error
	}
	return runs, nil
}

func (r *Repository) DeleteRuns(runs []StoredScenarioRun) error {
	result := r.db.Delete(&runs)
	return result.Error
}

func (r *Repository) IncrementUploadAttemptCount(runs []StoredScenarioRun) error {
	result := r.db.Model(&runs).UpdateColumn("upload_attempt_count", gorm.Expr("upload_attempt_count + ?", 1))
	return result.Error
}
