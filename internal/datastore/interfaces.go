// interfaces.go: this code defines the interface for the run store operations
package datastore

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/tkivisto/fewshot-go/internal/conf"
)

// Interface abstracts the underlying database implementation and defines
// the operations the pipeline needs for run bookkeeping.
type Interface interface {
	Open() error
	Close() error
	SaveRun(run *Run) error
	UpdateRun(run *Run) error
	GetRun(runID string) (Run, error)
	GetAllRuns() ([]Run, error)
	SaveStageExecution(stage *StageExecution) error
	SaveMetric(metric *Metric) error
	GetMetrics(runID string) ([]Metric, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a run store based on the provided settings, or nil when no
// output database is enabled.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// SaveRun stores a run together with its stages and metrics in a single
// transaction.
func (ds *DataStore) SaveRun(run *Run) error {
	if ds.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	tx := ds.DB.Begin()
	if tx.Error != nil {
		return fmt.Errorf("starting transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(run).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("saving run: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// UpdateRun persists the current state of an already-saved run.
func (ds *DataStore) UpdateRun(run *Run) error {
	if run.ID == 0 {
		return fmt.Errorf("run has not been saved yet")
	}
	if err := ds.DB.Save(run).Error; err != nil {
		return fmt.Errorf("updating run %s: %w", run.RunID, err)
	}
	return nil
}

// GetRun retrieves a run by its external run id, with stages and metrics.
func (ds *DataStore) GetRun(runID string) (Run, error) {
	var run Run
	err := ds.DB.
		Preload("Stages").
		Preload("Metrics").
		Where("run_id = ?", runID).
		First(&run).Error
	if err != nil {
		return Run{}, fmt.Errorf("getting run %s: %w", runID, err)
	}
	return run, nil
}

// GetAllRuns returns all recorded runs, most recent first.
func (ds *DataStore) GetAllRuns() ([]Run, error) {
	var runs []Run
	err := ds.DB.
		Preload("Stages").
		Preload("Metrics").
		Order("started_at DESC").
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("getting runs: %w", err)
	}
	return runs, nil
}

// SaveStageExecution stores one stage record for a run.
func (ds *DataStore) SaveStageExecution(stage *StageExecution) error {
	if err := ds.DB.Create(stage).Error; err != nil {
		return fmt.Errorf("saving stage execution: %w", err)
	}
	return nil
}

// SaveMetric stores one evaluation score for a run.
func (ds *DataStore) SaveMetric(metric *Metric) error {
	if err := ds.DB.Create(metric).Error; err != nil {
		return fmt.Errorf("saving metric: %w", err)
	}
	return nil
}

// GetMetrics returns the metrics recorded for a run.
func (ds *DataStore) GetMetrics(runID string) ([]Metric, error) {
	run, err := ds.GetRun(runID)
	if err != nil {
		return nil, err
	}
	return run.Metrics, nil
}
