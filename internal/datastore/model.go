// model.go: data model for pipeline run bookkeeping
package datastore

import "time"

// Run status values.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run represents one pipeline invocation.
type Run struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       string `gorm:"uniqueIndex"` // external uuid for the run
	Node        string // node name from configuration
	Status      string `gorm:"index"`
	Device      string
	DataDir     string
	Checkpoint  string
	StartedAt   time.Time
	CompletedAt *time.Time

	Stages  []StageExecution `gorm:"foreignKey:RunRef;constraint:OnDelete:CASCADE"`
	Metrics []Metric         `gorm:"foreignKey:RunRef;constraint:OnDelete:CASCADE"`
}

// StageExecution records one stage of a run.
type StageExecution struct {
	ID        uint   `gorm:"primaryKey"`
	RunRef    uint   `gorm:"index;not null"`
	Name      string `gorm:"index"`
	Command   string
	ExitCode  int
	Duration  time.Duration
	StartedAt time.Time
}

// Metric is one evaluation score of a run, e.g. FID or Intra-LPIPS.
type Metric struct {
	ID        uint   `gorm:"primaryKey"`
	RunRef    uint   `gorm:"index;not null"`
	Name      string `gorm:"index"`
	Value     float64
	CreatedAt time.Time
}
