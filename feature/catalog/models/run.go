package models

import (
	"time"

	"gorm.io/datatypes"
)

// ReconcileRun records one committed reconciliation pass.
type ReconcileRun struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	RunID      string    `gorm:"size:36;not null;uniqueIndex" json:"run_id"`
	Source     string    `gorm:"size:255" json:"source"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Unchanged  int       `json:"unchanged"`
	Rejected   int       `json:"rejected"`
	// Events holds the structured change events as JSON.
	Events datatypes.JSON `json:"events"`
	// Rejections holds the rejected records as JSON.
	Rejections datatypes.JSON `json:"rejections"`
}
