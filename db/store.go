package db

import (
	"time"

	"github.com/juanguampe/student-distribution-tool/models"
)

// Run is one completed distribution batch kept server-side so its views can
// be downloaded later and its seed reused to reproduce the same seating.
type Run struct {
	ID        string                 `json:"id"`
	Seed      int64                  `json:"seed"`
	CreatedAt time.Time              `json:"createdAt"`
	Students  []models.StudentRecord `json:"students"`
	Result    *models.Result         `json:"result"`
	Errors    []string               `json:"errors"`
}

// RunStore caches distribution runs. Implementations return (nil, nil) from
// GetRun when the id is unknown.
type RunStore interface {
	SaveRun(run *Run) error
	GetRun(id string) (*Run, error)
	ListRunIDs() ([]string, error)
}
