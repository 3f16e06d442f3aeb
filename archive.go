package harvest

import (
	"context"
	"time"
)

// Run records one completed discovery run for the optional archive.
// Session state (visited set, frontier) is never persisted; only the
// run's outputs are.
type Run struct {
	ID         string    `json:"id"`
	SeedURL    string    `json:"seedUrl"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Stats      Stats     `json:"stats"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.SeedURL == "" {
		return Errorf(EINVALID, "run seed URL required")
	}
	return nil
}

// RunArchive persists run outputs across runs.
type RunArchive interface {
	// SaveRun stores a run together with its aggregated content.
	SaveRun(ctx context.Context, run *Run, pages []PageContent) error

	// FindRunByID retrieves an archived run.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindContent retrieves the archived content for a run, in stored
	// order (units for a resource are contiguous).
	FindContent(ctx context.Context, runID string) ([]PageContent, error)
}
