package mock

import (
	"context"

	"github.com/scrapeworks/harvest"
)

var _ harvest.RunArchive = (*RunArchive)(nil)

// RunArchive is a mock implementation of harvest.RunArchive.
type RunArchive struct {
	SaveRunFn     func(ctx context.Context, run *harvest.Run, pages []harvest.PageContent) error
	FindRunByIDFn func(ctx context.Context, id string) (*harvest.Run, error)
	FindContentFn func(ctx context.Context, runID string) ([]harvest.PageContent, error)
}

func (a *RunArchive) SaveRun(ctx context.Context, run *harvest.Run, pages []harvest.PageContent) error {
	return a.SaveRunFn(ctx, run, pages)
}

func (a *RunArchive) FindRunByID(ctx context.Context, id string) (*harvest.Run, error) {
	return a.FindRunByIDFn(ctx, id)
}

func (a *RunArchive) FindContent(ctx context.Context, runID string) ([]harvest.PageContent, error) {
	return a.FindContentFn(ctx, runID)
}
