package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/scrapeworks/harvest"
)

// Ensure LoggingRunArchive implements harvest.RunArchive.
var _ harvest.RunArchive = (*LoggingRunArchive)(nil)

// LoggingRunArchive wraps a RunArchive with persistence logging.
type LoggingRunArchive struct {
	next   harvest.RunArchive
	logger *slog.Logger
}

// NewLoggingRunArchive creates a new LoggingRunArchive.
func NewLoggingRunArchive(next harvest.RunArchive, logger *slog.Logger) *LoggingRunArchive {
	return &LoggingRunArchive{next: next, logger: logger}
}

// SaveRun delegates to the wrapped archive and logs the operation.
func (a *LoggingRunArchive) SaveRun(ctx context.Context, run *harvest.Run, pages []harvest.PageContent) (err error) {
	defer func(begin time.Time) {
		a.logger.Info("archive run",
			"id", run.ID,
			"seed", run.SeedURL,
			"pages", len(pages),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.SaveRun(ctx, run, pages)
}

// FindRunByID delegates to the wrapped archive.
func (a *LoggingRunArchive) FindRunByID(ctx context.Context, id string) (*harvest.Run, error) {
	return a.next.FindRunByID(ctx, id)
}

// FindContent delegates to the wrapped archive.
func (a *LoggingRunArchive) FindContent(ctx context.Context, runID string) ([]harvest.PageContent, error) {
	return a.next.FindContent(ctx, runID)
}
