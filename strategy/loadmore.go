package strategy

import (
	"context"
	"time"

	"github.com/scrapeworks/harvest"
)

// Compile-time interface verification.
var _ harvest.Strategy = (*LoadMore)(nil)

// loadMoreSelectors match the common "load more" triggers.
var loadMoreSelectors = []string{
	".load-more",
	"#load-more",
	"[class*='load-more']",
	".load-more-button",
	"[data-load-more]",
	".more",
}

// loadMoreMarkers is the combined selector used for applicability checks.
var loadMoreMarkers = ".load-more, #load-more, [class*='load-more'], .load-more-button, [data-load-more], .more"

// LoadMore clicks visible "load more" triggers to reveal further content.
type LoadMore struct {
	settle time.Duration
}

// NewLoadMore creates a LoadMore strategy with the given settle interval.
func NewLoadMore(settle time.Duration) *LoadMore {
	return &LoadMore{settle: settle}
}

// Name identifies the strategy.
func (l *LoadMore) Name() string { return "load_more" }

// Applicable reports whether a load-more trigger is visible.
func (l *LoadMore) Applicable(ctx context.Context, s harvest.Session) bool {
	n, err := s.VisibleCount(ctx, loadMoreMarkers)
	return err == nil && n > 0
}

// Advance clicks the first visible, enabled trigger and waits for settle.
// It reports whether the document's discoverable content changed.
func (l *LoadMore) Advance(ctx context.Context, s harvest.Session) (bool, error) {
	before, err := s.HTML(ctx)
	if err != nil {
		return false, harvest.Errorf(harvest.ESTRATEGY, "load more: reading document: %v", err)
	}

	clicked, err := s.ClickFirst(ctx, loadMoreSelectors...)
	if err != nil {
		return false, harvest.Errorf(harvest.ESTRATEGY, "load more: clicking trigger: %v", err)
	}
	if !clicked {
		return false, nil
	}

	if err := settle(ctx, l.settle); err != nil {
		return false, err
	}

	after, err := s.HTML(ctx)
	if err != nil {
		return false, harvest.Errorf(harvest.ESTRATEGY, "load more: re-reading document: %v", err)
	}
	return after != before, nil
}
