package strategy

import (
	"context"
	"time"

	"github.com/scrapeworks/harvest"
)

// Compile-time interface verification.
var _ harvest.Strategy = (*InfiniteScroll)(nil)

// InfiniteScroll scrolls to the bottom of the document to trigger lazy
// loading. It is the fallback strategy: always applicable.
type InfiniteScroll struct {
	settle time.Duration
}

// NewInfiniteScroll creates an InfiniteScroll strategy with the given
// settle interval.
func NewInfiniteScroll(settle time.Duration) *InfiniteScroll {
	return &InfiniteScroll{settle: settle}
}

// Name identifies the strategy.
func (i *InfiniteScroll) Name() string { return "infinite_scroll" }

// Applicable always returns true; scrolling is the universal fallback.
func (i *InfiniteScroll) Applicable(ctx context.Context, s harvest.Session) bool {
	return true
}

// Advance measures the document height, scrolls to the bottom, waits for
// settle, and re-measures. It reports true if the document grew or the
// raw document changed.
func (i *InfiniteScroll) Advance(ctx context.Context, s harvest.Session) (bool, error) {
	beforeHeight, err := s.Height(ctx)
	if err != nil {
		return false, harvest.Errorf(harvest.ESTRATEGY, "infinite scroll: measuring height: %v", err)
	}
	beforeHTML, err := s.HTML(ctx)
	if err != nil {
		return false, harvest.Errorf(harvest.ESTRATEGY, "infinite scroll: reading document: %v", err)
	}

	if err := s.ScrollBottom(ctx); err != nil {
		return false, harvest.Errorf(harvest.ESTRATEGY, "infinite scroll: scrolling: %v", err)
	}
	if err := settle(ctx, i.settle); err != nil {
		return false, err
	}

	afterHeight, err := s.Height(ctx)
	if err != nil {
		return false, harvest.Errorf(harvest.ESTRATEGY, "infinite scroll: re-measuring height: %v", err)
	}
	if afterHeight > beforeHeight {
		return true, nil
	}

	afterHTML, err := s.HTML(ctx)
	if err != nil {
		return false, harvest.Errorf(harvest.ESTRATEGY, "infinite scroll: re-reading document: %v", err)
	}
	return afterHTML != beforeHTML, nil
}
