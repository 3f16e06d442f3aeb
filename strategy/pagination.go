package strategy

import (
	"context"
	"time"

	"github.com/scrapeworks/harvest"
)

// Compile-time interface verification.
var _ harvest.Strategy = (*Pagination)(nil)

// paginationMarkers detect numbered or "next" navigation controls.
var paginationMarkers = ".pagination, .nav-links, .pager, a[rel='next'], .next-page"

// paginationControls are click candidates in preference order: the control
// following the current index first (adjacent-sibling selectors resolve
// "current page + 1"), then generic next controls.
var paginationControls = []string{
	".pagination .current + a",
	".pagination .active + a",
	".nav-links .current + a",
	".pager .current + a",
	"a[rel='next']",
	".pagination a.next",
	".pagination .next a",
	".next-page",
	"[aria-label='Next page']",
}

// Pagination advances through numbered or "next" page navigation.
type Pagination struct {
	settle time.Duration
}

// NewPagination creates a Pagination strategy with the given settle
// interval.
func NewPagination(settle time.Duration) *Pagination {
	return &Pagination{settle: settle}
}

// Name identifies the strategy.
func (p *Pagination) Name() string { return "pagination" }

// Applicable reports whether the page shows pagination controls.
func (p *Pagination) Applicable(ctx context.Context, s harvest.Session) bool {
	n, err := s.VisibleCount(ctx, paginationMarkers)
	return err == nil && n > 0
}

// Advance clicks the control for the next page index, or a generic next
// control when no numbered index is found, then waits for the page to
// settle. It reports whether the document's discoverable content changed.
func (p *Pagination) Advance(ctx context.Context, s harvest.Session) (bool, error) {
	before, err := s.HTML(ctx)
	if err != nil {
		return false, harvest.Errorf(harvest.ESTRATEGY, "pagination: reading document: %v", err)
	}

	clicked, err := s.ClickFirst(ctx, paginationControls...)
	if err != nil {
		return false, harvest.Errorf(harvest.ESTRATEGY, "pagination: clicking next control: %v", err)
	}
	if !clicked {
		// Controls present but none enabled: last page.
		return false, nil
	}

	if err := settle(ctx, p.settle); err != nil {
		return false, err
	}

	after, err := s.HTML(ctx)
	if err != nil {
		return false, harvest.Errorf(harvest.ESTRATEGY, "pagination: re-reading document: %v", err)
	}
	return after != before, nil
}
