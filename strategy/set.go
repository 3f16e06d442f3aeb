package strategy

import (
	"context"
	"time"

	"github.com/scrapeworks/harvest"
)

// Set evaluates strategies in a fixed priority order (pagination, then
// load-more triggers, then infinite scroll) and applies the first
// applicable one per iteration. A strategy error demotes it to "not
// applicable" for that iteration and the next strategy is tried.
type Set struct {
	strategies []harvest.Strategy
}

// NewSet creates the default strategy set with the given settle interval.
func NewSet(settle time.Duration) *Set {
	return &Set{
		strategies: []harvest.Strategy{
			NewPagination(settle),
			NewLoadMore(settle),
			NewInfiniteScroll(settle),
		},
	}
}

// NewSetWith creates a Set from explicit strategies, in priority order.
func NewSetWith(strategies ...harvest.Strategy) *Set {
	return &Set{strategies: strategies}
}

// Names returns the strategy names in priority order.
func (s *Set) Names() []string {
	names := make([]string, len(s.strategies))
	for i, st := range s.strategies {
		names[i] = st.Name()
	}
	return names
}

// Advance applies the first applicable strategy and reports its name and
// whether it revealed new content. name is empty when no strategy applied.
func (s *Set) Advance(ctx context.Context, sess harvest.Session) (name string, revealed bool) {
	for _, st := range s.strategies {
		if ctx.Err() != nil {
			return "", false
		}
		if !st.Applicable(ctx, sess) {
			continue
		}
		revealed, err := st.Advance(ctx, sess)
		if err != nil {
			continue
		}
		return st.Name(), revealed
	}
	return "", false
}
