package mock

import (
	"context"

	"github.com/scrapeworks/harvest"
)

var _ harvest.Strategy = (*Strategy)(nil)

// Strategy is a mock implementation of harvest.Strategy.
type Strategy struct {
	NameFn       func() string
	ApplicableFn func(ctx context.Context, s harvest.Session) bool
	AdvanceFn    func(ctx context.Context, s harvest.Session) (bool, error)
}

func (st *Strategy) Name() string {
	return st.NameFn()
}

func (st *Strategy) Applicable(ctx context.Context, s harvest.Session) bool {
	return st.ApplicableFn(ctx, s)
}

func (st *Strategy) Advance(ctx context.Context, s harvest.Session) (bool, error) {
	return st.AdvanceFn(ctx, s)
}
