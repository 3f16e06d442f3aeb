package harvest

import "context"

// Strategy reveals content hidden behind one loading pattern (pagination,
// a load-more trigger, infinite scroll). Strategies are evaluated in a
// fixed priority order and the first applicable one advances the session.
type Strategy interface {
	// Name identifies the strategy, e.g. "pagination".
	Name() string

	// Applicable reports whether the session's current page exhibits the
	// loading pattern this strategy handles.
	Applicable(ctx context.Context, s Session) bool

	// Advance drives the session one step (click next, scroll, ...) and
	// reports whether the page's discoverable content changed. Errors are
	// contained at strategy granularity: callers treat a failed Advance
	// as "nothing revealed" and move on.
	Advance(ctx context.Context, s Session) (bool, error)
}
