// Package strategy implements the loading strategies that reveal
// dynamically loaded site content: pagination controls, load-more
// triggers, and infinite scroll. Strategies operate on the opaque
// harvest.Session capability and contain their own failures.
package strategy

import (
	"context"
	"time"
)

// DefaultSettle is the default wait after a UI-triggering action, to let
// asynchronous content finish loading before re-inspection.
const DefaultSettle = 2 * time.Second

// settle waits for the given interval, honoring context cancellation.
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
