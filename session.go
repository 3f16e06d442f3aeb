package harvest

import "context"

// Session is an opaque, stateful rendering session: it can load a URL,
// execute page scripts, expose the resulting document, and simulate UI
// interaction. Sessions are not safe for concurrent use; the pool is the
// sole serialization point for renderer access.
type Session interface {
	// Navigate loads the URL and waits for the document to load.
	Navigate(ctx context.Context, url string) error

	// HTML returns the current rendered document.
	HTML(ctx context.Context) (string, error)

	// Height reports the document scroll height in pixels.
	Height(ctx context.Context) (float64, error)

	// ScrollBottom scrolls the viewport to the bottom of the document.
	ScrollBottom(ctx context.Context) error

	// VisibleCount reports how many elements matching the selector are
	// currently visible.
	VisibleCount(ctx context.Context, selector string) (int, error)

	// ClickFirst scrolls the first visible, enabled element matching any
	// of the selectors into view and clicks it. It reports whether a
	// click happened; no match is not an error.
	ClickFirst(ctx context.Context, selectors ...string) (bool, error)

	// Close destroys the session.
	Close() error
}

// SessionPool hands out reusable rendering sessions under concurrent
// demand. Every Acquire must be paired with a Release on all exit paths,
// including panics during use.
type SessionPool interface {
	// Acquire blocks until a healthy session is available. An unhealthy
	// session is respawned lazily rather than surfaced to the caller.
	Acquire(ctx context.Context) (Session, error)

	// Release returns a session to the pool. If the session crashed
	// during use the pool replaces it with a fresh one on the next
	// Acquire.
	Release(s Session)

	// Drain destroys all sessions. Called once on orchestrator shutdown.
	Drain()
}
