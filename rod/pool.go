package rod

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/scrapeworks/harvest"
)

// Defaults for the session pool.
const (
	// DefaultPoolSize is the number of concurrent rendering sessions.
	DefaultPoolSize = 3

	// DefaultNavTimeout bounds a single navigation.
	DefaultNavTimeout = 20 * time.Second

	// DefaultSessionNavBudget is the number of navigations a session
	// serves before it is retired. Chrome pages accumulate memory over
	// time; retiring a page periodically keeps the baseline flat.
	DefaultSessionNavBudget = 75
)

// Compile-time interface verification.
var _ harvest.SessionPool = (*Pool)(nil)

// Pool is a fixed-size pool of long-lived rendering sessions backed by one
// headless browser. Acquire blocks until a session slot is free; sessions
// are created lazily and respawned lazily after a crash or when their
// navigation budget is spent.
// Pool is safe for concurrent use.
type Pool struct {
	browser    *rod.Browser
	launcher   *launcher.Launcher
	slots      chan *Session
	size       int
	navTimeout time.Duration
	navBudget  int64
	closed     atomic.Bool
	drainOnce  sync.Once
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithNavTimeout sets the per-navigation timeout.
// Defaults to DefaultNavTimeout.
func WithNavTimeout(d time.Duration) PoolOption {
	return func(p *Pool) {
		p.navTimeout = d
	}
}

// WithSessionNavBudget sets the navigation count after which a session is
// retired and respawned. Defaults to DefaultSessionNavBudget.
func WithSessionNavBudget(n int64) PoolOption {
	return func(p *Pool) {
		p.navBudget = n
	}
}

// NewPool launches a headless browser and creates a pool of size session
// slots. Failure here is the only fatal condition of a discovery run and
// is reported as EUNAVAILABLE. Drain must be called when the pool is no
// longer needed.
func NewPool(size int, opts ...PoolOption) (*Pool, error) {
	if size <= 0 {
		size = DefaultPoolSize
	}

	p := &Pool{
		size:       size,
		navTimeout: DefaultNavTimeout,
		navBudget:  DefaultSessionNavBudget,
	}
	for _, opt := range opts {
		opt(p)
	}

	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return nil, harvest.Errorf(harvest.EUNAVAILABLE, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, harvest.Errorf(harvest.EUNAVAILABLE, "connecting to browser: %v", err)
	}

	p.browser = browser
	p.launcher = lnchr

	// Slots start empty; sessions spawn on first Acquire.
	p.slots = make(chan *Session, size)
	for i := 0; i < size; i++ {
		p.slots <- nil
	}

	return p, nil
}

// Acquire blocks until a session slot is available and returns a healthy
// session, respawning a fresh one in place of a crashed or spent session.
func (p *Pool) Acquire(ctx context.Context) (harvest.Session, error) {
	var s *Session
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case s = <-p.slots:
	}

	if s != nil && !s.unhealthy && s.navs < p.navBudget {
		return s, nil
	}

	// Lazy respawn: retire the old session, hand out a fresh one.
	if s != nil {
		_ = s.Close()
	}
	fresh, err := p.spawn()
	if err != nil {
		p.slots <- nil // return the slot so capacity is not lost
		return nil, err
	}
	return fresh, nil
}

// Release returns a session to the pool. Crashed sessions are still
// returned; Acquire replaces them lazily. Releasing into a drained pool
// closes the session instead.
func (p *Pool) Release(s harvest.Session) {
	sess, ok := s.(*Session)
	if !ok || sess == nil {
		return
	}
	if p.closed.Load() {
		_ = sess.Close()
		return
	}
	select {
	case p.slots <- sess:
	default:
		// More releases than slots means a misuse; don't leak the page.
		_ = sess.Close()
	}
}

// Drain destroys all sessions and shuts down the browser. Drain is safe
// to call multiple times.
func (p *Pool) Drain() {
	p.drainOnce.Do(func() {
		p.closed.Store(true)

		// Collect whatever sessions are parked. In-flight sessions are
		// closed by Release once they come back.
		for i := 0; i < p.size; i++ {
			select {
			case s := <-p.slots:
				if s != nil {
					_ = s.Close()
				}
			default:
			}
		}

		if p.browser != nil {
			_ = p.browser.Close()
		}
		if p.launcher != nil {
			p.launcher.Kill()
		}
	})
}

// spawn creates a fresh session on a new browser page.
func (p *Pool) spawn() (*Session, error) {
	page, err := p.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, harvest.Errorf(harvest.ERENDER, "creating page: %v", err)
	}
	return &Session{page: page, navTimeout: p.navTimeout}, nil
}
