package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/scrapeworks/harvest"
)

// Ensure LoggingPool implements harvest.SessionPool.
var _ harvest.SessionPool = (*LoggingPool)(nil)

// LoggingPool wraps a SessionPool with debug logging.
type LoggingPool struct {
	next   harvest.SessionPool
	logger *slog.Logger
}

// NewLoggingPool creates a new LoggingPool.
func NewLoggingPool(next harvest.SessionPool, logger *slog.Logger) *LoggingPool {
	return &LoggingPool{next: next, logger: logger}
}

// Acquire logs how long the caller waited for a session.
func (p *LoggingPool) Acquire(ctx context.Context) (s harvest.Session, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("session acquire",
			"wait", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Acquire(ctx)
}

// Release delegates to the wrapped pool.
func (p *LoggingPool) Release(s harvest.Session) {
	p.next.Release(s)
	p.logger.Debug("session release")
}

// Drain delegates to the wrapped pool.
func (p *LoggingPool) Drain() {
	p.next.Drain()
	p.logger.Debug("session pool drained")
}
