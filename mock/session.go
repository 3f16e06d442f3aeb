package mock

import (
	"context"

	"github.com/scrapeworks/harvest"
)

var _ harvest.Session = (*Session)(nil)

// Session is a mock implementation of harvest.Session.
type Session struct {
	NavigateFn     func(ctx context.Context, url string) error
	HTMLFn         func(ctx context.Context) (string, error)
	HeightFn       func(ctx context.Context) (float64, error)
	ScrollBottomFn func(ctx context.Context) error
	VisibleCountFn func(ctx context.Context, selector string) (int, error)
	ClickFirstFn   func(ctx context.Context, selectors ...string) (bool, error)
	CloseFn        func() error
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.NavigateFn(ctx, url)
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	return s.HTMLFn(ctx)
}

func (s *Session) Height(ctx context.Context) (float64, error) {
	return s.HeightFn(ctx)
}

func (s *Session) ScrollBottom(ctx context.Context) error {
	return s.ScrollBottomFn(ctx)
}

func (s *Session) VisibleCount(ctx context.Context, selector string) (int, error) {
	return s.VisibleCountFn(ctx, selector)
}

func (s *Session) ClickFirst(ctx context.Context, selectors ...string) (bool, error) {
	return s.ClickFirstFn(ctx, selectors...)
}

func (s *Session) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

var _ harvest.SessionPool = (*SessionPool)(nil)

// SessionPool is a mock implementation of harvest.SessionPool.
type SessionPool struct {
	AcquireFn func(ctx context.Context) (harvest.Session, error)
	ReleaseFn func(s harvest.Session)
	DrainFn   func()
}

func (p *SessionPool) Acquire(ctx context.Context) (harvest.Session, error) {
	return p.AcquireFn(ctx)
}

func (p *SessionPool) Release(s harvest.Session) {
	if p.ReleaseFn != nil {
		p.ReleaseFn(s)
	}
}

func (p *SessionPool) Drain() {
	if p.DrainFn != nil {
		p.DrainFn()
	}
}
