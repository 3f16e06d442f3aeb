// Package rod provides browser-backed implementations of harvest.Session
// and harvest.SessionPool using Chrome automation.
package rod

import (
	"context"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/scrapeworks/harvest"
)

// Compile-time interface verification.
var _ harvest.Session = (*Session)(nil)

// Session adapts a browser page to the harvest.Session capability set.
// A Session is owned by exactly one worker at a time; the pool is the
// serialization point.
type Session struct {
	page       *rod.Page
	navTimeout time.Duration
	navs       int64
	unhealthy  bool
}

// fail marks the session for lazy respawn on its next trip through the
// pool.
func (s *Session) fail() {
	s.unhealthy = true
}

// bound applies the caller context and the navigation timeout to the page.
func (s *Session) bound(ctx context.Context) *rod.Page {
	page := s.page.Context(ctx)
	if s.navTimeout > 0 {
		page = page.Timeout(s.navTimeout)
	}
	return page
}

// Navigate loads the URL and waits for the document load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	page := s.bound(ctx)
	if err := page.Navigate(url); err != nil {
		s.fail()
		return harvest.Errorf(harvest.ERENDER, "navigating to %s: %v", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		s.fail()
		return harvest.Errorf(harvest.ERENDER, "waiting for load of %s: %v", url, err)
	}
	s.navs++
	return nil
}

// HTML returns the current rendered document.
func (s *Session) HTML(ctx context.Context) (string, error) {
	html, err := s.bound(ctx).HTML()
	if err != nil {
		s.fail()
		return "", harvest.Errorf(harvest.ERENDER, "reading rendered document: %v", err)
	}
	return html, nil
}

// Height reports the document scroll height in pixels.
func (s *Session) Height(ctx context.Context) (float64, error) {
	res, err := s.bound(ctx).Eval(`() => document.body ? document.body.scrollHeight : 0`)
	if err != nil {
		s.fail()
		return 0, harvest.Errorf(harvest.ERENDER, "measuring document height: %v", err)
	}
	return res.Value.Num(), nil
}

// ScrollBottom scrolls the viewport to the bottom of the document.
func (s *Session) ScrollBottom(ctx context.Context) error {
	_, err := s.bound(ctx).Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	if err != nil {
		s.fail()
		return harvest.Errorf(harvest.ERENDER, "scrolling to bottom: %v", err)
	}
	return nil
}

// VisibleCount reports how many elements matching the selector are
// currently visible.
func (s *Session) VisibleCount(ctx context.Context, selector string) (int, error) {
	els, err := s.bound(ctx).Elements(selector)
	if err != nil {
		return 0, harvest.Errorf(harvest.ESTRATEGY, "querying %q: %v", selector, err)
	}
	count := 0
	for _, el := range els {
		visible, err := el.Visible()
		if err == nil && visible {
			count++
		}
	}
	return count, nil
}

// ClickFirst scrolls the first visible, enabled element matching any of
// the selectors into view and clicks it. Disabled controls (disabled
// property, aria-disabled, or a "disabled" class) are skipped.
func (s *Session) ClickFirst(ctx context.Context, selectors ...string) (bool, error) {
	page := s.bound(ctx)
	for _, selector := range selectors {
		els, err := page.Elements(selector)
		if err != nil {
			continue
		}
		for _, el := range els {
			if visible, err := el.Visible(); err != nil || !visible {
				continue
			}
			if elementDisabled(el) {
				continue
			}
			if err := el.ScrollIntoView(); err != nil {
				continue
			}
			if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
				continue
			}
			return true, nil
		}
	}
	return false, nil
}

// elementDisabled checks the usual ways a control announces it is
// inactive.
func elementDisabled(el *rod.Element) bool {
	if disabled, err := el.Property("disabled"); err == nil && disabled.Bool() {
		return true
	}
	if aria, err := el.Attribute("aria-disabled"); err == nil && aria != nil && *aria == "true" {
		return true
	}
	if class, err := el.Attribute("class"); err == nil && class != nil &&
		strings.Contains(strings.ToLower(*class), "disabled") {
		return true
	}
	return false
}

// Close destroys the underlying page.
func (s *Session) Close() error {
	return s.page.Close()
}
