package strategy_test

import (
	"context"
	"strings"
	"testing"

	"github.com/scrapeworks/harvest"
	"github.com/scrapeworks/harvest/mock"
	"github.com/scrapeworks/harvest/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageSession builds a mock session whose selector visibility is driven by
// substring markers, in the way a real rendered page would expose them.
func pageSession(markers string, htmls ...string) (*mock.Session, *int) {
	scrolls := 0
	i := 0
	s := &mock.Session{
		HTMLFn: func(ctx context.Context) (string, error) {
			html := htmls[min(i, len(htmls)-1)]
			i++
			return html, nil
		},
		HeightFn: func(ctx context.Context) (float64, error) {
			return 1000, nil
		},
		ScrollBottomFn: func(ctx context.Context) error {
			scrolls++
			return nil
		},
		VisibleCountFn: func(ctx context.Context, selector string) (int, error) {
			if strings.Contains(selector, ".pagination") && strings.Contains(markers, "pagination") {
				return 1, nil
			}
			if strings.Contains(selector, ".load-more") && strings.Contains(markers, "load-more") {
				return 1, nil
			}
			return 0, nil
		},
		ClickFirstFn: func(ctx context.Context, selectors ...string) (bool, error) {
			return true, nil
		},
	}
	return s, &scrolls
}

func TestSet_applies_pagination_first_when_controls_present(t *testing.T) {
	t.Parallel()

	// Page with an enabled "page 2" control and no other dynamic markers:
	// pagination applies, infinite scroll is never invoked this iteration.
	sess, scrolls := pageSession("pagination", "<p>page 1</p>", "<p>page 2</p>")

	set := strategy.NewSet(0)
	name, revealed := set.Advance(context.Background(), sess)

	assert.Equal(t, "pagination", name)
	assert.True(t, revealed)
	assert.Equal(t, 0, *scrolls, "infinite scroll must not run")
}

func TestSet_falls_back_to_infinite_scroll(t *testing.T) {
	t.Parallel()

	sess, scrolls := pageSession("", "<p>static page</p>")

	set := strategy.NewSet(0)
	name, revealed := set.Advance(context.Background(), sess)

	assert.Equal(t, "infinite_scroll", name)
	assert.False(t, revealed, "nothing grew, nothing changed")
	assert.Equal(t, 1, *scrolls)
}

func TestSet_prefers_load_more_over_scroll(t *testing.T) {
	t.Parallel()

	sess, scrolls := pageSession("load-more", "<ul>3 items</ul>", "<ul>6 items</ul>")

	set := strategy.NewSet(0)
	name, revealed := set.Advance(context.Background(), sess)

	assert.Equal(t, "load_more", name)
	assert.True(t, revealed)
	assert.Equal(t, 0, *scrolls)
}

func TestSet_demotes_failing_strategy_to_not_applicable(t *testing.T) {
	t.Parallel()

	failing := &mock.Strategy{
		NameFn:       func() string { return "broken" },
		ApplicableFn: func(ctx context.Context, s harvest.Session) bool { return true },
		AdvanceFn: func(ctx context.Context, s harvest.Session) (bool, error) {
			return false, harvest.Errorf(harvest.ESTRATEGY, "selector blew up")
		},
	}
	working := &mock.Strategy{
		NameFn:       func() string { return "working" },
		ApplicableFn: func(ctx context.Context, s harvest.Session) bool { return true },
		AdvanceFn: func(ctx context.Context, s harvest.Session) (bool, error) {
			return true, nil
		},
	}

	set := strategy.NewSetWith(failing, working)
	name, revealed := set.Advance(context.Background(), &mock.Session{})

	assert.Equal(t, "working", name)
	assert.True(t, revealed)
}

func TestSet_Names_reflects_priority_order(t *testing.T) {
	t.Parallel()

	set := strategy.NewSet(0)
	assert.Equal(t, []string{"pagination", "load_more", "infinite_scroll"}, set.Names())
}

func TestPagination_reports_no_reveal_when_control_disabled(t *testing.T) {
	t.Parallel()

	sess := &mock.Session{
		HTMLFn: func(ctx context.Context) (string, error) { return "<p>last page</p>", nil },
		VisibleCountFn: func(ctx context.Context, selector string) (int, error) {
			return 1, nil
		},
		ClickFirstFn: func(ctx context.Context, selectors ...string) (bool, error) {
			return false, nil // controls present, none enabled
		},
	}

	p := strategy.NewPagination(0)
	require.True(t, p.Applicable(context.Background(), sess))

	revealed, err := p.Advance(context.Background(), sess)
	require.NoError(t, err)
	assert.False(t, revealed)
}

func TestInfiniteScroll_detects_growth_by_height(t *testing.T) {
	t.Parallel()

	height := 1000.0
	sess := &mock.Session{
		HTMLFn: func(ctx context.Context) (string, error) { return "<p>feed</p>", nil },
		HeightFn: func(ctx context.Context) (float64, error) {
			h := height
			height += 500 // page grows on each measurement
			return h, nil
		},
		ScrollBottomFn: func(ctx context.Context) error { return nil },
	}

	sc := strategy.NewInfiniteScroll(0)
	revealed, err := sc.Advance(context.Background(), sess)
	require.NoError(t, err)
	assert.True(t, revealed)
}
