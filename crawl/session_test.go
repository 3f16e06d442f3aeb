package crawl_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapeworks/harvest"
	"github.com/scrapeworks/harvest/crawl"
)

func pageResource(url string) harvest.Resource {
	return harvest.Resource{
		URL:          url,
		Kind:         harvest.Classify(url),
		DiscoveredAt: time.Now(),
		Source:       "static",
	}
}

func TestState_first_discovery_wins(t *testing.T) {
	t.Parallel()

	state := crawl.NewState()
	first := pageResource("https://example.com/page")
	first.Source = "static"
	second := pageResource("https://example.com/page")
	second.Source = "sitemap"

	assert.True(t, state.AddResource(first))
	assert.False(t, state.AddResource(second))

	resources := state.Resources()
	require.Len(t, resources, 1)
	assert.Equal(t, "static", resources[0].Source)
	assert.Equal(t, 1, state.Stats().Discovered)
}

func TestState_groups_urls_by_kind(t *testing.T) {
	t.Parallel()

	state := crawl.NewState()
	state.AddResource(pageResource("https://example.com/blog/post"))
	state.AddResource(pageResource("https://example.com/files/spec.pdf"))
	state.AddResource(pageResource("https://example.com/plain"))

	assert.Equal(t, []string{"https://example.com/blog/post"}, state.URLsByKind(harvest.KindArticle))
	assert.Equal(t, []string{"https://example.com/files/spec.pdf"}, state.URLsByKind(harvest.KindDocument))
	assert.Equal(t, []string{"https://example.com/plain"}, state.URLsByKind(harvest.KindPage))
	assert.Empty(t, state.URLsByKind(harvest.KindImage))
}

func TestState_visits_url_at_most_once(t *testing.T) {
	t.Parallel()

	state := crawl.NewState()
	assert.True(t, state.MarkVisited("https://example.com/page"))
	assert.False(t, state.MarkVisited("https://example.com/page"))
	assert.True(t, state.Visited("https://example.com/page"))
	assert.Equal(t, 1, state.Stats().Visited)
}

func TestState_concurrent_mutation_is_consistent(t *testing.T) {
	t.Parallel()

	state := crawl.NewState()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			url := fmt.Sprintf("https://example.com/p%d", i%8)
			state.AddResource(pageResource(url))
			state.MarkVisited(url)
			state.AddUnits(1)
		}()
	}
	wg.Wait()

	stats := state.Stats()
	assert.Equal(t, 8, stats.Discovered)
	assert.Equal(t, 8, stats.Visited)
	assert.Equal(t, 32, stats.Units)
	assert.Len(t, state.Resources(), 8)
}

func TestState_stats_snapshot_accumulates_counters(t *testing.T) {
	t.Parallel()

	state := crawl.NewState()
	state.AddExtracted()
	state.AddUnits(5)
	state.AddDuplicates(2)
	state.AddSkipped()
	state.AddErrored()
	state.AddRenders()
	state.AddRenders()

	stats := state.Stats()
	assert.Equal(t, 1, stats.Extracted)
	assert.Equal(t, 5, stats.Units)
	assert.Equal(t, 2, stats.Duplicates)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Errored)
	assert.Equal(t, 2, stats.Renders)
}
