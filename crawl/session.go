package crawl

import (
	"sync"

	"github.com/scrapeworks/harvest"
)

// State is the shared, synchronized record of one discovery session: the
// visited set, the content map (kind → canonical URLs) and the run
// counters. All mutation goes through its methods; the zero stats value is
// returned by copy so readers never see a torn update.
//
// A URL is visited at most once, resources are deduplicated by canonical
// URL, and nothing in State survives the run.
type State struct {
	mu        sync.Mutex
	visited   map[string]bool
	urls      map[string]bool
	byKind    map[harvest.ResourceKind][]string
	resources []harvest.Resource
	stats     harvest.Stats
}

// NewState creates an empty State.
func NewState() *State {
	return &State{
		visited: make(map[string]bool),
		urls:    make(map[string]bool),
		byKind:  make(map[harvest.ResourceKind][]string),
	}
}

// AddResource records a discovered resource. It returns false if a
// resource with the same canonical URL was already recorded; the first
// discovery wins and later sightings don't change kind or source.
func (s *State) AddResource(r harvest.Resource) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.urls[r.URL] {
		return false
	}
	s.urls[r.URL] = true
	s.byKind[r.Kind] = append(s.byKind[r.Kind], r.URL)
	s.resources = append(s.resources, r)
	s.stats.Discovered++
	return true
}

// Discovered returns the number of distinct resources recorded.
func (s *State) Discovered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.resources)
}

// Resources returns the recorded resources in discovery order.
func (s *State) Resources() []harvest.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]harvest.Resource, len(s.resources))
	copy(out, s.resources)
	return out
}

// URLsByKind returns the canonical URLs recorded for a kind, in discovery
// order.
func (s *State) URLsByKind(kind harvest.ResourceKind) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.byKind[kind]))
	copy(out, s.byKind[kind])
	return out
}

// MarkVisited records a URL as visited, returning false if it already was.
func (s *State) MarkVisited(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.visited[url] {
		return false
	}
	s.visited[url] = true
	s.stats.Visited++
	return true
}

// Visited reports whether the URL has been visited.
func (s *State) Visited(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visited[url]
}

// Stats returns a snapshot of the run counters.
func (s *State) Stats() harvest.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// AddExtracted counts a resource that yielded at least one content unit.
func (s *State) AddExtracted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Extracted++
}

// AddUnits counts emitted content units.
func (s *State) AddUnits(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Units += n
}

// AddDuplicates counts units dropped by the deduplicator.
func (s *State) AddDuplicates(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Duplicates += n
}

// AddSkipped counts a resource skipped without extraction.
func (s *State) AddSkipped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Skipped++
}

// AddErrored counts a resource that produced an error unit.
func (s *State) AddErrored() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Errored++
}

// AddRenders counts renderer navigations.
func (s *State) AddRenders() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Renders++
}
