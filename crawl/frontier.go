package crawl

import (
	"sync"

	"github.com/scrapeworks/harvest/bloom"
)

// Frontier is the in-memory queue of URLs waiting to be visited, with
// Bloom-filter admission so a URL is enqueued at most once per run.
// Ordering is submission order (FIFO). Safe for concurrent use.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue []frontierItem
}

type frontierItem struct {
	url   string
	depth int
}

// NewFrontier creates a Frontier sized for n expected URLs with the given
// false positive rate. A false positive costs one skipped URL, which is an
// acceptable trade for constant-memory dedup on large sites.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewFilter(n, fpRate),
	}
}

// Push enqueues a canonical URL at the given link depth. It returns false
// if the URL was already admitted during this run. Callers are expected to
// normalize URLs first; the frontier does no canonicalization of its own.
func (f *Frontier) Push(url string, depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.TestOrAdd(url) {
		return false
	}
	f.queue = append(f.queue, frontierItem{url: url, depth: depth})
	return true
}

// Pop dequeues the next URL. The bool result is false if the frontier is
// empty.
func (f *Frontier) Pop() (url string, depth int, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", 0, false
	}
	item := f.queue[0]
	f.queue = f.queue[1:]
	return item.url, item.depth, true
}

// Len returns the number of queued URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen reports whether the URL has ever been admitted to the frontier.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(url)
}
