// Package bloom provides probabilistic seen-URL tracking for the crawl
// frontier using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter for frontier URL deduplication. A false
// positive only means a URL is skipped, never processed twice, which is
// the cheap side of the trade-off for a frontier.
// Filter is not safe for concurrent use; callers synchronize access.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a URL in the filter.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test returns true if the URL might have been recorded.
// False positives are possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// TestOrAdd records the URL and reports whether it was already present,
// in one step. The frontier uses this for its push-once guarantee.
func (f *Filter) TestOrAdd(url string) bool {
	return f.f.TestOrAddString(url)
}

// EstimatedCount returns the approximate number of URLs recorded.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
