// Package fingerprint provides content-level deduplication using xxHash
// fingerprints computed over whitespace-normalized text.
package fingerprint

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/scrapeworks/harvest"
)

// Sum returns the fingerprint of text after whitespace normalization.
// Identical text modulo whitespace yields identical fingerprints.
func Sum(text string) uint64 {
	return xxhash.Sum64String(harvest.NormalizeText(text))
}

// Compile-time interface verification.
var _ harvest.Deduper = (*Set)(nil)

// Set is an exact, session-scoped fingerprint set. Unlike the Bloom filter
// used for frontier URLs, content dedup must be exact: a false positive
// here would silently drop real content.
// Set is safe for concurrent use by multiple extraction workers.
type Set struct {
	mu   sync.Mutex
	seen map[uint64]struct{}
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{seen: make(map[uint64]struct{})}
}

// Accept fingerprints the text and records the fingerprint atomically.
// fresh is true only the first time the fingerprint is seen.
func (s *Set) Accept(text string) (fp uint64, fresh bool) {
	fp = Sum(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[fp]; ok {
		return fp, false
	}
	s.seen[fp] = struct{}{}
	return fp, true
}

// Len returns the number of recorded fingerprints.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
