package mock

import "github.com/scrapeworks/harvest"

var _ harvest.Deduper = (*Deduper)(nil)

// Deduper is a mock implementation of harvest.Deduper.
type Deduper struct {
	AcceptFn func(text string) (uint64, bool)
}

func (d *Deduper) Accept(text string) (uint64, bool) {
	return d.AcceptFn(text)
}
