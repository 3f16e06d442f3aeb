package mock

import (
	"context"

	"github.com/scrapeworks/harvest"
)

var _ harvest.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of harvest.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *harvest.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *harvest.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
