package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapeworks/harvest"
	harvesthttp "github.com/scrapeworks/harvest/http"
)

// sitemapSite builds a test server from a path → body map. Paths not in
// the map return 404.
func sitemapSite(pages map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
}

func TestSitemapService_discovers_urls_from_robots_directive(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	pages := map[string]string{}
	srv = sitemapSite(pages)
	defer srv.Close()

	pages["/robots.txt"] = "User-agent: *\nSitemap: " + srv.URL + "/custom-sitemap.xml\n"
	pages["/custom-sitemap.xml"] = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>` + srv.URL + `/a</loc></url>
  <url><loc>` + srv.URL + `/b</loc></url>
</urlset>`

	svc := harvesthttp.NewSitemapService(nil)
	urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/a", srv.URL + "/b"}, urls)
}

func TestSitemapService_falls_back_to_sitemap_xml(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	pages := map[string]string{}
	srv = sitemapSite(pages)
	defer srv.Close()

	pages["/sitemap.xml"] = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>` + srv.URL + `/page</loc></url>
</urlset>`

	svc := harvesthttp.NewSitemapService(nil)
	urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/page"}, urls)
}

func TestSitemapService_no_sitemap_returns_empty_not_error(t *testing.T) {
	t.Parallel()

	srv := sitemapSite(map[string]string{})
	defer srv.Close()

	svc := harvesthttp.NewSitemapService(nil)
	urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.NotNil(t, urls)
	assert.Empty(t, urls)
}

func TestSitemapService_recurses_sitemap_index(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	pages := map[string]string{}
	srv = sitemapSite(pages)
	defer srv.Close()

	pages["/sitemap.xml"] = `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>` + srv.URL + `/sitemap-posts.xml</loc></sitemap>
  <sitemap><loc>` + srv.URL + `/sitemap-pages.xml</loc></sitemap>
</sitemapindex>`
	pages["/sitemap-posts.xml"] = `<urlset><url><loc>` + srv.URL + `/blog/one</loc></url></urlset>`
	pages["/sitemap-pages.xml"] = `<urlset><url><loc>` + srv.URL + `/about</loc></url></urlset>`

	svc := harvesthttp.NewSitemapService(nil)
	urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{srv.URL + "/blog/one", srv.URL + "/about"}, urls)
}

func TestSitemapService_tolerates_index_cycles(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	pages := map[string]string{}
	srv = sitemapSite(pages)
	defer srv.Close()

	// Index points at itself as well as a real urlset.
	pages["/sitemap.xml"] = `<sitemapindex>
  <sitemap><loc>` + srv.URL + `/sitemap.xml</loc></sitemap>
  <sitemap><loc>` + srv.URL + `/real.xml</loc></sitemap>
</sitemapindex>`
	pages["/real.xml"] = `<urlset><url><loc>` + srv.URL + `/x</loc></url></urlset>`

	svc := harvesthttp.NewSitemapService(nil)
	urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/x"}, urls)
}

func TestSitemapService_filters_by_seed_path_prefix(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	pages := map[string]string{}
	srv = sitemapSite(pages)
	defer srv.Close()

	pages["/sitemap.xml"] = `<urlset>
  <url><loc>` + srv.URL + `/docs/intro</loc></url>
  <url><loc>` + srv.URL + `/documentation</loc></url>
  <url><loc>` + srv.URL + `/pricing</loc></url>
</urlset>`

	svc := harvesthttp.NewSitemapService(nil)
	urls, err := svc.DiscoverURLs(context.Background(), srv.URL+"/docs/", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/docs/intro"}, urls)
}

func TestSitemapService_applies_url_filter(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	pages := map[string]string{}
	srv = sitemapSite(pages)
	defer srv.Close()

	pages["/sitemap.xml"] = `<urlset>
  <url><loc>` + srv.URL + `/blog/post</loc></url>
  <url><loc>` + srv.URL + `/careers</loc></url>
</urlset>`

	filter := &harvest.URLFilter{Exclude: []*regexp.Regexp{regexp.MustCompile(`/careers`)}}
	svc := harvesthttp.NewSitemapService(nil)
	urls, err := svc.DiscoverURLs(context.Background(), srv.URL, filter)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/blog/post"}, urls)
}

func TestSitemapService_dedupes_urls_across_sitemaps(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	pages := map[string]string{}
	srv = sitemapSite(pages)
	defer srv.Close()

	pages["/robots.txt"] = "Sitemap: " + srv.URL + "/s1.xml\nSitemap: " + srv.URL + "/s2.xml\n"
	pages["/s1.xml"] = `<urlset><url><loc>` + srv.URL + `/dup</loc></url></urlset>`
	pages["/s2.xml"] = `<urlset><url><loc>` + srv.URL + `/dup</loc></url></urlset>`

	svc := harvesthttp.NewSitemapService(nil)
	urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/dup"}, urls)
}

func TestSitemapService_malformed_xml_is_parse_error(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	pages := map[string]string{}
	srv = sitemapSite(pages)
	defer srv.Close()

	pages["/sitemap.xml"] = `<urlset><url><loc>broken`

	svc := harvesthttp.NewSitemapService(nil)
	_, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.Equal(t, harvest.EPARSE, harvest.ErrorCode(err))
}
