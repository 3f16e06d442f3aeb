package crawl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scrapeworks/harvest"
	"github.com/scrapeworks/harvest/crawl"
)

func TestFormatArtifact_groups_units_under_url_markers(t *testing.T) {
	t.Parallel()

	pages := []harvest.PageContent{
		{
			Resource: harvest.Resource{URL: "https://example.com", Kind: harvest.KindPage},
			Units: []harvest.ContentUnit{
				{Kind: harvest.UnitHeading, Value: "Welcome to the site"},
				{Kind: harvest.UnitParagraph, Value: "Opening paragraph text."},
				{Kind: harvest.UnitInternalLink, Value: "https://example.com/blog/post"},
			},
		},
		{
			Resource: harvest.Resource{URL: "https://example.com/blog/post", Kind: harvest.KindArticle},
			Units: []harvest.ContentUnit{
				{Kind: harvest.UnitArticleBody, Value: "Body of the article."},
				{Kind: harvest.UnitError, Value: "fetch failed"},
			},
		},
	}

	want := `[URL] https://example.com
[HEADING] Welcome to the site
[PARAGRAPH] Opening paragraph text.
[INTERNAL_LINK] https://example.com/blog/post

[URL] https://example.com/blog/post
[ARTICLE_BODY] Body of the article.
[ERROR] fetch failed
`
	assert.Equal(t, want, crawl.FormatArtifact(pages))
}

func TestFormatArtifact_is_deterministic(t *testing.T) {
	t.Parallel()

	pages := []harvest.PageContent{
		{
			Resource: harvest.Resource{URL: "https://example.com/a"},
			Units:    []harvest.ContentUnit{{Kind: harvest.UnitParagraph, Value: "same"}},
		},
	}
	assert.Equal(t, crawl.FormatArtifact(pages), crawl.FormatArtifact(pages))
}

func TestFormatArtifact_empty_input(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", crawl.FormatArtifact(nil))
}

func TestArtifactFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seed string
		want string
	}{
		{"https://example.com/docs", "example.com_analysis.txt"},
		{"https://www.example.com", "example.com_analysis.txt"},
		{"http://localhost:8080/shop", "localhost_8080_analysis.txt"},
		{"not a url", "site_analysis.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, crawl.ArtifactFilename(tt.seed), tt.seed)
	}
}

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://example.com", crawl.TruncateURL("https://example.com", 40))
	assert.Equal(t, "...ple.com/deep/path", crawl.TruncateURL("https://example.com/deep/path", 20))
	assert.Equal(t, "", crawl.TruncateURL("https://example.com", 0))
}
