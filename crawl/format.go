package crawl

import (
	"net/url"
	"strings"

	"github.com/scrapeworks/harvest"
)

// FormatArtifact renders the aggregated content as the persisted text
// artifact: one `[URL]` marker per resource followed by one bracketed
// line per unit, groups separated by a blank line. The output is stable
// for the same input so successive runs can be diffed.
func FormatArtifact(pages []harvest.PageContent) string {
	var b strings.Builder
	for i, page := range pages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("[URL] ")
		b.WriteString(page.Resource.URL)
		b.WriteString("\n")
		for _, unit := range page.Units {
			b.WriteString(unit.Kind.Tag())
			b.WriteString(" ")
			b.WriteString(unit.Value)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ArtifactFilename derives the artifact name from the seed URL's host:
// "<host>_analysis.txt", with the www prefix dropped and port colons
// replaced so the name is filesystem-safe.
func ArtifactFilename(seedURL string) string {
	host := "site"
	if u, err := url.Parse(seedURL); err == nil && u.Host != "" {
		host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")
		host = strings.ReplaceAll(host, ":", "_")
	}
	return host + "_analysis.txt"
}

// TruncateURL shortens a URL for progress display, keeping the end which
// is the informative part.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}
