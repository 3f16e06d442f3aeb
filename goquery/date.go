package goquery

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// datePatterns pairs a regexp with the time layout that parses its match.
// Ordered by reliability: unambiguous textual and ISO dates before the
// ambiguous US slash format.
var datePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`[A-Z][a-z]+ \d{1,2}, \d{4}`), "January 2, 2006"},
	{regexp.MustCompile(`[A-Z][a-z]{2} \d{1,2}, \d{4}`), "Jan 2, 2006"},
	{regexp.MustCompile(`\d{4}-\d{2}-\d{2}`), "2006-01-02"},
	{regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`), "1/2/2006"},
}

// dateMetaSelectors are checked before text sniffing; structured metadata
// beats pattern matching when a page provides it.
var dateMetaSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property='article:published_time']`, "content"},
	{`meta[name='date']`, "content"},
	{`time[datetime]`, "datetime"},
}

// PublishedDate sniffs the page's publication date. It prefers structured
// metadata (article:published_time, <time datetime>), then falls back to
// scanning visible text for common date formats. The second return value
// is false when no parseable date is found.
func PublishedDate(html string) (time.Time, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return time.Time{}, false
	}

	for _, meta := range dateMetaSelectors {
		var found time.Time
		ok := false
		doc.Find(meta.selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			raw, exists := sel.Attr(meta.attr)
			if !exists {
				return true
			}
			if t, parsed := parseMetaDate(raw); parsed {
				found, ok = t, true
				return false
			}
			return true
		})
		if ok {
			return found, true
		}
	}

	text := doc.Text()
	for _, p := range datePatterns {
		for _, match := range p.re.FindAllString(text, -1) {
			if t, err := time.Parse(p.layout, match); err == nil {
				return t, true
			}
		}
	}

	return time.Time{}, false
}

// parseMetaDate handles the layouts seen in date metadata attributes.
func parseMetaDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
