// Package goquery implements HTML link harvesting and content extraction
// over the PuerkitoBio/goquery DOM API. The functions in this package are
// pure over their HTML input; scope filtering and resource classification
// are applied by callers with the root package's URL helpers.
package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/scrapeworks/harvest"
)

// onclickURL matches URLs embedded in inline click handlers, covering the
// common href assignment, window.location assignment and redirect() call
// patterns used by sites that hide navigation from anchors.
var onclickURL = regexp.MustCompile(`(?:href=|window\.location=|redirect\()['"]([^'"]*)['"]`)

// dataURLAttrs are non-standard attributes that frequently carry
// navigation targets on JS-driven sites.
var dataURLAttrs = []string{"data-href", "data-url", "data-link"}

// HarvestLinks extracts every candidate URL from the HTML: anchor hrefs,
// URLs embedded in onclick handlers, data-* navigation attributes, and
// img/iframe sources (so media and embedded documents are discovered even
// when never linked). Relative URLs are resolved against baseURL.
//
// Results are absolute, deduplicated, and in document order of first
// occurrence. No scope or classification filtering happens here.
func HarvestLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, harvest.Errorf(harvest.EPARSE, "parsing HTML: %v", err)
	}

	seen := make(map[string]bool)
	var links []string

	add := func(raw string) {
		if raw == "" || isNonHTTPLink(raw) {
			return
		}
		resolved := resolveURL(base, raw)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		add(href)
	})

	doc.Find("[onclick]").Each(func(_ int, sel *goquery.Selection) {
		onclick, _ := sel.Attr("onclick")
		for _, m := range onclickURL.FindAllStringSubmatch(onclick, -1) {
			add(m[1])
		}
	})

	for _, attr := range dataURLAttrs {
		doc.Find("[" + attr + "]").Each(func(_ int, sel *goquery.Selection) {
			v, _ := sel.Attr(attr)
			add(v)
		})
	}

	doc.Find("img[src], iframe[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		add(src)
	})

	return links, nil
}

// isNonHTTPLink reports whether the href uses a scheme that can never be
// crawled (javascript:, mailto:, tel:, data:) or is a pure fragment.
func isNonHTTPLink(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return strings.HasPrefix(lower, "#")
}

// resolveURL resolves href against base and returns the absolute URL, or
// "" if href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// sameHost reports whether the absolute URL shares the base URL's host.
// Subdomains count as different hosts.
func sameHost(base *url.URL, absURL string) bool {
	parsed, err := url.Parse(absURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Host, base.Host)
}
