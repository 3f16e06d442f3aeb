package goquery

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/scrapeworks/harvest"
)

// minTextLen is the minimum normalized length for a text unit. Shorter
// fragments are navigation labels, buttons and other chrome.
const minTextLen = 20

// mainSelectors are candidate main-content containers in priority order.
// The first selector with a match wins; when none match, extraction falls
// back to the whole document.
var mainSelectors = []string{
	"article",
	"main",
	"[role='main']",
	".content",
	".post-content",
	".entry-content",
	".article-content",
}

// excludedAncestors are class/id keywords marking page chrome. Text found
// under an element whose class or id contains one of these is dropped.
var excludedAncestors = []string{
	"nav", "menu", "footer", "sidebar", "advertisement",
	"cookie", "popup", "header",
}

// consentPhrases flag cookie-consent boilerplate by the element's own
// text, catching banners that carry no identifying class or id.
var consentPhrases = []string{
	"use cookies", "uses cookies", "cookie policy", "accept cookies",
	"accept all cookies", "cookie settings", "consent to",
}

// Extract pulls classified content units out of rendered HTML.
//
// Schema.org JSON-LD articleBody/description fields are emitted first when
// present; malformed JSON-LD blocks are skipped. Text units (headings,
// paragraphs, list items) come from the first matching main-content
// container, filtered by ancestry and length. Link and media units are
// harvested document-wide with the same chrome exclusion.
//
// Units carry no fingerprint; deduplication is the caller's concern.
func Extract(html string, pageURL string) ([]harvest.ContentUnit, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, harvest.Errorf(harvest.EPARSE, "parsing HTML: %v", err)
	}

	var units []harvest.ContentUnit
	add := func(kind harvest.UnitKind, value string) {
		units = append(units, harvest.ContentUnit{
			ResourceURL: pageURL,
			Kind:        kind,
			Value:       value,
		})
	}

	for _, u := range jsonLDUnits(doc) {
		add(u.kind, u.value)
	}

	container := mainContainer(doc)
	container.Find("h1, h2, h3, h4, h5, h6, p, li").Each(func(_ int, sel *goquery.Selection) {
		text := harvest.NormalizeText(ownText(sel))
		if len(text) < minTextLen {
			return
		}
		if underExcludedAncestor(sel) || isConsentText(text) {
			return
		}
		switch goquery.NodeName(sel) {
		case "p":
			add(harvest.UnitParagraph, text)
		case "li":
			add(harvest.UnitListItem, text)
		default:
			add(harvest.UnitHeading, text)
		}
	})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) || underExcludedAncestor(sel) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		switch harvest.Classify(resolved) {
		case harvest.KindDocument:
			add(harvest.UnitDocumentRef, resolved)
		case harvest.KindImage:
			add(harvest.UnitImageRef, resolved)
		default:
			if sameHost(base, resolved) {
				add(harvest.UnitInternalLink, resolved)
			} else {
				add(harvest.UnitExternalLink, resolved)
			}
		}
	})

	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if src == "" || isNonHTTPLink(src) || underExcludedAncestor(sel) {
			return
		}
		if resolved := resolveURL(base, src); resolved != "" {
			add(harvest.UnitImageRef, resolved)
		}
	})

	return units, nil
}

// mainContainer returns the first matching main-content selection, or the
// document itself when no candidate matches.
func mainContainer(doc *goquery.Document) *goquery.Selection {
	for _, selector := range mainSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return sel.First()
		}
	}
	return doc.Selection
}

// ownText returns the element's text including children, except that for
// list items and paragraphs holding nested lists the nested list text is
// dropped so each item is reported once, at its own depth.
func ownText(sel *goquery.Selection) string {
	nested := sel.Find("ul, ol")
	if nested.Length() == 0 {
		return sel.Text()
	}
	clone := sel.Clone()
	clone.Find("ul, ol").Remove()
	return clone.Text()
}

// underExcludedAncestor walks the element and its ancestry looking for
// chrome markers in class and id attributes.
func underExcludedAncestor(sel *goquery.Selection) bool {
	nodes := sel.AddSelection(sel.Parents())
	excluded := false
	nodes.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		haystack := strings.ToLower(class + " " + id)
		if haystack == " " {
			return true
		}
		for _, kw := range excludedAncestors {
			if strings.Contains(haystack, kw) {
				excluded = true
				return false
			}
		}
		return true
	})
	return excluded
}

// isConsentText reports whether normalized text reads like cookie-consent
// boilerplate.
func isConsentText(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range consentPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

type ldUnit struct {
	kind  harvest.UnitKind
	value string
}

// jsonLDUnits extracts articleBody and description fields from schema.org
// JSON-LD script blocks. Blocks that fail to parse are skipped so one bad
// script never costs the rest of the page.
func jsonLDUnits(doc *goquery.Document) []ldUnit {
	var units []ldUnit
	seen := make(map[string]bool)

	doc.Find(`script[type='application/ld+json']`).Each(func(_ int, sel *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(sel.Text()), &data); err != nil {
			return
		}
		walkLD(data, func(kind harvest.UnitKind, value string) {
			value = harvest.NormalizeText(value)
			if value == "" || seen[string(kind)+"\x00"+value] {
				return
			}
			seen[string(kind)+"\x00"+value] = true
			units = append(units, ldUnit{kind: kind, value: value})
		})
	})

	return units
}

// walkLD visits JSON-LD objects recursively, including @graph collections
// and top-level arrays, reporting articleBody and description strings.
func walkLD(data any, emit func(harvest.UnitKind, string)) {
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			walkLD(item, emit)
		}
	case map[string]any:
		if body, ok := v["articleBody"].(string); ok {
			emit(harvest.UnitArticleBody, body)
		}
		if desc, ok := v["description"].(string); ok {
			emit(harvest.UnitDescription, desc)
		}
		if graph, ok := v["@graph"]; ok {
			walkLD(graph, emit)
		}
	}
}
