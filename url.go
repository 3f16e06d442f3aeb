package harvest

import (
	"net/url"
	"strings"
)

// DefaultDenylist returns the path patterns excluded from discovery by
// default: legal/account plumbing that never carries site content.
func DefaultDenylist() []string {
	return []string{
		"/cookie-policy",
		"/privacy-policy",
		"/terms-and-conditions",
		"/about-us",
		"/contact",
		"/careers",
		"/login",
		"/register",
		"/signup",
		"/cart",
		"/checkout",
		"/account",
	}
}

// documentExts are file extensions classified as documents.
var documentExts = []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx"}

// imageExts are file extensions classified as images.
var imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp"}

// articleSegments are path keywords that mark editorial content.
var articleSegments = []string{
	"/blog/", "/article/", "/post/", "/news/",
	"/resources/", "/insights/", "/knowledge/",
	"/case-study", "/white-paper", "/report",
}

// apiSegments are path keywords that mark content API endpoints.
var apiSegments = []string{"/api/", "/wp-json/", "/load-more"}

// Normalize canonicalizes a URL: lowercases the scheme and host, strips
// the fragment, and trims a trailing slash from the path. When stripQuery
// is true the query string is removed as well. URLs that differ only by
// fragment are therefore the same resource.
func Normalize(rawURL string, stripQuery bool) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", Errorf(EINVALID, "unparseable URL %q", rawURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", Errorf(EINVALID, "URL %q missing scheme or host", rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if stripQuery {
		u.RawQuery = ""
	}
	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	} else {
		u.Path = ""
	}

	return u.String(), nil
}

// Classify maps a URL to a resource kind. It inspects the file extension
// first, then API path markers, then editorial path keywords. Classify is
// pure and total: the same URL always yields the same kind, and anything
// unrecognized is a plain page.
func Classify(rawURL string) ResourceKind {
	u, err := url.Parse(rawURL)
	if err != nil {
		return KindPage
	}
	p := strings.ToLower(u.Path)

	for _, ext := range documentExts {
		if strings.HasSuffix(p, ext) {
			return KindDocument
		}
	}
	for _, ext := range imageExts {
		if strings.HasSuffix(p, ext) {
			return KindImage
		}
	}
	for _, seg := range apiSegments {
		if strings.Contains(p, seg) {
			return KindAPIEndpoint
		}
	}
	for _, seg := range articleSegments {
		if strings.Contains(p, seg) {
			return KindArticle
		}
	}
	return KindPage
}

// InScope reports whether a URL belongs to the discovery scope anchored at
// baseURL: same host, same path prefix, an http(s) scheme, and no denylist
// match. InScope is total; unparseable input is simply out of scope.
func InScope(rawURL, baseURL string, denylist []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}
	if !strings.EqualFold(u.Host, base.Host) {
		return false
	}
	if base.Path != "" && base.Path != "/" && !strings.HasPrefix(u.Path, base.Path) {
		return false
	}

	p := strings.ToLower(u.Path)
	for _, pattern := range denylist {
		if strings.Contains(p, pattern) {
			return false
		}
	}
	return true
}
