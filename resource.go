package harvest

import "time"

// ResourceKind classifies an addressable unit of site content.
type ResourceKind string

// Resource kinds, derived purely from the canonical URL by Classify.
const (
	KindPage        ResourceKind = "page"
	KindArticle     ResourceKind = "article"
	KindDocument    ResourceKind = "document"
	KindImage       ResourceKind = "image"
	KindAPIEndpoint ResourceKind = "api_endpoint"
)

// ResourceKinds lists all kinds in a stable order.
func ResourceKinds() []ResourceKind {
	return []ResourceKind{KindPage, KindArticle, KindDocument, KindImage, KindAPIEndpoint}
}

// Resource is a discovered addressable unit of site content.
// Identity is the canonical (post-normalization) URL. A Resource is
// immutable once created and lives only for the duration of a
// discovery session.
type Resource struct {
	URL          string       `json:"url"` // canonical
	Kind         ResourceKind `json:"kind"`
	DiscoveredAt time.Time    `json:"discoveredAt"`
	Source       string       `json:"source"` // discovery path: "static", "sitemap", or a strategy name
}

// Validate returns an error if the resource contains invalid fields.
func (r *Resource) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "resource URL required")
	}
	if r.Kind == "" {
		return Errorf(EINVALID, "resource kind required")
	}
	return nil
}
