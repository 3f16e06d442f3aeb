package harvest

import "strings"

// UnitKind classifies a single piece of extracted material.
type UnitKind string

// Content unit kinds.
const (
	UnitHeading      UnitKind = "heading"
	UnitParagraph    UnitKind = "paragraph"
	UnitListItem     UnitKind = "list_item"
	UnitExternalLink UnitKind = "external_link"
	UnitInternalLink UnitKind = "internal_link"
	UnitImageRef     UnitKind = "image_ref"
	UnitDocumentRef  UnitKind = "document_ref"
	UnitArticleBody  UnitKind = "article_body"
	UnitDescription  UnitKind = "description"
	UnitError        UnitKind = "error"
)

// tags maps unit kinds to the bracketed markers used in the persisted
// artifact. The tags are part of the interchange format consumed by the
// download layer and must stay stable.
var tags = map[UnitKind]string{
	UnitHeading:      "[HEADING]",
	UnitParagraph:    "[PARAGRAPH]",
	UnitListItem:     "[LIST_ITEM]",
	UnitExternalLink: "[EXTERNAL_LINK]",
	UnitInternalLink: "[INTERNAL_LINK]",
	UnitImageRef:     "[IMAGE]",
	UnitDocumentRef:  "[DOCUMENT]",
	UnitArticleBody:  "[ARTICLE_BODY]",
	UnitDescription:  "[DESCRIPTION]",
	UnitError:        "[ERROR]",
}

// Tag returns the bracketed marker for the kind, e.g. "[PARAGRAPH]".
func (k UnitKind) Tag() string {
	if t, ok := tags[k]; ok {
		return t
	}
	return "[" + strings.ToUpper(string(k)) + "]"
}

// ContentUnit is one piece of extracted material. Units are immutable and
// owned by the aggregation result.
type ContentUnit struct {
	ResourceURL string   `json:"resourceUrl"`
	Kind        UnitKind `json:"kind"`
	Value       string   `json:"value"` // normalized text or an absolute URI
	Fingerprint uint64   `json:"fingerprint"`
}

// PageContent pairs a resource with the units extracted from it.
// All units for a resource remain contiguous in the aggregate.
type PageContent struct {
	Resource Resource      `json:"resource"`
	Units    []ContentUnit `json:"units"`
}

// ExcludeSet selects content categories to drop during extraction.
type ExcludeSet struct {
	Text   bool
	Links  bool
	Images bool
}

// Excludes reports whether units of the given kind should be dropped.
// Error units are never excluded.
func (e ExcludeSet) Excludes(k UnitKind) bool {
	switch k {
	case UnitHeading, UnitParagraph, UnitListItem, UnitArticleBody, UnitDescription:
		return e.Text
	case UnitExternalLink, UnitInternalLink, UnitDocumentRef:
		return e.Links
	case UnitImageRef:
		return e.Images
	}
	return false
}

// ParseExcludeSet builds an ExcludeSet from category names
// ("text", "links", "images"). Unknown names are rejected.
func ParseExcludeSet(names []string) (ExcludeSet, error) {
	var set ExcludeSet
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
		case "text":
			set.Text = true
		case "links":
			set.Links = true
		case "images":
			set.Images = true
		default:
			return ExcludeSet{}, Errorf(EINVALID, "unknown exclude category %q", name)
		}
	}
	return set, nil
}
