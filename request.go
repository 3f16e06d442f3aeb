package harvest

import "time"

// Request describes one discovery run. It is the contract between the
// external collection layer and the orchestrator.
type Request struct {
	// SeedURL is the address discovery starts from. Required.
	SeedURL string

	// MaxDepth bounds link-following depth during static harvest.
	// 0 means only the seed page itself is harvested for links.
	MaxDepth int

	// MaxURLs caps the number of discovered resources. 0 means no cap.
	// Once reached, discovery stops accepting new work but lets in-flight
	// tasks finish.
	MaxURLs int

	// DynamicAttempts bounds successful strategy advances during dynamic
	// harvest. Nil means unbounded; an explicit 0 disables dynamic
	// harvest entirely.
	DynamicAttempts *int

	// Exclude drops content categories during extraction.
	Exclude ExcludeSet

	// PublishedAfter drops text content from pages whose detected publish
	// date is older. Nil means no date filtering.
	PublishedAfter *time.Time

	// Denylist overrides the default excluded path patterns when non-nil.
	Denylist []string
}

// Validate returns an error if the request contains invalid fields.
func (r *Request) Validate() error {
	if r.SeedURL == "" {
		return Errorf(EINVALID, "seed URL required")
	}
	if _, err := Normalize(r.SeedURL, false); err != nil {
		return err
	}
	if r.MaxDepth < 0 {
		return Errorf(EINVALID, "max depth must be >= 0")
	}
	if r.MaxURLs < 0 {
		return Errorf(EINVALID, "max URLs must be >= 0")
	}
	if r.DynamicAttempts != nil && *r.DynamicAttempts < 0 {
		return Errorf(EINVALID, "dynamic attempt limit must be >= 0")
	}
	return nil
}

// DenylistOrDefault returns the request denylist, falling back to
// DefaultDenylist.
func (r *Request) DenylistOrDefault() []string {
	if r.Denylist != nil {
		return r.Denylist
	}
	return DefaultDenylist()
}

// Stats accumulates counters for one discovery run.
type Stats struct {
	Discovered int `json:"discovered"` // resources added to the content map
	Visited    int `json:"visited"`    // frontier URLs dequeued and processed
	Extracted  int `json:"extracted"`  // resources that yielded content
	Units      int `json:"units"`      // content units emitted
	Duplicates int `json:"duplicates"` // units dropped by the deduplicator
	Skipped    int `json:"skipped"`    // resources skipped after fetch/render failure
	Errored    int `json:"errored"`    // resources that produced an [ERROR] unit
	Renders    int `json:"renders"`    // render session navigations performed
}
