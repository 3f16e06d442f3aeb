// Package harvest provides adaptive site-content discovery and extraction.
// Given a seed address it finds every reachable piece of content on a site
// whose link structure may be static, paginated, or dynamically loaded,
// classifies each discovered resource, deduplicates content fragments, and
// extracts structured text and media references under concurrency and time
// budgets.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package harvest
