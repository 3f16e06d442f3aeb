package harvest

import "strings"

// Deduper suppresses repeated content within one discovery session.
// Implementations must make the check-and-record atomic: two workers
// submitting the same normalized text concurrently must not both get
// fresh=true.
type Deduper interface {
	// Accept fingerprints the normalized text and records the
	// fingerprint. fresh is true only the first time the fingerprint is
	// seen in the session.
	Accept(text string) (fp uint64, fresh bool)
}

// NormalizeText collapses runs of whitespace to single spaces and trims
// the result. Fingerprints are computed over normalized text so that
// formatting differences don't defeat deduplication.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
