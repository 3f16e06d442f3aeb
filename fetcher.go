package harvest

import "context"

// Fetcher retrieves raw documents over plain HTTP, without script
// execution. It is used for static harvest where no renderer is needed.
type Fetcher interface {
	// Fetch retrieves the document at the URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
