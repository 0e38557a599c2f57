// Package gateways defines interfaces for external service adapters.
package gateways

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// FetchResult is one successful GET. FinalURL is the redirect-resolved URL,
// which can differ from the requested one; the release-manifest extractor
// reads version numbers out of it.
type FetchResult struct {
	Body     []byte
	FinalURL string
	Status   int
	Header   http.Header
}

// Fetcher defines the HTTP read capability the extraction engine builds on.
type Fetcher interface {
	// Get retrieves url and returns the full body. A non-2xx response is an
	// error (*StatusError), not a result.
	Get(ctx context.Context, url string) (*FetchResult, error)

	// Stream opens url for chunked reading, for artifacts too large to hold
	// in memory. The caller must close the returned body. A non-2xx response
	// is an error (*StatusError).
	Stream(ctx context.Context, url string) (io.ReadCloser, error)
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}
