package gateways

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hecksum/hecksum/internal/domain/interfaces/gateways"
)

const (
	// DefaultFetchTimeout bounds discovery GETs (small pages and manifests).
	DefaultFetchTimeout = 30 * time.Second
	// DefaultDownloadTimeout bounds artifact downloads, which can be large.
	DefaultDownloadTimeout = 5 * time.Minute

	userAgent = "hecksum/1.0"
)

// HTTPFetcher implements gateways.Fetcher with net/http. Publisher pages
// break often enough on their own; the fetcher itself does not retry, so a
// single failed GET surfaces as-is and the caller decides what it means.
type HTTPFetcher struct {
	client   *http.Client
	download *http.Client
}

// NewHTTPFetcher creates a fetcher with the default timeouts.
func NewHTTPFetcher() *HTTPFetcher {
	return NewHTTPFetcherWithTimeouts(DefaultFetchTimeout, DefaultDownloadTimeout)
}

// NewHTTPFetcherWithTimeouts creates a fetcher with explicit per-call
// timeouts for discovery GETs and streamed downloads.
func NewHTTPFetcherWithTimeouts(fetchTimeout, downloadTimeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client:   &http.Client{Timeout: fetchTimeout},
		download: &http.Client{Timeout: downloadTimeout},
	}
}

// Get retrieves url and returns the body plus the redirect-resolved URL.
func (f *HTTPFetcher) Get(ctx context.Context, url string) (*gateways.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	// resp.Request points at the last request in the redirect chain.
	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &gateways.StatusError{URL: finalURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &gateways.FetchResult{
		Body:     body,
		FinalURL: finalURL,
		Status:   resp.StatusCode,
		Header:   resp.Header,
	}, nil
}

// Stream opens url for chunked reading. The caller owns the returned body.
func (f *HTTPFetcher) Stream(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.download.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		//nolint:errcheck,gosec // G104: Best effort close on error status
		resp.Body.Close()
		return nil, &gateways.StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return resp.Body, nil
}
