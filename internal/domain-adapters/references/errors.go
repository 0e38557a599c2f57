// Package references is the extraction engine: per-publisher factories that
// resolve the current expected checksum and download URL for a tracked
// project out of heterogeneous, semi-structured web content.
package references

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/hecksum/hecksum/internal/domain/interfaces/gateways"
)

// ErrPatternNotFound reports that an expected pattern was absent from
// scraped content. It is the parse-failure half of the ignorable error set.
var ErrPatternNotFound = errors.New("pattern not found")

// SignatureError reports that a checksum manifest failed signature
// verification, or that the signature itself could not be obtained. It is
// deliberately not ignorable: a manifest that should be signed but cannot be
// verified must never degrade silently into a partial reference.
type SignatureError struct {
	URL string
	Err error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("manifest signature %s: %v", e.URL, e.Err)
}

func (e *SignatureError) Unwrap() error { return e.Err }

// IsIgnorable reports whether err belongs to the closed set of population
// failures that yield a partial reference instead of aborting: transport
// failures and missing patterns. Publisher pages change shape without
// notice; these two are routine. Everything else propagates.
func IsIgnorable(err error) bool {
	if err == nil {
		return false
	}
	// Cancellation is the caller's signal, never a page problem.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var sigErr *SignatureError
	if errors.As(err, &sigErr) {
		return false
	}
	if errors.Is(err, ErrPatternNotFound) {
		return true
	}
	var statusErr *gateways.StatusError
	if errors.As(err, &statusErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// firstMatch runs a single-shot regex over scraped text and returns the
// submatches of the first match, or ErrPatternNotFound. Each extraction rule
// stays behind its own small function so publisher-format drift breaks one
// strategy, not the engine.
func firstMatch(re *regexp.Regexp, text string) ([]string, error) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrPatternNotFound, re.String())
	}
	return m, nil
}
