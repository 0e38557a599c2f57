package references

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hecksum/hecksum/internal/domain/entities"
	"github.com/hecksum/hecksum/internal/domain/interfaces/gateways"
)

// releaseVersionPattern pulls a semantic version out of the redirect target
// of a "latest release" URL, e.g. .../releases/tag/3.23.2.
var releaseVersionPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

// ReleaseManifestConfig configures a ReleaseManifest factory.
type ReleaseManifestConfig struct {
	// Algorithm names the hash the manifest uses (64-hex digests).
	Algorithm string
	// LatestReleaseURL redirects to the current release tag; the version is
	// read from the redirect target, not the body.
	LatestReleaseURL string
	// ChecksumURLTemplate locates the release's checksum manifest; it must
	// contain {version}.
	ChecksumURLTemplate string
	// DownloadURLTemplate builds the artifact URL from {version} and the
	// {file} name found in the manifest.
	DownloadURLTemplate string
	// AssetPrefix and Architecture select the manifest line:
	// `<hex>  <prefix>_<version>_<arch>.<ext>`.
	AssetPrefix  string
	Architecture string
	// Prefer optionally selects among several matching lines when a
	// publisher ships multiple packaging formats per architecture. When nil
	// the first match wins.
	Prefer func(matches [][]string) []string
	// Signature, when set, requires the manifest to verify before use.
	Signature *SignatureConfig
}

// ReleaseManifest resolves publishers following the GitHub release
// convention (the Doppler CLI shape): a "latest" URL that redirects to the
// current tag, plus a checksums.txt manifest per release.
//
// A publisher may list several packaging formats for one architecture. This
// factory does not select among them: absent a Prefer hook it takes the
// first matching line, a documented limitation of the resolution strategy.
type ReleaseManifest struct {
	fetch gateways.Fetcher
	cfg   ReleaseManifestConfig
}

// NewReleaseManifest creates a release-manifest factory.
func NewReleaseManifest(fetch gateways.Fetcher, cfg ReleaseManifestConfig) *ReleaseManifest {
	return &ReleaseManifest{fetch: fetch, cfg: cfg}
}

// Seed returns the statically known reference fields.
func (r *ReleaseManifest) Seed() entities.Reference {
	return entities.Reference{Algorithm: r.cfg.Algorithm}
}

// Populate resolves the current version from the latest-release redirect,
// fetches the release's checksum manifest, and takes checksum and file name
// from the matching line.
func (r *ReleaseManifest) Populate(ctx context.Context, ref *entities.Reference) error {
	latest, err := r.fetch.Get(ctx, r.cfg.LatestReleaseURL)
	if err != nil {
		return err
	}

	m, err := firstMatch(releaseVersionPattern, latest.FinalURL)
	if err != nil {
		return err
	}
	version := m[0]

	ref.ChecksumURL = expandTemplate(r.cfg.ChecksumURLTemplate, version, "")

	manifest, err := r.fetch.Get(ctx, ref.ChecksumURL)
	if err != nil {
		return err
	}
	if err := verifyManifest(ctx, r.fetch, r.cfg.Signature, manifest.Body); err != nil {
		return err
	}

	line, err := r.matchAsset(string(manifest.Body), version)
	if err != nil {
		return err
	}
	ref.SetChecksum(line[1])
	ref.DownloadURL = expandTemplate(r.cfg.DownloadURLTemplate, version, line[2])
	return nil
}

// matchAsset scans the manifest for `<64-hex>  <prefix>_<version>_<arch>.<ext>`
// lines and picks one deterministically.
func (r *ReleaseManifest) matchAsset(manifest, version string) ([]string, error) {
	pattern := fmt.Sprintf(`([0-9a-fA-F]{64}) {2}(%s_%s_%s\.[\w.]+)`,
		regexp.QuoteMeta(r.cfg.AssetPrefix),
		regexp.QuoteMeta(version),
		regexp.QuoteMeta(r.cfg.Architecture))
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid asset pattern: %w", err)
	}

	matches := re.FindAllStringSubmatch(manifest, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPatternNotFound, pattern)
	}
	if r.cfg.Prefer != nil {
		if picked := r.cfg.Prefer(matches); picked != nil {
			return picked, nil
		}
	}
	return matches[0], nil
}
