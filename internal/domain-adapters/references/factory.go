package references

import (
	"context"
	"strings"

	"github.com/hecksum/hecksum/internal/domain/entities"
	"github.com/hecksum/hecksum/internal/domain/interfaces/gateways"
)

// Factory is a reusable, immutable template that resolves a Reference for
// one tracked project. Implementations are state-free scrapers, safe to
// share across concurrent checks.
type Factory interface {
	// Seed returns a Reference pre-filled with the factory's statically
	// known fields (algorithm, any fixed URLs or checksum).
	Seed() entities.Reference

	// Populate scrapes publisher content to fill the remaining fields of
	// ref in place.
	Populate(ctx context.Context, ref *entities.Reference) error
}

// Make seeds a Reference and runs the factory's populate step. Ignorable
// population failures (transport errors, missing patterns) are swallowed and
// the Reference is returned in whatever state it reached, so one broken
// publisher page never blocks the rest of a run; callers must consult
// Populated. Anything outside the ignorable set is returned as an error.
func Make(ctx context.Context, f Factory) (*entities.Reference, error) {
	ref := f.Seed()
	if err := f.Populate(ctx, &ref); err != nil && !IsIgnorable(err) {
		return nil, err
	}
	return &ref, nil
}

// expandTemplate substitutes {version} and {file} placeholders in publisher
// URL templates.
func expandTemplate(template, version, file string) string {
	s := strings.ReplaceAll(template, "{version}", version)
	return strings.ReplaceAll(s, "{file}", file)
}

// SignatureConfig asks a factory to verify a detached signature over a
// fetched checksum manifest before trusting it. URL locates the signature;
// Verifier knows the scheme the publisher signs with.
type SignatureConfig struct {
	URL      string
	Verifier gateways.ManifestVerifier
}

// verifyManifest fetches the detached signature and checks it against the
// manifest body. Every failure on this path comes back as a non-ignorable
// SignatureError.
func verifyManifest(ctx context.Context, fetch gateways.Fetcher, sig *SignatureConfig, manifest []byte) error {
	if sig == nil {
		return nil
	}
	res, err := fetch.Get(ctx, sig.URL)
	if err != nil {
		return &SignatureError{URL: sig.URL, Err: err}
	}
	if err := sig.Verifier.VerifyManifest(manifest, res.Body); err != nil {
		return &SignatureError{URL: sig.URL, Err: err}
	}
	return nil
}

// GenericConfig seeds a Generic factory. Algorithm and ChecksumURL are
// required; DownloadURL and Checksum are optional statically known values.
type GenericConfig struct {
	Algorithm   string
	ChecksumURL string
	DownloadURL string
	Checksum    string
}

// Generic is the default strategy: the publisher serves the bare checksum at
// a fixed URL, so populating is a single GET with whitespace trimming.
type Generic struct {
	fetch gateways.Fetcher
	cfg   GenericConfig
}

// NewGeneric creates a generic checksum-URL factory.
func NewGeneric(fetch gateways.Fetcher, cfg GenericConfig) *Generic {
	return &Generic{fetch: fetch, cfg: cfg}
}

// Seed returns the statically known reference fields.
func (g *Generic) Seed() entities.Reference {
	return entities.Reference{
		Algorithm:   g.cfg.Algorithm,
		ChecksumURL: g.cfg.ChecksumURL,
		DownloadURL: g.cfg.DownloadURL,
		Checksum:    strings.TrimSpace(g.cfg.Checksum),
	}
}

// Populate reads the checksum URL and takes the trimmed body as the checksum.
func (g *Generic) Populate(ctx context.Context, ref *entities.Reference) error {
	res, err := g.fetch.Get(ctx, ref.ChecksumURL)
	if err != nil {
		return err
	}
	ref.SetChecksum(string(res.Body))
	return nil
}
