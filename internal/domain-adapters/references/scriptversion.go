package references

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hecksum/hecksum/internal/domain/entities"
	"github.com/hecksum/hecksum/internal/domain/interfaces/gateways"
)

// scriptVersionPattern matches the version constant self-describing shell
// scripts carry near the top, e.g. VERSION="1.0.6".
var scriptVersionPattern = regexp.MustCompile(`VERSION="(.*)"`)

// ScriptVersionConfig configures a ScriptVersion factory.
type ScriptVersionConfig struct {
	// Algorithm names the hash the publisher's manifest uses.
	Algorithm string
	// ScriptURL is the artifact itself: a script that embeds its own version.
	ScriptURL string
	// ChecksumURLTemplate locates the companion checksum manifest for a
	// given version; it must contain {version}.
	ChecksumURLTemplate string
	// ArtifactName is the substring identifying the artifact's line in the
	// manifest (`<hex>  <name>`).
	ArtifactName string
	// Signature, when set, requires the manifest to verify before use.
	Signature *SignatureConfig
}

// ScriptVersion resolves publishers that distribute a self-versioned script
// (the Codecov bash uploader shape): the script body names its version, and
// a version-addressed manifest file carries the checksum.
type ScriptVersion struct {
	fetch   gateways.Fetcher
	cfg     ScriptVersionConfig
	linePat *regexp.Regexp
}

// NewScriptVersion creates a script-embedded-version factory.
func NewScriptVersion(fetch gateways.Fetcher, cfg ScriptVersionConfig) *ScriptVersion {
	return &ScriptVersion{
		fetch:   fetch,
		cfg:     cfg,
		linePat: regexp.MustCompile(fmt.Sprintf(`(.*) {2}%s`, regexp.QuoteMeta(cfg.ArtifactName))),
	}
}

// Seed returns the statically known reference fields.
func (s *ScriptVersion) Seed() entities.Reference {
	return entities.Reference{
		Algorithm:   s.cfg.Algorithm,
		DownloadURL: s.cfg.ScriptURL,
	}
}

// Populate downloads the script, extracts its version constant, derives the
// manifest URL, and pulls the artifact's checksum line out of the manifest.
func (s *ScriptVersion) Populate(ctx context.Context, ref *entities.Reference) error {
	script, err := s.fetch.Get(ctx, ref.DownloadURL)
	if err != nil {
		return err
	}

	m, err := firstMatch(scriptVersionPattern, string(script.Body))
	if err != nil {
		return err
	}
	version := m[1]

	ref.ChecksumURL = expandTemplate(s.cfg.ChecksumURLTemplate, version, "")

	manifest, err := s.fetch.Get(ctx, ref.ChecksumURL)
	if err != nil {
		return err
	}
	if err := verifyManifest(ctx, s.fetch, s.cfg.Signature, manifest.Body); err != nil {
		return err
	}

	line, err := firstMatch(s.linePat, string(manifest.Body))
	if err != nil {
		return err
	}
	ref.SetChecksum(line[1])
	return nil
}
