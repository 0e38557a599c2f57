package references

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/hecksum/hecksum/internal/domain/entities"
	"github.com/hecksum/hecksum/internal/domain/interfaces/gateways"
)

// JSConstantsConfig configures a JSConstants factory. One factory instance
// exists per packaging (dmg, msi, tarball); they share the constants URL and
// differ in which keys they read.
type JSConstantsConfig struct {
	// Algorithm names the hash the constants block advertises.
	Algorithm string
	// ConstantsURL is the JS asset defining the version/checksum constants.
	ConstantsURL string
	// ChecksumKey and VersionKey name the constants to extract,
	// e.g. sha256_dmg and current_version_dmg.
	ChecksumKey string
	VersionKey  string
	// FileNameTemplate builds the release file name from the extracted
	// version; it must contain {version}.
	FileNameTemplate string
	// DownloadURLTemplate builds the artifact URL; it must contain {file}.
	DownloadURLTemplate string
}

// JSConstants resolves publishers whose landing page pulls current release
// facts from a JS object literal (the Transmission shape): the checksum and
// version are both constants in one fetched asset, and the download URL is
// derived from the version.
type JSConstants struct {
	fetch       gateways.Fetcher
	cfg         JSConstantsConfig
	checksumPat *regexp.Regexp
	versionPat  *regexp.Regexp
}

// NewJSConstants creates a JS-constants factory.
func NewJSConstants(fetch gateways.Fetcher, cfg JSConstantsConfig) *JSConstants {
	return &JSConstants{
		fetch:       fetch,
		cfg:         cfg,
		checksumPat: constantPattern(cfg.ChecksumKey),
		versionPat:  constantPattern(cfg.VersionKey),
	}
}

// constantPattern matches a quoted JS constant by key: `key: "value"`.
func constantPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`%s: "(.*)"`, regexp.QuoteMeta(key)))
}

// Seed returns the statically known reference fields.
func (j *JSConstants) Seed() entities.Reference {
	return entities.Reference{
		Algorithm:   j.cfg.Algorithm,
		ChecksumURL: j.cfg.ConstantsURL,
	}
}

// Populate fetches the constants asset, extracts the checksum and version by
// their configured keys, and formats the download URL from the version.
func (j *JSConstants) Populate(ctx context.Context, ref *entities.Reference) error {
	res, err := j.fetch.Get(ctx, ref.ChecksumURL)
	if err != nil {
		return err
	}
	constants := string(res.Body)

	checksum, err := firstMatch(j.checksumPat, constants)
	if err != nil {
		return err
	}
	ref.SetChecksum(checksum[1])

	version, err := firstMatch(j.versionPat, constants)
	if err != nil {
		return err
	}

	fileName := strings.ReplaceAll(j.cfg.FileNameTemplate, "{version}", version[1])
	ref.DownloadURL = expandTemplate(j.cfg.DownloadURLTemplate, version[1], fileName)
	return nil
}
