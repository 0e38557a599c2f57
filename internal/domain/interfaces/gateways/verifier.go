package gateways

// ManifestVerifier checks a detached signature over a fetched checksum
// manifest before its contents are trusted. Implementations cover the
// signature schemes publishers actually use (PGP, minisign).
type ManifestVerifier interface {
	// VerifyManifest returns nil iff signature is a valid detached signature
	// over message.
	VerifyManifest(message, signature []byte) error
}
