// Package gpg provides PGP signature verification for checksum manifests.
package gpg

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// Verifier checks detached PGP signatures over in-memory manifest bytes
// against a fixed keyring. It implements gateways.ManifestVerifier.
// This lives in external-adapters to isolate the openpgp dependency.
type Verifier struct {
	keyring openpgp.EntityList
}

// NewVerifier creates a verifier over an already-loaded keyring.
func NewVerifier(keyring openpgp.EntityList) *Verifier {
	return &Verifier{keyring: keyring}
}

// NewVerifierFromKeyFile loads an armored public key file and returns a
// verifier trusting only the keys it contains.
func NewVerifierFromKeyFile(path string) (*Verifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	if len(keyring) == 0 {
		return nil, fmt.Errorf("no keys found in %s", path)
	}
	return &Verifier{keyring: keyring}, nil
}

// KeyCount returns how many keys the verifier trusts.
func (v *Verifier) KeyCount() int {
	return len(v.keyring)
}

// VerifyManifest returns nil iff signature is a valid detached PGP signature
// over message by one of the trusted keys. Armored signatures are tried
// first; binary signatures are accepted as a fallback.
func (v *Verifier) VerifyManifest(message, signature []byte) error {
	if len(v.keyring) == 0 {
		return fmt.Errorf("no trusted keys loaded")
	}

	_, err := openpgp.CheckArmoredDetachedSignature(
		v.keyring, bytes.NewReader(message), bytes.NewReader(signature), nil)
	if err == nil {
		return nil
	}

	_, binErr := openpgp.CheckDetachedSignature(
		v.keyring, bytes.NewReader(message), bytes.NewReader(signature), nil)
	if binErr != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}
	return nil
}
