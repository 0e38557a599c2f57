// Package minisign provides minisign signature verification for checksum
// manifests.
package minisign

import (
	"fmt"
	"strings"

	"github.com/jedisct1/go-minisign"
)

// Verifier checks minisign signatures over in-memory manifest bytes against
// one trusted public key. It implements gateways.ManifestVerifier.
type Verifier struct {
	pubKey minisign.PublicKey
}

// NewVerifier parses a base64 minisign public key (the single-line form
// publishers print in their docs) and returns a verifier trusting it.
func NewVerifier(publicKey string) (*Verifier, error) {
	pk, err := minisign.NewPublicKey(strings.TrimSpace(publicKey))
	if err != nil {
		return nil, fmt.Errorf("invalid minisign public key: %w", err)
	}
	return &Verifier{pubKey: pk}, nil
}

// NewVerifierFromFile loads a minisign .pub key file.
func NewVerifierFromFile(path string) (*Verifier, error) {
	pk, err := minisign.NewPublicKeyFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read minisign key file: %w", err)
	}
	return &Verifier{pubKey: pk}, nil
}

// VerifyManifest returns nil iff signature is a valid minisign signature
// over message by the trusted key.
func (v *Verifier) VerifyManifest(message, signature []byte) error {
	sig, err := minisign.DecodeSignature(string(signature))
	if err != nil {
		return fmt.Errorf("invalid minisign signature: %w", err)
	}

	valid, err := v.pubKey.Verify(message, sig)
	if err != nil {
		return fmt.Errorf("minisign verification error: %w", err)
	}
	if !valid {
		return fmt.Errorf("minisign signature verification failed")
	}
	return nil
}
