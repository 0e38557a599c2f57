package minisign

import (
	"path/filepath"
	"testing"
)

// Minisign's own documented test key.
const testPublicKey = "RWQf6LRCGA9i53mlYecO4IzT51TGPpvWucNSCh1CBM0QTaLn73Y7GFO3"

func TestNewVerifier(t *testing.T) {
	if _, err := NewVerifier(testPublicKey); err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	if _, err := NewVerifier("  " + testPublicKey + "\n"); err != nil {
		t.Errorf("NewVerifier() error = %v, want surrounding whitespace tolerated", err)
	}
	if _, err := NewVerifier("not a key"); err == nil {
		t.Error("NewVerifier() error = nil for malformed key")
	}
}

func TestNewVerifierFromFile_MissingFile(t *testing.T) {
	if _, err := NewVerifierFromFile(filepath.Join(t.TempDir(), "absent.pub")); err == nil {
		t.Error("NewVerifierFromFile() error = nil, want read failure")
	}
}

func TestVerifyManifest_MalformedSignature(t *testing.T) {
	v, err := NewVerifier(testPublicKey)
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}

	if err := v.VerifyManifest([]byte("manifest"), []byte("not a signature")); err == nil {
		t.Error("VerifyManifest() error = nil for malformed signature")
	}
}
