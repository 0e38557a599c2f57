package references

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hecksum/hecksum/internal/domain-adapters/gateways"
)

const uploaderScript = `#!/bin/bash

VERSION="1.0.6"

url="https://codecov.example"
`

const uploaderManifest = `4f7e1e5f4f0d0b2e8f3b6d7c9a1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e  codecov
`

func TestScriptVersion_Populate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bash", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(uploaderScript))
	})
	mux.HandleFunc("/codecov-bash/1.0.6/SHA512SUM", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(uploaderManifest))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	factory := NewScriptVersion(gateways.NewHTTPFetcher(), ScriptVersionConfig{
		Algorithm:           "sha512",
		ScriptURL:           server.URL + "/bash",
		ChecksumURLTemplate: server.URL + "/codecov-bash/{version}/SHA512SUM",
		ArtifactName:        "codecov",
	})

	ref, err := Make(context.Background(), factory)
	if err != nil {
		t.Fatalf("Make() error = %v", err)
	}

	if !ref.Populated() {
		t.Fatalf("Populated() = false, reference = %+v", *ref)
	}
	if ref.ChecksumURL != server.URL+"/codecov-bash/1.0.6/SHA512SUM" {
		t.Errorf("ChecksumURL = %q, want version substituted", ref.ChecksumURL)
	}
	want := "4f7e1e5f4f0d0b2e8f3b6d7c9a1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e"
	if ref.Checksum != want {
		t.Errorf("Checksum = %q, want %q", ref.Checksum, want)
	}
	if ref.DownloadURL != server.URL+"/bash" {
		t.Errorf("DownloadURL = %q, want seed preserved", ref.DownloadURL)
	}
}

// A script without the version constant yields a partial reference.
func TestScriptVersion_MissingVersion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("#!/bin/bash\necho no version\n"))
	}))
	defer server.Close()

	factory := NewScriptVersion(gateways.NewHTTPFetcher(), ScriptVersionConfig{
		Algorithm:           "sha512",
		ScriptURL:           server.URL + "/bash",
		ChecksumURLTemplate: server.URL + "/{version}/SHA512SUM",
		ArtifactName:        "codecov",
	})

	ref, err := Make(context.Background(), factory)
	if err != nil {
		t.Fatalf("Make() error = %v, want swallowed parse failure", err)
	}
	if ref.Populated() {
		t.Error("Populated() = true, want false")
	}
}

// stubVerifier rejects every signature.
type stubVerifier struct{ err error }

func (s *stubVerifier) VerifyManifest(_, _ []byte) error { return s.err }

// A manifest that fails signature verification must propagate, not degrade
// into a partial reference.
func TestScriptVersion_SignatureFailurePropagates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bash", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(uploaderScript))
	})
	mux.HandleFunc("/codecov-bash/1.0.6/SHA512SUM", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(uploaderManifest))
	})
	mux.HandleFunc("/codecov-bash/1.0.6/SHA512SUM.sig", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("bogus signature"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	factory := NewScriptVersion(gateways.NewHTTPFetcher(), ScriptVersionConfig{
		Algorithm:           "sha512",
		ScriptURL:           server.URL + "/bash",
		ChecksumURLTemplate: server.URL + "/codecov-bash/{version}/SHA512SUM",
		ArtifactName:        "codecov",
		Signature: &SignatureConfig{
			URL:      server.URL + "/codecov-bash/1.0.6/SHA512SUM.sig",
			Verifier: &stubVerifier{err: errors.New("bad signature")},
		},
	})

	_, err := Make(context.Background(), factory)
	if err == nil {
		t.Fatal("Make() error = nil, want signature failure to propagate")
	}
	var sigErr *SignatureError
	if !errors.As(err, &sigErr) {
		t.Errorf("Make() error = %v, want *SignatureError", err)
	}
}

// A valid signature lets population proceed.
func TestScriptVersion_SignatureAccepted(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bash", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(uploaderScript))
	})
	mux.HandleFunc("/codecov-bash/1.0.6/SHA512SUM", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(uploaderManifest))
	})
	mux.HandleFunc("/codecov-bash/1.0.6/SHA512SUM.sig", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("trusted signature"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	factory := NewScriptVersion(gateways.NewHTTPFetcher(), ScriptVersionConfig{
		Algorithm:           "sha512",
		ScriptURL:           server.URL + "/bash",
		ChecksumURLTemplate: server.URL + "/codecov-bash/{version}/SHA512SUM",
		ArtifactName:        "codecov",
		Signature: &SignatureConfig{
			URL:      server.URL + "/codecov-bash/1.0.6/SHA512SUM.sig",
			Verifier: &stubVerifier{},
		},
	})

	ref, err := Make(context.Background(), factory)
	if err != nil {
		t.Fatalf("Make() error = %v", err)
	}
	if !ref.Populated() {
		t.Errorf("Populated() = false, reference = %+v", *ref)
	}
}
