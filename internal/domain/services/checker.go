// Package services implements domain use cases on top of the interfaces layer.
package services

import (
	"context"
	"crypto/md5"  //nolint:gosec // G501: publishers still advertise md5 sums
	"crypto/sha1" //nolint:gosec // G505: publishers still advertise sha1 sums
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"github.com/hecksum/hecksum/internal/domain/entities"
	"github.com/hecksum/hecksum/internal/domain/interfaces"
	"github.com/hecksum/hecksum/internal/domain/interfaces/gateways"
	"github.com/hecksum/hecksum/internal/domain/interfaces/repositories"
)

// downloadChunkSize bounds memory while hashing arbitrarily large artifacts.
const downloadChunkSize = 1 << 20

// CheckService runs one verification end to end: resolve the project's
// reference, download and hash the artifact, classify the outcome.
type CheckService struct {
	resolver repositories.ReferenceResolver
	fetch    gateways.Fetcher
	logger   interfaces.Logger
}

// NewCheckService creates a check service.
func NewCheckService(resolver repositories.ReferenceResolver, fetch gateways.Fetcher, logger interfaces.Logger) *CheckService {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &CheckService{resolver: resolver, fetch: fetch, logger: logger}
}

// Create verifies project once and packages the outcome. Resolution errors
// outside the ignorable set propagate; a reference that resolved partially
// or an artifact that cannot be downloaded and hashed becomes StatusError,
// so broken publisher pages surface to operators instead of crashing runs.
func (s *CheckService) Create(ctx context.Context, project entities.Project) (*entities.Check, error) {
	ref, err := s.resolver.Resolve(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("resolve reference for %s: %w", project.Name, err)
	}
	if !ref.Populated() {
		s.logger.Debug("reference resolved partially",
			interfaces.F("project", project.Name),
			interfaces.F("checksum_url", ref.ChecksumURL),
			interfaces.F("download_url", ref.DownloadURL))
	}

	var status entities.Status
	downloadChecksum, err := s.ComputeDownloadChecksum(ctx, ref)
	switch {
	case err != nil:
		s.logger.Debug("download checksum failed",
			interfaces.F("project", project.Name),
			interfaces.F("error", err))
		status = entities.StatusError
	case downloadChecksum == ref.Checksum:
		status = entities.StatusPassing
	default:
		status = entities.StatusFailing
	}

	return &entities.Check{
		Project:     project,
		Status:      status,
		Checksum:    ref.Checksum,
		ChecksumURL: ref.ChecksumURL,
		DownloadURL: ref.DownloadURL,
	}, nil
}

// ComputeDownloadChecksum streams the referenced artifact in fixed-size
// chunks through the named hash and returns the hex digest.
func (s *CheckService) ComputeDownloadChecksum(ctx context.Context, ref *entities.Reference) (string, error) {
	if ref.DownloadURL == "" {
		return "", fmt.Errorf("reference has no download URL")
	}

	h, err := newHash(ref.Algorithm)
	if err != nil {
		return "", err
	}

	body, err := s.fetch.Stream(ctx, ref.DownloadURL)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	//nolint:errcheck // Defer close on response body
	defer body.Close()

	if _, err := io.CopyBuffer(h, body, make([]byte, downloadChunkSize)); err != nil {
		return "", fmt.Errorf("failed to hash download: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// newHash maps a publisher-advertised algorithm name to a hash constructor.
func newHash(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case "sha256":
		return sha256.New(), nil
	case "sha512":
		return sha512.New(), nil
	case "sha1":
		return sha1.New(), nil //nolint:gosec // G401: verifying published sha1 sums
	case "md5":
		return md5.New(), nil //nolint:gosec // G401: verifying published md5 sums
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %q", algorithm)
	}
}
