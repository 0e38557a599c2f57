// Package entities defines core domain models and data structures.
package entities

import "strings"

// Reference holds the resolved facts needed to verify one published artifact:
// which hash algorithm the publisher advertises, where the expected checksum
// was read from, where the artifact lives, and the expected checksum itself.
//
// A Reference is produced by a reference factory and is read-only afterwards.
// It is either fully populated or partially populated when resolution failed
// partway; callers must check Populated before trusting it.
type Reference struct {
	Algorithm   string
	ChecksumURL string
	DownloadURL string
	Checksum    string
}

// Populated reports whether every field was resolved.
func (r *Reference) Populated() bool {
	return r.Algorithm != "" && r.ChecksumURL != "" && r.DownloadURL != "" && r.Checksum != ""
}

// SetChecksum stores an expected checksum, trimming surrounding whitespace.
// Publisher checksum files routinely end in a newline.
func (r *Reference) SetChecksum(checksum string) {
	r.Checksum = strings.TrimSpace(checksum)
}
