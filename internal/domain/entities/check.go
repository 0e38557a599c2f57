package entities

// Status is the terminal outcome of one verification attempt.
type Status string

const (
	// StatusPassing means the downloaded artifact matched the advertised checksum.
	StatusPassing Status = "Passing"
	// StatusFailing means the artifact downloaded cleanly but its checksum differed.
	StatusFailing Status = "Failing"
	// StatusError means the artifact could not be downloaded and hashed at all.
	StatusError Status = "Error"
)

// Check records the outcome of verifying one project at one point in time.
// It is created fresh per run, never mutated, and submitted at most once.
type Check struct {
	Project     Project
	Status      Status
	Checksum    string
	ChecksumURL string
	DownloadURL string
}
