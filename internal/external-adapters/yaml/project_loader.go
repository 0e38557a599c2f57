package yaml

import (
	"fmt"
	"os"

	"github.com/hecksum/hecksum/internal/domain-adapters/references"
	"github.com/hecksum/hecksum/internal/domain/interfaces/gateways"
)

// LoadProjects reads a projects file and returns registry entries. Entries
// are appended after the built-in wiring, so a file entry reusing a built-in
// project name overrides it.
func LoadProjects(fetch gateways.Fetcher, path string) ([]references.Entry, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("projects file not found: %s", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: operator-chosen config path
	if err != nil {
		return nil, fmt.Errorf("failed to read projects file: %w", err)
	}
	return ParseProjects(fetch, data)
}
