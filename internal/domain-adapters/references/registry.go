package references

import (
	"context"
	"fmt"

	"github.com/hecksum/hecksum/internal/domain/entities"
	"github.com/hecksum/hecksum/internal/domain/interfaces/gateways"
)

// Entry pairs a tracked project with the factory that resolves it.
type Entry struct {
	Project entities.Project
	Factory Factory
}

// Registry is the read-only project -> factory lookup table. It is built
// once at startup and safe for concurrent use; adding a tracked project
// means adding one entry, not touching check or reference logic.
type Registry struct {
	order     []entities.Project
	byName    map[string]Entry
	byTracker map[string]Entry
}

// NewRegistry builds a registry from entries. A later entry with the same
// project name replaces an earlier one, which lets a projects file override
// the built-in wiring.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{
		byName:    make(map[string]Entry, len(entries)),
		byTracker: make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		if _, seen := r.byName[e.Project.Name]; !seen {
			r.order = append(r.order, e.Project)
		} else {
			for i, p := range r.order {
				if p.Name == e.Project.Name {
					r.order[i] = e.Project
				}
			}
		}
		r.byName[e.Project.Name] = e
		r.byTracker[e.Project.TrackerID] = e
	}
	return r
}

// Factory returns the factory registered for a tracker record id.
func (r *Registry) Factory(trackerID string) (Factory, bool) {
	e, ok := r.byTracker[trackerID]
	return e.Factory, ok
}

// GetProject retrieves a tracked project by name
func (r *Registry) GetProject(_ context.Context, name string) (entities.Project, error) {
	e, ok := r.byName[name]
	if !ok {
		return entities.Project{}, fmt.Errorf("project not found: %s", name)
	}
	return e.Project, nil
}

// ListProjects returns all tracked projects in registration order
func (r *Registry) ListProjects(_ context.Context) ([]entities.Project, error) {
	out := make([]entities.Project, len(r.order))
	copy(out, r.order)
	return out, nil
}

// Resolve makes a Reference for project via its registered factory.
func (r *Registry) Resolve(ctx context.Context, project entities.Project) (*entities.Reference, error) {
	factory, ok := r.Factory(project.TrackerID)
	if !ok {
		return nil, fmt.Errorf("no reference factory for project %s (%s)", project.Name, project.TrackerID)
	}
	return Make(ctx, factory)
}

// Transmission publishes current release constants for every packaging in
// one JS asset; the four factories differ only in which keys they read.
func transmissionEntry(fetch gateways.Fetcher, name, trackerID, fileName, checksumKey, versionKey string) Entry {
	return Entry{
		Project: entities.Project{Name: name, TrackerID: trackerID},
		Factory: NewJSConstants(fetch, JSConstantsConfig{
			Algorithm:           "sha256",
			ConstantsURL:        "https://transmissionbt.com/includes/js/constants.js",
			ChecksumKey:         checksumKey,
			VersionKey:          versionKey,
			FileNameTemplate:    fileName,
			DownloadURLTemplate: "https://github.com/transmission/transmission-releases/raw/master/{file}",
		}),
	}
}

// Builtin returns the stock project wiring. The doppler entry is registered
// under the architecture it actually verifies; an earlier revision filed the
// linux_arm64 configuration under a Windows-flavored name, which was a
// registry data bug rather than extractor behavior.
func Builtin(fetch gateways.Fetcher) []Entry {
	return []Entry{
		{
			Project: entities.Project{Name: "codecov-bash-uploader", TrackerID: "rec1stqERwHeVoyTr"},
			Factory: NewScriptVersion(fetch, ScriptVersionConfig{
				Algorithm:           "sha512",
				ScriptURL:           "https://codecov.io/bash",
				ChecksumURLTemplate: "https://raw.githubusercontent.com/codecov/codecov-bash/{version}/SHA512SUM",
				ArtifactName:        "codecov",
			}),
		},
		{
			// Fixture project whose published checksum never matches; keeps
			// the Failing path honest in production.
			Project: entities.Project{Name: "test-failure", TrackerID: "recU4m6YnYdQ4U76q"},
			Factory: NewGeneric(fetch, GenericConfig{
				Algorithm:   "sha512",
				ChecksumURL: "https://hecksum.com/failureSHA512.txt",
				DownloadURL: "https://hecksum.com/failure.txt",
			}),
		},
		transmissionEntry(fetch, "transmission-mac", "recPGEEzOeJ2gNh7u",
			"Transmission-{version}.dmg", "sha256_dmg", "current_version_dmg"),
		transmissionEntry(fetch, "transmission-win32", "rec6xk5CUPcjsqIyD",
			"transmission-{version}-x86.msi", "sha256_msi32", "current_version_msi"),
		transmissionEntry(fetch, "transmission-win64", "recZOMQpGtd524lsj",
			"transmission-{version}-x64.msi", "sha256_msi64", "current_version_msi"),
		transmissionEntry(fetch, "transmission-linux", "recVSRZVqVDt2SCom",
			"transmission-{version}.tar.xz", "sha256_tar", "current_version_tar"),
		{
			Project: entities.Project{Name: "doppler-linux-arm64", TrackerID: "recHx4h2PUqJd93Wb"},
			Factory: NewReleaseManifest(fetch, ReleaseManifestConfig{
				Algorithm:           "sha256",
				LatestReleaseURL:    "https://github.com/DopplerHQ/cli/releases/latest",
				ChecksumURLTemplate: "https://github.com/DopplerHQ/cli/releases/download/{version}/checksums.txt",
				DownloadURLTemplate: "https://github.com/DopplerHQ/cli/releases/download/{version}/{file}",
				AssetPrefix:         "doppler",
				Architecture:        "linux_arm64",
			}),
		},
	}
}
