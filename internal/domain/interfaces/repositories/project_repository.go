// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/hecksum/hecksum/internal/domain/entities"
)

// ProjectRepository defines the interface for enumerating tracked projects.
type ProjectRepository interface {
	// GetProject retrieves a tracked project by name
	GetProject(ctx context.Context, name string) (entities.Project, error)

	// ListProjects returns all tracked projects
	ListProjects(ctx context.Context) ([]entities.Project, error)
}

// ReferenceResolver resolves a project into the Reference needed to verify
// its current release. Implementations are safe for concurrent use.
type ReferenceResolver interface {
	Resolve(ctx context.Context, project entities.Project) (*entities.Reference, error)
}
