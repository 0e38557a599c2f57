package references

import (
	"context"
	"testing"

	"github.com/hecksum/hecksum/internal/domain-adapters/gateways"
	"github.com/hecksum/hecksum/internal/domain/entities"
)

func TestRegistry_Builtin(t *testing.T) {
	registry := NewRegistry(Builtin(gateways.NewHTTPFetcher())...)

	projects, err := registry.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if len(projects) != 7 {
		t.Fatalf("ListProjects() returned %d projects, want 7", len(projects))
	}
	if projects[0].Name != "codecov-bash-uploader" {
		t.Errorf("projects[0].Name = %q, want registration order preserved", projects[0].Name)
	}

	project, err := registry.GetProject(context.Background(), "transmission-mac")
	if err != nil {
		t.Fatalf("GetProject() error = %v", err)
	}
	if project.TrackerID != "recPGEEzOeJ2gNh7u" {
		t.Errorf("TrackerID = %q, want %q", project.TrackerID, "recPGEEzOeJ2gNh7u")
	}

	if _, ok := registry.Factory(project.TrackerID); !ok {
		t.Errorf("Factory(%q) not found", project.TrackerID)
	}
	if _, ok := registry.Factory("recDoesNotExist00"); ok {
		t.Error("Factory() found entry for unknown tracker id")
	}

	if _, err := registry.GetProject(context.Background(), "no-such-project"); err == nil {
		t.Error("GetProject() error = nil for unknown project")
	}
}

// A later entry with the same name replaces an earlier one without changing
// its position, so a projects file can override built-in wiring.
func TestRegistry_OverrideByName(t *testing.T) {
	fetch := gateways.NewHTTPFetcher()
	builtin := Entry{
		Project: entities.Project{Name: "example", TrackerID: "recBuiltin0000001"},
		Factory: NewGeneric(fetch, GenericConfig{Algorithm: "sha256", ChecksumURL: "https://a.example/sum"}),
	}
	other := Entry{
		Project: entities.Project{Name: "other", TrackerID: "recOther000000001"},
		Factory: NewGeneric(fetch, GenericConfig{Algorithm: "sha256", ChecksumURL: "https://b.example/sum"}),
	}
	override := Entry{
		Project: entities.Project{Name: "example", TrackerID: "recOverride000001"},
		Factory: NewGeneric(fetch, GenericConfig{Algorithm: "sha512", ChecksumURL: "https://c.example/sum"}),
	}

	registry := NewRegistry(builtin, other, override)

	projects, err := registry.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("ListProjects() returned %d projects, want 2", len(projects))
	}
	if projects[0].Name != "example" || projects[0].TrackerID != "recOverride000001" {
		t.Errorf("projects[0] = %+v, want override in original position", projects[0])
	}

	project, err := registry.GetProject(context.Background(), "example")
	if err != nil {
		t.Fatalf("GetProject() error = %v", err)
	}
	if project.TrackerID != "recOverride000001" {
		t.Errorf("TrackerID = %q, want override's", project.TrackerID)
	}
}

func TestRegistry_Resolve_UnknownFactory(t *testing.T) {
	registry := NewRegistry()

	project := entities.Project{Name: "ghost", TrackerID: "recGhost000000001"}
	if _, err := registry.Resolve(context.Background(), project); err == nil {
		t.Error("Resolve() error = nil, want missing-factory error")
	}
}
