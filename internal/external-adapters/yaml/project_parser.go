// Package yaml loads the optional projects file that extends the built-in
// project registry.
package yaml

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	goyaml "gopkg.in/yaml.v3"

	"github.com/hecksum/hecksum/internal/domain/entities"
	"github.com/hecksum/hecksum/internal/domain-adapters/references"
	"github.com/hecksum/hecksum/internal/domain/interfaces/gateways"
	"github.com/hecksum/hecksum/internal/external-adapters/gpg"
	"github.com/hecksum/hecksum/internal/external-adapters/minisign"
)

//go:embed projects.schema.json
var projectsSchema []byte

// projectsFile is the top-level document shape.
type projectsFile struct {
	Projects []projectEntry `yaml:"projects"`
}

type projectEntry struct {
	Name      string        `yaml:"name"`
	TrackerID string        `yaml:"tracker_id"`
	Factory   factoryConfig `yaml:"factory"`
}

// factoryConfig is the union of all factory parameters; kind decides which
// ones apply.
type factoryConfig struct {
	Kind      string `yaml:"kind"`
	Algorithm string `yaml:"algorithm"`

	// generic
	ChecksumURL string `yaml:"checksum_url"`
	DownloadURL string `yaml:"download_url"`
	Checksum    string `yaml:"checksum"`

	// script-version
	ScriptURL    string `yaml:"script_url"`
	ArtifactName string `yaml:"artifact_name"`

	// js-constants
	ConstantsURL     string `yaml:"constants_url"`
	ChecksumKey      string `yaml:"checksum_key"`
	VersionKey       string `yaml:"version_key"`
	FileNameTemplate string `yaml:"file_name_template"`

	// release-manifest
	LatestReleaseURL string `yaml:"latest_release_url"`
	AssetPrefix      string `yaml:"asset_prefix"`
	Architecture     string `yaml:"architecture"`

	// shared templates
	ChecksumURLTemplate string `yaml:"checksum_url_template"`
	DownloadURLTemplate string `yaml:"download_url_template"`

	// optional manifest signature verification
	SignatureURL string `yaml:"signature_url"`
	PGPKeyFile   string `yaml:"pgp_key_file"`
	MinisignKey  string `yaml:"minisign_key"`
}

// ParseProjects validates data against the embedded schema and constructs
// one registry entry per declared project.
func ParseProjects(fetch gateways.Fetcher, data []byte) ([]references.Entry, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var file projectsFile
	if err := goyaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse projects file: %w", err)
	}

	entries := make([]references.Entry, 0, len(file.Projects))
	for _, p := range file.Projects {
		factory, err := buildFactory(fetch, p.Factory)
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", p.Name, err)
		}
		entries = append(entries, references.Entry{
			Project: entities.Project{Name: p.Name, TrackerID: p.TrackerID},
			Factory: factory,
		})
	}
	return entries, nil
}

// validateSchema checks the decoded document against the embedded JSON
// Schema before any factory is constructed, so a malformed file fails with a
// location instead of a half-built registry.
func validateSchema(data []byte) error {
	var doc interface{}
	if err := goyaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse projects file: %w", err)
	}

	// Round-trip through JSON so the validator sees canonical JSON types.
	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to normalize projects file: %w", err)
	}
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonDoc))
	if err != nil {
		return fmt.Errorf("failed to normalize projects file: %w", err)
	}

	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(projectsSchema))
	if err != nil {
		return fmt.Errorf("failed to load embedded schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("projects.schema.json", schemaDoc); err != nil {
		return fmt.Errorf("failed to load embedded schema: %w", err)
	}
	schema, err := compiler.Compile("projects.schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile embedded schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("projects file is invalid: %w", err)
	}
	return nil
}

// buildFactory constructs the factory variant named by cfg.Kind.
func buildFactory(fetch gateways.Fetcher, cfg factoryConfig) (references.Factory, error) {
	sig, err := buildSignature(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case "generic":
		if cfg.ChecksumURL == "" {
			return nil, fmt.Errorf("generic factory requires checksum_url")
		}
		return references.NewGeneric(fetch, references.GenericConfig{
			Algorithm:   cfg.Algorithm,
			ChecksumURL: cfg.ChecksumURL,
			DownloadURL: cfg.DownloadURL,
			Checksum:    cfg.Checksum,
		}), nil

	case "script-version":
		if cfg.ScriptURL == "" || cfg.ChecksumURLTemplate == "" || cfg.ArtifactName == "" {
			return nil, fmt.Errorf("script-version factory requires script_url, checksum_url_template and artifact_name")
		}
		return references.NewScriptVersion(fetch, references.ScriptVersionConfig{
			Algorithm:           cfg.Algorithm,
			ScriptURL:           cfg.ScriptURL,
			ChecksumURLTemplate: cfg.ChecksumURLTemplate,
			ArtifactName:        cfg.ArtifactName,
			Signature:           sig,
		}), nil

	case "js-constants":
		if cfg.ConstantsURL == "" || cfg.ChecksumKey == "" || cfg.VersionKey == "" ||
			cfg.FileNameTemplate == "" || cfg.DownloadURLTemplate == "" {
			return nil, fmt.Errorf("js-constants factory requires constants_url, checksum_key, version_key, file_name_template and download_url_template")
		}
		return references.NewJSConstants(fetch, references.JSConstantsConfig{
			Algorithm:           cfg.Algorithm,
			ConstantsURL:        cfg.ConstantsURL,
			ChecksumKey:         cfg.ChecksumKey,
			VersionKey:          cfg.VersionKey,
			FileNameTemplate:    cfg.FileNameTemplate,
			DownloadURLTemplate: cfg.DownloadURLTemplate,
		}), nil

	case "release-manifest":
		if cfg.LatestReleaseURL == "" || cfg.ChecksumURLTemplate == "" ||
			cfg.DownloadURLTemplate == "" || cfg.AssetPrefix == "" || cfg.Architecture == "" {
			return nil, fmt.Errorf("release-manifest factory requires latest_release_url, checksum_url_template, download_url_template, asset_prefix and architecture")
		}
		return references.NewReleaseManifest(fetch, references.ReleaseManifestConfig{
			Algorithm:           cfg.Algorithm,
			LatestReleaseURL:    cfg.LatestReleaseURL,
			ChecksumURLTemplate: cfg.ChecksumURLTemplate,
			DownloadURLTemplate: cfg.DownloadURLTemplate,
			AssetPrefix:         cfg.AssetPrefix,
			Architecture:        cfg.Architecture,
			Signature:           sig,
		}), nil

	default:
		return nil, fmt.Errorf("unknown factory kind: %s", cfg.Kind)
	}
}

// buildSignature assembles the optional manifest signature check.
func buildSignature(cfg factoryConfig) (*references.SignatureConfig, error) {
	if cfg.SignatureURL == "" {
		if cfg.PGPKeyFile != "" || cfg.MinisignKey != "" {
			return nil, fmt.Errorf("signature key configured without signature_url")
		}
		return nil, nil
	}

	switch {
	case cfg.PGPKeyFile != "" && cfg.MinisignKey != "":
		return nil, fmt.Errorf("configure either pgp_key_file or minisign_key, not both")
	case cfg.PGPKeyFile != "":
		verifier, err := gpg.NewVerifierFromKeyFile(cfg.PGPKeyFile)
		if err != nil {
			return nil, err
		}
		return &references.SignatureConfig{URL: cfg.SignatureURL, Verifier: verifier}, nil
	case cfg.MinisignKey != "":
		verifier, err := minisign.NewVerifier(cfg.MinisignKey)
		if err != nil {
			return nil, err
		}
		return &references.SignatureConfig{URL: cfg.SignatureURL, Verifier: verifier}, nil
	default:
		return nil, fmt.Errorf("signature_url configured without a verification key")
	}
}
