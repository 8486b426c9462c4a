// Package manifest reads and writes the package.json descriptor of a
// stencil resource. The manifest carries resource identity (name,
// version) and, for resources that predate resource.hcl, the legacy
// schema metadata under the "stencil" key.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/stencil-tools/stencil/internal/errors"
	"github.com/stencil-tools/stencil/internal/legacy"
	"github.com/stencil-tools/stencil/pkg/version"
)

// Filename is the manifest file name within a resource directory.
const Filename = "package.json"

// MetadataKey is the namespaced manifest key holding legacy schema
// metadata.
const MetadataKey = "stencil"

// Manifest is a resource's package.json. Unknown keys are preserved
// verbatim across a load/save round trip so migration can rewrite the
// file without destroying user content.
type Manifest struct {
	// Name is the package name
	Name string

	// Version is the package version (semver)
	Version string

	// Description is the optional package description
	Description string

	// Legacy is the legacy schema metadata section, nil when absent
	Legacy *legacy.Metadata

	// raw holds every top-level key as parsed, for lossless rewriting
	raw map[string]json.RawMessage

	// path is the file path for saving
	path string
}

// New creates a fresh manifest, typically for a scaffolded resource.
func New(name, ver, description string) *Manifest {
	m := &Manifest{
		Name:        name,
		Version:     ver,
		Description: description,
		raw:         make(map[string]json.RawMessage),
	}
	m.raw["name"] = mustMarshal(name)
	m.raw["version"] = mustMarshal(ver)
	if description != "" {
		m.raw["description"] = mustMarshal(description)
	}
	return m
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

// Load reads package.json from the given resource directory.
// The returned error satisfies errors.Is(err, os.ErrNotExist) when the
// manifest file is missing.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, Filename)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data, path)
}

// Parse decodes manifest JSON. The path is recorded for later saves and
// error messages.
func Parse(data []byte, path string) (*Manifest, error) {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewConfigError(path, 0, 0, "invalid manifest JSON", err)
	}

	m := &Manifest{
		raw:  raw,
		path: path,
	}

	if err := unmarshalKey(raw, "name", &m.Name); err != nil {
		return nil, errors.NewConfigError(path, 0, 0, "invalid manifest name", err)
	}
	if err := unmarshalKey(raw, "version", &m.Version); err != nil {
		return nil, errors.NewConfigError(path, 0, 0, "invalid manifest version", err)
	}
	if err := unmarshalKey(raw, "description", &m.Description); err != nil {
		return nil, errors.NewConfigError(path, 0, 0, "invalid manifest description", err)
	}
	if err := unmarshalKey(raw, MetadataKey, &m.Legacy); err != nil {
		return nil, errors.NewConfigError(path, 0, 0, "invalid legacy metadata section", err)
	}

	return m, nil
}

func unmarshalKey(raw map[string]json.RawMessage, key string, target any) error {
	data, ok := raw[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(data, target)
}

// Path returns the file path the manifest was loaded from.
func (m *Manifest) Path() string {
	return m.path
}

// Validate checks that the manifest carries a usable identity: a
// non-empty name and a parseable semantic version.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return errors.NewValidationError(m.path, "name", "manifest name is required")
	}
	if m.Version == "" {
		return errors.NewValidationError(m.path, "version", "manifest version is required")
	}
	if !version.IsValid(m.Version) {
		return errors.NewValidationError(m.path, "version",
			"manifest version is not a valid semantic version: "+m.Version)
	}
	return nil
}

// HasLegacyMetadata reports whether the manifest still carries a legacy
// schema metadata section.
func (m *Manifest) HasLegacyMetadata() bool {
	return m.Legacy != nil && len(m.Legacy.SchemaFields) > 0
}

// SetLegacyMetadata replaces the legacy metadata section. Build output
// uses this to embed derived metadata for pre-migration consumers.
func (m *Manifest) SetLegacyMetadata(meta *legacy.Metadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	m.Legacy = meta
	m.raw[MetadataKey] = data
	return nil
}

// RemoveLegacyMetadata drops the legacy metadata section. Migration
// calls this after the section has been converted to resource.hcl.
func (m *Manifest) RemoveLegacyMetadata() {
	m.Legacy = nil
	delete(m.raw, MetadataKey)
}

// Save writes the manifest back to the path it was loaded from.
func (m *Manifest) Save() error {
	return m.SaveTo(m.path)
}

// SaveTo writes the manifest to the given path. All keys, including ones
// this package does not model, are written back.
func (m *Manifest) SaveTo(path string) error {
	data, err := json.MarshalIndent(m.raw, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}
