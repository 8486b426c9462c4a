// Package scanner discovers stencil resources under the blocks and
// templates collections and normalizes them into resource records.
//
// One traversal serves every workflow: build scans strictly with full
// validation, package scans manifests only, and interactive tooling scans
// leniently with previews. Mode is entirely declarative through Options;
// there is no workflow-specific branching beyond the documented option
// effects.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/stencil-tools/stencil/internal/config"
	"github.com/stencil-tools/stencil/internal/errors"
	"github.com/stencil-tools/stencil/internal/manifest"
	"github.com/stencil-tools/stencil/internal/registry"
	"github.com/stencil-tools/stencil/internal/schema"
)

// PreviewFileName is the optional preview document in a resource
// directory.
const PreviewFileName = "preview.html"

// ResourceType distinguishes the two collections.
type ResourceType string

const (
	// TypeBlock is a content block under blocks/
	TypeBlock ResourceType = "block"

	// TypeTemplate is a page template under templates/
	TypeTemplate ResourceType = "template"
)

// Collection returns the collection directory name for the type.
func (t ResourceType) Collection() string {
	switch t {
	case TypeBlock:
		return "blocks"
	case TypeTemplate:
		return "templates"
	}
	return string(t)
}

// collectionOrder fixes the traversal order across collections.
var collectionOrder = []ResourceType{TypeBlock, TypeTemplate}

// Resource is a normalized discovery record for one block or template.
type Resource struct {
	// Type is the resource kind (block or template)
	Type ResourceType

	// Name is the directory-derived slug
	Name string

	// Path is the resource directory
	Path string

	// Manifest is the package.json descriptor, nil if absent and not required
	Manifest *manifest.Manifest

	// Config is the resolved current-format configuration, nil when not loaded
	Config *config.ResourceConfig

	// DisplayName is the configuration name, falling back to the slug
	DisplayName string

	// Description is the configuration description, falling back to the manifest
	Description string

	// Category is the configuration category
	Category string

	// Preview is the preview document contents when requested, empty otherwise
	Preview string
}

// ID returns the type-qualified resource identifier, e.g. "block/hero".
func (r *Resource) ID() string {
	return string(r.Type) + "/" + r.Name
}

// Options controls one discovery run.
type Options struct {
	// WorkDir is the workspace root containing blocks/ and templates/
	WorkDir string

	// Strict makes structural problems fatal instead of warn-and-skip
	Strict bool

	// LoadConfig attempts to resolve resource.hcl for each resource
	LoadConfig bool

	// ValidateSchema runs the schema validator on resolved configuration
	ValidateSchema bool

	// LoadPreview attaches preview.html contents when present
	LoadPreview bool

	// RequirePackageJSON rejects resources without a valid manifest
	RequirePackageJSON bool
}

// DefaultOptions returns the lenient defaults: configuration loaded and
// validated, manifest required, no preview.
func DefaultOptions(workDir string) Options {
	return Options{
		WorkDir:            workDir,
		Strict:             false,
		LoadConfig:         true,
		ValidateSchema:     true,
		LoadPreview:        false,
		RequirePackageJSON: true,
	}
}

// Scanner walks the collections and yields normalized resource records.
type Scanner struct {
	opts  Options
	warnf func(format string, args ...any)
}

// New creates a scanner for the given options. Warnings go to stderr
// with a yellow marker.
func New(opts Options) *Scanner {
	yellow := color.New(color.FgYellow).SprintFunc()
	return &Scanner{
		opts: opts,
		warnf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "%s %s\n", yellow("⚠"), fmt.Sprintf(format, args...))
		},
	}
}

// WithWarnf replaces the warning sink. Used by tests and by commands
// that collect warnings instead of printing them.
func (s *Scanner) WithWarnf(warnf func(format string, args ...any)) *Scanner {
	s.warnf = warnf
	return s
}

// Scan discovers all resources across both collections, in directory
// listing order within each collection. Resources are skipped with a
// warning or, in strict mode, abort the scan, per the Options contract.
func (s *Scanner) Scan() ([]*Resource, error) {
	var validator *schema.Validator
	if s.opts.LoadConfig && s.opts.ValidateSchema {
		vocab, err := schema.FetchVocabulary()
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve field type vocabulary")
		}
		validator = schema.NewValidator(vocab)
	}

	var resources []*Resource

	for _, rtype := range collectionOrder {
		collectionDir := filepath.Join(s.opts.WorkDir, rtype.Collection())

		entries, err := os.ReadDir(collectionDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrap(err, "failed to read collection "+rtype.Collection())
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			res, err := s.scanDir(rtype, entry.Name(), filepath.Join(collectionDir, entry.Name()), validator)
			if err != nil {
				return nil, err
			}
			if res != nil {
				resources = append(resources, res)
			}
		}
	}

	return resources, nil
}

// scanDir resolves one candidate directory. A nil, nil return means the
// directory was skipped with a warning.
func (s *Scanner) scanDir(rtype ResourceType, name, path string, validator *schema.Validator) (*Resource, error) {
	res := &Resource{
		Type: rtype,
		Name: name,
		Path: path,
	}
	id := res.ID()

	if s.opts.LoadConfig {
		cfg, err := config.LoadResource(path, string(rtype))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, s.handleUnconfigured(res)
			}
			// resource.hcl exists but cannot be resolved
			if s.opts.Strict {
				return nil, err
			}
			s.warnf("%s: %v (skipping)", id, err)
			return nil, nil
		}
		res.Config = cfg

		if validator != nil {
			result := validator.Validate(cfg.Schema)
			for _, w := range result.Warnings {
				s.warnf("%s: %s", id, w)
			}
			if !result.Valid() {
				schemaErr := errors.NewSchemaError(id, result.Errors)
				if s.opts.Strict {
					return nil, schemaErr
				}
				s.warnf("%v (skipping)", schemaErr)
				return nil, nil
			}
		}
	}

	m, err := manifest.Load(path)
	switch {
	case err == nil:
		if verr := m.Validate(); verr != nil && s.opts.RequirePackageJSON {
			if s.opts.Strict {
				return nil, verr
			}
			s.warnf("%s: %v (skipping)", id, verr)
			return nil, nil
		}
		res.Manifest = m

	case errors.Is(err, os.ErrNotExist):
		if s.opts.RequirePackageJSON {
			missing := errors.NewValidationError(id, "", "missing "+manifest.Filename)
			if s.opts.Strict {
				return nil, missing
			}
			s.warnf("%v (skipping)", missing)
			return nil, nil
		}

	default:
		if s.opts.RequirePackageJSON {
			if s.opts.Strict {
				return nil, err
			}
			s.warnf("%s: %v (skipping)", id, err)
			return nil, nil
		}
		s.warnf("%s: %v", id, err)
	}

	if s.opts.LoadPreview {
		if data, err := os.ReadFile(filepath.Join(path, PreviewFileName)); err == nil {
			res.Preview = string(data)
		}
	}

	s.normalize(res)
	return res, nil
}

// handleUnconfigured decides what to do with a directory that has no
// resource.hcl. A manifest still carrying legacy metadata means the
// resource needs migration: fatal in strict mode, skip otherwise. An
// unconfigured directory with no legacy metadata is never fatal.
func (s *Scanner) handleUnconfigured(res *Resource) error {
	id := res.ID()

	m, err := manifest.Load(res.Path)
	if err == nil && m.HasLegacyMetadata() {
		migrationErr := errors.NewMigrationRequiredError(id)
		if s.opts.Strict {
			return migrationErr
		}
		s.warnf("%v (skipping)", migrationErr)
		return nil
	}

	s.warnf("%s: no %s found (skipping)", id, config.FileName)
	return nil
}

// normalize fills the derived display fields from configuration with
// manifest and slug fallbacks.
func (s *Scanner) normalize(res *Resource) {
	res.DisplayName = res.Name
	if res.Config != nil && res.Config.Name != "" {
		res.DisplayName = res.Config.Name
	}

	if res.Config != nil && res.Config.Description != "" {
		res.Description = res.Config.Description
	} else if res.Manifest != nil {
		res.Description = res.Manifest.Description
	}

	if res.Config != nil {
		res.Category = res.Config.Category
	}
}

// Select resolves an explicit name list against discovered resources,
// failing fast on the first name with no match. Matching is normalized
// (case-insensitive, underscore/hyphen equivalent) against the directory
// slug. The result preserves the requested order.
func Select(resources []*Resource, names []string) ([]*Resource, error) {
	selected := make([]*Resource, 0, len(names))

	for _, name := range names {
		var found *Resource
		for _, res := range resources {
			if registry.NamesMatch(res.Name, name) {
				found = res
				break
			}
		}
		if found == nil {
			return nil, errors.NewNotFoundError("resource", name)
		}
		selected = append(selected, found)
	}

	return selected, nil
}
