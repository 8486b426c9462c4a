package config

import (
	"os"
	"path/filepath"
)

// WorkspaceFileName is the optional workspace configuration file at the
// root of an authoring workspace.
const WorkspaceFileName = "stencil.hcl"

// WorkspaceConfig represents the stencil.hcl file structure. Everything
// in it is optional; commands fall back to built-in defaults.
type WorkspaceConfig struct {
	// Workspace contains workspace metadata
	Workspace *WorkspaceBlock `hcl:"workspace,block"`

	// Registry configures the default publish target
	Registry *WorkspaceRegistryBlock `hcl:"registry,block"`

	// Bundler configures default bundling options
	Bundler *WorkspaceBundlerBlock `hcl:"bundler,block"`
}

// WorkspaceBlock contains workspace metadata.
type WorkspaceBlock struct {
	// Name is the workspace name
	Name string `hcl:"name,optional"`
}

// WorkspaceRegistryBlock configures the default publish registry.
type WorkspaceRegistryBlock struct {
	// URL is the registry URL (file://, s3://, az://, https://)
	URL string `hcl:"url,attr"`
}

// WorkspaceBundlerBlock configures default bundler options.
type WorkspaceBundlerBlock struct {
	// Minify enables output minification
	Minify *bool `hcl:"minify,optional"`

	// Sourcemap enables external sourcemap emission
	Sourcemap *bool `hcl:"sourcemap,optional"`

	// Target is the transpilation target (e.g., "es2020")
	Target string `hcl:"target,optional"`
}

// LoadWorkspace loads stencil.hcl from the given directory. A missing
// file yields an empty configuration, not an error.
func LoadWorkspace(dir string) (*WorkspaceConfig, error) {
	path := filepath.Join(dir, WorkspaceFileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &WorkspaceConfig{}, nil
		}
		return nil, err
	}

	parser := NewParser()
	file, diags := parser.ParseFile(path)
	if diags.HasErrors() {
		return nil, diagError(path, "failed to parse workspace configuration", diags)
	}

	ctx := NewEvalContext()
	var cfg WorkspaceConfig
	diags = DecodeBody(file.Body, ctx, &cfg)
	if diags.HasErrors() {
		return nil, diagError(path, "failed to decode workspace configuration", diags)
	}

	return &cfg, nil
}

// RegistryURL returns the configured default registry URL, or empty.
func (w *WorkspaceConfig) RegistryURL() string {
	if w.Registry == nil {
		return ""
	}
	return w.Registry.URL
}
