// Package builder implements the build workflow: bundling each
// discovered resource into a versioned output directory with its
// manifest and build metadata.
package builder

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/stencil-tools/stencil/internal/bundler"
	"github.com/stencil-tools/stencil/internal/errors"
	"github.com/stencil-tools/stencil/internal/legacy"
	"github.com/stencil-tools/stencil/internal/scanner"
)

// Output file names within a versioned build directory.
const (
	ScriptFileName    = "script.js"
	StylesFileName    = "styles.css"
	SourcemapFileName = "script.js.map"
	InfoFileName      = "build.json"
)

// entryPointNames are the recognized source entry points, tried in order
// under the resource's src directory.
var entryPointNames = []string{
	"index.ts",
	"index.tsx",
	"index.js",
	"index.jsx",
}

// Result describes one successfully built resource.
type Result struct {
	// Resource is the built resource
	Resource *scanner.Resource

	// OutDir is the versioned output directory ({name}/{version})
	OutDir string

	// ScriptSize is the bundled script size in bytes
	ScriptSize int64
}

// Failure records one resource whose build failed.
type Failure struct {
	// Resource is the failed resource
	Resource *scanner.Resource

	// Err is the build error
	Err error
}

// Summary accumulates per-resource outcomes for one build batch.
// One resource's failure never aborts the batch.
type Summary struct {
	Succeeded []*Result
	Failed    []*Failure
}

// Info is the build metadata written alongside the bundled output.
type Info struct {
	// Name is the manifest name
	Name string `json:"name"`

	// Version is the manifest version
	Version string `json:"version"`

	// BuiltAt is the build timestamp
	BuiltAt time.Time `json:"builtAt"`

	// Commit is the workspace git commit, when available
	Commit string `json:"commit,omitempty"`
}

// Builder drives the build workflow for a batch of resources.
type Builder struct {
	outDir  string
	bundler bundler.Bundler
	opts    bundler.Options
	commit  string
}

// New creates a builder writing versioned output under outDir.
func New(outDir string, b bundler.Bundler, opts bundler.Options) *Builder {
	return &Builder{
		outDir:  outDir,
		bundler: b,
		opts:    opts,
	}
}

// WithCommit records the workspace commit hash in build metadata.
func (b *Builder) WithCommit(commit string) *Builder {
	b.commit = commit
	return b
}

// Build processes resources one at a time, producing a versioned output
// directory per resource keyed by manifest name and version. Per-resource
// failures are tallied; the batch always runs to completion.
func (b *Builder) Build(ctx context.Context, resources []*scanner.Resource) *Summary {
	summary := &Summary{}

	for _, res := range resources {
		result, err := b.buildOne(ctx, res)
		if err != nil {
			summary.Failed = append(summary.Failed, &Failure{Resource: res, Err: err})
			continue
		}
		summary.Succeeded = append(summary.Succeeded, result)
	}

	return summary
}

func (b *Builder) buildOne(ctx context.Context, res *scanner.Resource) (*Result, error) {
	id := res.ID()

	entry, err := FindEntryPoint(res.Path)
	if err != nil {
		return nil, errors.NewBuildError(id, "entry", err)
	}

	bundled, err := b.bundler.Bundle(ctx, entry, b.opts)
	if err != nil {
		return nil, errors.NewBuildError(id, "bundle", err)
	}

	outDir := filepath.Join(b.outDir, res.Manifest.Name, res.Manifest.Version)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, errors.NewBuildError(id, "write", err)
	}

	if err := os.WriteFile(filepath.Join(outDir, ScriptFileName), bundled.Script, 0644); err != nil {
		return nil, errors.NewBuildError(id, "write", err)
	}
	if bundled.Styles != nil {
		if err := os.WriteFile(filepath.Join(outDir, StylesFileName), bundled.Styles, 0644); err != nil {
			return nil, errors.NewBuildError(id, "write", err)
		}
	}
	if bundled.Sourcemap != nil {
		if err := os.WriteFile(filepath.Join(outDir, SourcemapFileName), bundled.Sourcemap, 0644); err != nil {
			return nil, errors.NewBuildError(id, "write", err)
		}
	}

	// The emitted manifest carries the legacy metadata section derived
	// from the current schema, for consumers that predate resource.hcl.
	if res.Config != nil {
		if err := res.Manifest.SetLegacyMetadata(legacy.NewMetadata(res.Config.Schema)); err != nil {
			return nil, errors.NewBuildError(id, "manifest", err)
		}
	}
	if err := res.Manifest.SaveTo(filepath.Join(outDir, "package.json")); err != nil {
		return nil, errors.NewBuildError(id, "manifest", err)
	}

	info := Info{
		Name:    res.Manifest.Name,
		Version: res.Manifest.Version,
		BuiltAt: time.Now().UTC(),
		Commit:  b.commit,
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, errors.NewBuildError(id, "write", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, InfoFileName), append(data, '\n'), 0644); err != nil {
		return nil, errors.NewBuildError(id, "write", err)
	}

	return &Result{
		Resource:   res,
		OutDir:     outDir,
		ScriptSize: int64(len(bundled.Script)),
	}, nil
}

// FindEntryPoint locates the recognized source entry point under a
// resource's src directory.
func FindEntryPoint(resourceDir string) (string, error) {
	srcDir := filepath.Join(resourceDir, "src")

	for _, name := range entryPointNames {
		candidate := filepath.Join(srcDir, name)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}

	return "", errors.NewNotFoundError("entry point", filepath.Join(srcDir, "index.{ts,tsx,js,jsx}"))
}
