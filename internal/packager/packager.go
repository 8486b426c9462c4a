// Package packager produces one distributable archive per resource.
package packager

import (
	"fmt"
	"path/filepath"

	"github.com/stencil-tools/stencil/internal/archiver"
	"github.com/stencil-tools/stencil/internal/errors"
	"github.com/stencil-tools/stencil/internal/scanner"
)

// Result describes one successfully produced archive.
type Result struct {
	// Resource is the packaged resource
	Resource *scanner.Resource

	// Path is the archive output path
	Path string

	// Size is the archive size in bytes
	Size int64

	// Integrity is the SHA-256 hash in format "sha256-{hex}"
	Integrity string
}

// Failure records one resource whose archiving failed.
type Failure struct {
	// Resource is the failed resource
	Resource *scanner.Resource

	// Err is the archiving error
	Err error
}

// Summary accumulates per-resource outcomes for one packaging batch.
// A failed resource never aborts the batch; archives produced before a
// failure stay on disk.
type Summary struct {
	Succeeded []*Result
	Failed    []*Failure
}

// Packager archives resources into an output directory.
type Packager struct {
	outDir   string
	excludes []string
}

// New creates a packager writing archives into outDir.
func New(outDir string) *Packager {
	return &Packager{
		outDir:   outDir,
		excludes: archiver.DefaultExcludes,
	}
}

// WithExcludes sets custom exclude patterns.
func (p *Packager) WithExcludes(excludes []string) *Packager {
	p.excludes = excludes
	return p
}

// Package archives each resource to {name}-{version}.tar.gz, with a
// single {name}-{version}/ top-level directory inside, processing
// resources one at a time and tallying failures.
func (p *Packager) Package(resources []*scanner.Resource) *Summary {
	summary := &Summary{}

	for _, res := range resources {
		result, err := p.packageOne(res)
		if err != nil {
			summary.Failed = append(summary.Failed, &Failure{Resource: res, Err: err})
			continue
		}
		summary.Succeeded = append(summary.Succeeded, result)
	}

	return summary
}

func (p *Packager) packageOne(res *scanner.Resource) (*Result, error) {
	if res.Manifest == nil {
		return nil, errors.NewPackError(res.ID(), "read",
			errors.New("resource has no manifest"))
	}

	name := res.Manifest.Name
	version := res.Manifest.Version
	topDir := fmt.Sprintf("%s-%s", name, version)
	outPath := filepath.Join(p.outDir, topDir+".tar.gz")

	arch, err := archiver.Create(outPath)
	if err != nil {
		return nil, errors.NewPackError(res.ID(), "archive", err)
	}
	arch.WithExcludes(p.excludes)

	if err := arch.AddDirectory(res.Path, topDir); err != nil {
		arch.Abort()
		return nil, errors.NewPackError(res.ID(), "archive", err)
	}

	size, err := arch.Finalize()
	if err != nil {
		return nil, errors.NewPackError(res.ID(), "finalize", err)
	}

	return &Result{
		Resource:  res,
		Path:      arch.Path(),
		Size:      size,
		Integrity: arch.Integrity(),
	}, nil
}
