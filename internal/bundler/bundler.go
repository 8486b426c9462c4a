// Package bundler defines the bundling collaborator contract and the
// default esbuild-backed implementation. Bundling turns a resource's
// source entry point into a distributable script and stylesheet.
package bundler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Options controls one bundle invocation.
type Options struct {
	// Minify enables output minification
	Minify bool

	// Sourcemap enables external sourcemap emission
	Sourcemap bool

	// Target is the transpilation target (e.g., "es2020")
	Target string
}

// DefaultOptions are the options used when the workspace configures none.
func DefaultOptions() Options {
	return Options{
		Minify:    true,
		Sourcemap: false,
		Target:    "es2020",
	}
}

// Result carries the bundled artifacts. Styles and Sourcemap are nil
// when the entry point produced none.
type Result struct {
	Script    []byte
	Styles    []byte
	Sourcemap []byte
}

// Bundler turns a source entry point into distributable artifacts.
type Bundler interface {
	Bundle(ctx context.Context, entryPoint string, opts Options) (*Result, error)
}

// ESBuild bundles by shelling out to the esbuild binary.
type ESBuild struct {
	// Binary is the esbuild executable name or path
	Binary string
}

// NewESBuild creates a bundler using the esbuild binary on PATH.
func NewESBuild() *ESBuild {
	return &ESBuild{Binary: "esbuild"}
}

// Bundle runs esbuild on the entry point and collects the emitted
// script, stylesheet, and sourcemap.
func (b *ESBuild) Bundle(ctx context.Context, entryPoint string, opts Options) (*Result, error) {
	outDir, err := os.MkdirTemp("", "stencil-bundle-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create bundle output directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	args := []string{
		entryPoint,
		"--bundle",
		"--format=esm",
		"--outdir=" + outDir,
	}
	if opts.Minify {
		args = append(args, "--minify")
	}
	if opts.Sourcemap {
		args = append(args, "--sourcemap=external")
	}
	if opts.Target != "" {
		args = append(args, "--target="+opts.Target)
	}

	cmd := exec.CommandContext(ctx, b.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("esbuild failed: %s", msg)
		}
		return nil, fmt.Errorf("esbuild failed: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(entryPoint), filepath.Ext(entryPoint))

	script, err := os.ReadFile(filepath.Join(outDir, base+".js"))
	if err != nil {
		return nil, fmt.Errorf("esbuild produced no script output: %w", err)
	}

	result := &Result{Script: script}

	if styles, err := os.ReadFile(filepath.Join(outDir, base+".css")); err == nil {
		result.Styles = styles
	}
	if sourcemap, err := os.ReadFile(filepath.Join(outDir, base+".js.map")); err == nil {
		result.Sourcemap = sourcemap
	}

	return result, nil
}
