// Package archiver serializes resource directories into compressed
// tar.gz artifacts.
package archiver

import (
	"archive/tar"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/gzip"
)

// DefaultExcludes are the default patterns to exclude when archiving a
// resource directory.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	"__pycache__",
	".env",
	"*.pyc",
	"dist",
	".DS_Store",
	"*.swp",
	"*.swo",
	".vscode",
	".idea",
}

// Archive is an in-progress tar.gz artifact. Entries are added with
// AddDirectory/AddFile and the artifact is not valid until Finalize
// returns.
type Archive struct {
	path      string
	file      *os.File
	hash      hash.Hash
	gzw       *gzip.Writer
	tw        *tar.Writer
	excludes  []string
	finalized bool
}

// Create opens a new archive at the given output path.
func Create(outputPath string) (*Archive, error) {
	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	// Integrity is computed over the compressed stream while writing
	h := sha256.New()
	gzw := gzip.NewWriter(io.MultiWriter(file, h))

	return &Archive{
		path:     absPath,
		file:     file,
		hash:     h,
		gzw:      gzw,
		tw:       tar.NewWriter(gzw),
		excludes: DefaultExcludes,
	}, nil
}

// WithExcludes sets custom exclude patterns for AddDirectory.
func (a *Archive) WithExcludes(excludes []string) *Archive {
	a.excludes = excludes
	return a
}

// Path returns the output path of the archive.
func (a *Archive) Path() string {
	return a.path
}

// AddDirectory adds a directory tree under destName inside the archive,
// skipping excluded patterns.
func (a *Archive) AddDirectory(sourceDir, destName string) error {
	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to resolve source directory: %w", err)
	}

	return filepath.Walk(absDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(absDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		if a.shouldExclude(relPath) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		return a.writeEntry(path, filepath.Join(destName, relPath), info)
	})
}

// AddFile adds a single file under destName inside the archive.
func (a *Archive) AddFile(sourcePath, destName string) error {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", sourcePath, err)
	}
	return a.writeEntry(sourcePath, destName, info)
}

// writeEntry writes one tar header and, for regular files, the content.
func (a *Archive) writeEntry(path, name string, info os.FileInfo) error {
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("failed to create header for %s: %w", name, err)
	}
	header.Name = filepath.ToSlash(name)

	if info.Mode()&os.ModeSymlink != 0 {
		link, err := os.Readlink(path)
		if err != nil {
			return fmt.Errorf("failed to read symlink %s: %w", name, err)
		}
		header.Linkname = link
	}

	if err := a.tw.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write header for %s: %w", name, err)
	}

	if info.Mode().IsRegular() {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer file.Close()

		if _, err := io.Copy(a.tw, file); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	return nil
}

// Finalize flushes and closes the archive, returning the artifact size
// in bytes. The archive must not be used afterwards.
func (a *Archive) Finalize() (int64, error) {
	if a.finalized {
		return 0, fmt.Errorf("archive already finalized")
	}
	a.finalized = true

	if err := a.tw.Close(); err != nil {
		a.file.Close()
		os.Remove(a.path)
		return 0, fmt.Errorf("failed to close tar writer: %w", err)
	}
	if err := a.gzw.Close(); err != nil {
		a.file.Close()
		os.Remove(a.path)
		return 0, fmt.Errorf("failed to close gzip writer: %w", err)
	}
	if err := a.file.Close(); err != nil {
		os.Remove(a.path)
		return 0, fmt.Errorf("failed to close output file: %w", err)
	}

	info, err := os.Stat(a.path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat output file: %w", err)
	}

	return info.Size(), nil
}

// Integrity returns the SHA-256 hash of the compressed artifact in
// "sha256-{hex}" format. Only meaningful after Finalize.
func (a *Archive) Integrity() string {
	return "sha256-" + hex.EncodeToString(a.hash.Sum(nil))
}

// Abort discards a partially written archive.
func (a *Archive) Abort() {
	if a.finalized {
		return
	}
	a.finalized = true
	a.tw.Close()
	a.gzw.Close()
	a.file.Close()
	os.Remove(a.path)
}

// shouldExclude checks a relative path against the exclude patterns.
// Glob patterns match the base name; plain patterns match any path
// component.
func (a *Archive) shouldExclude(relPath string) bool {
	baseName := filepath.Base(relPath)

	for _, pattern := range a.excludes {
		if strings.ContainsAny(pattern, "*?[{") {
			if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
				return true
			}
			continue
		}

		if baseName == pattern {
			return true
		}

		for _, part := range strings.Split(filepath.ToSlash(relPath), "/") {
			if part == pattern {
				return true
			}
		}
	}

	return false
}
