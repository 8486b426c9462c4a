// Package registry defines the archive registry index format and source
// URL handling shared by the publish workflow.
//
// A registry is a location addressed by protocol URL:
//   - file:// - Local filesystem
//   - s3://   - Amazon S3
//   - az://   - Azure Blob Storage
//   - https:// - Read-only (manual upload)
//
// Each registry carries a registry.json index listing the published
// resource archives and their versions.
package registry

import (
	"fmt"
	"regexp"
	"strings"
)

// Index represents the registry.json file format: the index listing all
// published resource archives in a registry.
type Index struct {
	// Name is the registry name
	Name string `json:"name"`

	// Version is the registry format version
	Version string `json:"version"`

	// Packages maps resource names to their published entries
	Packages map[string]PackageEntry `json:"packages"`
}

// PackageEntry represents one resource in the registry index.
type PackageEntry struct {
	// Versions is the list of published versions
	Versions []string `json:"versions"`

	// Latest is the latest/recommended version
	Latest string `json:"latest"`
}

// ArchiveInfo holds parsed name and version from an archive filename.
type ArchiveInfo struct {
	Name    string
	Version string
}

// archivePattern matches common archive naming conventions:
// - pkg-1.0.0.tar.gz
// - pkg-v1.0.0.tar.gz
// - pkg_1.0.0.tar.gz
// - pkg-1.0.0.tgz
var archivePattern = regexp.MustCompile(`^(.+?)[-_]v?(\d+\.\d+\.\d+(?:[-+].+)?)\.(tar\.gz|tgz)$`)

// ParseArchiveFilename extracts resource name and version from an
// archive filename. Returns nil if the filename doesn't match expected
// patterns.
func ParseArchiveFilename(filename string) *ArchiveInfo {
	matches := archivePattern.FindStringSubmatch(filename)
	if matches == nil {
		return nil
	}

	return &ArchiveInfo{
		Name:    matches[1],
		Version: matches[2],
	}
}

// NormalizeName normalizes a resource name for comparison.
// It converts to lowercase and replaces underscores with hyphens.
func NormalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", "-"))
}

// NamesMatch checks if two resource names match after normalization.
// This handles variations like "hero-banner" vs "hero_banner".
func NamesMatch(name1, name2 string) bool {
	return NormalizeName(name1) == NormalizeName(name2)
}

// ParseSource splits a registry source URL into protocol and path.
//
// Examples:
//
//	"file:./path"            -> ("file", "./path", nil)
//	"file:///absolute/path"  -> ("file", "/absolute/path", nil)
//	"https://example.com"    -> ("https", "https://example.com", nil)
//	"s3://bucket/path"       -> ("s3", "bucket/path", nil)
//	"az://account/container" -> ("az", "account/container", nil)
func ParseSource(source string) (protocol, path string, err error) {
	if source == "" {
		return "", "", fmt.Errorf("empty source URL")
	}

	// file:// has multiple accepted spellings
	if strings.HasPrefix(source, "file:") {
		rest := source[5:]
		if strings.HasPrefix(rest, "//") {
			return "file", rest[2:], nil
		}
		return "file", rest, nil
	}

	if strings.HasPrefix(source, "https://") {
		return "https", source, nil
	}
	if strings.HasPrefix(source, "http://") {
		return "http", source, nil
	}

	if strings.HasPrefix(source, "s3://") {
		return "s3", strings.TrimPrefix(source, "s3://"), nil
	}
	if strings.HasPrefix(source, "az://") {
		return "az", strings.TrimPrefix(source, "az://"), nil
	}

	return "", "", fmt.Errorf("unsupported source URL format: %s", source)
}
