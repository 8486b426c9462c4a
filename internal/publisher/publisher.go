// Package publisher provides functionality for publishing resource
// archives to registries.
package publisher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/stencil-tools/stencil/internal/errors"
	"github.com/stencil-tools/stencil/internal/registry"
)

// Publisher is the interface for publishing archives to registries.
type Publisher interface {
	// Publish uploads an archive to the registry and updates the index.
	Publish(archivePath string) (*PublishResult, error)

	// Protocol returns the protocol this publisher handles (e.g., "file", "s3", "az").
	Protocol() string
}

// PublishResult contains the result of a publish operation.
type PublishResult struct {
	// Name is the resource name
	Name string
	// Version is the resource version
	Version string
	// URL is the full URL to the published archive
	URL string
	// Integrity is the SHA-256 hash in format "sha256-{hex}"
	Integrity string
	// ManualInstructions contains manual upload instructions (for HTTPS only)
	ManualInstructions string
}

// ParseArchive extracts resource name and version from an archive
// filename. Returns an error if the filename doesn't match expected
// patterns.
func ParseArchive(path string) (*registry.ArchiveInfo, error) {
	filename := filepath.Base(path)
	info := registry.ParseArchiveFilename(filename)
	if info == nil {
		return nil, fmt.Errorf("could not parse resource name and version from archive filename: %s", filename)
	}
	return info, nil
}

// ComputeArchiveHash computes the SHA-256 hash of an archive file.
// Returns the hash in format "sha256-{hex}".
func ComputeArchiveHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to read archive: %w", err)
	}

	return "sha256-" + hex.EncodeToString(hash.Sum(nil)), nil
}

// New creates a Publisher for the given registry URL.
// Supported protocols:
//   - file:// - Local filesystem
//   - s3://   - Amazon S3
//   - az://   - Azure Blob Storage
//   - https:// - Manual instructions only (read-only)
func New(registryURL string) (Publisher, error) {
	protocol, path, err := registry.ParseSource(registryURL)
	if err != nil {
		return nil, errors.NewPublishError("", registryURL, "connect", err)
	}

	switch protocol {
	case "file":
		return NewLocalPublisher(path)
	case "s3":
		return NewS3Publisher(registryURL)
	case "az":
		return NewAzurePublisher(registryURL)
	case "https", "http":
		return NewHTTPSPublisher(registryURL)
	default:
		return nil, errors.NewPublishError("", registryURL, "connect",
			fmt.Errorf("unsupported protocol: %s", protocol))
	}
}

// UpdateIndex updates a registry index with a new resource version.
// If the index doesn't exist, it creates a new one.
func UpdateIndex(index *registry.Index, name, version string) *registry.Index {
	if index == nil {
		index = &registry.Index{
			Name:     "stencil-registry",
			Version:  "1.0",
			Packages: make(map[string]registry.PackageEntry),
		}
	}

	if index.Packages == nil {
		index.Packages = make(map[string]registry.PackageEntry)
	}

	entry, ok := index.Packages[name]
	if !ok {
		entry = registry.PackageEntry{
			Versions: []string{},
		}
	}

	found := false
	for _, v := range entry.Versions {
		if v == version {
			found = true
			break
		}
	}
	if !found {
		entry.Versions = append(entry.Versions, version)
	}

	entry.Latest = version

	index.Packages[name] = entry
	return index
}
