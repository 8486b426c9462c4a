package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stencil-tools/stencil/internal/errors"
	"github.com/stencil-tools/stencil/internal/registry"
)

// indexFileName is the registry index object maintained next to the
// published archives.
const indexFileName = "registry.json"

const (
	// indexTimeout bounds one registry.json round trip.
	indexTimeout = 30 * time.Second
	// uploadTimeout bounds a single archive upload.
	uploadTimeout = 5 * time.Minute
)

// remoteStore is the minimal object surface the cloud publishers share.
// fetch returns nil data (and nil error) when the object does not exist.
type remoteStore interface {
	fetch(ctx context.Context, name string) ([]byte, error)
	store(ctx context.Context, name string, data []byte, contentType string) error
	objectURL(name string) string
}

// publishTo runs the publish flow common to the cloud backends: validate
// the archive filename, upload the archive, then read-modify-write the
// index. The index update is last-writer-wins; two publishes racing on
// the same registry can drop each other's entry.
func publishTo(store remoteStore, registryURL, archivePath string) (*PublishResult, error) {
	info, err := ParseArchive(archivePath)
	if err != nil {
		return nil, errors.NewPublishError("", registryURL, "validate", err)
	}

	integrity, err := ComputeArchiveHash(archivePath)
	if err != nil {
		return nil, errors.NewPublishError(info.Name, registryURL, "validate", err)
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		return nil, errors.NewPublishError(info.Name, registryURL, "upload",
			fmt.Errorf("failed to read archive: %w", err))
	}

	archiveName := filepath.Base(archivePath)

	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()
	if err := store.store(ctx, archiveName, data, "application/gzip"); err != nil {
		return nil, errors.NewPublishError(info.Name, registryURL, "upload", err)
	}

	if err := updateRemoteIndex(store, info.Name, info.Version); err != nil {
		return nil, errors.NewPublishError(info.Name, registryURL, "index", err)
	}

	return &PublishResult{
		Name:      info.Name,
		Version:   info.Version,
		URL:       store.objectURL(archiveName),
		Integrity: integrity,
	}, nil
}

// updateRemoteIndex records a published version in the remote index.
// A missing index is not an error; the first publish creates it.
func updateRemoteIndex(store remoteStore, name, version string) error {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	var index *registry.Index
	raw, err := store.fetch(ctx, indexFileName)
	if err != nil {
		return err
	}
	if raw != nil {
		index = &registry.Index{}
		if err := json.Unmarshal(raw, index); err != nil {
			return fmt.Errorf("failed to parse %s: %w", indexFileName, err)
		}
	}

	index = UpdateIndex(index, name, version)

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", indexFileName, err)
	}

	if err := store.store(ctx, indexFileName, data, "application/json"); err != nil {
		return fmt.Errorf("failed to upload %s: %w", indexFileName, err)
	}

	return nil
}
