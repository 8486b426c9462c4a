package publisher

import (
	"fmt"
	"path/filepath"

	"github.com/stencil-tools/stencil/internal/errors"
)

// HTTPSPublisher handles HTTPS registry URLs. Plain HTTPS registries are
// read-only from the CLI's perspective, so Publish returns manual upload
// instructions instead of transferring anything.
type HTTPSPublisher struct {
	url string
}

// NewHTTPSPublisher creates a publisher for an HTTPS registry.
func NewHTTPSPublisher(url string) (*HTTPSPublisher, error) {
	return &HTTPSPublisher{url: url}, nil
}

// Protocol returns "https".
func (p *HTTPSPublisher) Protocol() string {
	return "https"
}

// Publish validates the archive and returns manual upload instructions.
func (p *HTTPSPublisher) Publish(archivePath string) (*PublishResult, error) {
	info, err := ParseArchive(archivePath)
	if err != nil {
		return nil, errors.NewPublishError("", p.url, "validate", err)
	}

	integrity, err := ComputeArchiveHash(archivePath)
	if err != nil {
		return nil, errors.NewPublishError(info.Name, p.url, "validate", err)
	}

	filename := filepath.Base(archivePath)
	instructions := fmt.Sprintf(`HTTPS registries do not support direct publishing.

To publish manually:

1. Upload the archive to your registry:
   %s/%s

2. Update registry.json at the registry root, adding:

   "%s": {
     "versions": [..., "%s"],
     "latest": "%s"
   }

Archive: %s
Integrity: %s`,
		p.url, filename,
		info.Name, info.Version, info.Version,
		archivePath, integrity)

	return &PublishResult{
		Name:               info.Name,
		Version:            info.Version,
		URL:                fmt.Sprintf("%s/%s", p.url, filename),
		Integrity:          integrity,
		ManualInstructions: instructions,
	}, nil
}
