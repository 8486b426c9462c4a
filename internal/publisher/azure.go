package publisher

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/stencil-tools/stencil/internal/errors"
)

// AzurePublisher publishes archives to an Azure Blob Storage container.
type AzurePublisher struct {
	url       string
	account   string
	container string
	prefix    string
	client    *azblob.Client
}

// NewAzurePublisher creates a publisher for an Azure Blob Storage registry.
// URL format: az://account/container/prefix
func NewAzurePublisher(url string) (*AzurePublisher, error) {
	account, container, prefix, err := parseAzureURL(url)
	if err != nil {
		return nil, errors.NewPublishError("", url, "connect", err)
	}

	// The default credential walks environment variables, managed
	// identity, then the Azure CLI. As with S3, a credential that
	// cannot authenticate only fails on the first request.
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, errors.NewPublishError("", url, "connect",
			fmt.Errorf("failed to create Azure credential: %w", err))
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", account)
	client, err := azblob.NewClient(serviceURL, cred, nil)
	if err != nil {
		return nil, errors.NewPublishError("", url, "connect",
			fmt.Errorf("failed to create Azure blob client: %w", err))
	}

	return &AzurePublisher{
		url:       url,
		account:   account,
		container: container,
		prefix:    strings.TrimSuffix(prefix, "/"),
		client:    client,
	}, nil
}

// Protocol returns "az".
func (p *AzurePublisher) Protocol() string { return "az" }

// Publish uploads the archive to the container and updates the index.
func (p *AzurePublisher) Publish(archivePath string) (*PublishResult, error) {
	return publishTo(p, p.url, archivePath)
}

func (p *AzurePublisher) fetch(ctx context.Context, name string) ([]byte, error) {
	resp, err := p.client.DownloadStream(ctx, p.container, p.blobName(name), nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to download %s: %w", p.objectURL(name), err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func (p *AzurePublisher) store(ctx context.Context, name string, data []byte, contentType string) error {
	// Content type is left for the service to infer.
	_, err := p.client.UploadBuffer(ctx, p.container, p.blobName(name), data, nil)
	if err != nil {
		return fmt.Errorf("failed to upload to %s: %w", p.objectURL(name), err)
	}

	return nil
}

func (p *AzurePublisher) objectURL(name string) string {
	return fmt.Sprintf("az://%s/%s/%s", p.account, p.container, p.blobName(name))
}

// blobName joins the registry prefix with a filename.
func (p *AzurePublisher) blobName(filename string) string {
	if p.prefix == "" {
		return filename
	}
	return p.prefix + "/" + filename
}

// parseAzureURL splits az://account/container/prefix into its parts.
func parseAzureURL(url string) (account, container, prefix string, err error) {
	if !strings.HasPrefix(url, "az://") {
		return "", "", "", fmt.Errorf("invalid Azure URL: must start with az://")
	}

	path := strings.TrimPrefix(url, "az://")
	parts := strings.SplitN(path, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", "", fmt.Errorf("invalid Azure URL: must be az://account/container[/prefix]")
	}

	account = parts[0]
	container = parts[1]
	if len(parts) > 2 {
		prefix = parts[2]
	}

	return account, container, prefix, nil
}
