package publisher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/stencil-tools/stencil/internal/errors"
)

// S3Publisher publishes archives to an S3 bucket.
type S3Publisher struct {
	url    string
	bucket string
	prefix string
	client *s3.Client
}

// NewS3Publisher creates a publisher for an S3 registry.
// URL format: s3://bucket/prefix
func NewS3Publisher(url string) (*S3Publisher, error) {
	bucket, prefix, err := parseS3URL(url)
	if err != nil {
		return nil, errors.NewPublishError("", url, "connect", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	// Credentials come from the default chain. A chain that cannot
	// authenticate surfaces on the first request, not here.
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.NewPublishError("", url, "connect",
			fmt.Errorf("failed to load AWS config: %w", err))
	}

	return &S3Publisher{
		url:    url,
		bucket: bucket,
		prefix: strings.TrimSuffix(prefix, "/"),
		client: s3.NewFromConfig(cfg),
	}, nil
}

// Protocol returns "s3".
func (p *S3Publisher) Protocol() string { return "s3" }

// Publish uploads the archive to the bucket and updates the index.
func (p *S3Publisher) Publish(archivePath string) (*PublishResult, error) {
	return publishTo(p, p.url, archivePath)
}

func (p *S3Publisher) fetch(ctx context.Context, name string) ([]byte, error) {
	key := p.objectKey(name)
	output, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", p.bucket, key, err)
	}
	defer output.Body.Close()

	return io.ReadAll(output.Body)
}

func (p *S3Publisher) store(ctx context.Context, name string, data []byte, contentType string) error {
	key := p.objectKey(name)
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to s3://%s/%s: %w", p.bucket, key, err)
	}

	return nil
}

func (p *S3Publisher) objectURL(name string) string {
	return fmt.Sprintf("s3://%s/%s", p.bucket, p.objectKey(name))
}

// objectKey joins the registry prefix with a filename.
func (p *S3Publisher) objectKey(filename string) string {
	if p.prefix == "" {
		return filename
	}
	return p.prefix + "/" + filename
}

// parseS3URL splits s3://bucket/prefix into bucket and prefix.
func parseS3URL(url string) (bucket, prefix string, err error) {
	if !strings.HasPrefix(url, "s3://") {
		return "", "", fmt.Errorf("invalid S3 URL: must start with s3://")
	}

	path := strings.TrimPrefix(url, "s3://")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 || parts[0] == "" {
		return "", "", fmt.Errorf("invalid S3 URL: missing bucket name")
	}

	bucket = parts[0]
	if len(parts) > 1 {
		prefix = parts[1]
	}

	return bucket, prefix, nil
}
