// Package objectstore wraps an S3-compatible client used to materialise
// blob-backed virtual filesystem paths. The endpoint/bucket/credential
// shape mirrors a self-hosted, Minio-style S3 deployment: a custom endpoint
// override, HTTP rather than HTTPS, path-style addressing, static
// credentials — the same configuration an on-premises object store needs.
package objectstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ardhipoetra/faasm/errors"
)

// Config carries the four configuration keys the governing document
// enumerates for VFS blob-backing.
type Config struct {
	Endpoint string
	Bucket   string
	User     string
	Password string
}

// Client downloads objects into the shared root on demand. It implements
// vfs.BlobStore without importing the vfs package, keeping the dependency
// direction pointing away from the core.
type Client struct {
	s3     *s3.Client
	bucket string
}

// New builds a Client from cfg. The endpoint is treated as an override, not
// a region lookup, so this works against any S3-compatible deployment.
func New(ctx context.Context, cfg Config) (*Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.User, cfg.Password, "")),
	)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseObjectStore, errors.KindIO, err, "load AWS config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return &Client{s3: client, bucket: cfg.Bucket}, nil
}

// Materialize implements vfs.BlobStore: it fetches the object named by
// virtualPath (its leading "/" stripped to form the S3 key) and writes it
// to hostPath, creating parent directories as needed.
func (c *Client) Materialize(virtualPath, hostPath string) error {
	key := strings.TrimPrefix(virtualPath, "/")
	if key == "" {
		return errors.InvalidInput(errors.PhaseObjectStore, "empty object key")
	}

	if err := os.MkdirAll(filepath.Dir(hostPath), 0o755); err != nil {
		return errors.IO(errors.PhaseObjectStore, "create parent directory", err)
	}

	out, err := c.s3.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.IO(errors.PhaseObjectStore, "get object "+key, err)
	}
	defer out.Body.Close()

	f, err := os.Create(hostPath)
	if err != nil {
		return errors.IO(errors.PhaseObjectStore, "create "+hostPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, out.Body); err != nil {
		return errors.IO(errors.PhaseObjectStore, "write "+hostPath, err)
	}
	return nil
}

// Get fetches key's full contents into memory, used to load a function's
// compiled WASM binary before the engine can compile it.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.IO(errors.PhaseObjectStore, "get object "+key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.IO(errors.PhaseObjectStore, "read object "+key, err)
	}
	return data, nil
}

// Put uploads the contents of r to key through the S3 upload manager.
func (c *Client) Put(ctx context.Context, key string, r io.Reader) error {
	uploader := manager.NewUploader(c.s3)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return errors.IO(errors.PhaseObjectStore, "put object "+key, err)
	}
	return nil
}
