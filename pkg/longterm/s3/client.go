// Package s3 provides the S3-compatible implementation of the long-term
// object store (AWS S3, MinIO, and other S3-protocol services).
//
// Custom endpoints use path-style addressing so that MinIO and similar
// self-hosted services work without DNS bucket resolution.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/memorybase/memorybase-go/pkg/longterm"
)

// Config contains configuration for the S3-compatible backend.
type Config struct {
	// Bucket is the bucket name. Required.
	Bucket string

	// Region is the AWS region. Optional for S3-compatible services.
	Region string

	// Endpoint is a custom endpoint URL (e.g. http://localhost:9000 for
	// MinIO). Empty means AWS S3.
	Endpoint string

	// AccessKeyID is the access key. Optional; when empty the default
	// credential chain (env, instance profile) is used.
	AccessKeyID string

	// SecretAccessKey is the secret key paired with AccessKeyID.
	SecretAccessKey string
}

// Client implements longterm.ObjectStore on an S3-compatible service.
type Client struct {
	// bucket is the target bucket name.
	bucket string

	// s3 is the underlying AWS SDK client.
	s3 *awss3.Client
}

// NewClient creates a new S3-compatible object store client.
//
// When cfg.AccessKeyID and cfg.SecretAccessKey are both set they are used as
// static credentials; otherwise the SDK default credential chain applies.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: failed to load AWS config: %w", err)
	}

	s3Opts := []func(*awss3.Options){}
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &Client{
		bucket: cfg.Bucket,
		s3:     awss3.NewFromConfig(awsCfg, s3Opts...),
	}, nil
}

// PutObject uploads body under key, overwriting any existing object.
func (c *Client) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	input := &awss3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3: put object %q: %w: %v", key, longterm.ErrStoreUnavailable, err)
	}
	return nil
}

// GetObject downloads the object under key; a missing key is reported as
// (nil, false, nil).
func (c *Client) GetObject(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := c.s3.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("s3: get object %q: %w: %v", key, longterm.ErrStoreUnavailable, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("s3: read object %q: %w: %v", key, longterm.ErrStoreUnavailable, err)
	}
	return data, true, nil
}

// DeleteObject removes the object under key. S3 DeleteObject succeeds for
// missing keys, so the operation is idempotent.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3: delete object %q: %w: %v", key, longterm.ErrStoreUnavailable, err)
	}
	return nil
}

// ListPrefix enumerates all keys under prefix using ListObjectsV2
// pagination.
func (c *Client) ListPrefix(ctx context.Context, prefix string) ([]string, error) {
	paginator := awss3.NewListObjectsV2Paginator(c.s3, &awss3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})

	keys := []string{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3: list prefix %q: %w: %v", prefix, longterm.ErrStoreUnavailable, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

// Close releases nothing; the SDK client holds no persistent connections
// that need explicit shutdown.
func (c *Client) Close() error {
	return nil
}

// isNotFound reports whether err is a missing-object error. MinIO and some
// S3-compatible services answer NotFound where AWS answers NoSuchKey, so
// both codes are checked.
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}
