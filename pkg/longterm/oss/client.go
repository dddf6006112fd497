// Package oss provides the Alibaba Cloud OSS implementation of the
// long-term object store.
package oss

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	aliyunoss "github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/memorybase/memorybase-go/pkg/longterm"
)

// Config contains configuration for the OSS backend.
type Config struct {
	// Bucket is the OSS bucket name. Required.
	Bucket string

	// Endpoint is the OSS endpoint (e.g. https://oss-cn-hangzhou.aliyuncs.com).
	// Required.
	Endpoint string

	// AccessKeyID is the OSS access key ID. Required.
	AccessKeyID string

	// AccessKeySecret is the OSS access key secret. Required.
	AccessKeySecret string
}

// Client implements longterm.ObjectStore on Alibaba Cloud OSS.
type Client struct {
	// bucket is the SDK bucket handle all operations go through.
	bucket *aliyunoss.Bucket
}

// NewClient creates a new OSS object store client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("oss: bucket is required")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("oss: endpoint is required")
	}

	ossClient, err := aliyunoss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss: failed to create client: %w", err)
	}
	bucket, err := ossClient.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("oss: failed to open bucket %q: %w", cfg.Bucket, err)
	}
	return &Client{bucket: bucket}, nil
}

// PutObject uploads body under key, overwriting any existing object.
func (c *Client) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opts := []aliyunoss.Option{}
	if contentType != "" {
		opts = append(opts, aliyunoss.ContentType(contentType))
	}
	if err := c.bucket.PutObject(key, bytes.NewReader(body), opts...); err != nil {
		return fmt.Errorf("oss: put object %q: %w: %v", key, longterm.ErrStoreUnavailable, err)
	}
	return nil
}

// GetObject downloads the object under key; a missing key is reported as
// (nil, false, nil).
func (c *Client) GetObject(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	rc, err := c.bucket.GetObject(key)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("oss: get object %q: %w: %v", key, longterm.ErrStoreUnavailable, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, fmt.Errorf("oss: read object %q: %w: %v", key, longterm.ErrStoreUnavailable, err)
	}
	return data, true, nil
}

// DeleteObject removes the object under key. OSS deletes succeed for
// missing keys, so the operation is idempotent.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.bucket.DeleteObject(key); err != nil {
		return fmt.Errorf("oss: delete object %q: %w: %v", key, longterm.ErrStoreUnavailable, err)
	}
	return nil
}

// ListPrefix enumerates all keys under prefix using marker pagination.
func (c *Client) ListPrefix(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	marker := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := c.bucket.ListObjects(
			aliyunoss.Prefix(prefix),
			aliyunoss.Marker(marker),
			aliyunoss.MaxKeys(1000),
		)
		if err != nil {
			return nil, fmt.Errorf("oss: list prefix %q: %w: %v", prefix, longterm.ErrStoreUnavailable, err)
		}
		for _, obj := range result.Objects {
			keys = append(keys, obj.Key)
		}
		if !result.IsTruncated {
			return keys, nil
		}
		marker = result.NextMarker
	}
}

// Close releases nothing; the OSS SDK bucket handle is stateless between
// calls.
func (c *Client) Close() error {
	return nil
}

// isNotFound reports whether err is a missing-object service error.
func isNotFound(err error) bool {
	var svcErr aliyunoss.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.StatusCode == 404 || svcErr.Code == "NoSuchKey"
	}
	return false
}
