// Package bos provides the Baidu BOS implementation of the long-term
// object store.
package bos

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/baidubce/bce-sdk-go/bce"
	bcebos "github.com/baidubce/bce-sdk-go/services/bos"
	"github.com/baidubce/bce-sdk-go/services/bos/api"

	"github.com/memorybase/memorybase-go/pkg/longterm"
)

// DefaultEndpoint is the BOS endpoint used when none is configured.
const DefaultEndpoint = "https://bj.bcebos.com"

// Config contains configuration for the BOS backend.
type Config struct {
	// Bucket is the BOS bucket name. Required.
	Bucket string

	// AccessKey is the BOS access key. Required.
	AccessKey string

	// SecretKey is the BOS secret key. Required.
	SecretKey string

	// Endpoint is the BOS endpoint (e.g. https://bj.bcebos.com).
	// Empty selects DefaultEndpoint.
	Endpoint string
}

// Client implements longterm.ObjectStore on Baidu BOS.
type Client struct {
	// bucket is the target bucket name.
	bucket string

	// bos is the underlying BCE SDK client.
	bos *bcebos.Client
}

// NewClient creates a new BOS object store client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bos: bucket is required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	bosClient, err := bcebos.NewClient(cfg.AccessKey, cfg.SecretKey, endpoint)
	if err != nil {
		return nil, fmt.Errorf("bos: failed to create client: %w", err)
	}
	return &Client{
		bucket: cfg.Bucket,
		bos:    bosClient,
	}, nil
}

// PutObject uploads body under key, overwriting any existing object.
func (c *Client) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var args *api.PutObjectArgs
	if contentType != "" {
		args = &api.PutObjectArgs{ContentType: contentType}
	}
	if _, err := c.bos.PutObjectFromBytes(c.bucket, key, body, args); err != nil {
		return fmt.Errorf("bos: put object %q: %w: %v", key, longterm.ErrStoreUnavailable, err)
	}
	return nil
}

// GetObject downloads the object under key; a missing key is reported as
// (nil, false, nil).
func (c *Client) GetObject(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	result, err := c.bos.BasicGetObject(c.bucket, key)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("bos: get object %q: %w: %v", key, longterm.ErrStoreUnavailable, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, false, fmt.Errorf("bos: read object %q: %w: %v", key, longterm.ErrStoreUnavailable, err)
	}
	return data, true, nil
}

// DeleteObject removes the object under key. A missing key is treated as
// already deleted.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.bos.DeleteObject(c.bucket, key); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("bos: delete object %q: %w: %v", key, longterm.ErrStoreUnavailable, err)
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

		result, err := c.bos.ListObjects(c.bucket, &api.ListObjectsArgs{
			Prefix:  prefix,
			Marker:  marker,
			MaxKeys: 1000,
		})
		if err != nil {
			return nil, fmt.Errorf("bos: list prefix %q: %w: %v", prefix, longterm.ErrStoreUnavailable, err)
		}
		for _, obj := range result.Contents {
			keys = append(keys, obj.Key)
		}
		if !result.IsTruncated {
			return keys, nil
		}
		marker = result.NextMarker
	}
}

// Close releases nothing; the BCE SDK client is stateless between calls.
func (c *Client) Close() error {
	return nil
}

// isNotFound reports whether err is a missing-object service error.
func isNotFound(err error) bool {
	var svcErr *bce.BceServiceError
	if errors.As(err, &svcErr) {
		return svcErr.StatusCode == 404 || svcErr.Code == "NoSuchKey"
	}
	return false
}
