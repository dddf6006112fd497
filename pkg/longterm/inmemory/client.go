// Package inmemory provides the in-memory reference implementation of the
// long-term object store.
//
// It exists to make the ObjectStore contract testable without network
// dependencies and as the default backend when no cloud storage is
// configured. Behavior matches the real backends for every method: puts
// replace, gets report absence without error, deletes are idempotent.
package inmemory

import (
	"context"
	"strings"
	"sync"
)

// Client implements longterm.ObjectStore backed by a process-local map.
//
// Safe for concurrent use by multiple goroutines. There is no TTL and no
// eviction; the store lives as long as the process.
type Client struct {
	// mu guards objects.
	mu sync.RWMutex

	// objects maps exact key strings to stored payloads.
	objects map[string][]byte
}

// NewClient creates a new empty in-memory object store.
func NewClient() *Client {
	return &Client{
		objects: make(map[string][]byte),
	}
}

// PutObject stores a copy of body under key, replacing any prior value.
//
// The contentType is accepted for interface parity and discarded; the
// in-memory store keeps no object metadata.
func (c *Client) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	buf := make([]byte, len(body))
	copy(buf, body)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.objects[key] = buf
	return nil
}

// GetObject returns a copy of the stored payload, or (nil, false, nil) when
// the key does not exist.
func (c *Client) GetObject(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	stored, ok := c.objects[key]
	if !ok {
		return nil, false, nil
	}
	buf := make([]byte, len(stored))
	copy(buf, stored)
	return buf, true, nil
}

// DeleteObject removes the object under key. Deleting a missing key is a
// no-op.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.objects, key)
	return nil
}

// ListPrefix returns all keys that start with prefix, in map iteration
// order (unstable, as the contract allows).
func (c *Client) ListPrefix(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0)
	for k := range c.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Close releases nothing; the in-memory store has no external resources.
func (c *Client) Close() error {
	return nil
}
