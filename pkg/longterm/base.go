// Package longterm provides the object storage contract for long-term memory.
//
// It defines the ObjectStore interface that all storage backends must satisfy,
// along with the key naming scheme and the error taxonomy shared by every
// implementation. Profiles and knowledge triples are stored as opaque byte
// payloads addressed by deterministic keys; the encodings themselves live in
// the semantics package.
package longterm

import "context"

// Content types used for the stored payloads.
const (
	// ContentTypeJSON is the content type of serialized user profiles.
	ContentTypeJSON = "application/json"

	// ContentTypeJSONLines is the content type of serialized knowledge triples.
	ContentTypeJSONLines = "application/x-ndjson"
)

// ObjectStore defines the interface for long-term object storage backends.
//
// All backend implementations (in-memory, S3-compatible, BOS, OSS) must
// implement this interface. Implementations may be called concurrently from
// multiple goroutines; writes to the same key are last-write-wins and no
// additional locking is layered on top of the backend's own atomicity.
type ObjectStore interface {
	// PutObject writes body under key, overwriting any existing object.
	//
	// contentType may be empty; backends that support object metadata store
	// it alongside the payload. Returns an error wrapping ErrStoreUnavailable
	// on connectivity or auth failure, or ErrInvalidKey if the key violates
	// backend naming rules.
	PutObject(ctx context.Context, key string, body []byte, contentType string) error

	// GetObject reads the object stored under key.
	//
	// A missing key is a normal state, reported as (nil, false, nil) — never
	// as an error. Transient backend failures return an error wrapping
	// ErrStoreUnavailable; callers decide whether to retry.
	GetObject(ctx context.Context, key string) (data []byte, found bool, err error)

	// DeleteObject removes the object stored under key.
	//
	// Deleting a key that does not exist is not an error (idempotent).
	DeleteObject(ctx context.Context, key string) error

	// ListPrefix enumerates all keys sharing the given prefix.
	//
	// Ordering is backend-defined and not guaranteed stable. Intended for
	// administrative enumeration, not the retrieval hot path.
	ListPrefix(ctx context.Context, prefix string) ([]string, error)

	// Close releases any resources held by the backend.
	Close() error
}
