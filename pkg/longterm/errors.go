package longterm

import "errors"

// Predefined errors shared by all object storage backends.
var (
	// ErrStoreUnavailable indicates a transient backend, network, or auth
	// failure. Safe to retry with backoff. Never used for a missing key.
	ErrStoreUnavailable = errors.New("storage backend unavailable")

	// ErrInvalidKey indicates that a key or user identifier violates the
	// naming rules. Non-retryable; a caller bug.
	ErrInvalidKey = errors.New("invalid object key")
)
