package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/memorybase/memorybase-go/pkg/longterm"
	"github.com/memorybase/memorybase-go/pkg/semantics"
	"github.com/memorybase/memorybase-go/pkg/session"
)

// Client is the main memorybase client for long-term memory management.
//
// It holds a single long-term object storage backend, optionally a
// relational session store, and exposes the profile, knowledge, and
// retrieval operations over them.
//
// The client is safe for concurrent use: it keeps no mutable state of its
// own between calls and relies on the backend's atomicity for writes
// (last-write-wins on overlapping saves).
//
// Example usage:
//
//	config, _ := core.LoadConfigFromEnv()
//	client, _ := core.NewClient(config)
//	defer client.Close()
//
//	_ = client.SaveKnowledgeTriples(ctx, "u1", []semantics.Triple{
//	    {Subject: "user", Predicate: "uses", Object: "MinIO"},
//	})
//	relevant, _ := client.RetrieveRelevantKnowledge(ctx, "u1", "minio", 5)
type Client struct {
	// config contains the client configuration.
	config *Config

	// backend is the long-term object store selected by the factory.
	backend longterm.ObjectStore

	// backendName names the selected backend family, for diagnostics.
	backendName string

	// sessions is the relational session store (nil when not configured).
	sessions session.Store

	// logger receives diagnostics; never nil.
	logger *zap.Logger
}

// NewClient creates a new memorybase client.
//
// The long-term backend is chosen by CreateLongTermBackend from the
// configuration; with no backend configured the client runs on the
// in-memory store, which is the expected mode for tests and local
// development.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	backend, name, err := CreateLongTermBackend(&cfg.LongTerm)
	if err != nil {
		return nil, err
	}

	sessions, err := CreateSessionStore(&cfg.Database)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	logger.Info("memorybase client initialized",
		zap.String("long_term_backend", name),
		zap.String("session_store", cfg.Database.Provider),
	)

	return &Client{
		config:      cfg,
		backend:     backend,
		backendName: name,
		sessions:    sessions,
		logger:      logger,
	}, nil
}

// Backend returns the underlying long-term object store, for callers that
// need direct key-level access (administrative listing, deletion).
func (c *Client) Backend() longterm.ObjectStore {
	return c.backend
}

// Sessions returns the relational session store, or nil when no database
// provider is configured.
func (c *Client) Sessions() session.Store {
	return c.sessions
}

// SaveUserProfile overwrites the stored profile for userID.
func (c *Client) SaveUserProfile(ctx context.Context, userID string, profile semantics.Profile) error {
	if err := semantics.SaveUserProfile(ctx, c.backend, userID, profile); err != nil {
		return NewMemoryError("SaveUserProfile", err)
	}
	return nil
}

// LoadUserProfile loads the stored profile for userID.
//
// A user with no stored profile yields an empty profile, not an error.
func (c *Client) LoadUserProfile(ctx context.Context, userID string) (semantics.Profile, error) {
	profile, err := semantics.LoadUserProfile(ctx, c.backend, userID)
	if err != nil {
		return nil, NewMemoryError("LoadUserProfile", err)
	}
	return profile, nil
}

// SaveKnowledgeTriples replaces the stored triple sequence for userID.
func (c *Client) SaveKnowledgeTriples(ctx context.Context, userID string, triples []semantics.Triple) error {
	if err := semantics.SaveKnowledgeTriples(ctx, c.backend, userID, triples); err != nil {
		return NewMemoryError("SaveKnowledgeTriples", err)
	}
	return nil
}

// LoadKnowledgeTriples loads the stored triple sequence for userID.
//
// Malformed lines in the stored payload are skipped, not fatal; the skip
// count is logged so data loss is observable in operation.
func (c *Client) LoadKnowledgeTriples(ctx context.Context, userID string) ([]semantics.Triple, error) {
	triples, skipped, err := semantics.LoadKnowledgeTriples(ctx, c.backend, userID)
	if err != nil {
		return nil, NewMemoryError("LoadKnowledgeTriples", err)
	}
	if skipped > 0 {
		c.logger.Warn("skipped malformed knowledge lines",
			zap.String("user_id", userID),
			zap.Int("skipped", skipped),
		)
	}
	return triples, nil
}

// RetrieveRelevantKnowledge loads the user's triples and returns the topK
// most relevant to the query, ranked by keyword match.
//
// Storage failures propagate; ranking itself never fails and degrades to
// an empty result on empty input.
func (c *Client) RetrieveRelevantKnowledge(ctx context.Context, userID, query string, topK int) ([]semantics.Triple, error) {
	triples, err := c.LoadKnowledgeTriples(ctx, userID)
	if err != nil {
		return nil, err
	}
	return semantics.RetrieveRelevantKnowledge(triples, query, topK), nil
}

// Close closes the long-term backend and the session store.
func (c *Client) Close() error {
	var firstErr error
	if err := c.backend.Close(); err != nil {
		firstErr = err
	}
	if c.sessions != nil {
		if err := c.sessions.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
