// Package session provides the relational data layer for conversational
// memory: chat sessions, their messages, compression summaries, archived
// messages, and an audit log.
//
// This layer supplies the raw conversational data from which long-term
// profiles and knowledge triples are derived by an external analysis step;
// it does not perform extraction itself. Implementations exist for SQLite
// (local development, tests) and PostgreSQL (production).
package session

import (
	"context"
	"errors"
	"time"
)

// Status values for a session's archival lifecycle.
type Status int

const (
	// StatusActive marks a live session in hot storage.
	StatusActive Status = 1

	// StatusColdArchived marks a session whose messages moved to the
	// archive table.
	StatusColdArchived Status = 2

	// StatusDeepArchived marks a session exported out of the database
	// entirely (e.g. to object storage).
	StatusDeepArchived Status = 3

	// StatusDeleted marks a session soft-deleted by the user.
	StatusDeleted Status = 4
)

// ErrClosed indicates an operation on a closed store.
var ErrClosed = errors.New("session store closed")

// Session is one chat session. UpdatedAt drives archival policy.
type Session struct {
	// ID is the session's UUID.
	ID string `json:"id"`

	// Title is an optional human-readable session title.
	Title string `json:"title,omitempty"`

	// Status is the archival lifecycle status.
	Status Status `json:"status"`

	// Metadata carries structured caller-defined attributes.
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// UpdatedAt is bumped on every message append.
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a single message within a session.
type Message struct {
	// ID is the message's UUID.
	ID string `json:"id"`

	// SessionID links the message to its session.
	SessionID string `json:"session_id"`

	// Role is the speaker: user, assistant, or system.
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// CreatedAt is when the message was appended.
	CreatedAt time.Time `json:"created_at"`
}

// Summary is a structured compression summary for a session.
type Summary struct {
	// ID is the summary's UUID.
	ID string `json:"id"`

	// SessionID links the summary to its session.
	SessionID string `json:"session_id"`

	// Strategy names the compression strategy that produced the summary.
	Strategy string `json:"strategy"`

	// StrategyVersion is the optional strategy version tag.
	StrategyVersion string `json:"strategy_version,omitempty"`

	// SummaryText is an optional human-readable rendering.
	SummaryText string `json:"summary_text,omitempty"`

	// SummaryJSON holds the structured summary (decision points, todos,
	// code snippets, and so on).
	SummaryJSON map[string]interface{} `json:"summary_json"`

	// CreatedAt is when the summary was written.
	CreatedAt time.Time `json:"created_at"`
}

// AuditLog is one audit entry for a key operation (tool call, config
// reload, denied command).
type AuditLog struct {
	// ID is the entry's UUID.
	ID string `json:"id"`

	// Action names the operation that was performed.
	Action string `json:"action"`

	// ResourceType classifies the affected resource.
	ResourceType string `json:"resource_type"`

	// ResourceID identifies the affected resource, when there is one.
	ResourceID string `json:"resource_id,omitempty"`

	// Details carries structured context for the entry.
	Details map[string]interface{} `json:"details,omitempty"`

	// CreatedAt is when the entry was written.
	CreatedAt time.Time `json:"created_at"`
}

// Store defines the interface for the relational session data layer.
//
// All implementations (SQLite, PostgreSQL) must satisfy it. Missing rows
// are reported as nil results, not errors, matching the long-term layer's
// absence handling.
type Store interface {
	// CreateSession creates a new active session.
	CreateSession(ctx context.Context, title string, metadata map[string]interface{}) (*Session, error)

	// GetSession retrieves a session by ID, or (nil, nil) when absent.
	GetSession(ctx context.Context, id string) (*Session, error)

	// UpdateSessionStatus moves a session through its archival lifecycle.
	UpdateSessionStatus(ctx context.Context, id string, status Status) error

	// AddMessage appends a message to a session and bumps the session's
	// UpdatedAt.
	AddMessage(ctx context.Context, sessionID, role, content string) (*Message, error)

	// GetMessages returns a session's messages in append order. limit <= 0
	// returns all of them.
	GetMessages(ctx context.Context, sessionID string, limit int) ([]*Message, error)

	// AddSummary stores a compression summary for a session.
	AddSummary(ctx context.Context, summary *Summary) (*Summary, error)

	// GetSummaries returns a session's summaries, newest first.
	GetSummaries(ctx context.Context, sessionID string) ([]*Summary, error)

	// ArchiveMessages moves messages created before olderThan from the hot
	// table to the archive table, returning the number moved.
	ArchiveMessages(ctx context.Context, olderThan time.Time) (int64, error)

	// LogAudit writes an audit entry.
	LogAudit(ctx context.Context, action, resourceType, resourceID string, details map[string]interface{}) error

	// GetAuditLogs returns the most recent audit entries, newest first.
	GetAuditLogs(ctx context.Context, limit int) ([]*AuditLog, error)

	// Close closes the store and releases resources.
	Close() error
}
