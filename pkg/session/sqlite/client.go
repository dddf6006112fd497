// Package sqlite provides the SQLite implementation of the session data
// layer, suitable for local development and tests.
//
// JSON-typed columns (session metadata, summary payloads, audit details)
// are stored as JSON strings in TEXT fields.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/memorybase/memorybase-go/pkg/session"
)

// Config contains configuration for the SQLite session store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string
}

// Client implements session.Store using SQLite as the backend.
type Client struct {
	// db is the SQLite database connection.
	db *sql.DB
}

// NewClient creates a new SQLite session store and initializes its schema.
func NewClient(cfg *Config) (*Client, error) {
	dbDir := filepath.Dir(cfg.DBPath)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("NewSQLiteClient: failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_foreign_keys=1&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("NewSQLiteClient: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewSQLiteClient: %w", err)
	}

	client := &Client{db: db}
	if err := client.initTables(context.Background()); err != nil {
		return nil, err
	}
	return client, nil
}

// initTables initializes the database schema.
func (c *Client) initTables(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			title TEXT,
			status INTEGER NOT NULL DEFAULT 1,
			metadata TEXT,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session_id ON messages(session_id)`,
		`CREATE TABLE IF NOT EXISTS session_summaries (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			strategy TEXT NOT NULL,
			strategy_version TEXT,
			summary_text TEXT,
			summary_json TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_summaries_session_id ON session_summaries(session_id)`,
		`CREATE TABLE IF NOT EXISTS messages_archive (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id TEXT PRIMARY KEY,
			action TEXT NOT NULL,
			resource_type TEXT NOT NULL,
			resource_id TEXT,
			details TEXT,
			created_at DATETIME NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("initTables: %w", err)
		}
	}
	return nil
}

// CreateSession creates a new active session.
func (c *Client) CreateSession(ctx context.Context, title string, metadata map[string]interface{}) (*session.Session, error) {
	s := &session.Session{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    session.StatusActive,
		Metadata:  metadata,
		UpdatedAt: time.Now().UTC(),
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("CreateSession: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO sessions (id, title, status, metadata, updated_at) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Title, int(s.Status), string(metadataJSON), s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("CreateSession: %w", err)
	}
	return s, nil
}

// GetSession retrieves a session by ID, or (nil, nil) when absent.
func (c *Client) GetSession(ctx context.Context, id string) (*session.Session, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, title, status, metadata, updated_at FROM sessions WHERE id = ?`, id)

	var s session.Session
	var status int
	var title, metadataStr sql.NullString
	err := row.Scan(&s.ID, &title, &status, &metadataStr, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetSession: %w", err)
	}

	s.Title = title.String
	s.Status = session.Status(status)
	if metadataStr.Valid && metadataStr.String != "" && metadataStr.String != "null" {
		if err := json.Unmarshal([]byte(metadataStr.String), &s.Metadata); err != nil {
			return nil, fmt.Errorf("GetSession: parse metadata: %w", err)
		}
	}
	return &s, nil
}

// UpdateSessionStatus moves a session through its archival lifecycle.
func (c *Client) UpdateSessionStatus(ctx context.Context, id string, status session.Status) error {
	_, err := c.db.ExecContext(ctx,
		`UPDATE sessions SET status = ?, updated_at = ? WHERE id = ?`,
		int(status), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("UpdateSessionStatus: %w", err)
	}
	return nil
}

// AddMessage appends a message and bumps the session's updated_at.
func (c *Client) AddMessage(ctx context.Context, sessionID, role, content string) (*session.Message, error) {
	m := &session.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("AddMessage: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.SessionID, m.Role, m.Content, m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("AddMessage: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE sessions SET updated_at = ? WHERE id = ?`, m.CreatedAt, sessionID)
	if err != nil {
		return nil, fmt.Errorf("AddMessage: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("AddMessage: %w", err)
	}
	return m, nil
}

// GetMessages returns a session's messages in append order.
func (c *Client) GetMessages(ctx context.Context, sessionID string, limit int) ([]*session.Message, error) {
	query := `SELECT id, session_id, role, content, created_at FROM messages
		WHERE session_id = ? ORDER BY created_at, id`
	args := []interface{}{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("GetMessages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []*session.Message
	for rows.Next() {
		var m session.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("GetMessages: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetMessages: %w", err)
	}
	return messages, nil
}

// AddSummary stores a compression summary for a session.
func (c *Client) AddSummary(ctx context.Context, summary *session.Summary) (*session.Summary, error) {
	stored := *summary
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()

	summaryJSON, err := json.Marshal(stored.SummaryJSON)
	if err != nil {
		return nil, fmt.Errorf("AddSummary: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO session_summaries
			(id, session_id, strategy, strategy_version, summary_text, summary_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.SessionID, stored.Strategy, stored.StrategyVersion,
		stored.SummaryText, string(summaryJSON), stored.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("AddSummary: %w", err)
	}
	return &stored, nil
}

// GetSummaries returns a session's summaries, newest first.
func (c *Client) GetSummaries(ctx context.Context, sessionID string) ([]*session.Summary, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, session_id, strategy, strategy_version, summary_text, summary_json, created_at
		 FROM session_summaries WHERE session_id = ? ORDER BY created_at DESC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("GetSummaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []*session.Summary
	for rows.Next() {
		var s session.Summary
		var strategyVersion, summaryText sql.NullString
		var summaryJSON string
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Strategy, &strategyVersion,
			&summaryText, &summaryJSON, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("GetSummaries: %w", err)
		}
		s.StrategyVersion = strategyVersion.String
		s.SummaryText = summaryText.String
		if err := json.Unmarshal([]byte(summaryJSON), &s.SummaryJSON); err != nil {
			return nil, fmt.Errorf("GetSummaries: parse summary: %w", err)
		}
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetSummaries: %w", err)
	}
	return summaries, nil
}

// ArchiveMessages moves messages created before olderThan into the archive
// table, in one transaction, and returns the number moved.
func (c *Client) ArchiveMessages(ctx context.Context, olderThan time.Time) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("ArchiveMessages: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO messages_archive (id, session_id, role, content, created_at)
		 SELECT id, session_id, role, content, created_at FROM messages WHERE created_at < ?`,
		olderThan,
	)
	if err != nil {
		return 0, fmt.Errorf("ArchiveMessages: %w", err)
	}
	moved, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("ArchiveMessages: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM messages WHERE created_at < ?`, olderThan); err != nil {
		return 0, fmt.Errorf("ArchiveMessages: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("ArchiveMessages: %w", err)
	}
	return moved, nil
}

// LogAudit writes an audit entry.
func (c *Client) LogAudit(ctx context.Context, action, resourceType, resourceID string, details map[string]interface{}) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("LogAudit: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, action, resource_type, resource_id, details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), action, resourceType, resourceID, string(detailsJSON), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("LogAudit: %w", err)
	}
	return nil
}

// GetAuditLogs returns the most recent audit entries, newest first.
func (c *Client) GetAuditLogs(ctx context.Context, limit int) ([]*session.AuditLog, error) {
	query := `SELECT id, action, resource_type, resource_id, details, created_at
		FROM audit_logs ORDER BY created_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("GetAuditLogs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*session.AuditLog
	for rows.Next() {
		var e session.AuditLog
		var resourceID, details sql.NullString
		if err := rows.Scan(&e.ID, &e.Action, &e.ResourceType, &resourceID, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("GetAuditLogs: %w", err)
		}
		e.ResourceID = resourceID.String
		if details.Valid && details.String != "" && details.String != "null" {
			if err := json.Unmarshal([]byte(details.String), &e.Details); err != nil {
				return nil, fmt.Errorf("GetAuditLogs: parse details: %w", err)
			}
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetAuditLogs: %w", err)
	}
	return entries, nil
}

// Close closes the database connection.
func (c *Client) Close() error {
	return c.db.Close()
}
