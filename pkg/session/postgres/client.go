// Package postgres provides the PostgreSQL implementation of the session
// data layer, intended for production deployments.
//
// JSON-typed columns (session metadata, summary payloads, audit details)
// use JSONB.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/memorybase/memorybase-go/pkg/session"
)

// Config contains PostgreSQL connection configuration.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Client implements session.Store using PostgreSQL as the backend.
type Client struct {
	// db is the PostgreSQL connection pool.
	db *sql.DB
}

// NewClient creates a new PostgreSQL session store and initializes its
// schema.
func NewClient(cfg *Config) (*Client, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("NewPostgresClient: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewPostgresClient: %w", err)
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
			id UUID PRIMARY KEY,
			title VARCHAR(512),
			status SMALLINT NOT NULL DEFAULT 1,
			metadata JSONB,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY,
			session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			role VARCHAR(32) NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session_id ON messages(session_id)`,
		`CREATE TABLE IF NOT EXISTS session_summaries (
			id UUID PRIMARY KEY,
			session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			strategy VARCHAR(64) NOT NULL,
			strategy_version VARCHAR(32),
			summary_text TEXT,
			summary_json JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_summaries_session_id ON session_summaries(session_id)`,
		`CREATE TABLE IF NOT EXISTS messages_archive (
			id UUID PRIMARY KEY,
			session_id UUID NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id UUID PRIMARY KEY,
			action VARCHAR(64) NOT NULL,
			resource_type VARCHAR(64) NOT NULL,
			resource_id TEXT,
			details JSONB,
			created_at TIMESTAMPTZ NOT NULL
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
		`INSERT INTO sessions (id, title, status, metadata, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.Title, int(s.Status), metadataJSON, s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("CreateSession: %w", err)
	}
	return s, nil
}

// GetSession retrieves a session by ID, or (nil, nil) when absent.
func (c *Client) GetSession(ctx context.Context, id string) (*session.Session, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, title, status, metadata, updated_at FROM sessions WHERE id = $1`, id)

	var s session.Session
	var status int
	var title sql.NullString
	var metadataJSON []byte
	err := row.Scan(&s.ID, &title, &status, &metadataJSON, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetSession: %w", err)
	}

	s.Title = title.String
	s.Status = session.Status(status)
	if len(metadataJSON) > 0 && string(metadataJSON) != "null" {
		if err := json.Unmarshal(metadataJSON, &s.Metadata); err != nil {
			return nil, fmt.Errorf("GetSession: parse metadata: %w", err)
		}
	}
	return &s, nil
}

// UpdateSessionStatus moves a session through its archival lifecycle.
func (c *Client) UpdateSessionStatus(ctx context.Context, id string, status session.Status) error {
	_, err := c.db.ExecContext(ctx,
		`UPDATE sessions SET status = $1, updated_at = $2 WHERE id = $3`,
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
		`INSERT INTO messages (id, session_id, role, content, created_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.SessionID, m.Role, m.Content, m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("AddMessage: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET updated_at = $1 WHERE id = $2`, m.CreatedAt, sessionID); err != nil {
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
		WHERE session_id = $1 ORDER BY created_at, id`
	args := []interface{}{sessionID}
	if limit > 0 {
		query += ` LIMIT $2`
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
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		stored.ID, stored.SessionID, stored.Strategy, stored.StrategyVersion,
		stored.SummaryText, summaryJSON, stored.CreatedAt,
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
		 FROM session_summaries WHERE session_id = $1 ORDER BY created_at DESC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("GetSummaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []*session.Summary
	for rows.Next() {
		var s session.Summary
		var strategyVersion, summaryText sql.NullString
		var summaryJSON []byte
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Strategy, &strategyVersion,
			&summaryText, &summaryJSON, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("GetSummaries: %w", err)
		}
		s.StrategyVersion = strategyVersion.String
		s.SummaryText = summaryText.String
		if err := json.Unmarshal(summaryJSON, &s.SummaryJSON); err != nil {
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
		 SELECT id, session_id, role, content, created_at FROM messages WHERE created_at < $1`,
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
		`DELETE FROM messages WHERE created_at < $1`, olderThan); err != nil {
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

	var resID sql.NullString
	if resourceID != "" {
		resID = sql.NullString{String: resourceID, Valid: true}
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, action, resource_type, resource_id, details, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), action, resourceType, resID, detailsJSON, time.Now().UTC(),
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
		query += ` LIMIT $1`
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
		var resourceID sql.NullString
		var detailsJSON []byte
		if err := rows.Scan(&e.ID, &e.Action, &e.ResourceType, &resourceID, &detailsJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("GetAuditLogs: %w", err)
		}
		e.ResourceID = resourceID.String
		if len(detailsJSON) > 0 && string(detailsJSON) != "null" {
			if err := json.Unmarshal(detailsJSON, &e.Details); err != nil {
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

// Close closes the database connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}
