// Package session archives finished requests in a local sqlite database so
// past runs can be listed and replayed.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"heron/internal/orchestrator"
)

// Store persists request records.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at dbPath and initializes the
// schema.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	// WAL mode allows listing while a save is in progress.
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite handles one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS requests (
		id          TEXT PRIMARY KEY,
		prompt      TEXT NOT NULL,
		final_text  TEXT NOT NULL,
		completed   INTEGER NOT NULL,
		is_fallback INTEGER NOT NULL,
		iterations  INTEGER NOT NULL,
		tool_calls  INTEGER NOT NULL,
		created_at  INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		request_id TEXT NOT NULL REFERENCES requests(id) ON DELETE CASCADE,
		seq        INTEGER NOT NULL,
		kind       TEXT NOT NULL,
		content    TEXT NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		call_id    TEXT NOT NULL DEFAULT '',
		is_error   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (request_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_requests_created ON requests(created_at DESC);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return err
	}
	return nil
}

// Save archives a finished request. A zero ID or CreatedAt is filled in.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO requests (id, prompt, final_text, completed, is_fallback, iterations, tool_calls, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Prompt, rec.FinalText, rec.Completed, rec.IsFallback,
		rec.Iterations, rec.ToolCalls, rec.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO messages (request_id, seq, kind, content, name, call_id, is_error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range rec.Messages {
		if _, err := stmt.ExecContext(ctx, rec.ID, i, string(m.Kind), m.Content, m.Name, m.CallID, m.IsError); err != nil {
			return fmt.Errorf("failed to insert message %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Load retrieves one archived request with its full message history.
func (s *Store) Load(ctx context.Context, id string) (*Record, error) {
	rec := &Record{ID: id}
	var createdAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT prompt, final_text, completed, is_fallback, iterations, tool_calls, created_at
		FROM requests WHERE id = ?`, id).
		Scan(&rec.Prompt, &rec.FinalText, &rec.Completed, &rec.IsFallback,
			&rec.Iterations, &rec.ToolCalls, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("request not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	rec.CreatedAt = time.Unix(createdAt, 0)

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, content, name, call_id, is_error
		FROM messages WHERE request_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m orchestrator.Message
		var kind string
		if err := rows.Scan(&kind, &m.Content, &m.Name, &m.CallID, &m.IsError); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Kind = orchestrator.MessageKind(kind)
		rec.Messages = append(rec.Messages, m)
	}
	return rec, rows.Err()
}

// List returns archived requests, newest first, up to limit. limit <= 0
// means no limit.
func (s *Store) List(ctx context.Context, limit int) ([]Meta, error) {
	query := `
		SELECT id, prompt, completed, is_fallback, iterations, created_at
		FROM requests ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var metas []Meta
	for rows.Next() {
		var m Meta
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.Prompt, &m.Completed, &m.IsFallback, &m.Iterations, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		m.CreatedAt = time.Unix(createdAt, 0)
		metas = append(metas, m)
	}
	return metas, rows.Err()
}
