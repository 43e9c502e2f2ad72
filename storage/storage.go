// Package storage persists bot metadata: which chats receive the daily
// summary and key/value settings. Dedup state itself is deliberately kept
// in memory only.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("not found")

// Chat is a registered chat.
type Chat struct {
	ID           int64
	Title        string
	RegisteredAt time.Time
}

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
}

// NewDB opens the database and initializes the schema.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS chats (
		chat_id INTEGER PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		registered_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// RegisterChat records a chat for the daily summary broadcast.
// Re-registering updates the title and keeps the original registration time.
func (db *DB) RegisterChat(ctx context.Context, chatID int64, title string) error {
	query := `
	INSERT INTO chats (chat_id, title, registered_at) VALUES (?, ?, ?)
	ON CONFLICT(chat_id) DO UPDATE SET title = excluded.title
	`
	_, err := db.conn.ExecContext(ctx, query, chatID, title, time.Now())
	return err
}

// ListChats returns every registered chat ordered by registration time.
func (db *DB) ListChats(ctx context.Context) ([]Chat, error) {
	query := `SELECT chat_id, title, registered_at FROM chats ORDER BY registered_at`
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var c Chat
		if err := rows.Scan(&c.ID, &c.Title, &c.RegisteredAt); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// GetSetting retrieves a setting value by key.
func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM settings WHERE key = ?`
	var value string
	err := db.conn.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting stores or updates a setting.
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	query := `
	INSERT INTO settings (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	_, err := db.conn.ExecContext(ctx, query, key, value)
	return err
}
