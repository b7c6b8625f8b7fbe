package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixbrock/ponygp/internal/app"
	_ "modernc.org/sqlite"
)

const sessionSchema = `
CREATE TABLE IF NOT EXISTS session_values (
	session_id TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (session_id, key)
);`

// SQLiteSessionRepo keeps session values in a SQLite database so they survive
// restarts.
type SQLiteSessionRepo struct {
	db *sql.DB
}

func NewSQLiteSessionRepo(path string) (*SQLiteSessionRepo, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	// One writer keeps SQLite from reporting SQLITE_BUSY under concurrent uploads.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sessionSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create session schema: %w", err)
	}

	return &SQLiteSessionRepo{db: db}, nil
}

func (r *SQLiteSessionRepo) Get(ctx context.Context, sessionId string, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM session_values WHERE session_id = ? AND key = ?`,
		sessionId, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", app.ErrSessionValueNotFound
	} else if err != nil {
		return "", err
	}

	return value, nil
}

func (r *SQLiteSessionRepo) Set(ctx context.Context, sessionId string, key string, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session_values (session_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (session_id, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		sessionId, key, value)

	return err
}

func (r *SQLiteSessionRepo) Close() error {
	return r.db.Close()
}
