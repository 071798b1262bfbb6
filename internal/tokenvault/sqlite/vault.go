// Package sqlite provides the durable tokenvault.Vault implementation backed
// by an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_token (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    token TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

// Vault persists the session token in a single-row SQLite table.
type Vault struct {
	db  *sql.DB
	now func() time.Time
}

// Open connects to the database at dsn, creates the schema when missing, and
// returns a ready vault.
func Open(dsn string) (*Vault, error) {
	if dsn == "" {
		return nil, errors.New("sqlite vault: empty dsn")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite vault: open %q: %w", dsn, err)
	}
	// A single writer is all the vault ever needs.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite vault: create schema: %w", err)
	}

	return &Vault{db: db, now: time.Now}, nil
}

// Close releases the underlying database handle.
func (v *Vault) Close() error {
	if v == nil || v.db == nil {
		return nil
	}
	return v.db.Close()
}

// Load implements tokenvault.Vault.
func (v *Vault) Load(ctx context.Context) (string, bool, error) {
	var token string
	err := v.db.QueryRowContext(ctx, `SELECT token FROM session_token WHERE id = 1`).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite vault: load token: %w", err)
	}
	return token, true, nil
}

// Save implements tokenvault.Vault.
func (v *Vault) Save(ctx context.Context, token string) error {
	_, err := v.db.ExecContext(ctx, `
INSERT INTO session_token (id, token, updated_at) VALUES (1, ?, ?)
ON CONFLICT (id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`,
		token, v.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlite vault: save token: %w", err)
	}
	return nil
}

// Clear implements tokenvault.Vault.
func (v *Vault) Clear(ctx context.Context) error {
	if _, err := v.db.ExecContext(ctx, `DELETE FROM session_token WHERE id = 1`); err != nil {
		return fmt.Errorf("sqlite vault: clear token: %w", err)
	}
	return nil
}
