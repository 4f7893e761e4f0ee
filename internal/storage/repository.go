// Package storage is the SQLite persistence layer. Every query that touches
// user data is owner-scoped: the owner id is part of the WHERE clause, and a
// row owned by someone else is indistinguishable from a missing row.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist or belongs to a
// different owner. Callers must not distinguish the two cases.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// OwnerForToken resolves an API token to its owner id.
func (r *Repository) OwnerForToken(ctx context.Context, token string) (string, error) {
	var owner string
	err := r.db.QueryRowContext(ctx,
		`SELECT owner_id FROM api_tokens WHERE token = ?`, token).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("owner for token: %w", err)
	}
	return owner, nil
}

// InsertToken registers an API token for an owner. Token issuance itself is
// owned by an external system; this only stores the mapping.
func (r *Repository) InsertToken(ctx context.Context, token, ownerID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_tokens (token, owner_id) VALUES (?, ?)`, token, ownerID)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}
