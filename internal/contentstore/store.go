// Package contentstore is a sqlite-backed catalog of source content
// documents for the serve command. It stores the pristine JSON files the
// renderer loads from; user edits never land here, callers read the working
// snapshot back through the component instead.
package contentstore

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store wraps the catalog database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the catalog at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping catalog database: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	goose.SetLogger(goose.NopLogger())
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate catalog schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Put stores or replaces a content document. The body must be a valid JSON
// document; the catalog rejects anything it could not later serve.
func (s *Store) Put(ctx context.Context, sourceID string, body []byte) error {
	if !json.Valid(body) {
		return fmt.Errorf("content %q is not valid JSON", sourceID)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (source_id, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(source_id) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`,
		sourceID, string(body))
	if err != nil {
		return fmt.Errorf("failed to store content %q: %w", sourceID, err)
	}
	return nil
}

// Get returns the raw JSON body of a content document.
func (s *Store) Get(ctx context.Context, sourceID string) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE source_id = ?`, sourceID).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("content %q not found", sourceID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load content %q: %w", sourceID, err)
	}
	return []byte(body), nil
}

// List returns the catalog's source identifiers in insertion order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source_id FROM documents ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
