// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// Every collection shares one documents table. A record is stored as its
// JSON encoding next to the collection name and a generated UUID key, which
// gives document-store semantics on top of a single-file database.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/museum-api/internal/config"
	"github.com/aanand-mishra/museum-api/internal/storage"
	"github.com/aanand-mishra/museum-api/internal/types"
	"github.com/google/uuid"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.Storage.Path, creates the documents
// table if it does not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// rowid keeps insertion order for List.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			id         TEXT PRIMARY KEY,
			collection TEXT NOT NULL,
			body       TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS documents_collection ON documents (collection)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create index: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Insert encodes rec as JSON and stores it under a fresh UUID.
func (s *SQLite) Insert(ctx context.Context, rec types.Record) (string, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("Insert: encode: %w", err)
	}

	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO documents (id, collection, body) VALUES (?, ?, ?)",
	)
	if err != nil {
		return "", fmt.Errorf("Insert: prepare: %w", err)
	}
	defer stmt.Close()

	id := uuid.NewString()
	if _, err := stmt.ExecContext(ctx, id, rec.Collection(), string(body)); err != nil {
		return "", fmt.Errorf("Insert: exec: %w", err)
	}

	return id, nil
}

func (s *SQLite) Get(ctx context.Context, collection, id string) (storage.Document, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT body FROM documents WHERE collection = ? AND id = ? LIMIT 1",
	)
	if err != nil {
		return nil, fmt.Errorf("Get: prepare: %w", err)
	}
	defer stmt.Close()

	var body string
	err = stmt.QueryRowContext(ctx, collection, id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no %s found with id %s: %w", collection, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("Get: scan: %w", err)
	}

	return decode(id, body)
}

func (s *SQLite) List(ctx context.Context, collection string) ([]storage.Document, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT id, body FROM documents WHERE collection = ? ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("List: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("List: query: %w", err)
	}
	defer rows.Close()

	docs := make([]storage.Document, 0)
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("List: scan row: %w", err)
		}

		doc, err := decode(id, body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows iteration: %w", err)
	}

	return docs, nil
}

// Update overwrites the body of an existing document and re-fetches it so
// the caller sees exactly what is stored.
func (s *SQLite) Update(ctx context.Context, id string, rec types.Record) (storage.Document, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("Update: encode: %w", err)
	}

	stmt, err := s.Db.PrepareContext(ctx,
		"UPDATE documents SET body = ? WHERE collection = ? AND id = ?",
	)
	if err != nil {
		return nil, fmt.Errorf("Update: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, string(body), rec.Collection(), id)
	if err != nil {
		return nil, fmt.Errorf("Update: exec: %w", err)
	}
	if err := affected(res, rec.Collection(), id); err != nil {
		return nil, err
	}

	return s.Get(ctx, rec.Collection(), id)
}

func (s *SQLite) Delete(ctx context.Context, collection, id string) error {
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM documents WHERE collection = ? AND id = ?")
	if err != nil {
		return fmt.Errorf("Delete: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, collection, id)
	if err != nil {
		return fmt.Errorf("Delete: exec: %w", err)
	}
	return affected(res, collection, id)
}

func (s *SQLite) Close() error {
	return s.Db.Close()
}

func decode(id, body string) (storage.Document, error) {
	doc := storage.Document{}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	doc["id"] = id
	return doc, nil
}

// affected maps a statement that touched no rows to storage.ErrNotFound.
func affected(res sql.Result, collection, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no %s found with id %s: %w", collection, id, storage.ErrNotFound)
	}
	return nil
}
