// Package storage defines the Storage interface — a contract that any
// document-store backend must satisfy to work with this application.
//
// Handlers depend only on this interface, so the SQLite and MongoDB
// backends are interchangeable and tests can pass a fake.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/museum-api/internal/types"
)

// ErrNotFound is returned by Get, Update and Delete when no document has the
// requested id.
var ErrNotFound = errors.New("document not found")

// Document is a stored record as read back from a collection. The storage
// key is exposed under "id".
type Document map[string]any

// Storage is the database contract.
type Storage interface {
	// Insert stores a validated record in rec.Collection() and returns the
	// generated document id.
	Insert(ctx context.Context, rec types.Record) (string, error)

	// Get fetches one document by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, collection, id string) (Document, error)

	// List returns every document in collection, oldest first.
	// Returns an empty slice (not nil) if the collection is empty.
	List(ctx context.Context, collection string) ([]Document, error)

	// Update replaces the document stored under id in rec.Collection() with
	// rec and returns the stored result. Returns ErrNotFound if absent.
	Update(ctx context.Context, id string, rec types.Record) (Document, error)

	// Delete removes one document by id. Returns ErrNotFound if absent.
	Delete(ctx context.Context, collection, id string) error

	Close() error
}
