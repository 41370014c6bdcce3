// Package record contains the HTTP handlers shared by every record
// collection (exhibits, events, newsletter subscriptions, ...).
//
// Handlers are built with the factory pattern: New(store) runs once when
// the route is registered and returns the http.HandlerFunc that serves every
// request. The {collection} path segment selects the record schema from
// types.Schemas, so one set of handlers serves all collections:
//
//	router.HandleFunc("POST /api/{collection}", record.New(store))
package record

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/museum-api/internal/storage"
	"github.com/aanand-mishra/museum-api/internal/types"
	"github.com/aanand-mishra/museum-api/internal/utils/response"
	"github.com/aanand-mishra/museum-api/internal/validation"
)

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/{collection}
// Validates the JSON body against the collection's record schema and stores it.
//
// Request body (JSON), e.g. for /api/contactmessage:
//
//	{ "name": "Ada", "email": "ada@example.com", "subject": "Hi", "message": "..." }
//
// Success response (201 Created):
//
//	{ "id": "3f0c..." }
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	404 Not Found    — unknown collection
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schema, ok := lookup(w, r)
		if !ok {
			return
		}
		slog.Info("creating a record", slog.String("collection", schema.Collection))

		rec, ok := parseBody(w, r, schema)
		if !ok {
			return
		}

		id, err := store.Insert(r.Context(), rec)
		if err != nil {
			slog.Error("error storing record",
				slog.String("collection", schema.Collection),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("record created",
			slog.String("collection", schema.Collection),
			slog.String("id", id))
		response.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/{collection}/{id}
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schema, ok := lookup(w, r)
		if !ok {
			return
		}
		id := r.PathValue("id")
		slog.Info("getting a record",
			slog.String("collection", schema.Collection),
			slog.String("id", id))

		doc, err := store.Get(r.Context(), schema.Collection, id)
		if err != nil {
			writeStoreError(w, "error getting record", schema, id, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, doc)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/{collection}
// Returns an empty array [] (not null) when the collection is empty.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schema, ok := lookup(w, r)
		if !ok {
			return
		}
		slog.Info("listing records", slog.String("collection", schema.Collection))

		docs, err := store.List(r.Context(), schema.Collection)
		if err != nil {
			slog.Error("error listing records",
				slog.String("collection", schema.Collection),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, docs)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/{collection}/{id}
// The body is validated exactly as for New and replaces the stored document.
//
// Success response (200 OK): the stored document, including its "id".
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	404 Not Found    — unknown collection or no document with that id
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schema, ok := lookup(w, r)
		if !ok {
			return
		}
		id := r.PathValue("id")
		slog.Info("updating a record",
			slog.String("collection", schema.Collection),
			slog.String("id", id))

		rec, ok := parseBody(w, r, schema)
		if !ok {
			return
		}

		doc, err := store.Update(r.Context(), id, rec)
		if err != nil {
			writeStoreError(w, "error updating record", schema, id, err)
			return
		}

		slog.Info("record updated",
			slog.String("collection", schema.Collection),
			slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, doc)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/{collection}/{id}
//
// Success response (200 OK):
//
//	{ "status": "deleted" }
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schema, ok := lookup(w, r)
		if !ok {
			return
		}
		id := r.PathValue("id")
		slog.Info("deleting a record",
			slog.String("collection", schema.Collection),
			slog.String("id", id))

		if err := store.Delete(r.Context(), schema.Collection, id); err != nil {
			writeStoreError(w, "error deleting record", schema, id, err)
			return
		}

		slog.Info("record deleted",
			slog.String("collection", schema.Collection),
			slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// Collections handles GET /api/collections and returns the static
// record → collection table.
func Collections() http.HandlerFunc {
	type entry struct {
		Record     string `json:"record"`
		Collection string `json:"collection"`
	}

	entries := make([]entry, 0, len(types.Schemas))
	for _, s := range types.Schemas {
		entries = append(entries, entry{Record: s.Name, Collection: s.Collection})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, entries)
	}
}

func lookup(w http.ResponseWriter, r *http.Request) (types.Schema, bool) {
	name := r.PathValue("collection")
	schema, ok := types.Lookup(name)
	if !ok {
		response.WriteJSON(w, http.StatusNotFound,
			response.GeneralError(errors.New("unknown collection: "+name)))
	}
	return schema, ok
}

// parseBody decodes the request body and validates it against schema. On
// failure it writes the 400 response and reports false.
func parseBody(w http.ResponseWriter, r *http.Request, schema types.Schema) (types.Record, bool) {
	var raw map[string]any
	err := json.NewDecoder(r.Body).Decode(&raw)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return nil, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return nil, false
	}

	rec, err := schema.Parse(raw)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			slog.Debug("record rejected",
				slog.String("collection", schema.Collection),
				slog.String("error", verr.Error()))
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verr))
			return nil, false
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return nil, false
	}
	return rec, true
}

// writeStoreError answers 404 for storage.ErrNotFound and logs anything else
// as a 500.
func writeStoreError(w http.ResponseWriter, msg string, schema types.Schema, id string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
		return
	}
	slog.Error(msg,
		slog.String("collection", schema.Collection),
		slog.String("id", id),
		slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}

// Register mounts the record routes on router.
//
//	GET    /api/collections               → the record → collection table
//	POST   /api/{collection}              → validate and store a record
//	GET    /api/{collection}              → list a collection
//	GET    /api/{collection}/{id}         → get one document
//	PUT    /api/{collection}/{id}         → validate and replace a document
//	DELETE /api/{collection}/{id}         → delete a document
func Register(router *http.ServeMux, store storage.Storage) {
	router.HandleFunc("GET /api/collections", Collections())
	router.HandleFunc("POST /api/{collection}", New(store))
	router.HandleFunc("GET /api/{collection}", GetList(store))
	router.HandleFunc("GET /api/{collection}/{id}", GetByID(store))
	router.HandleFunc("PUT /api/{collection}/{id}", Update(store))
	router.HandleFunc("DELETE /api/{collection}/{id}", Delete(store))
}
