package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aanand-mishra/museum-api/internal/storage"
	"github.com/aanand-mishra/museum-api/internal/types"
	"github.com/aanand-mishra/museum-api/internal/utils/response"
	"github.com/google/go-cmp/cmp"
)

type fakeStore struct {
	inserted []types.Record
	docs     map[string][]storage.Document
	err      error
}

func (f *fakeStore) Insert(_ context.Context, rec types.Record) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.inserted = append(f.inserted, rec)
	return fmt.Sprintf("doc-%d", len(f.inserted)), nil
}

func (f *fakeStore) Get(_ context.Context, collection, id string) (storage.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, d := range f.docs[collection] {
		if d["id"] == id {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no %s found with id %s: %w", collection, id, storage.ErrNotFound)
}

func (f *fakeStore) List(_ context.Context, collection string) ([]storage.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	docs := f.docs[collection]
	if docs == nil {
		docs = []storage.Document{}
	}
	return docs, nil
}

func (f *fakeStore) Update(_ context.Context, id string, rec types.Record) (storage.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i, d := range f.docs[rec.Collection()] {
		if d["id"] == id {
			body, err := json.Marshal(rec)
			if err != nil {
				return nil, err
			}
			doc := storage.Document{}
			if err := json.Unmarshal(body, &doc); err != nil {
				return nil, err
			}
			doc["id"] = id
			f.docs[rec.Collection()][i] = doc
			return doc, nil
		}
	}
	return nil, fmt.Errorf("no %s found with id %s: %w", rec.Collection(), id, storage.ErrNotFound)
}

func (f *fakeStore) Delete(_ context.Context, collection, id string) error {
	if f.err != nil {
		return f.err
	}
	docs := f.docs[collection]
	for i, d := range docs {
		if d["id"] == id {
			f.docs[collection] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no %s found with id %s: %w", collection, id, storage.ErrNotFound)
}

func (f *fakeStore) Close() error { return nil }

func serve(t *testing.T, store storage.Storage, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := http.NewServeMux()
	Register(router, store)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestCreateExhibit(t *testing.T) {
	store := &fakeStore{}
	rec := serve(t, store, http.MethodPost, "/api/exhibit",
		`{"title":"Clocks","summary":"Timekeeping"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.TrimSpace(rec.Body.String()) != `{"id":"doc-1"}` {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	want := []types.Record{types.Exhibit{Title: "Clocks", Summary: "Timekeeping", Tags: []string{}}}
	if diff := cmp.Diff(want, store.inserted); diff != "" {
		t.Fatalf("inserted mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateValidationFailure(t *testing.T) {
	store := &fakeStore{}
	rec := serve(t, store, http.MethodPost, "/api/newslettersubscription",
		`{"email":"not-an-address"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Status != response.StatusError || len(resp.Fields) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Fields[0].Field != "email" || resp.Fields[0].Constraint != "email" {
		t.Fatalf("unexpected field error %+v", resp.Fields[0])
	}
	if len(store.inserted) != 0 {
		t.Fatalf("invalid record must not be stored")
	}
}

func TestCreateBadBodies(t *testing.T) {
	cases := map[string]string{
		"empty":     "",
		"malformed": "{",
		"array":     `["title"]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(t, &fakeStore{}, http.MethodPost, "/api/event", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestCreateStorageFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	rec := serve(t, store, http.MethodPost, "/api/contactmessage",
		`{"name":"a","email":"a@b.com","subject":"s","message":"m"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "disk full" {
		t.Fatalf("unexpected error %q", resp.Error)
	}
}

func TestUnknownCollection(t *testing.T) {
	for _, target := range []string{"/api/blogs", "/api/blogs/1"} {
		rec := serve(t, &fakeStore{}, http.MethodGet, target, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", target, rec.Code)
		}
	}
	rec := serve(t, &fakeStore{}, http.MethodPost, "/api/blogs", `{"title":"x"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetList(t *testing.T) {
	store := &fakeStore{docs: map[string][]storage.Document{
		types.CollectionEvent: {{"id": "e1", "name": "Talk"}},
	}}

	rec := serve(t, store, http.MethodGet, "/api/event", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `[{"id":"e1","name":"Talk"}]` {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	rec = serve(t, store, http.MethodGet, "/api/exhibit", "")
	if strings.TrimSpace(rec.Body.String()) != `[]` {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestGetByID(t *testing.T) {
	store := &fakeStore{docs: map[string][]storage.Document{
		types.CollectionUser: {{"id": "u1", "name": "Ada"}},
	}}

	rec := serve(t, store, http.MethodGet, "/api/user/u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = serve(t, store, http.MethodGet, "/api/user/u2", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = serve(t, &fakeStore{err: errors.New("timeout")}, http.MethodGet, "/api/user/u1", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestUpdate(t *testing.T) {
	store := &fakeStore{docs: map[string][]storage.Document{
		types.CollectionExhibit: {{"id": "x1", "title": "Clocks", "summary": "Old"}},
	}}

	rec := serve(t, store, http.MethodPut, "/api/exhibit/x1",
		`{"title":"Clocks","summary":"Timekeeping","tags":["time"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"id":        "x1",
		"title":     "Clocks",
		"summary":   "Timekeeping",
		"image_url": nil,
		"tags":      []any{"time"},
		"location":  nil,
		"featured":  false,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	if store.docs[types.CollectionExhibit][0]["summary"] != "Timekeeping" {
		t.Fatalf("stored document was not replaced: %v", store.docs[types.CollectionExhibit][0])
	}
}

func TestUpdateValidationFailure(t *testing.T) {
	store := &fakeStore{docs: map[string][]storage.Document{
		types.CollectionEvent: {{"id": "e1", "name": "Talk"}},
	}}

	rec := serve(t, store, http.MethodPut, "/api/event/e1",
		`{"name":"Talk","date":"tomorrow"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	resp := decodeError(t, rec)
	var fields []string
	for _, f := range resp.Fields {
		fields = append(fields, f.Field+":"+f.Constraint)
	}
	if diff := cmp.Diff([]string{"date:datetime", "description:required"}, fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if store.docs[types.CollectionEvent][0]["name"] != "Talk" || len(store.docs[types.CollectionEvent][0]) != 2 {
		t.Fatalf("rejected update must not touch the stored document")
	}
}

func TestUpdateNotFound(t *testing.T) {
	rec := serve(t, &fakeStore{}, http.MethodPut, "/api/user/u9",
		`{"name":"Ada","email":"ada@example.com","address":"1 Museum Square"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = serve(t, &fakeStore{}, http.MethodPut, "/api/blogs/u9", `{"title":"x"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown collection: expected 404, got %d", rec.Code)
	}

	rec = serve(t, &fakeStore{err: errors.New("timeout")}, http.MethodPut, "/api/user/u1",
		`{"name":"Ada","email":"ada@example.com","address":"1 Museum Square"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	store := &fakeStore{docs: map[string][]storage.Document{
		types.CollectionContactMessage: {{"id": "c1"}, {"id": "c2"}},
	}}

	rec := serve(t, store, http.MethodDelete, "/api/contactmessage/c1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"status":"deleted"}` {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if diff := cmp.Diff([]storage.Document{{"id": "c2"}}, store.docs[types.CollectionContactMessage]); diff != "" {
		t.Fatalf("remaining documents mismatch (-want +got):\n%s", diff)
	}

	rec = serve(t, store, http.MethodDelete, "/api/contactmessage/c1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}

	rec = serve(t, &fakeStore{err: errors.New("timeout")}, http.MethodDelete, "/api/contactmessage/c2", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestCollections(t *testing.T) {
	rec := serve(t, &fakeStore{}, http.MethodGet, "/api/collections", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(types.Schemas) {
		t.Fatalf("expected %d entries, got %d", len(types.Schemas), len(got))
	}
	if got[2]["record"] != "Exhibit" || got[2]["collection"] != "exhibit" {
		t.Fatalf("unexpected entry %v", got[2])
	}
}
