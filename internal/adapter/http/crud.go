package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ---------------------------------------------------------------------------
// Generic CRUD handler factories
// ---------------------------------------------------------------------------

// handleCreate creates a handler that decodes a partial entity body and
// creates the resource.
func handleCreate[T any](createFn func(ctx context.Context, fields map[string]any) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, ok := readJSON[map[string]any](w, r)
		if !ok {
			return
		}
		item, err := createFn(r.Context(), fields)
		if err != nil {
			writeDomainError(w, err, "creation failed")
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

// handleList creates a handler that lists resources in insertion order.
func handleList[T any](listFn func(ctx context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := listFn(r.Context())
		if err != nil {
			writeDomainError(w, err, "list failed")
			return
		}
		if items == nil {
			items = []T{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// handleGet creates a handler that retrieves a resource by URL param "id".
func handleGet[T any](getFn func(ctx context.Context, id string) (*T, error), notFoundMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		item, err := getFn(r.Context(), id)
		if err != nil {
			writeDomainError(w, err, notFoundMsg)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// handleUpdate creates a handler that shallow-merges a partial entity
// body into the resource identified by URL param "id".
func handleUpdate[T any](updateFn func(ctx context.Context, id string, fields map[string]any) (*T, error), notFoundMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		fields, ok := readJSON[map[string]any](w, r)
		if !ok {
			return
		}
		item, err := updateFn(r.Context(), id, fields)
		if err != nil {
			writeDomainError(w, err, notFoundMsg)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// handleDelete creates a handler that deletes a resource by URL param
// "id" and confirms with a message body.
func handleDelete(deleteFn func(ctx context.Context, id string) error, notFoundMsg, deletedMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := deleteFn(r.Context(), id); err != nil {
			writeDomainError(w, err, notFoundMsg)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: deletedMsg})
	}
}
