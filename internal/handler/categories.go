package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dhaba-pos/console/internal/backend"
)

// CategoryAPI defines the backend calls category handlers proxy to.
// Satisfied by *backend.Client.
type CategoryAPI interface {
	ListCategories(ctx context.Context) ([]backend.Category, error)
	CreateCategory(ctx context.Context, cat backend.Category) (backend.Category, error)
	UpdateCategory(ctx context.Context, id string, cat backend.Category) (backend.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// CategoryHandler is direct form-to-endpoint plumbing: it validates operator
// input and forwards to the backend's category CRUD.
type CategoryHandler struct {
	api CategoryAPI
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(api CategoryAPI) *CategoryHandler {
	return &CategoryHandler{api: api}
}

// RegisterRoutes registers category endpoints on the given Chi router.
// Expected to be mounted at /categories.
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type categoryRequest struct {
	CategoryName string `json:"categoryName"`
	ImageURL     string `json:"imageUrl"`
}

// List returns all menu categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.api.ListCategories(r.Context())
	if err != nil {
		writeUpstreamError(w, "list categories", err)
		return
	}
	if cats == nil {
		cats = []backend.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

// Create adds a category.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.CategoryName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "categoryName is required"})
		return
	}

	created, err := h.api.CreateCategory(r.Context(), backend.Category{
		CategoryName: req.CategoryName,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		writeUpstreamError(w, "create category", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update modifies a category.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.CategoryName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "categoryName is required"})
		return
	}

	updated, err := h.api.UpdateCategory(r.Context(), id, backend.Category{
		CategoryName: req.CategoryName,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		writeUpstreamError(w, "update category", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a category.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.api.DeleteCategory(r.Context(), id); err != nil {
		writeUpstreamError(w, "delete category", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}
