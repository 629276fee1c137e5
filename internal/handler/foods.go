package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/dhaba-pos/console/internal/backend"
)

// FoodAPI defines the backend calls food-item handlers proxy to. Satisfied
// by *backend.Client.
type FoodAPI interface {
	ListFoods(ctx context.Context) ([]backend.FoodItem, error)
	CreateFood(ctx context.Context, categoryID string, food backend.FoodItem) (backend.FoodItem, error)
	UpdateFood(ctx context.Context, id string, food backend.FoodItem) (backend.FoodItem, error)
	DeleteFood(ctx context.Context, id string) error
}

// FoodHandler is direct form-to-endpoint plumbing for the menu's food items.
type FoodHandler struct {
	api FoodAPI
}

// NewFoodHandler creates a FoodHandler.
func NewFoodHandler(api FoodAPI) *FoodHandler {
	return &FoodHandler{api: api}
}

// RegisterRoutes registers food-item endpoints on the given Chi router.
// Expected to be mounted at /foods. Creation is nested under the category
// the item belongs to, mirroring the backend.
func (h *FoodHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/category/{cid}", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type foodRequest struct {
	FoodName    string          `json:"foodName"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
}

func (req *foodRequest) validate() string {
	if req.FoodName == "" {
		return "foodName is required"
	}
	if req.Price.IsNegative() {
		return "price must not be negative"
	}
	return ""
}

// List returns all food items.
func (h *FoodHandler) List(w http.ResponseWriter, r *http.Request) {
	foods, err := h.api.ListFoods(r.Context())
	if err != nil {
		writeUpstreamError(w, "list foods", err)
		return
	}
	if foods == nil {
		foods = []backend.FoodItem{}
	}
	writeJSON(w, http.StatusOK, foods)
}

// Create adds a food item under the given category.
func (h *FoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "cid")

	var req foodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	created, err := h.api.CreateFood(r.Context(), categoryID, backend.FoodItem{
		FoodName:    req.FoodName,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeUpstreamError(w, "create food", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update modifies a food item.
func (h *FoodHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req foodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	updated, err := h.api.UpdateFood(r.Context(), id, backend.FoodItem{
		FoodName:    req.FoodName,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeUpstreamError(w, "update food", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a food item.
func (h *FoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.api.DeleteFood(r.Context(), id); err != nil {
		writeUpstreamError(w, "delete food", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}
