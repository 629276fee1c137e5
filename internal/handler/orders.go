package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dhaba-pos/console/internal/backend"
	"github.com/dhaba-pos/console/internal/enum"
	"github.com/dhaba-pos/console/internal/queue"
	"github.com/dhaba-pos/console/internal/service"
	"github.com/dhaba-pos/console/internal/store"
)

// QueuePoller defines the polling controls order handlers need. Satisfied by
// *poller.Poller.
type QueuePoller interface {
	Restart(filter enum.Filter)
	Refresh()
}

// Transitioner defines the transition operations order handlers need.
// Satisfied by *service.TransitionController.
type Transitioner interface {
	Complete(ctx context.Context, id string) (backend.OrderRecord, error)
	SetStatus(ctx context.Context, id string, status enum.OrderStatus) (backend.OrderRecord, error)
	Cancel(ctx context.Context, id string, confirm service.Confirmer) error
}

// Broadcaster pushes queue snapshots to connected operator UIs. Satisfied by
// *ws.Hub; nil disables pushes.
type Broadcaster interface {
	QueueUpdated(filter enum.Filter, orders []backend.OrderRecord)
}

// OrdersHandler exposes the operator work queue and its actions.
type OrdersHandler struct {
	store  *store.Store
	poller QueuePoller
	ctrl   Transitioner
	hub    Broadcaster
}

// NewOrdersHandler creates an OrdersHandler. hub may be nil.
func NewOrdersHandler(st *store.Store, poller QueuePoller, ctrl Transitioner, hub Broadcaster) *OrdersHandler {
	return &OrdersHandler{store: st, poller: poller, ctrl: ctrl, hub: hub}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /orders.
func (h *OrdersHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Put("/filter", h.SetFilter)
	r.Post("/refresh", h.Refresh)
	r.Post("/{id}/complete", h.Complete)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.Cancel)
}

// --- Request / Response types ---

type setFilterRequest struct {
	Filter string `json:"filter"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	ID           string             `json:"id"`
	CustomerName string             `json:"customer_name"`
	CreatedAt    time.Time          `json:"created_at"`
	Status       enum.OrderStatus   `json:"status"`
	TotalPrice   string             `json:"total_price"`
	Items        []lineItemResponse `json:"items"`
}

type lineItemResponse struct {
	FoodName string `json:"food_name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Subtotal string `json:"subtotal"`
}

// queueResponse is the FIFO work queue plus the banner state.
type queueResponse struct {
	Filter     enum.Filter     `json:"filter"`
	Orders     []orderResponse `json:"orders"`
	FetchError string          `json:"fetch_error,omitempty"`
}

// toOrderResponse shapes one record for display. Missing item arrays render
// as empty lists here, at the display layer only; the store is never patched.
func toOrderResponse(o backend.OrderRecord) orderResponse {
	items := make([]lineItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = lineItemResponse{
			FoodName: it.FoodName,
			Quantity: it.Quantity,
			Price:    it.Price.StringFixed(2),
			Subtotal: it.Subtotal.StringFixed(2),
		}
	}
	return orderResponse{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		CreatedAt:    o.CreatedAt,
		Status:       o.Status,
		TotalPrice:   o.TotalPrice.StringFixed(2),
		Items:        items,
	}
}

// --- Handlers ---

// List returns the current work queue, FIFO by creation time.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	sorted := queue.FIFO(h.store.Snapshot())

	resp := queueResponse{
		Filter: h.store.Filter(),
		Orders: make([]orderResponse, len(sorted)),
	}
	for i, o := range sorted {
		resp.Orders[i] = toOrderResponse(o)
	}
	if err := h.store.FetchErr(); err != nil {
		resp.FetchError = "failed to fetch orders"
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			resp.FetchError = apiErr.Message
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// SetFilter switches the active filter and restarts polling, which fetches
// immediately under the new scope.
func (h *OrdersHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req setFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	filter, err := enum.ParseFilter(req.Filter)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.poller.Restart(filter)
	writeJSON(w, http.StatusOK, map[string]string{"filter": string(filter)})
}

// Refresh requests an out-of-cadence poll tick.
func (h *OrdersHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.poller.Refresh()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}

// Complete marks a pending order delivered.
func (h *OrdersHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	updated, err := h.ctrl.Complete(r.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrUnknownOrder):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	case errors.Is(err, service.ErrNotPending):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	default:
		writeUpstreamError(w, "complete order", err)
		return
	}

	h.pushQueue()
	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

// UpdateStatus is the generic transition endpoint.
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	status, err := enum.ParseStatus(req.Status)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	updated, err := h.ctrl.SetStatus(r.Context(), id, status)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrUnknownOrder):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	case errors.Is(err, service.ErrTerminal), errors.Is(err, service.ErrInvalidStatus):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	default:
		writeUpstreamError(w, "update order status", err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

// Cancel hard-deletes an order. The confirmation gate is the confirm=true
// query parameter; without it no backend call is made.
func (h *OrdersHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	confirmed := r.URL.Query().Get("confirm") == "true"

	err := h.ctrl.Cancel(r.Context(), id, service.ConfirmerFunc(func(backend.OrderRecord) bool {
		return confirmed
	}))
	switch {
	case err == nil:
	case errors.Is(err, service.ErrDeclined):
		writeJSON(w, http.StatusPreconditionRequired, map[string]string{
			"error": "confirmation required: repeat the request with confirm=true",
		})
		return
	case errors.Is(err, service.ErrUnknownOrder):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	default:
		writeUpstreamError(w, "cancel order", err)
		return
	}

	h.pushQueue()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled", "id": id})
}

func (h *OrdersHandler) pushQueue() {
	if h.hub != nil {
		h.hub.QueueUpdated(h.store.Filter(), h.store.Snapshot())
	}
}
