package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dhaba-pos/console/internal/service"
)

// Summarizer computes the dashboard read model. Satisfied by
// *service.Dashboard.
type Summarizer interface {
	Summary(ctx context.Context) (service.Summary, error)
}

// DashboardHandler serves revenue and throughput statistics. Its data comes
// from a dedicated DELIVERED-scoped fetch, independent of the queue filter.
type DashboardHandler struct {
	svc Summarizer
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(svc Summarizer) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// RegisterRoutes registers dashboard endpoints on the given Chi router.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Summary)
}

type summaryResponse struct {
	TotalRevenue    string          `json:"total_revenue"`
	DeliveredCount  int             `json:"delivered_count"`
	RecentDelivered []orderResponse `json:"recent_delivered"`
}

// Summary returns total revenue, delivered count, and the five most recent
// delivered orders.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.Context())
	if err != nil {
		writeUpstreamError(w, "fetch dashboard summary", err)
		return
	}

	resp := summaryResponse{
		TotalRevenue:    sum.TotalRevenue.StringFixed(2),
		DeliveredCount:  sum.DeliveredCount,
		RecentDelivered: make([]orderResponse, len(sum.RecentDelivered)),
	}
	for i, o := range sum.RecentDelivered {
		resp.RecentDelivered[i] = toOrderResponse(o)
	}

	writeJSON(w, http.StatusOK, resp)
}
