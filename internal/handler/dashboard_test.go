package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/dhaba-pos/console/internal/backend"
	"github.com/dhaba-pos/console/internal/enum"
	"github.com/dhaba-pos/console/internal/handler"
	"github.com/dhaba-pos/console/internal/service"
)

type mockSummarizer struct {
	summaryFn func(ctx context.Context) (service.Summary, error)
}

func (m *mockSummarizer) Summary(ctx context.Context) (service.Summary, error) {
	return m.summaryFn(ctx)
}

func setupDashboardRouter(svc *mockSummarizer) *chi.Mux {
	h := handler.NewDashboardHandler(svc)
	r := chi.NewRouter()
	r.Route("/dashboard", h.RegisterRoutes)
	return r
}

func TestDashboardSummary_OK(t *testing.T) {
	svc := &mockSummarizer{summaryFn: func(context.Context) (service.Summary, error) {
		return service.Summary{
			TotalRevenue:   decimal.RequireFromString("1234.5"),
			DeliveredCount: 2,
			RecentDelivered: []backend.OrderRecord{
				newOrder("b", 11, 0, enum.OrderStatusDelivered, "1000"),
				newOrder("a", 10, 0, enum.OrderStatusDelivered, "234.5"),
			},
		}, nil
	}}
	router := setupDashboardRouter(svc)

	rr := doRequest(t, router, "GET", "/dashboard", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["total_revenue"] != "1234.50" {
		t.Errorf("total_revenue = %v, want 1234.50", resp["total_revenue"])
	}
	if resp["delivered_count"] != float64(2) {
		t.Errorf("delivered_count = %v, want 2", resp["delivered_count"])
	}
	recent := resp["recent_delivered"].([]interface{})
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent orders, got %d", len(recent))
	}
	if recent[0].(map[string]interface{})["id"] != "b" {
		t.Errorf("recent_delivered[0].id = %v, want b (newest first)", recent[0].(map[string]interface{})["id"])
	}
}

func TestDashboardSummary_EmptyRecentListIsNotNull(t *testing.T) {
	svc := &mockSummarizer{summaryFn: func(context.Context) (service.Summary, error) {
		return service.Summary{TotalRevenue: decimal.Zero}, nil
	}}
	router := setupDashboardRouter(svc)

	rr := doRequest(t, router, "GET", "/dashboard", nil)

	resp := decodeResponse(t, rr)
	recent, ok := resp["recent_delivered"].([]interface{})
	if !ok {
		t.Fatalf("recent_delivered rendered as %T, want a list", resp["recent_delivered"])
	}
	if len(recent) != 0 {
		t.Errorf("expected empty list, got %d items", len(recent))
	}
	if resp["total_revenue"] != "0.00" {
		t.Errorf("total_revenue = %v, want 0.00", resp["total_revenue"])
	}
}

func TestDashboardSummary_UpstreamFailureIsBadGateway(t *testing.T) {
	svc := &mockSummarizer{summaryFn: func(context.Context) (service.Summary, error) {
		return service.Summary{}, &backend.APIError{StatusCode: 503, Message: "maintenance window"}
	}}
	router := setupDashboardRouter(svc)

	rr := doRequest(t, router, "GET", "/dashboard", nil)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}
	resp := decodeResponse(t, rr)
	if resp["error"] != "maintenance window" {
		t.Errorf("error = %v, want the backend message verbatim", resp["error"])
	}
}
