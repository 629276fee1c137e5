package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dhaba-pos/console/internal/backend"
	"github.com/dhaba-pos/console/internal/enum"
	"github.com/dhaba-pos/console/internal/queue"
)

// recentLimit caps the dashboard's recent-delivered list.
const recentLimit = 5

// Summary is the dashboard read model, computed over a DELIVERED-scoped
// fetch that is independent of the operator's queue filter.
type Summary struct {
	TotalRevenue   decimal.Decimal
	DeliveredCount int
	// RecentDelivered is newest-first, capped at recentLimit. Display
	// ordering only; the inverse of the work queue's FIFO order.
	RecentDelivered []backend.OrderRecord
}

// DeliveredLister fetches the status-scoped order list. Satisfied by
// *backend.Client.
type DeliveredLister interface {
	ListOrdersByStatus(ctx context.Context, status enum.OrderStatus) ([]backend.OrderRecord, error)
}

// Dashboard computes revenue and throughput statistics from delivered
// orders. Every call re-fetches and recomputes from scratch; there is no
// running total to drift out of sync.
type Dashboard struct {
	api DeliveredLister
}

// NewDashboard creates a Dashboard.
func NewDashboard(api DeliveredLister) *Dashboard {
	return &Dashboard{api: api}
}

// Summary fetches all DELIVERED orders and aggregates them.
func (d *Dashboard) Summary(ctx context.Context) (Summary, error) {
	orders, err := d.api.ListOrdersByStatus(ctx, enum.OrderStatusDelivered)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(orders), nil
}

// Summarize aggregates a delivered order set: total revenue is the sum of
// totalPrice (exactly zero for an empty set), deliveredCount its cardinality.
func Summarize(orders []backend.OrderRecord) Summary {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalPrice)
	}
	return Summary{
		TotalRevenue:    total,
		DeliveredCount:  len(orders),
		RecentDelivered: queue.Recent(orders, recentLimit),
	}
}
