package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dhaba-pos/console/internal/backend"
	"github.com/dhaba-pos/console/internal/enum"
	"github.com/dhaba-pos/console/internal/store"
)

// Errors returned by the transition controller.
var (
	ErrUnknownOrder  = errors.New("order not found in current view")
	ErrNotPending    = errors.New("order is not pending")
	ErrTerminal      = errors.New("order is in a terminal status")
	ErrInvalidStatus = errors.New("invalid target status")
	ErrDeclined      = errors.New("cancellation not confirmed")
)

// OrderAPI defines the backend mutations the controller needs. Satisfied by
// *backend.Client; narrow interface for testability.
type OrderAPI interface {
	UpdateOrderStatus(ctx context.Context, id string, status enum.OrderStatus) (backend.OrderRecord, error)
	DeleteOrder(ctx context.Context, id string) error
}

// Refresher triggers an immediate re-fetch under the active filter.
// Satisfied by *poller.Poller.
type Refresher interface {
	Refresh()
}

// Confirmer is the explicit yes/no gate in front of destructive operations.
type Confirmer interface {
	Confirm(order backend.OrderRecord) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(order backend.OrderRecord) bool

func (f ConfirmerFunc) Confirm(order backend.OrderRecord) bool { return f(order) }

// TransitionController drives order status changes and deletions against the
// backend and reconciles the local store afterwards. A failed backend call
// never mutates the store; the operator retries against unchanged state.
//
// Reconcile policy, per operation (deliberate, mirroring upstream behavior):
//   - Complete:  local splice once the server confirmed, no re-fetch.
//   - SetStatus: reconcile by full re-fetch under the active filter.
//   - Cancel:    evict locally, then reconcile by full re-fetch, since a
//     delete can have backend side effects a splice would miss.
type TransitionController struct {
	api    OrderAPI
	store  *store.Store
	poller Refresher
}

// NewTransitionController creates a TransitionController.
func NewTransitionController(api OrderAPI, st *store.Store, poller Refresher) *TransitionController {
	return &TransitionController{api: api, store: st, poller: poller}
}

// Complete marks a PENDING order DELIVERED. Nothing is mutated locally until
// the server confirms; on success the record is spliced out of views its new
// status no longer matches, or updated in place where it still does.
func (c *TransitionController) Complete(ctx context.Context, id string) (backend.OrderRecord, error) {
	rec, ok := c.store.Get(id)
	if !ok {
		return backend.OrderRecord{}, ErrUnknownOrder
	}

	switch rec.Status {
	case enum.OrderStatusPending:
		// Only state complete is offered on.
	case enum.OrderStatusConfirmed, enum.OrderStatusPreparing,
		enum.OrderStatusDelivered, enum.OrderStatusCancelled:
		return backend.OrderRecord{}, fmt.Errorf("%w: %s", ErrNotPending, rec.Status)
	default:
		return backend.OrderRecord{}, fmt.Errorf("%w: %s", ErrNotPending, rec.Status)
	}

	updated, err := c.api.UpdateOrderStatus(ctx, id, enum.OrderStatusDelivered)
	if err != nil {
		return backend.OrderRecord{}, err
	}

	if c.store.Filter().Matches(updated.Status) {
		c.store.Upsert(updated)
	} else {
		c.store.Remove(id)
	}
	return updated, nil
}

// SetStatus is the generic transition to any non-terminal-source target
// status; the extensibility point for statuses beyond PENDING/DELIVERED.
// On success the store reconciles via a full re-fetch.
func (c *TransitionController) SetStatus(ctx context.Context, id string, status enum.OrderStatus) (backend.OrderRecord, error) {
	if !status.Valid() {
		return backend.OrderRecord{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	rec, ok := c.store.Get(id)
	if !ok {
		return backend.OrderRecord{}, ErrUnknownOrder
	}
	if rec.Status.Terminal() {
		return backend.OrderRecord{}, fmt.Errorf("%w: %s", ErrTerminal, rec.Status)
	}

	updated, err := c.api.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return backend.OrderRecord{}, err
	}

	c.poller.Refresh()
	return updated, nil
}

// Cancel hard-deletes an order from the backend after the confirmation gate.
// Declining the gate is a no-op reported as ErrDeclined, not a failure. This
// intentionally deletes rather than transitioning to CANCELLED, matching the
// backend contract as deployed.
func (c *TransitionController) Cancel(ctx context.Context, id string, confirm Confirmer) error {
	rec, ok := c.store.Get(id)
	if !ok {
		return ErrUnknownOrder
	}
	if !confirm.Confirm(rec) {
		return ErrDeclined
	}

	if err := c.api.DeleteOrder(ctx, id); err != nil {
		return err
	}

	c.store.Remove(id)
	c.poller.Refresh()
	return nil
}
