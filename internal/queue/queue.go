// Package queue derives the operator work-queue presentation from a store
// snapshot. It is read-only: inputs are never mutated.
package queue

import (
	"sort"

	"github.com/dhaba-pos/console/internal/backend"
)

// FIFO returns the orders sorted ascending by creation time, oldest first.
// The sort is stable, so orders sharing a timestamp keep the backend's
// response order.
func FIFO(orders []backend.OrderRecord) []backend.OrderRecord {
	out := append([]backend.OrderRecord(nil), orders...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Recent returns up to n orders sorted descending by creation time, newest
// first. This is the dashboard's "recent delivered" ordering, the inverse of
// the FIFO queue.
func Recent(orders []backend.OrderRecord, n int) []backend.OrderRecord {
	out := append([]backend.OrderRecord(nil), orders...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
