package store

import (
	"context"
	"sync"

	"github.com/dhaba-pos/console/internal/backend"
	"github.com/dhaba-pos/console/internal/enum"
)

// Store is the in-memory cache of the order set last fetched from the
// backend, scoped to the operator's active filter. A fetch under filter F is
// the complete truth for F at that instant, so Replace swaps the whole set,
// never merges. Records keep backend response order; the queue view's stable
// sort relies on that for timestamp ties.
//
// All mutation goes through Store methods. Writers are the polling loop's
// fetch completions and the transition controller's post-mutation
// reconciliation; nothing else.
type Store struct {
	mu       sync.RWMutex
	filter   enum.Filter
	orders   []backend.OrderRecord
	lastSeq  uint64
	fetchErr error
}

// New creates a Store scoped to the given initial filter.
func New(filter enum.Filter) *Store {
	return &Store{filter: filter}
}

// Replace atomically swaps the full order set. The swap is applied only when
// seq is newer than the last applied fetch and filter still matches the
// store's active filter; an older fetch resolving late, or a fetch issued
// under a filter the operator has since left, is discarded. ctx is the fetch
// issuer's context, re-checked inside the critical section so a fetch whose
// schedule was cancelled cannot slip in between the caller's check and the
// swap. Reports whether the swap was applied. A successful swap clears the
// fetch-error banner.
func (s *Store) Replace(ctx context.Context, seq uint64, filter enum.Filter, records []backend.OrderRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx.Err() != nil || seq <= s.lastSeq || filter != s.filter {
		return false
	}
	s.lastSeq = seq
	s.orders = append([]backend.OrderRecord(nil), records...)
	s.fetchErr = nil
	return true
}

// Remove evicts a single record after a destructive mutation succeeded.
// Reports whether the record was present.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.orders {
		if o.ID == id {
			s.orders = append(s.orders[:i:i], s.orders[i+1:]...)
			return true
		}
	}
	return false
}

// Upsert applies a locally confirmed update to one record without waiting
// for the next poll. An unknown id is appended.
func (s *Store) Upsert(rec backend.OrderRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.orders {
		if o.ID == rec.ID {
			s.orders[i] = rec
			return
		}
	}
	s.orders = append(s.orders, rec)
}

// Get returns a record by id.
func (s *Store) Get(id string) (backend.OrderRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return backend.OrderRecord{}, false
}

// Snapshot returns a copy of the cached order set in backend response order.
func (s *Store) Snapshot() []backend.OrderRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]backend.OrderRecord(nil), s.orders...)
}

// Filter returns the active filter.
func (s *Store) Filter() enum.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetFilter switches the active filter. Cached orders from the previous
// filter are dropped immediately so stale entries never linger while the
// first fetch under the new filter is in flight.
func (s *Store) SetFilter(filter enum.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if filter == s.filter {
		return
	}
	s.filter = filter
	s.orders = nil
	s.fetchErr = nil
}

// SetFetchErr records a failed fetch for the operator banner. The cached
// order set is left as-is; operators keep acting on stale-but-valid data.
func (s *Store) SetFetchErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchErr = err
}

// FetchErr returns the last fetch error, or nil after a successful fetch.
func (s *Store) FetchErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchErr
}
