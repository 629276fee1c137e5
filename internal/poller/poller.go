// Package poller keeps the order store fresh by polling the backend on a
// fixed cadence, scoped to the operator's active filter.
package poller

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dhaba-pos/console/internal/backend"
	"github.com/dhaba-pos/console/internal/enum"
	"github.com/dhaba-pos/console/internal/store"
)

// Fetcher lists orders for a filter. Satisfied by *backend.Client; narrow
// interface for testability.
type Fetcher interface {
	ListOrdersByFilter(ctx context.Context, filter enum.Filter) ([]backend.OrderRecord, error)
}

// Notifier is told whenever a fetch result was applied to the store.
// Satisfied by *ws.Hub.
type Notifier interface {
	QueueUpdated(filter enum.Filter, orders []backend.OrderRecord)
}

// Poller is an explicitly managed polling task: Start issues an immediate
// fetch and then repeats on the cadence, Stop cancels the timer and
// invalidates any in-flight fetch, Restart does both. Never a free-running
// interval; the owner of the order view owns this object's lifecycle.
//
// Overlap policy: a tick that fires while a fetch is still in flight is
// skipped. Each issued fetch carries a monotonically increasing sequence
// number; the store discards completions older than the last one applied, so
// a slow fetch can never overwrite a newer result.
type Poller struct {
	fetch    Fetcher
	store    *store.Store
	notify   Notifier // optional
	interval time.Duration
	seq      atomic.Uint64

	mu  sync.Mutex
	cur *run
}

// run is the state of one Start..Stop span. A Restart replaces it wholesale,
// so a fetch from a previous span can never pass this span's guards.
type run struct {
	ctx      context.Context
	cancel   context.CancelFunc
	filter   enum.Filter
	refresh  chan struct{}
	inFlight atomic.Bool
}

// New creates a Poller. notify may be nil.
func New(fetch Fetcher, st *store.Store, interval time.Duration, notify Notifier) *Poller {
	return &Poller{fetch: fetch, store: st, notify: notify, interval: interval}
}

// Start scopes the store to filter, fetches immediately, and begins polling.
// Starting while already running restarts.
func (p *Poller) Start(filter enum.Filter) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.store.SetFilter(filter)

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		ctx:     ctx,
		cancel:  cancel,
		filter:  filter,
		refresh: make(chan struct{}, 1),
	}
	p.cur = r
	go p.loop(r)
}

// Stop cancels the pending timer and marks any in-flight fetch obsolete. No
// fetch issued before Stop can mutate the store afterwards.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Poller) stopLocked() {
	if p.cur != nil {
		p.cur.cancel()
		p.cur = nil
	}
}

// Restart cancels the current schedule, fetches immediately under the new
// filter, and resumes the cadence from that point. Used on filter change.
func (p *Poller) Restart(filter enum.Filter) {
	p.Start(filter)
}

// Refresh requests an immediate out-of-cadence fetch, used after mutations
// that must reconcile against the backend. A no-op while stopped or when a
// refresh is already queued.
func (p *Poller) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cur == nil {
		return
	}
	select {
	case p.cur.refresh <- struct{}{}:
	default:
	}
}

func (p *Poller) loop(r *run) {
	p.fetchOnce(r)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			p.fetchOnce(r)
		case <-r.refresh:
			p.fetchOnce(r)
		}
	}
}

// fetchOnce issues a single fetch unless one is already in flight for this
// run, in which case the tick is skipped.
func (p *Poller) fetchOnce(r *run) {
	if !r.inFlight.CompareAndSwap(false, true) {
		log.Printf("poll: fetch in flight, skipping tick (filter=%s)", r.filter)
		return
	}

	seq := p.seq.Add(1)
	go func() {
		defer r.inFlight.Store(false)

		orders, err := p.fetch.ListOrdersByFilter(r.ctx, r.filter)
		if r.ctx.Err() != nil {
			// Stopped or restarted while in flight; drop silently.
			return
		}
		if err != nil {
			log.Printf("ERROR: poll fetch (filter=%s seq=%d): %v", r.filter, seq, err)
			p.store.SetFetchErr(err)
			return
		}
		if p.store.Replace(r.ctx, seq, r.filter, orders) && p.notify != nil {
			p.notify.QueueUpdated(r.filter, orders)
		}
	}()
}
