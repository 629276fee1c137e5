package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dhaba-pos/console/internal/backend"
	"github.com/dhaba-pos/console/internal/enum"
	"github.com/dhaba-pos/console/internal/store"
)

// stubFetcher records calls and delegates each to handler, keyed by call
// number (1-based).
type stubFetcher struct {
	mu      sync.Mutex
	calls   []enum.Filter
	handler func(call int, ctx context.Context, filter enum.Filter) ([]backend.OrderRecord, error)
}

func (f *stubFetcher) ListOrdersByFilter(ctx context.Context, filter enum.Filter) ([]backend.OrderRecord, error) {
	f.mu.Lock()
	f.calls = append(f.calls, filter)
	n := len(f.calls)
	f.mu.Unlock()
	return f.handler(n, ctx, filter)
}

func (f *stubFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type stubNotifier struct {
	mu     sync.Mutex
	events int
}

func (n *stubNotifier) QueueUpdated(enum.Filter, []backend.OrderRecord) {
	n.mu.Lock()
	n.events++
	n.mu.Unlock()
}

func (n *stubNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events
}

func order(id string) backend.OrderRecord {
	return backend.OrderRecord{ID: id, Status: enum.OrderStatusPending}
}

func waitFor(t *testing.T, msg string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestStart_FetchesImmediately(t *testing.T) {
	fetch := &stubFetcher{handler: func(int, context.Context, enum.Filter) ([]backend.OrderRecord, error) {
		return []backend.OrderRecord{order("a")}, nil
	}}
	st := store.New(enum.FilterAll)
	p := New(fetch, st, time.Hour, nil)
	defer p.Stop()

	p.Start(enum.Filter(enum.OrderStatusPending))

	waitFor(t, "initial fetch never applied", func() bool { return len(st.Snapshot()) == 1 })
	if fetch.calls[0] != enum.Filter(enum.OrderStatusPending) {
		t.Errorf("fetched filter = %s", fetch.calls[0])
	}
	if st.Filter() != enum.Filter(enum.OrderStatusPending) {
		t.Errorf("store filter = %s", st.Filter())
	}
}

func TestTicks_RepeatOnCadence(t *testing.T) {
	fetch := &stubFetcher{handler: func(int, context.Context, enum.Filter) ([]backend.OrderRecord, error) {
		return nil, nil
	}}
	st := store.New(enum.FilterAll)
	p := New(fetch, st, 20*time.Millisecond, nil)
	defer p.Stop()

	p.Start(enum.FilterAll)

	waitFor(t, "expected at least three fetches", func() bool { return fetch.count() >= 3 })
}

func TestFetchFailure_KeepsLastKnownGood(t *testing.T) {
	fetch := &stubFetcher{handler: func(call int, _ context.Context, _ enum.Filter) ([]backend.OrderRecord, error) {
		if call == 1 {
			return []backend.OrderRecord{order("a")}, nil
		}
		return nil, errors.New("backend down")
	}}
	st := store.New(enum.FilterAll)
	p := New(fetch, st, 20*time.Millisecond, nil)
	defer p.Stop()

	p.Start(enum.FilterAll)

	waitFor(t, "error banner never raised", func() bool { return st.FetchErr() != nil })

	snap := st.Snapshot()
	if len(snap) != 1 || snap[0].ID != "a" {
		t.Fatalf("snapshot = %+v; failed fetch must not discard orders", snap)
	}
}

func TestOverlappingTick_IsSkipped(t *testing.T) {
	release := make(chan struct{})
	fetch := &stubFetcher{handler: func(call int, _ context.Context, _ enum.Filter) ([]backend.OrderRecord, error) {
		if call == 1 {
			<-release
		}
		return []backend.OrderRecord{order("a")}, nil
	}}
	st := store.New(enum.FilterAll)
	p := New(fetch, st, time.Hour, nil)
	defer p.Stop()

	p.Start(enum.FilterAll)
	waitFor(t, "first fetch never issued", func() bool { return fetch.count() == 1 })

	// A tick (here forced via Refresh) while the fetch is in flight must not
	// start a second concurrent fetch.
	p.Refresh()
	time.Sleep(50 * time.Millisecond)
	if got := fetch.count(); got != 1 {
		t.Fatalf("fetch count = %d, want 1 (overlap must be skipped)", got)
	}

	close(release)
	waitFor(t, "blocked fetch never applied", func() bool { return len(st.Snapshot()) == 1 })

	// Once idle again, refresh fetches.
	p.Refresh()
	waitFor(t, "refresh after idle never fetched", func() bool { return fetch.count() == 2 })
}

func TestStop_DropsLateResponse(t *testing.T) {
	release := make(chan struct{})
	fetch := &stubFetcher{handler: func(int, context.Context, enum.Filter) ([]backend.OrderRecord, error) {
		<-release
		return []backend.OrderRecord{order("late")}, nil
	}}
	st := store.New(enum.FilterAll)
	p := New(fetch, st, time.Hour, nil)

	p.Start(enum.FilterAll)
	waitFor(t, "fetch never issued", func() bool { return fetch.count() == 1 })

	p.Stop()
	close(release)

	time.Sleep(50 * time.Millisecond)
	if len(st.Snapshot()) != 0 {
		t.Fatal("a response arriving after Stop must be silently dropped")
	}
	if st.FetchErr() != nil {
		t.Fatal("dropped response must not raise the error banner either")
	}
}

func TestRestart_SwitchesFilterAndDropsOldFetch(t *testing.T) {
	release := make(chan struct{})
	fetch := &stubFetcher{handler: func(call int, _ context.Context, filter enum.Filter) ([]backend.OrderRecord, error) {
		if call == 1 {
			<-release
			return []backend.OrderRecord{order("stale")}, nil
		}
		return []backend.OrderRecord{order("fresh")}, nil
	}}
	st := store.New(enum.FilterAll)
	p := New(fetch, st, time.Hour, nil)
	defer p.Stop()

	p.Start(enum.Filter(enum.OrderStatusPending))
	waitFor(t, "first fetch never issued", func() bool { return fetch.count() == 1 })

	p.Restart(enum.FilterAll)
	waitFor(t, "restart fetch never applied", func() bool {
		snap := st.Snapshot()
		return len(snap) == 1 && snap[0].ID == "fresh"
	})

	// The fetch issued before the restart resolves late; its result must
	// not overwrite the newer one.
	close(release)
	time.Sleep(50 * time.Millisecond)

	snap := st.Snapshot()
	if len(snap) != 1 || snap[0].ID != "fresh" {
		t.Fatalf("snapshot = %+v, want the post-restart result retained", snap)
	}
	if fetch.calls[1] != enum.FilterAll {
		t.Errorf("restart fetched filter = %s", fetch.calls[1])
	}
}

func TestNotifier_ToldOnApply(t *testing.T) {
	fetch := &stubFetcher{handler: func(int, context.Context, enum.Filter) ([]backend.OrderRecord, error) {
		return []backend.OrderRecord{order("a")}, nil
	}}
	st := store.New(enum.FilterAll)
	notify := &stubNotifier{}
	p := New(fetch, st, time.Hour, notify)
	defer p.Stop()

	p.Start(enum.FilterAll)

	waitFor(t, "notifier never told", func() bool { return notify.count() >= 1 })
}

func TestRefresh_WhileStopped_IsANoOp(t *testing.T) {
	fetch := &stubFetcher{handler: func(int, context.Context, enum.Filter) ([]backend.OrderRecord, error) {
		return nil, nil
	}}
	p := New(fetch, store.New(enum.FilterAll), time.Hour, nil)

	p.Refresh()

	time.Sleep(20 * time.Millisecond)
	if fetch.count() != 0 {
		t.Fatal("refresh while stopped must not fetch")
	}
}
