package stream

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// defaultWorkers bounds concurrent re-executions across all subscriptions.
const defaultWorkers = 8

// Notifier broadcasts table-mutation events to registered subscriptions.
//
// The subscriber registry is the only shared mutable structure in this layer
// and is guarded by a single mutex: a Subscribe that returns before a Notify
// begins is guaranteed to observe that notification, and Unsubscribe removes
// the registration under the same lock so a concurrent delivery either
// completes or never starts for that handle.
//
// A Notifier is an explicitly constructed, explicitly owned service object.
// It is created with the database handle and torn down with it; there is no
// package-level singleton.
type Notifier struct {
	mu     sync.Mutex
	subs   map[string]*registration
	closed bool

	pool *ants.Pool
}

type registration struct {
	tables map[string]struct{}
	signal func()
}

// NewNotifier creates a notifier with the default re-execution worker bound.
func NewNotifier() *Notifier {
	return NewNotifierSize(defaultWorkers)
}

// NewNotifierSize creates a notifier whose re-execution pool is bounded to
// the given number of workers.
func NewNotifierSize(workers int) *Notifier {
	pool, err := ants.NewPool(workers)
	if err != nil {
		// Only reachable with a non-positive size; fall back to the default.
		pool, _ = ants.NewPool(defaultWorkers)
	}
	return &Notifier{
		subs: make(map[string]*registration),
		pool: pool,
	}
}

// Subscribe registers interest in a set of tables. The signal callback is
// invoked, possibly concurrently, whenever any of the tables is reported
// mutated; it must not block. The returned handle is passed to Unsubscribe.
func (n *Notifier) Subscribe(tables []string, signal func()) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return "", fmt.Errorf("notifier is closed")
	}
	set := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		set[t] = struct{}{}
	}
	// UUIDv7 handles sort by creation time, which keeps diagnostics readable.
	handle := uuid.Must(uuid.NewV7()).String()
	n.subs[handle] = &registration{tables: set, signal: signal}
	return handle, nil
}

// Unsubscribe removes a registration. Unknown handles are a no-op, so the
// call is idempotent.
func (n *Notifier) Unsubscribe(handle string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, handle)
}

// Notify reports that the named tables may have been mutated. Called by the
// write path after every successful statement or batch, once per distinct
// table.
//
// Signals are collected under the lock but invoked outside it, so a signal
// callback may itself subscribe or unsubscribe without deadlocking.
func (n *Notifier) Notify(tables ...string) {
	n.mu.Lock()
	var signals []func()
	for _, reg := range n.subs {
		for _, t := range tables {
			if _, ok := reg.tables[t]; ok {
				signals = append(signals, reg.signal)
				break
			}
		}
	}
	n.mu.Unlock()

	for _, signal := range signals {
		signal()
	}
}

// run executes task on the bounded worker pool and waits for it to finish.
// If the pool rejects the task (released during shutdown), the task runs
// inline; callers still get per-subscription serialization either way.
func (n *Notifier) run(task func()) {
	done := make(chan struct{})
	err := n.pool.Submit(func() {
		defer close(done)
		task()
	})
	if err != nil {
		task()
		return
	}
	<-done
}

// Close tears the notifier down: the registry is cleared, future Subscribe
// calls fail, and the worker pool is released. Active subscriptions stop
// receiving signals; their watch loops exit on cancellation.
func (n *Notifier) Close() error {
	n.mu.Lock()
	n.closed = true
	n.subs = make(map[string]*registration)
	n.mu.Unlock()
	n.pool.Release()
	return nil
}
