package stream

import (
	"context"
	"sync"
)

// Runner re-executes a compiled query. It returns the materialized result,
// a fingerprint of that result for duplicate suppression, and any execution
// error.
type Runner[T any] func(ctx context.Context) (T, string, error)

// Subscription is a live binding between a compiled query and a delivery
// channel. Results arrive on Updates; the channel is closed when the
// subscription terminates, after which Err reports why (nil for plain
// cancellation).
type Subscription[T any] struct {
	notifier *Notifier
	handle   string

	// signal coalesces notifications: size one, non-blocking send. Rapid
	// successive writes collapse into a single pending re-execution, and
	// re-executions of this subscription never overlap.
	signal  chan struct{}
	done    chan struct{}
	updates chan T

	cancelOnce sync.Once

	// err is written by the loop goroutine before updates is closed; the
	// channel close orders it before any Err call made after the close.
	err error
}

// Watch compiles the reactive contract around run:
//
//  1. run executes once immediately; its failure fails Watch itself.
//  2. The subscription registers with the notifier for the given tables.
//  3. The initial result is delivered on Updates.
//  4. Every relevant notification triggers a serialized re-execution; the
//     new result is delivered only when its fingerprint differs from the
//     last delivered one.
//
// Delivery blocks on a slow consumer; cancellation (Cancel or ctx) always
// wins over a blocked delivery. A run error terminates the stream: Updates
// closes and Err returns the error.
func Watch[T any](ctx context.Context, n *Notifier, tables []string, run Runner[T]) (*Subscription[T], error) {
	s := &Subscription[T]{
		notifier: n,
		signal:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		updates:  make(chan T),
	}

	var (
		initial T
		lastFP  string
		runErr  error
	)
	n.run(func() { initial, lastFP, runErr = run(ctx) })
	if runErr != nil {
		return nil, runErr
	}

	handle, err := n.Subscribe(tables, func() {
		select {
		case s.signal <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return nil, err
	}
	s.handle = handle

	go s.loop(ctx, run, initial, lastFP)
	return s, nil
}

// Updates returns the delivery channel. It closes when the subscription
// terminates for any reason.
func (s *Subscription[T]) Updates() <-chan T { return s.updates }

// Err reports why the subscription terminated. Valid once Updates is closed;
// nil means cancellation rather than failure.
func (s *Subscription[T]) Err() error { return s.err }

// Cancel detaches the subscription from the notifier immediately and stops
// the loop. Idempotent. An in-flight re-execution may complete; its result
// is discarded, never delivered.
func (s *Subscription[T]) Cancel() {
	s.cancelOnce.Do(func() {
		s.notifier.Unsubscribe(s.handle)
		close(s.done)
	})
}

func (s *Subscription[T]) loop(ctx context.Context, run Runner[T], initial T, lastFP string) {
	defer close(s.updates)
	defer s.notifier.Unsubscribe(s.handle)

	// Initial delivery.
	select {
	case s.updates <- initial:
	case <-s.done:
		return
	case <-ctx.Done():
		s.err = ctx.Err()
		return
	}

	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			s.err = ctx.Err()
			return
		case <-s.signal:
		}

		var (
			next   T
			fp     string
			runErr error
		)
		s.notifier.run(func() { next, fp, runErr = run(ctx) })

		// A cancellation that raced the re-execution discards the result.
		select {
		case <-s.done:
			return
		default:
		}

		if runErr != nil {
			s.err = runErr
			return
		}
		if fp == lastFP {
			continue
		}

		select {
		case s.updates <- next:
			lastFP = fp
		case <-s.done:
			return
		case <-ctx.Done():
			s.err = ctx.Err()
			return
		}
	}
}
