package stream

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SubscribeNotifyUnsubscribe(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	var hits atomic.Int64
	handle, err := n.Subscribe([]string{"todos"}, func() { hits.Add(1) })
	require.NoError(t, err)

	n.Notify("todos")
	assert.Equal(t, int64(1), hits.Load())

	n.Notify("categories")
	assert.Equal(t, int64(1), hits.Load(), "unrelated tables do not signal")

	// One signal per notification even when several named tables match.
	n.Notify("todos", "todos")
	assert.Equal(t, int64(2), hits.Load())

	n.Unsubscribe(handle)
	n.Notify("todos")
	assert.Equal(t, int64(2), hits.Load())

	n.Unsubscribe(handle) // idempotent
}

func TestNotifier_MultipleTables(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	var hits atomic.Int64
	_, err := n.Subscribe([]string{"todos", "categories"}, func() { hits.Add(1) })
	require.NoError(t, err)

	n.Notify("categories")
	n.Notify("todos")
	assert.Equal(t, int64(2), hits.Load())

	// A write touching both dependency tables signals once, not twice.
	n.Notify("todos", "categories")
	assert.Equal(t, int64(3), hits.Load())
}

func TestNotifier_SignalMaySubscribe(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	// Signals run outside the registry lock, so a callback can re-enter.
	var nested atomic.Bool
	_, err := n.Subscribe([]string{"todos"}, func() {
		if _, err := n.Subscribe([]string{"other"}, func() {}); err == nil {
			nested.Store(true)
		}
	})
	require.NoError(t, err)

	n.Notify("todos")
	assert.True(t, nested.Load())
}

func TestNotifier_ClosedRejectsSubscribe(t *testing.T) {
	n := NewNotifier()
	require.NoError(t, n.Close())

	_, err := n.Subscribe([]string{"todos"}, func() {})
	assert.Error(t, err)

	n.Notify("todos") // no-op, must not panic
}

func TestNotifier_ConcurrentNotify(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	var hits atomic.Int64
	_, err := n.Subscribe([]string{"todos"}, func() { hits.Add(1) })
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Notify("todos")
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(32), hits.Load())
}

func TestNotifier_RunExecutesAndWaits(t *testing.T) {
	n := NewNotifierSize(2)
	defer n.Close()

	ran := false
	n.run(func() { ran = true })
	assert.True(t, ran, "run returns only after the task completed")
}

func TestNotifier_RunFallsBackInlineAfterClose(t *testing.T) {
	n := NewNotifier()
	require.NoError(t, n.Close())

	ran := false
	n.run(func() { ran = true })
	assert.True(t, ran)
}
