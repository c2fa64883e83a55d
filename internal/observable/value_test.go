package observable

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValue_SubscribeReplaysCurrentThenChanges(t *testing.T) {
	t.Parallel()

	v := New(false)
	v.Set(true)

	var got []bool
	cancel := v.Subscribe(func(b bool) { got = append(got, b) })

	v.Set(false)
	v.Set(true)
	cancel()
	v.Set(false)

	require.Equal(t, []bool{true, false, true}, got)
	require.False(t, v.Get())
}

func TestValue_EverySetIsDelivered(t *testing.T) {
	t.Parallel()

	v := New(0)
	var got []int
	defer v.Subscribe(func(n int) { got = append(got, n) })()

	// repeated values are still changes from the caller's point of view
	v.Set(1)
	v.Set(1)
	v.Set(2)

	require.Equal(t, []int{0, 1, 1, 2}, got)
}

func TestValue_CancelIsIdempotent(t *testing.T) {
	t.Parallel()

	v := New("a")
	calls := 0
	cancel := v.Subscribe(func(string) { calls++ })
	cancel()
	cancel()
	v.Set("b")

	require.Equal(t, 1, calls)
}

func TestValue_MultipleSubscribersInOrder(t *testing.T) {
	t.Parallel()

	v := New(0)
	var order []string
	defer v.Subscribe(func(n int) { order = append(order, "first") })()
	defer v.Subscribe(func(n int) { order = append(order, "second") })()

	order = nil
	v.Set(1)
	require.Equal(t, []string{"first", "second"}, order)
}

func TestValue_WatchDeliversLatestAndCloses(t *testing.T) {
	t.Parallel()

	v := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	ch := v.Watch(ctx)

	require.Equal(t, 1, <-ch)

	// no reader between these: only the newest survives
	v.Set(2)
	v.Set(3)
	require.Equal(t, 3, <-ch)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	// Set after close must not panic
	v.Set(4)
}

func TestValue_ConcurrentSetAndGet(t *testing.T) {
	t.Parallel()

	v := New(0)
	var mu sync.Mutex
	seen := 0
	defer v.Subscribe(func(int) {
		mu.Lock()
		seen++
		mu.Unlock()
	})()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			v.Set(n)
			_ = v.Get()
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 51, seen)
}
