// Package observable implements a mutable value that notifies subscribers of
// every change, replaying the current value to each new subscriber first.
//
// Concurrency guarantees:
// - Get/Set/Subscribe are safe for concurrent use.
// - Callbacks run synchronously on the goroutine calling Set, outside the lock,
//   in subscription order. A callback must not call Set or Subscribe on the
//   same Value.
// - Watch channels never block Set: they hold at most one pending value and a
//   newer value replaces an unread one.
package observable

import (
	"context"
	"sync"
)

// Reader is the read side of a Value, handed to code that may observe but not change it.
type Reader[T any] interface {
	Get() T
	Subscribe(fn func(T)) (cancel func())
	Watch(ctx context.Context) <-chan T
}

var _ Reader[int] = (*Value[int])(nil)

// Value is a replay-latest observable cell.
type Value[T any] struct {
	mu     sync.Mutex
	cur    T
	nextID uint64
	subs   map[uint64]func(T)
	order  []uint64
	// notify serializes deliveries so subscribers observe Sets in order.
	notify sync.Mutex
}

// New returns a Value holding initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{cur: initial, subs: make(map[uint64]func(T))}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

// Set stores val and delivers it to every subscriber.
func (v *Value[T]) Set(val T) {
	v.notify.Lock()
	defer v.notify.Unlock()

	v.mu.Lock()
	v.cur = val
	fns := v.snapshot()
	v.mu.Unlock()

	for _, fn := range fns {
		fn(val)
	}
}

// Subscribe calls fn with the current value, then with every later value.
// The returned function cancels the subscription; it is safe to call twice.
func (v *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	v.notify.Lock()
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	v.order = append(v.order, id)
	cur := v.cur
	v.mu.Unlock()

	fn(cur)
	v.notify.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { v.unsubscribe(id) })
	}
}

// Watch returns a channel that receives the current value and then changes until
// ctx is done, after which the channel is closed. Readers that fall behind only
// see the latest value.
//
// ctx must be cancellable: Watch starts a goroutine that unsubscribes and
// closes the channel only when ctx is done, so context.Background leaks it.
func (v *Value[T]) Watch(ctx context.Context) <-chan T {
	out := make(chan T, 1)
	var mu sync.Mutex
	closed := false

	cancel := v.Subscribe(func(val T) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case out <- val:
		default:
			// drop the stale pending value, keep the newest
			select {
			case <-out:
			default:
			}
			out <- val
		}
	})

	go func() {
		<-ctx.Done()
		cancel()
		mu.Lock()
		closed = true
		close(out)
		mu.Unlock()
	}()
	return out
}

func (v *Value[T]) snapshot() []func(T) {
	fns := make([]func(T), 0, len(v.order))
	for _, id := range v.order {
		fns = append(fns, v.subs[id])
	}
	return fns
}

func (v *Value[T]) unsubscribe(id uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	delete(v.subs, id)
	for i, oid := range v.order {
		if oid == id {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
}
