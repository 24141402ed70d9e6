// Package stream provides in-process broadcast primitives for UI-facing
// state. Value retains its latest element and replays it to late
// subscribers; Subject broadcasts without retention.
//
// Dispatch is synchronous and goroutine-free. A publish made from inside a
// subscriber callback is queued and delivered after the current delivery
// completes, so every subscriber observes values in publish order. Each
// queued delivery targets the subscribers present when it was enqueued: a
// subscriber joining mid-dispatch never sees values published before its
// replay, and never sees a value twice.
package stream

import "sync"

// Source is the read side of a Value. Owners hand this out so consumers
// can observe but not publish.
type Source[T any] interface {
	// Get returns the most recently published value.
	Get() T
	// Subscribe delivers the current value first, then every subsequent
	// value in publish order. The replay runs through the same dispatch
	// queue as publishes; when no dispatch is in flight it is
	// synchronous. The returned cancel is idempotent and safe to call
	// from inside the callback.
	Subscribe(fn func(T)) (cancel func())
}

// delivery is one queued value with the subscribers it was addressed to
// at enqueue time.
type delivery[T any] struct {
	value   T
	targets []int
}

// Value is a broadcast slot with a retained last value.
type Value[T any] struct {
	mu          sync.Mutex
	current     T
	subs        map[int]func(T)
	nextID      int
	pending     []delivery[T]
	dispatching bool
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial, subs: make(map[int]func(T))}
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set publishes a new value to all current subscribers. When called from
// inside a subscriber callback the value is queued and delivered once the
// current delivery finishes.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	v.current = next
	v.pending = append(v.pending, delivery[T]{value: next, targets: v.targetsLocked()})
	if v.dispatching {
		v.mu.Unlock()
		return
	}
	v.dispatching = true
	v.drain()
}

func (v *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn

	// The replay is addressed to this subscriber alone and queued behind
	// any in-flight deliveries, none of which target it. It therefore
	// lands exactly once, before any publish made after this point.
	v.pending = append(v.pending, delivery[T]{value: v.current, targets: []int{id}})
	if v.dispatching {
		v.mu.Unlock()
	} else {
		v.dispatching = true
		v.drain()
	}

	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

// drain delivers queued values until none remain. Called with v.mu held;
// releases it around each callback so subscribers may cancel, subscribe,
// or publish again. A target that cancelled while the delivery was queued
// is skipped.
func (v *Value[T]) drain() {
	for len(v.pending) > 0 {
		d := v.pending[0]
		v.pending = v.pending[1:]

		for _, id := range d.targets {
			fn, ok := v.subs[id]
			if !ok {
				continue
			}
			v.mu.Unlock()
			fn(d.value)
			v.mu.Lock()
		}
	}
	v.dispatching = false
	v.mu.Unlock()
}

func (v *Value[T]) targetsLocked() []int {
	ids := make([]int, 0, len(v.subs))
	for id := range v.subs {
		ids = append(ids, id)
	}
	return ids
}

// Subject broadcasts values without retaining one; new subscribers see
// only values published after they subscribe — including values still
// queued from an in-flight dispatch, which were addressed before the
// subscriber existed.
type Subject[T any] struct {
	mu          sync.Mutex
	subs        map[int]func(T)
	nextID      int
	pending     []delivery[T]
	dispatching bool
}

func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{subs: make(map[int]func(T))}
}

func (s *Subject[T]) Publish(value T) {
	s.mu.Lock()
	targets := make([]int, 0, len(s.subs))
	for id := range s.subs {
		targets = append(targets, id)
	}
	s.pending = append(s.pending, delivery[T]{value: value, targets: targets})
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true
	for len(s.pending) > 0 {
		d := s.pending[0]
		s.pending = s.pending[1:]

		for _, id := range d.targets {
			fn, ok := s.subs[id]
			if !ok {
				continue
			}
			s.mu.Unlock()
			fn(d.value)
			s.mu.Lock()
		}
	}
	s.dispatching = false
	s.mu.Unlock()
}

func (s *Subject[T]) Subscribe(fn func(T)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
