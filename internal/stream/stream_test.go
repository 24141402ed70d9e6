package stream

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestValueReplaysCurrentOnSubscribe(t *testing.T) {
	v := NewValue(42)

	var got []int
	cancel := v.Subscribe(func(n int) { got = append(got, n) })
	defer cancel()

	require.Equal(t, []int{42}, got)

	v.Set(7)
	assert.Equal(t, []int{42, 7}, got)
	assert.Equal(t, 7, v.Get())
}

func TestValueDeliversInPublishOrder(t *testing.T) {
	v := NewValue(0)

	var got []int
	cancel := v.Subscribe(func(n int) { got = append(got, n) })
	defer cancel()

	for i := 1; i <= 5; i++ {
		v.Set(i)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, got)
}

func TestValueReentrantPublishIsQueued(t *testing.T) {
	v := NewValue(0)

	var got []int
	cancel := v.Subscribe(func(n int) {
		got = append(got, n)
		if n == 1 {
			v.Set(2)
		}
	})
	defer cancel()

	var second []int
	cancel2 := v.Subscribe(func(n int) { second = append(second, n) })
	defer cancel2()

	v.Set(1)

	// The nested publish lands after the outer delivery completes, in
	// order, for every subscriber.
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Equal(t, []int{0, 1, 2}, second)
}

func TestValueSubscribeDuringDispatch(t *testing.T) {
	v := NewValue(0)

	var got, late []int
	var cancelLate func()
	cancel := v.Subscribe(func(n int) {
		got = append(got, n)
		if n == 1 {
			v.Set(2)
			v.Set(3)
			cancelLate = v.Subscribe(func(m int) { late = append(late, m) })
		}
	})
	defer cancel()
	defer func() { cancelLate() }()

	v.Set(1)
	v.Set(4)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	// The late subscriber joined after 3 became current: it replays 3
	// exactly once, skips the queued backlog it predates, and then tracks
	// new values.
	assert.Equal(t, []int{3, 4}, late)
}

func TestValueConcurrentSetAndSubscribe(t *testing.T) {
	const last = 200
	v := NewValue(0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= last; i++ {
			v.Set(i)
		}
	}()

	var mu sync.Mutex
	var got []int
	cancel := v.Subscribe(func(n int) {
		mu.Lock()
		got = append(got, n)
		mu.Unlock()
	})
	defer cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, got)
	// The replay lands before any value published after the subscribe, so
	// the observed sequence never goes backwards.
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1], got[i])
	}
	assert.Equal(t, last, got[len(got)-1])
}

func TestValueCancelStopsDelivery(t *testing.T) {
	v := NewValue("a")

	var got []string
	cancel := v.Subscribe(func(s string) { got = append(got, s) })
	v.Set("b")
	cancel()
	cancel() // idempotent
	v.Set("c")

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestValueCancelFromInsideCallback(t *testing.T) {
	v := NewValue(0)

	var got []int
	var cancel func()
	cancel = v.Subscribe(func(n int) {
		got = append(got, n)
		if n >= 1 {
			cancel()
		}
	})

	v.Set(1)
	v.Set(2)
	assert.Equal(t, []int{0, 1}, got)
}

func TestSubjectDoesNotReplay(t *testing.T) {
	s := NewSubject[string]()
	s.Publish("lost")

	var got []string
	cancel := s.Subscribe(func(msg string) { got = append(got, msg) })
	defer cancel()

	s.Publish("seen")
	assert.Equal(t, []string{"seen"}, got)
}

func TestSubjectSubscribeDuringDispatch(t *testing.T) {
	s := NewSubject[int]()

	var got, late []int
	var cancelLate func()
	cancel := s.Subscribe(func(n int) {
		got = append(got, n)
		if n == 1 {
			s.Publish(2)
			cancelLate = s.Subscribe(func(m int) { late = append(late, m) })
		}
	})
	defer cancel()
	defer func() { cancelLate() }()

	s.Publish(1)
	s.Publish(3)

	assert.Equal(t, []int{1, 2, 3}, got)
	// The queued 2 was published before the late subscriber existed.
	assert.Equal(t, []int{3}, late)
}

func TestSubjectMultipleSubscribers(t *testing.T) {
	s := NewSubject[int]()

	var a, b []int
	cancelA := s.Subscribe(func(n int) { a = append(a, n) })
	defer cancelA()
	cancelB := s.Subscribe(func(n int) { b = append(b, n) })

	s.Publish(1)
	cancelB()
	s.Publish(2)

	assert.Equal(t, []int{1, 2}, a)
	assert.Equal(t, []int{1}, b)
}
