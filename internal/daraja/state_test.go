package daraja

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreInitialState(t *testing.T) {
	s := NewStore()
	assert.Equal(t, State{Message: "", IsLoading: false}, s.Current())
}

func TestStoreSubscribeReplaysLatest(t *testing.T) {
	s := NewStore()
	s.Reduce(func(State) State { return State{Message: "hello", IsLoading: true} })

	ch, cancel := s.Subscribe()
	defer cancel()

	select {
	case st := <-ch:
		assert.Equal(t, State{Message: "hello", IsLoading: true}, st)
	case <-time.After(time.Second):
		t.Fatal("no replayed value")
	}
}

func TestStoreBroadcastsToAllSubscribers(t *testing.T) {
	s := NewStore()

	a, cancelA := s.Subscribe()
	b, cancelB := s.Subscribe()
	defer cancelA()
	defer cancelB()

	<-a // initial replay
	<-b

	s.Reduce(func(State) State { return State{Message: "one", IsLoading: true} })
	s.Reduce(func(State) State { return State{Message: "two", IsLoading: false} })

	for _, ch := range []<-chan State{a, b} {
		assert.Equal(t, "one", (<-ch).Message)
		assert.Equal(t, "two", (<-ch).Message)
	}
}

func TestStoreCancelClosesChannel(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe()
	<-ch
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	// Cancel twice is harmless, and reductions keep working.
	cancel()
	s.Reduce(func(State) State { return State{Message: "after", IsLoading: false} })
}

// Concurrent reducers must never produce a torn snapshot: every observed
// value is exactly one of the states some reducer wrote.
func TestStoreConcurrentReductionsAtomic(t *testing.T) {
	s := NewStore()
	const writers = 16
	const perWriter = 50

	valid := make(map[State]bool, writers)
	for i := 0; i < writers; i++ {
		valid[State{Message: fmt.Sprintf("writer-%d", i), IsLoading: i%2 == 0}] = true
	}
	valid[State{}] = true // initial

	ch, cancel := s.Subscribe()
	defer cancel()

	done := make(chan struct{})
	var observed []State
	go func() {
		defer close(done)
		for st := range ch {
			observed = append(observed, st)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			next := State{Message: fmt.Sprintf("writer-%d", i), IsLoading: i%2 == 0}
			for j := 0; j < perWriter; j++ {
				s.Reduce(func(State) State { return next })
			}
		}(i)
	}
	wg.Wait()
	cancel()
	<-done

	require.NotEmpty(t, observed)
	for _, st := range observed {
		assert.True(t, valid[st], "torn state observed: %+v", st)
	}
}
