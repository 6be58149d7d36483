package daraja

import "sync"

// State is the single UI-observable snapshot the driver reduces into.
// It is replaced wholesale on every reduction, never partially mutated.
type State struct {
	Message   string `json:"message"`
	IsLoading bool   `json:"isLoading"`
}

// subscriber channels hold a bounded backlog; when a subscriber lags, the
// oldest snapshot is dropped so the reducer never blocks on a slow reader.
const subscriberBuffer = 64

// Store holds the current State and fans every reduction out to subscribers.
// All writes go through Reduce, which applies the reducer under a single
// mutex so two in-flight flows can interleave messages but never corrupt the
// snapshot. New subscribers immediately receive the latest value.
type Store struct {
	mu      sync.Mutex
	current State
	subs    map[int]chan State
	nextID  int
}

func NewStore() *Store {
	return &Store{subs: make(map[int]chan State)}
}

// Current returns the latest snapshot.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Reduce applies fn to the current snapshot and publishes the result.
// The whole read-apply-publish step runs under the store lock, so every
// observed value is a well-formed snapshot produced by exactly one reducer.
func (s *Store) Reduce(fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = fn(s.current)
	for _, ch := range s.subs {
		s.send(ch, s.current)
	}
	return s.current
}

// Subscribe registers a listener. The returned channel replays the latest
// snapshot immediately and then receives every subsequent reduction. The
// cancel func unregisters the listener and closes the channel.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan State, subscriberBuffer)
	ch <- s.current
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// send delivers without ever blocking: a full subscriber loses its oldest
// value, keeping latest-value semantics for laggards.
func (s *Store) send(ch chan State, st State) {
	for {
		select {
		case ch <- st:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
