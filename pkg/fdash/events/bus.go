package events

import (
	"log/slog"
	"sync"
)

// Bus fans published actions out to subscribers. Each subscriber has its own
// queue, so a slow consumer never blocks Publish or other subscribers.
type Bus struct {
	logger *slog.Logger

	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	closed bool
}

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{logger: logger, subs: make(map[uint64]*Subscription)}
}

// Publish delivers a to every subscriber whose filter accepts it.
// Publishing on a closed bus is a no-op.
func (b *Bus) Publish(a Action) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		b.logger.Debug("publish on closed bus dropped", "type", a.Type())
		return
	}
	for _, s := range b.subs {
		if s.accepts(a.Type()) {
			s.q.Send(a)
		}
	}
}

// Subscribe registers a subscriber. With no types it receives every action;
// otherwise only the listed types.
func (b *Bus) Subscribe(filter ...Type) *Subscription {
	s := &Subscription{
		bus:  b,
		q:    newQueue[Action](16),
		out:  make(chan Action),
		done: make(chan struct{}),
	}
	if len(filter) > 0 {
		s.filter = make(map[Type]struct{}, len(filter))
		for _, t := range filter {
			s.filter[t] = struct{}{}
		}
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		s.once.Do(func() {
			close(s.done)
			s.q.Close()
		})
		close(s.out)
		return s
	}
	s.id = b.nextID
	b.nextID++
	b.subs[s.id] = s
	b.mu.Unlock()

	go s.pump()
	return s
}

// Close ends every subscription. Queued actions are still delivered to
// subscribers that keep reading.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.subs = map[uint64]*Subscription{}
	b.mu.Unlock()

	for _, s := range subs {
		s.q.Close()
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}

// Subscription is one consumer of the bus.
type Subscription struct {
	id     uint64
	bus    *Bus
	filter map[Type]struct{}
	q      *queue[Action]
	out    chan Action

	once sync.Once
	done chan struct{}
}

// C returns the delivery channel. It is closed when the subscription ends.
func (s *Subscription) C() <-chan Action { return s.out }

// Stats reports the subscriber's queue state.
func (s *Subscription) Stats() QueueStats { return s.q.Stats() }

// Close unsubscribes and drops anything still queued.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.remove(s.id)
		close(s.done)
		s.q.Close()
	})
}

func (s *Subscription) accepts(t Type) bool {
	if s.filter == nil {
		return true
	}
	_, ok := s.filter[t]
	return ok
}

func (s *Subscription) pump() {
	defer close(s.out)
	for {
		a, ok := s.q.Receive()
		if !ok {
			return
		}
		select {
		case s.out <- a:
		case <-s.done:
			return
		}
	}
}
