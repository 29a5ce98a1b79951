package voice

import (
	"sync"

	"github.com/lucasolinas/agents/core/events"
)

// eventBus delivers session events to any number of subscribers in
// commitment order. Publishing never blocks on a slow subscriber: each
// subscriber owns a FIFO queue drained by a dedicated goroutine, so order
// is preserved per subscriber without coupling subscribers to each other.
type eventBus struct {
	mu     sync.Mutex
	subs   map[int]*busSubscriber
	nextID int
	closed bool
}

type busSubscriber struct {
	mu      sync.Mutex
	queue   []events.Event
	stopped bool

	wake chan struct{}
	done chan struct{}
	out  chan events.Event
}

func newEventBus() *eventBus {
	return &eventBus{subs: map[int]*busSubscriber{}}
}

// subscribe registers a new subscriber and returns its delivery channel and
// a cancel function. The channel is closed once the bus shuts down and all
// queued events have been delivered, or when cancel is called.
func (b *eventBus) subscribe() (<-chan events.Event, func()) {
	sub := &busSubscriber{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		out:  make(chan events.Event),
	}
	go sub.pump()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		sub.stop()
		return sub.out, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = sub

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			sub.cancel()
		})
	}
	return sub.out, cancel
}

// publish appends the event to every subscriber's queue. Events published
// after close are dropped.
func (b *eventBus) publish(event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, sub := range b.subs {
		sub.push(event)
	}
}

// close stops accepting events. Subscribers still receive everything queued
// before the call, then their channels are closed.
func (b *eventBus) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, sub := range b.subs {
		sub.stop()
	}
	b.subs = map[int]*busSubscriber{}
}

func (s *busSubscriber) push(event events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.queue = append(s.queue, event)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// stop lets the pump drain what is queued, then close the channel.
func (s *busSubscriber) stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// cancel tears the subscriber down immediately, discarding queued events.
func (s *busSubscriber) cancel() {
	s.mu.Lock()
	s.stopped = true
	s.queue = nil
	s.mu.Unlock()
	close(s.done)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *busSubscriber) pump() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			stopped := s.stopped
			s.mu.Unlock()
			if stopped {
				close(s.out)
				return
			}
			select {
			case <-s.wake:
			case <-s.done:
				close(s.out)
				return
			}
			continue
		}
		event := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- event:
		case <-s.done:
			close(s.out)
			return
		}
	}
}
