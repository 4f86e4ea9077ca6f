// Package bus implements a generic fan-out topic: one publisher, any number
// of independent subscribers. Delivery preserves publish order per subscriber
// and a subscriber only sees values published after it subscribed.
package bus

import "sync"

// Hub is a single broadcast topic carrying values of type T.
type Hub[T any] struct {
	mu   sync.Mutex
	subs map[*Subscription[T]]struct{}
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[*Subscription[T]]struct{})}
}

// Publish delivers a copy of v to every current subscriber. It only appends
// to per-subscriber queues, so a stalled consumer never blocks the publisher.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		sub.push(v)
	}
}

// Subscribe registers a new listener. There is no backlog replay: the first
// value the subscription yields is the first one published after this call.
func (h *Hub[T]) Subscribe() *Subscription[T] {
	sub := &Subscription[T]{
		hub:  h,
		wake: make(chan struct{}, 1),
		out:  make(chan T),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	go sub.pump()
	return sub
}

func (h *Hub[T]) unsubscribe(sub *Subscription[T]) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}

// Subscription is one listener's unbounded FIFO view of a topic. Values pile
// up in the queue until the consumer drains C; nothing is dropped while the
// subscription is open.
type Subscription[T any] struct {
	hub   *Hub[T]
	mu    sync.Mutex
	queue []T
	wake  chan struct{}
	out   chan T
	done  chan struct{}
	once  sync.Once
}

// C is the channel the subscription's values arrive on. It is closed after
// Close once any values already handed to the pump are delivered or dropped.
func (s *Subscription[T]) C() <-chan T { return s.out }

// Close detaches the subscription from its topic. Queued but unconsumed
// values are discarded; they are not re-delivered on a later subscribe.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
		close(s.done)
	})
}

func (s *Subscription[T]) push(v T) {
	s.mu.Lock()
	s.queue = append(s.queue, v)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// pump moves queued values to the out channel one at a time, keeping the
// publisher decoupled from however slowly the consumer reads.
func (s *Subscription[T]) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		batch := s.queue
		s.queue = nil
		s.mu.Unlock()

		for _, v := range batch {
			select {
			case s.out <- v:
			case <-s.done:
				return
			}
		}

		select {
		case <-s.wake:
		case <-s.done:
			return
		}
	}
}
