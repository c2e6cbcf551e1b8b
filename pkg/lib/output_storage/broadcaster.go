package output_storage

import (
	"fmt"
	"sync"
)

// MaxQueuedMessages bounds the messages held for one subscriber beyond its
// channel capacity. A subscriber that falls further behind loses the oldest.
const MaxQueuedMessages = 1024

// Broadcaster fans every published message out to all subscribers.
//
// Each subscriber owns a bounded queue drained by its own goroutine, so
// Publish never blocks on a slow reader. Every subscriber observes messages
// in publish order, with gaps only where its queue overflowed.
type Broadcaster[T any] struct {
	mu          sync.Mutex
	subscribers map[<-chan T]*subscriber[T]
	stopped     bool
}

type subscriber[T any] struct {
	out chan T

	mu      sync.Mutex
	queue   []T
	dropped int
	closing bool // drain the queue, then close out

	wake chan struct{}
	quit chan struct{} // close out without draining
}

func RunNewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{
		subscribers: make(map[<-chan T]*subscriber[T]),
	}
}

// Subscribe registers a new subscriber. capacity sizes the returned
// channel; up to MaxQueuedMessages more wait behind it.
func (broadcaster *Broadcaster[T]) Subscribe(capacity int) (<-chan T, error) {
	if capacity < 0 {
		capacity = 0
	}
	s := &subscriber[T]{
		out:  make(chan T, capacity),
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
	}

	broadcaster.mu.Lock()
	if broadcaster.stopped {
		broadcaster.mu.Unlock()
		logger.Println("Can't subscribe")
		return nil, fmt.Errorf("failed to subscribe: broadcaster is stopped")
	}
	broadcaster.subscribers[s.out] = s
	broadcaster.mu.Unlock()

	go s.pump()
	logger.Println("New subscriber")

	return s.out, nil
}

// Unsubscribe removes the subscriber and closes its channel. Undelivered
// messages are discarded.
func (broadcaster *Broadcaster[T]) Unsubscribe(ch <-chan T) {
	broadcaster.mu.Lock()
	s, ok := broadcaster.subscribers[ch]
	delete(broadcaster.subscribers, ch)
	broadcaster.mu.Unlock()
	if !ok {
		return
	}
	close(s.quit)
	logger.Println("Unsubscribed")
}

// Publish enqueues msg for every current subscriber.
func (broadcaster *Broadcaster[T]) Publish(msg T) {
	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	if broadcaster.stopped {
		return
	}
	for _, s := range broadcaster.subscribers {
		s.push(msg)
	}
}

// Len returns the number of subscribers.
func (broadcaster *Broadcaster[T]) Len() int {
	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	return len(broadcaster.subscribers)
}

// Stop rejects further publishes and subscriptions. Subscribers receive what
// is already queued, then their channels are closed.
func (broadcaster *Broadcaster[T]) Stop() {
	broadcaster.mu.Lock()
	if broadcaster.stopped {
		broadcaster.mu.Unlock()
		return
	}
	broadcaster.stopped = true
	subscribers := broadcaster.subscribers
	broadcaster.subscribers = make(map[<-chan T]*subscriber[T])
	broadcaster.mu.Unlock()

	for _, s := range subscribers {
		s.mu.Lock()
		s.closing = true
		s.mu.Unlock()
		s.signal()
	}
	logger.Println("Stopping broadcaster")
}

func (s *subscriber[T]) push(msg T) {
	s.mu.Lock()
	if len(s.queue) >= MaxQueuedMessages {
		var zero T
		s.queue[0] = zero
		s.queue = s.queue[1:]
		s.dropped++
	}
	s.queue = append(s.queue, msg)
	s.mu.Unlock()
	s.signal()
}

func (s *subscriber[T]) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber[T]) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			msg := s.queue[0]
			var zero T
			s.queue[0] = zero
			s.queue = s.queue[1:]
			dropped := s.dropped
			s.dropped = 0
			s.mu.Unlock()

			if dropped > 0 {
				logger.Printf("Slow subscriber, dropped %d messages", dropped)
			}
			select {
			case s.out <- msg:
			case <-s.quit:
				return
			}
			continue
		}
		closing := s.closing
		s.mu.Unlock()

		if closing {
			return
		}
		select {
		case <-s.wake:
		case <-s.quit:
			return
		}
	}
}
