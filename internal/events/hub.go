package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const subscriberBuffer = 32

// Hub fans events out to in-process subscribers.
// A subscriber whose buffer is full misses the event.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
	log  zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		subs: make(map[chan Event]struct{}),
		log:  log.With().Str("component", "event_hub").Logger(),
	}
}

// Subscribe registers a new listener. Call Unsubscribe with the returned
// channel when done.
func (h *Hub) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes the listener and closes its channel.
func (h *Hub) Unsubscribe(sub <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		if ch == sub {
			delete(h.subs, ch)
			close(ch)
			return
		}
	}
}

// Publish implements Publisher. It never blocks and never fails.
func (h *Hub) Publish(_ context.Context, e Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
			h.log.Warn().
				Str("faculty_id", e.FacultyID.String()).
				Str("type", string(e.Type)).
				Msg("Subscriber too slow, event dropped")
		}
	}
	return nil
}

// Subscribers reports the number of registered listeners.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
