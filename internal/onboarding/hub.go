package onboarding

import (
	"sync"

	"github.com/edvin/onboarding/internal/metrics"
	"github.com/edvin/onboarding/internal/model"
)

const subscriberBuffer = 32

// Hub fans progress events out to subscribers. A subscriber whose buffer is
// full misses events rather than stalling the run.
type Hub struct {
	mu   sync.Mutex
	subs map[chan model.ProgressEvent]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan model.ProgressEvent]struct{})}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan model.ProgressEvent, func()) {
	ch := make(chan model.ProgressEvent, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	metrics.ProgressSubscribers.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
			metrics.ProgressSubscribers.Dec()
		})
	}
}

// Publish delivers ev to every subscriber without blocking.
func (h *Hub) Publish(ev model.ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers returns the number of registered subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
