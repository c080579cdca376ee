// Package live fans submission events out to connected admin feeds.
package live

import (
	"log/slog"
	"sync"

	"github.com/goliatone/go-formbuilder/internal/service"
)

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 16

// Hub is an in-process event broadcaster. Publish never blocks: a subscriber
// whose queue is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[chan service.Event]struct{}
	buffer int
	logger *slog.Logger
}

func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{subs: map[chan service.Event]struct{}{}, buffer: buffer, logger: logger}
}

// Subscribe registers a new queue. The returned cancel func removes and
// closes it.
func (h *Hub) Subscribe() (<-chan service.Event, func()) {
	ch := make(chan service.Event, h.buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Publish(event service.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
			h.logger.Warn("live: subscriber queue full, dropping event",
				"type", event.Type, "submission_id", event.Submission.ID)
		}
	}
}

// Subscribers reports the number of open subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
