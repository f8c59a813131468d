package pipeline

import (
	"sync"
	"time"

	"inspira/internal/project"
)

// Event describes a stage transition for one project.
type Event struct {
	Slug    string         `json:"slug"`
	Stage   string         `json:"stage"`
	Status  project.Status `json:"status"`
	Message string         `json:"message,omitempty"`
	Time    time.Time      `json:"time"`
}

// Hub fans stage events out to subscribers. Slow subscribers drop events
// rather than blocking the pipeline.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a listener. The returned cancel func must be called
// to release it.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber without blocking.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
