package offline

import (
	"sync"

	"go.trai.ch/fjordsync/internal/core/domain"
	"go.trai.ch/fjordsync/internal/core/ports"
)

// Hub is an in-process fan-out broadcaster. Every subscriber gets every
// message; a subscriber that stopped draining its channel is skipped rather
// than blocking the interceptor.
type Hub struct {
	mu   sync.Mutex
	subs map[int]chan domain.Message
	next int
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan domain.Message)}
}

// Subscribe registers a listener. The returned cancel func removes it.
func (h *Hub) Subscribe() (<-chan domain.Message, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan domain.Message, 16)
	h.subs[id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
	}
}

// Broadcast delivers msg to every subscriber without blocking.
func (h *Hub) Broadcast(msg domain.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

var _ ports.Broadcaster = (*Hub)(nil)
