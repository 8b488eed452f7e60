// Package broadcast implements the live-update channel for boards.  A single
// process-wide Hub is created at startup and injected into every handler
// that mutates notes; streaming endpoints subscribe to it and relay events
// to their client over SSE.  Delivery is best-effort and at-most-once per
// observer: there is no replay and no ordering guarantee across observers,
// so a client must re-fetch full state when it connects.
package broadcast

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// subscriberBuffer is the per-connection event buffer.  A subscriber whose
// buffer is full is considered stalled and gets torn down rather than
// blocking the mutating request.
const subscriberBuffer = 16

// Hub fans serialized note events out to all open streaming connections.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan []byte
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]chan []byte)}
}

// Subscribe registers a new streaming connection and returns its event
// channel plus a cancel function.  Cancel is safe to call more than once;
// the channel is closed when the subscription ends, whether by cancel or by
// a send failure.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan []byte, subscriberBuffer)
	h.subs[id] = ch

	cancel := func() { h.drop(id) }
	return ch, cancel
}

// Publish serializes v as JSON and pushes it to every open connection.  A
// subscriber that cannot accept the event is dropped; the triggering request
// is never failed by a broadcast problem.
func (h *Hub) Publish(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("sse: marshal event failed: %v", err)
		return
	}
	h.send(payload)
}

// PublishDeleted pushes the "deleted:<id>" sentinel that tells clients to
// remove a note from their board.
func (h *Hub) PublishDeleted(id uint64) {
	h.send([]byte(fmt.Sprintf("deleted:%d", id)))
}

// Subscribers reports the number of open connections.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) send(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		select {
		case ch <- payload:
		default:
			// Stalled client: tear the connection down and move on.
			delete(h.subs, id)
			close(ch)
			log.Printf("sse: dropped stalled subscriber %d", id)
		}
	}
}

func (h *Hub) drop(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}
