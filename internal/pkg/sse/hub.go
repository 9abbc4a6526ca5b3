// Package sse fans realtime events out to connected employees. Streams are
// keyed by employee id so targeted pushes reach only that person's open
// connections.
package sse

import (
	"sync"
)

// Event is a single stream frame: the event name plus its payload. UserID is
// the subscriber key the frame was routed to.
type Event struct {
	UserID string
	Event  string
	Data   interface{}
}

// Hub tracks open event streams per employee.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe opens a buffered stream for one employee. The returned cleanup
// must be called when the stream ends; it unregisters and closes the channel.
func (h *Hub) Subscribe(userID string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)

	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[chan Event]struct{})
	}
	h.subscribers[userID][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[userID], ch)
		close(ch)
		if len(h.subscribers[userID]) == 0 {
			delete(h.subscribers, userID)
		}
	}

	return ch, cleanup
}

// Publish delivers an event to every open stream of one employee. A stream
// whose buffer is full is skipped, never blocked on.
func (h *Hub) Publish(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if subs, ok := h.subscribers[userID]; ok {
		for ch := range subs {
			select {
			case ch <- event:
			default:
				// Stream is backed up; drop the frame.
			}
		}
	}
}

// PublishToMany delivers the event to each listed employee, stamping UserID
// per copy.
func (h *Hub) PublishToMany(userIDs []string, event Event) {
	for _, userID := range userIDs {
		eventCopy := event
		eventCopy.UserID = userID
		h.Publish(userID, eventCopy)
	}
}

// Broadcast pushes the event to every open stream regardless of employee.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for userID, subs := range h.subscribers {
		eventCopy := event
		eventCopy.UserID = userID
		for ch := range subs {
			select {
			case ch <- eventCopy:
			default:
			}
		}
	}
}

// SubscriberCount reports how many streams one employee has open.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if subs, ok := h.subscribers[userID]; ok {
		return len(subs)
	}
	return 0
}

// TotalSubscribers reports open streams across all employees.
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
