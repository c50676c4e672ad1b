// Package stream pushes committed domain events to connected dashboard
// sessions in real time. The hub is push-only: sessions get events committed
// after they attach, never a replay, and a slow session loses events rather
// than blocking the publisher. Durable delivery is the webhook layer's job.
package stream

import (
	"sync"

	"fulfillment/internal/core/domain/model/event"
)

// Message is the wire envelope pushed to dashboard sessions.
type Message struct {
	Type      string    `json:"type"`
	EventName string    `json:"eventName"`
	Data      EventData `json:"data"`
}

// EventData carries one domain event in the dashboard wire format.
type EventData struct {
	EventID     string `json:"eventId"`
	EventType   string `json:"eventType"`
	EntityType  string `json:"entityType"`
	EntityID    string `json:"entityId"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Timestamp   string `json:"timestamp"`
}

// sessionBuffer is how many messages a session may lag before it starts
// losing events.
const sessionBuffer = 64

// Session is one attached dashboard consumer.
type Session struct {
	ch chan Message
}

// C returns the session's message channel. The channel closes when the
// session is detached from the hub.
func (s *Session) C() <-chan Message {
	return s.ch
}

// Hub fans committed domain events out to every attached session.
type Hub struct {
	mu       sync.RWMutex
	sessions map[*Session]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		sessions: make(map[*Session]struct{}),
	}
}

// Attach registers a new session and starts delivering events to it.
func (h *Hub) Attach() *Session {
	s := &Session{ch: make(chan Message, sessionBuffer)}

	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()

	return s
}

// Detach removes a session and closes its channel. Detaching twice is safe.
func (h *Hub) Detach(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[s]; !ok {
		return
	}
	delete(h.sessions, s)
	close(s.ch)
}

// SessionCount returns the number of attached sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Publish delivers events to every attached session without blocking.
// A session whose buffer is full misses the event.
func (h *Hub) Publish(events ...*event.DomainEvent) {
	if len(events) == 0 {
		return
	}

	messages := make([]Message, 0, len(events))
	for _, e := range events {
		messages = append(messages, newMessage(e))
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.sessions {
		for _, msg := range messages {
			select {
			case s.ch <- msg:
			default:
			}
		}
	}
}

func newMessage(e *event.DomainEvent) Message {
	return Message{
		Type:      "event",
		EventName: e.Type().String(),
		Data: EventData{
			EventID:     e.ID().String(),
			EventType:   e.Type().String(),
			EntityType:  string(e.EntityType()),
			EntityID:    e.EntityID().String(),
			Description: e.Description(),
			Source:      e.Source(),
			Timestamp:   e.OccurredAt().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		},
	}
}
