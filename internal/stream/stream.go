package stream

import (
	"context"
	"sync"
	"time"

	"crisisgrid.org/internal/warning"
)

// Event types carried on the live warning feed.
const (
	EventWarningCreated = "warning.created"
	EventWarningUpdated = "warning.updated"
	EventWarningDeleted = "warning.deleted"
)

// Event is a live notification about a public warning.
type Event struct {
	Type      string           `json:"type"`
	WarningID string           `json:"warningId"`
	Warning   *warning.Warning `json:"warning,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// Stream fan-outs warning events to all active subscribers (SSE clients).
type Stream struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// New initialises an empty stream.
func New() *Stream {
	return &Stream{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber and returns a channel which will receive
// events. The channel is closed when the provided context ends.
func (s *Stream) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 16)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// Publish fan-outs the event to all subscribers.
func (s *Stream) Publish(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- evt:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}

// Created builds a creation event for the given warning.
func Created(w *warning.Warning) Event {
	return Event{Type: EventWarningCreated, WarningID: w.ID, Warning: w}
}

// Updated builds an update event for the given warning.
func Updated(w *warning.Warning) Event {
	return Event{Type: EventWarningUpdated, WarningID: w.ID, Warning: w}
}

// Deleted builds a deletion event for the given warning id.
func Deleted(id string) Event {
	return Event{Type: EventWarningDeleted, WarningID: id}
}
