// Package events provides a typed publish/subscribe channel between the
// entity managers and the UI surfaces. Topics are enumerated and payloads
// typed, so subscribers get compile-time checking instead of string-keyed
// DOM-style events.
package events

import "sync"

// Topic enumerates the event kinds the data layer emits.
type Topic int

const (
	TopicStationChanged Topic = iota
	TopicSurfaceStationChanged
	TopicPOIChanged
	TopicInstallChanged
	TopicTagChanged
	TopicScopeReloaded
)

// ChangeKind describes what happened to the entity.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
	ChangeLoaded  ChangeKind = "loaded"
)

// Event is a single published change.
type Event struct {
	Topic    Topic
	Kind     ChangeKind
	EntityID string
	ScopeKey string
}

// Handler receives published events.
type Handler func(Event)

// Bus dispatches events synchronously to its subscribers, matching the
// single-threaded request/response model of the managers. Subscription is
// guarded for use from TUI setup code.
type Bus struct {
	mu       sync.Mutex
	handlers map[Topic][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Topic][]Handler)}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic Topic, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish delivers an event to every subscriber of its topic, in
// subscription order, on the caller's goroutine.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	handlers := b.handlers[event.Topic]
	b.mu.Unlock()

	for _, handler := range handlers {
		handler(event)
	}
}
