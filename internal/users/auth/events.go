// Copyright (c) 2026 AuthFlow. All rights reserved.

package auth

import (
	"sync"

	"github.com/Adititesting969/authflow-6448/internal/backend"
)

// # Auth-State Events

// EventKind identifies a change in a gateway session's auth state.
type EventKind string

const (
	// EventSignedIn fires after a successful sign-in or auto-confirmed sign-up.
	EventSignedIn EventKind = "SIGNED_IN"
	// EventSignedOut fires when a session ends, including fail-open sign-outs.
	EventSignedOut EventKind = "SIGNED_OUT"
	// EventUserUpdated fires after a profile or password change.
	EventUserUpdated EventKind = "USER_UPDATED"
)

// Event is one auth-state change. User is nil for [EventSignedOut].
type Event struct {
	Kind         EventKind
	SessionToken string
	User         *backend.User
}

// # Broadcaster

// Broadcaster fans auth-state events out to subscribers.
//
// # Concurrency
//
// Safe for concurrent use. Delivery is synchronous; handlers must not block.
type Broadcaster struct {
	mu          sync.Mutex
	nextID      int
	subscribers map[int]func(Event)
}

// NewBroadcaster creates an empty event broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subscribers: map[int]func(Event){}}
}

// Subscription is the handle returned by [Broadcaster.Subscribe]. Dropping
// the handle without calling Unsubscribe leaks the handler for the life of
// the broadcaster.
type Subscription struct {
	broadcaster *Broadcaster
	id          int
	once        sync.Once
}

// Unsubscribe removes the handler. Idempotent.
func (subscription *Subscription) Unsubscribe() {
	subscription.once.Do(func() {
		subscription.broadcaster.mu.Lock()
		defer subscription.broadcaster.mu.Unlock()
		delete(subscription.broadcaster.subscribers, subscription.id)
	})
}

/*
Subscribe registers a handler for every subsequent event.

Parameters:
  - handler: Called synchronously for each published event.

Returns:
  - *Subscription: The unsubscribe handle.
*/
func (broadcaster *Broadcaster) Subscribe(handler func(Event)) *Subscription {
	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()

	broadcaster.nextID++
	id := broadcaster.nextID
	broadcaster.subscribers[id] = handler

	return &Subscription{broadcaster: broadcaster, id: id}
}

// Publish delivers the event to every current subscriber.
func (broadcaster *Broadcaster) Publish(event Event) {
	broadcaster.mu.Lock()
	handlers := make([]func(Event), 0, len(broadcaster.subscribers))
	for _, handler := range broadcaster.subscribers {
		handlers = append(handlers, handler)
	}
	broadcaster.mu.Unlock()

	// Deliver outside the lock so a handler may unsubscribe itself.
	for _, handler := range handlers {
		handler(event)
	}
}
