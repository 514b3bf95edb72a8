// Copyright (c) 2026 AuthFlow. All rights reserved.

package identity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Adititesting969/authflow-6448/internal/users/auth"
)

// Registry hands out one identity [Context] per gateway session token.
//
// It subscribes to the shared auth-state stream and evicts a session's
// context when that session signs out, so dead cells never accumulate.
type Registry struct {
	facades *auth.Factory
	logger  *slog.Logger

	mu           sync.Mutex
	contexts     map[string]*Context
	subscription *auth.Subscription
}

// NewRegistry creates a registry bound to the factory's event stream.
func NewRegistry(facades *auth.Factory, logger *slog.Logger) *Registry {
	registry := &Registry{
		facades:  facades,
		logger:   logger,
		contexts: map[string]*Context{},
	}

	registry.subscription = facades.Events().Subscribe(registry.handleEvent)

	return registry
}

// handleEvent evicts contexts whose session signed out.
func (registry *Registry) handleEvent(event auth.Event) {
	if event.Kind != auth.EventSignedOut || event.SessionToken == "" {
		return
	}

	registry.mu.Lock()
	identity, exists := registry.contexts[event.SessionToken]
	delete(registry.contexts, event.SessionToken)
	registry.mu.Unlock()

	if exists {
		identity.Close()
		registry.logger.Debug("identity context evicted")
	}
}

/*
For returns the identity context for a gateway session, creating and
hydrating it on first use.

Parameters:
  - ctx: Bounds hydration when a new context must be created.
  - sessionToken: The opaque gateway session token.
  - stored: The stored session state behind the token.

Returns:
  - *Context: The session's identity cell.
*/
func (registry *Registry) For(ctx context.Context, sessionToken string, stored *auth.StoredSession) *Context {
	registry.mu.Lock()
	if identity, exists := registry.contexts[sessionToken]; exists {
		registry.mu.Unlock()
		return identity
	}
	registry.mu.Unlock()

	// Hydration happens outside the lock; it performs remote round-trips.
	facade := registry.facades.ForSession(sessionToken, stored)
	identity := NewContext(ctx, facade, registry.facades.Events(), registry.logger)

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if existing, exists := registry.contexts[sessionToken]; exists {
		// Another request hydrated the same session first; keep theirs.
		identity.Close()
		return existing
	}
	registry.contexts[sessionToken] = identity
	return identity
}

// Len reports the number of live contexts.
func (registry *Registry) Len() int {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return len(registry.contexts)
}

// Close tears down every context and the registry's own subscription.
func (registry *Registry) Close() {
	registry.subscription.Unsubscribe()

	registry.mu.Lock()
	contexts := registry.contexts
	registry.contexts = map[string]*Context{}
	registry.mu.Unlock()

	for _, identity := range contexts {
		identity.Close()
	}
}
